package models

import "time"

const dayLayout = "2006-01-02"

// Day is the key of a daily counter row: the UTC calendar date of t.
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

type AuthorStats struct {
	AuthorID     int64
	ClicksWeekly int64
	LastUpdated  time.Time
}

type SeriesDailyStats struct {
	Day      string
	SeriesID int64
	Clicks   int64
}

type SeriesStats struct {
	SeriesID     int64
	ClicksWeekly int64
	LastUpdated  time.Time
}
