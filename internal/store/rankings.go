package store

import (
	"context"
	"fmt"

	"github.com/scmmishra/inorder/internal/models"
)

// TopAuthorsByWeeklyClicks only returns authors that have a stats row.
func (s *Store) TopAuthorsByWeeklyClicks(ctx context.Context, limit int) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorColumns+`, st.clicks_weekly
		 FROM author_stats st JOIN authors a ON a.id = st.author_id
		 ORDER BY st.clicks_weekly DESC, a.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := scanAuthor(rows, &a, &a.Clicks); err != nil {
			return nil, fmt.Errorf("scan top author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// SampleAuthors returns the first authors in store order.
func (s *Store) SampleAuthors(ctx context.Context, limit int) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors a ORDER BY a.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sample authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, fmt.Errorf("scan sample author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) TopSeriesByDailyClicks(ctx context.Context, day string, limit int) ([]models.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seriesColumns+`, d.clicks
		 FROM series_clicks_daily d
		 JOIN series s ON s.id = d.series_id
		 JOIN authors a ON a.id = s.author_id
		 WHERE d.day = ?
		 ORDER BY d.clicks DESC, s.id LIMIT ?`, day, limit)
	if err != nil {
		return nil, fmt.Errorf("top series today: %w", err)
	}
	defer rows.Close()

	series := []models.Series{}
	for rows.Next() {
		var sr models.Series
		if err := scanSeries(rows, &sr, &sr.Clicks); err != nil {
			return nil, fmt.Errorf("scan top series: %w", err)
		}
		series = append(series, sr)
	}
	return series, rows.Err()
}

func (s *Store) RandomSeries(ctx context.Context, limit int) ([]models.Series, error) {
	return s.seriesWhere(ctx, `1=1 ORDER BY RANDOM() LIMIT ?`, limit)
}
