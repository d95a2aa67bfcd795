package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/scmmishra/inorder/internal/models"
)

// Counter writes are single upsert statements so concurrent clicks on the
// same key serialize inside sqlite instead of racing in Go.

func (s *Store) IncrementAuthorClick(ctx context.Context, authorID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO author_stats (author_id, clicks_weekly, last_updated) VALUES (?, 1, ?)
		 ON CONFLICT(author_id) DO UPDATE SET clicks_weekly = clicks_weekly + 1, last_updated = excluded.last_updated`,
		authorID, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("increment author click: %w", err)
	}
	return nil
}

// IncrementSeriesClick bumps the (day, series) counter and the series total
// in one transaction.
func (s *Store) IncrementSeriesClick(ctx context.Context, seriesID int64, day string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin series click: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO series_clicks_daily (day, series_id, clicks) VALUES (?, ?, 1)
		 ON CONFLICT(day, series_id) DO UPDATE SET clicks = clicks + 1`,
		day, seriesID,
	); err != nil {
		return fmt.Errorf("increment series daily click: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO series_stats (series_id, clicks_weekly, last_updated) VALUES (?, 1, ?)
		 ON CONFLICT(series_id) DO UPDATE SET clicks_weekly = clicks_weekly + 1, last_updated = excluded.last_updated`,
		seriesID, at.UTC(),
	); err != nil {
		return fmt.Errorf("increment series click: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit series click: %w", err)
	}
	return nil
}

// SetAuthorWeeklyClicks overwrites a counter. Only admin seeding calls it;
// the tracking path never lowers a counter.
func (s *Store) SetAuthorWeeklyClicks(ctx context.Context, authorID, clicks int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO author_stats (author_id, clicks_weekly, last_updated) VALUES (?, ?, ?)
		 ON CONFLICT(author_id) DO UPDATE SET clicks_weekly = excluded.clicks_weekly, last_updated = excluded.last_updated`,
		authorID, clicks, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("set author clicks: %w", err)
	}
	return nil
}

func (s *Store) AuthorStats(ctx context.Context, authorID int64) (*models.AuthorStats, error) {
	st := &models.AuthorStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT author_id, clicks_weekly, last_updated FROM author_stats WHERE author_id = ?`, authorID,
	).Scan(&st.AuthorID, &st.ClicksWeekly, &st.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get author stats: %w", err)
	}
	return st, nil
}

func (s *Store) SeriesStats(ctx context.Context, seriesID int64) (*models.SeriesStats, error) {
	st := &models.SeriesStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT series_id, clicks_weekly, last_updated FROM series_stats WHERE series_id = ?`, seriesID,
	).Scan(&st.SeriesID, &st.ClicksWeekly, &st.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get series stats: %w", err)
	}
	return st, nil
}

// SeriesDailyStats returns every daily row for a series, oldest day first.
func (s *Store) SeriesDailyStats(ctx context.Context, seriesID int64) ([]models.SeriesDailyStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, series_id, clicks FROM series_clicks_daily WHERE series_id = ? ORDER BY day`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series daily stats: %w", err)
	}
	defer rows.Close()

	var out []models.SeriesDailyStats
	for rows.Next() {
		var d models.SeriesDailyStats
		if err := rows.Scan(&d.Day, &d.SeriesID, &d.Clicks); err != nil {
			return nil, fmt.Errorf("scan series daily stats: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
