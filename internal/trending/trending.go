// Package trending answers the homepage ranking reads. Each ranking has its
// own cold-start policy: trending authors fall back to a fixed sample,
// popular series fall back to a random sample, and the featured author has
// no fallback at all.
package trending

import (
	"context"
	"time"

	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/metrics"
	"github.com/scmmishra/inorder/internal/models"
)

const (
	DefaultTrendingLimit     = 3
	DefaultFallbackSize      = 6
	DefaultPopularTodayLimit = 5

	trendingDescription = "Trending author"
	fallbackDescription = "Popular author"
)

type Store interface {
	TopAuthorsByWeeklyClicks(ctx context.Context, limit int) ([]models.Author, error)
	SampleAuthors(ctx context.Context, limit int) ([]models.Author, error)
	AuthorByID(ctx context.Context, id int64) (*models.Author, error)
	TopSeriesByDailyClicks(ctx context.Context, day string, limit int) ([]models.Series, error)
	RandomSeries(ctx context.Context, limit int) ([]models.Series, error)
}

type Options struct {
	FallbackSize int
	Timeout      time.Duration
}

type Service struct {
	store Store
	opts  Options
	now   func() time.Time
}

func NewService(store Store, opts Options) *Service {
	if opts.FallbackSize <= 0 {
		opts.FallbackSize = DefaultFallbackSize
	}
	return &Service{store: store, opts: opts, now: time.Now}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func fail(op string, err error) {
	metrics.RecordStoreError("trending", op)
	logging.Component("trending").Error().Err(err).Str("operation", op).Msg("ranking read failed")
}

// TrendingAuthors returns up to limit authors by weekly clicks. With no
// click data at all it returns the first FallbackSize authors instead.
func (s *Service) TrendingAuthors(ctx context.Context, limit int) []models.Author {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	authors, err := s.store.TopAuthorsByWeeklyClicks(ctx, limit)
	if err != nil {
		fail("trending_authors", err)
		authors = nil
	}
	if len(authors) > 0 {
		for i := range authors {
			authors[i].Description = trendingDescription
		}
		return authors
	}

	metrics.RecordFallback("trending_authors")
	sample, err := s.store.SampleAuthors(ctx, s.opts.FallbackSize)
	if err != nil {
		fail("sample_authors", err)
		return []models.Author{}
	}
	for i := range sample {
		sample[i].Description = fallbackDescription
	}
	return sample
}

// FeaturedAuthor returns the top author by weekly clicks with their series
// and books, or false when nobody has been clicked yet.
func (s *Service) FeaturedAuthor(ctx context.Context) (*models.Author, bool) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	top, err := s.store.TopAuthorsByWeeklyClicks(ctx, 1)
	if err != nil {
		fail("featured_author", err)
		return nil, false
	}
	if len(top) == 0 {
		return nil, false
	}

	a, err := s.store.AuthorByID(ctx, top[0].ID)
	if err != nil {
		fail("featured_author", err)
		return nil, false
	}
	a.Clicks = top[0].Clicks
	return a, true
}

// PopularSeriesToday returns up to limit series by clicks on the current
// UTC day, or a random sample of limit series when the day has no clicks.
func (s *Service) PopularSeriesToday(ctx context.Context, limit int) []models.Series {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	series, err := s.store.TopSeriesByDailyClicks(ctx, models.Day(s.now()), limit)
	if err != nil {
		fail("popular_today", err)
		series = nil
	}
	if len(series) > 0 {
		return series
	}

	metrics.RecordFallback("popular_today")
	random, err := s.store.RandomSeries(ctx, limit)
	if err != nil {
		fail("random_series", err)
		return []models.Series{}
	}
	return random
}
