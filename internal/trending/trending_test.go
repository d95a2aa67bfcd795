package trending

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/scmmishra/inorder/internal/db"
	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/store"
)

type fixture struct {
	store   *store.Store
	authors []*models.Author
	series  []*models.Series
}

// newFixture creates n authors, each with one series holding one book.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	database, err := db.Open(":memory:", db.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	f := &fixture{store: store.New(database)}
	ctx := context.Background()
	for i := 0; i < n; i++ {
		a := &models.Author{Name: fmt.Sprintf("Author %d", i+1)}
		if err := f.store.CreateAuthor(ctx, a); err != nil {
			t.Fatal(err)
		}
		sr := &models.Series{AuthorID: a.ID, Name: fmt.Sprintf("Series %d", i+1)}
		if err := f.store.CreateSeries(ctx, sr); err != nil {
			t.Fatal(err)
		}
		b := &models.Book{SeriesID: sr.ID, Title: fmt.Sprintf("Book %d", i+1)}
		if err := f.store.CreateBook(ctx, b); err != nil {
			t.Fatal(err)
		}
		f.authors = append(f.authors, a)
		f.series = append(f.series, sr)
	}
	return f
}

func TestTrendingAuthors_ByWeeklyClicks(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	now := time.Now()
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[0].ID, 3, now)
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[1].ID, 10, now)
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[2].ID, 7, now)
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[3].ID, 1, now)

	got := NewService(f.store, Options{}).TrendingAuthors(ctx, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []int64{f.authors[1].ID, f.authors[2].ID, f.authors[0].ID}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("rank %d = %d, want %d", i, got[i].ID, id)
		}
	}
	if got[0].Description != "Trending author" || got[0].Clicks != 10 {
		t.Errorf("top = %+v", got[0])
	}
}

func TestTrendingAuthors_ColdStartFallback(t *testing.T) {
	f := newFixture(t, 8)

	got := NewService(f.store, Options{FallbackSize: 6}).TrendingAuthors(context.Background(), 3)
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i, a := range got {
		if a.ID != f.authors[i].ID || a.URL == "" {
			t.Errorf("fallback[%d] = %+v", i, a)
		}
		if a.Description != "Popular author" {
			t.Errorf("fallback description = %q", a.Description)
		}
	}
}

func TestTrendingAuthors_EmptyCatalog(t *testing.T) {
	f := newFixture(t, 0)
	got := NewService(f.store, Options{}).TrendingAuthors(context.Background(), 3)
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil", got)
	}
}

func TestFeaturedAuthor_NoStats(t *testing.T) {
	f := newFixture(t, 3)
	a, ok := NewService(f.store, Options{}).FeaturedAuthor(context.Background())
	if ok || a != nil {
		t.Errorf("got (%+v, %v), want none", a, ok)
	}
}

func TestFeaturedAuthor_TopWithSeries(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[0].ID, 2, time.Now())
	f.store.SetAuthorWeeklyClicks(ctx, f.authors[2].ID, 4, time.Now())

	a, ok := NewService(f.store, Options{}).FeaturedAuthor(ctx)
	if !ok {
		t.Fatal("expected a featured author")
	}
	if a.ID != f.authors[2].ID || a.Clicks != 4 {
		t.Errorf("featured = %+v", a)
	}
	if len(a.Series) != 1 || len(a.Series[0].Books) != 1 {
		t.Errorf("featured author missing series/books: %+v", a.Series)
	}
}

func TestPopularSeriesToday(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	today := time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)
	day := models.Day(today)

	f.store.IncrementSeriesClick(ctx, f.series[3].ID, day, today)
	f.store.IncrementSeriesClick(ctx, f.series[3].ID, day, today)
	f.store.IncrementSeriesClick(ctx, f.series[1].ID, day, today)
	f.store.IncrementSeriesClick(ctx, f.series[0].ID, models.Day(today.Add(-24*time.Hour)), today)

	svc := NewService(f.store, Options{})
	svc.now = func() time.Time { return today }

	got := svc.PopularSeriesToday(ctx, 5)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != f.series[3].ID || got[1].ID != f.series[1].ID {
		t.Errorf("order = %d, %d", got[0].ID, got[1].ID)
	}
}

func TestPopularSeriesToday_RandomFallback(t *testing.T) {
	f := newFixture(t, 8)
	svc := NewService(f.store, Options{})

	valid := make(map[int64]bool)
	for _, sr := range f.series {
		valid[sr.ID] = true
	}

	got := svc.PopularSeriesToday(context.Background(), 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	seen := make(map[int64]bool)
	for _, sr := range got {
		if !valid[sr.ID] {
			t.Errorf("series %d not in catalog", sr.ID)
		}
		if seen[sr.ID] {
			t.Errorf("series %d repeated", sr.ID)
		}
		seen[sr.ID] = true
	}
}

func TestPopularSeriesToday_FewerThanLimit(t *testing.T) {
	f := newFixture(t, 2)
	got := NewService(f.store, Options{}).PopularSeriesToday(context.Background(), 5)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

type brokenStore struct{}

var errDown = errors.New("connection reset")

func (brokenStore) TopAuthorsByWeeklyClicks(context.Context, int) ([]models.Author, error) {
	return nil, errDown
}
func (brokenStore) SampleAuthors(context.Context, int) ([]models.Author, error) { return nil, errDown }
func (brokenStore) AuthorByID(context.Context, int64) (*models.Author, error)   { return nil, errDown }
func (brokenStore) TopSeriesByDailyClicks(context.Context, string, int) ([]models.Series, error) {
	return nil, errDown
}
func (brokenStore) RandomSeries(context.Context, int) ([]models.Series, error) { return nil, errDown }

func TestService_StoreDown(t *testing.T) {
	svc := NewService(brokenStore{}, Options{Timeout: time.Second})
	ctx := context.Background()

	if got := svc.TrendingAuthors(ctx, 3); got == nil || len(got) != 0 {
		t.Errorf("trending = %#v", got)
	}
	if a, ok := svc.FeaturedAuthor(ctx); ok || a != nil {
		t.Errorf("featured = %+v", a)
	}
	if got := svc.PopularSeriesToday(ctx, 5); got == nil || len(got) != 0 {
		t.Errorf("popular = %#v", got)
	}
}
