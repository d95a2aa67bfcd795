// Package search runs one free-text query against authors, series and books.
package search

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/metrics"
	"github.com/scmmishra/inorder/internal/models"
)

const (
	MinQueryLength = 2
	MaxAuthors     = 10
	MaxSeries      = 10
	MaxBooks       = 20
)

type Store interface {
	SearchAuthors(ctx context.Context, q models.SearchQuery, limit int) ([]models.AuthorHit, error)
	SearchSeries(ctx context.Context, q models.SearchQuery, limit int) ([]models.SeriesHit, error)
	SearchBooks(ctx context.Context, q models.SearchQuery, limit int) ([]models.BookHit, error)
}

// Results lists are never nil so they encode as [] rather than null.
type Results struct {
	Authors []models.AuthorHit `json:"authors"`
	Series  []models.SeriesHit `json:"series"`
	Books   []models.BookHit   `json:"books"`
}

func Empty() Results {
	return Results{
		Authors: []models.AuthorHit{},
		Series:  []models.SeriesHit{},
		Books:   []models.BookHit{},
	}
}

func (r Results) Len() int {
	return len(r.Authors) + len(r.Series) + len(r.Books)
}

type Engine struct {
	store   Store
	timeout time.Duration
}

// NewEngine returns an engine whose store calls are bounded by timeout.
// A zero timeout leaves the caller's context alone.
func NewEngine(store Store, timeout time.Duration) *Engine {
	return &Engine{store: store, timeout: timeout}
}

// Search never fails. Queries shorter than MinQueryLength characters do not
// reach the store, and any store error yields the empty result.
func (e *Engine) Search(ctx context.Context, query string) Results {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return Empty()
	}

	defer metrics.ObserveSearch(time.Now())

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	q := models.NewSearchQuery(query)
	res, op, err := e.run(ctx, q)
	if err != nil {
		metrics.RecordStoreError("search", op)
		logging.Component("search").Error().Err(err).Str("query", query).Msg("search failed")
		return Empty()
	}
	return res
}

func (e *Engine) run(ctx context.Context, q models.SearchQuery) (Results, string, error) {
	authors, err := e.store.SearchAuthors(ctx, q, MaxAuthors)
	if err != nil {
		return Results{}, "authors", err
	}
	series, err := e.store.SearchSeries(ctx, q, MaxSeries)
	if err != nil {
		return Results{}, "series", err
	}
	books, err := e.store.SearchBooks(ctx, q, MaxBooks)
	if err != nil {
		return Results{}, "books", err
	}

	return Results{
		Authors: dedupe(authors, MaxAuthors, func(h models.AuthorHit) string { return h.Slug }),
		Series:  dedupe(series, MaxSeries, func(h models.SeriesHit) string { return h.Slug }),
		Books:   dedupe(books, MaxBooks, func(h models.BookHit) string { return h.Slug }),
	}, "", nil
}

// dedupe keeps the first hit per slug in input order, up to max hits.
func dedupe[T any](hits []T, max int, key func(T) string) []T {
	out := make([]T, 0, min(len(hits), max))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if len(out) == max {
			break
		}
		k := key(h)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out
}
