// Package tracking turns author and series clicks into counter increments.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/metrics"
	"github.com/scmmishra/inorder/internal/models"
)

type Kind string

const (
	KindAuthor Kind = "author"
	KindSeries Kind = "series"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindAuthor, KindSeries:
		return Kind(s), true
	}
	return "", false
}

type Event struct {
	Kind      Kind
	ID        int64
	ClickedAt time.Time
}

type Store interface {
	IncrementAuthorClick(ctx context.Context, authorID int64, at time.Time) error
	IncrementSeriesClick(ctx context.Context, seriesID int64, day string, at time.Time) error
}

type Engine struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

func NewEngine(store Store, timeout time.Duration) *Engine {
	return &Engine{store: store, timeout: timeout, now: time.Now}
}

// RecordAuthorClick adds one click to the author's weekly counter. Failures
// are logged and swallowed.
func (e *Engine) RecordAuthorClick(ctx context.Context, authorID int64) {
	e.Record(ctx, Event{Kind: KindAuthor, ID: authorID})
}

// RecordSeriesClick adds one click to today's counter and to the series
// total. Failures are logged and swallowed.
func (e *Engine) RecordSeriesClick(ctx context.Context, seriesID int64) {
	e.Record(ctx, Event{Kind: KindSeries, ID: seriesID})
}

// Record applies ev and reports whether it was counted.
func (e *Engine) Record(ctx context.Context, ev Event) bool {
	if err := e.Apply(ctx, ev); err != nil {
		logFailure(ev, err)
		return false
	}
	return true
}

func logFailure(ev Event, err error) {
	metrics.RecordStoreError("tracking", string(ev.Kind))
	logging.Component("tracking").Error().Err(err).
		Str("kind", string(ev.Kind)).
		Int64("id", ev.ID).
		Msg("click not recorded")
}

// Apply writes ev to the store and returns the store error, if any. A zero
// ClickedAt means now.
func (e *Engine) Apply(ctx context.Context, ev Event) error {
	at := ev.ClickedAt
	if at.IsZero() {
		at = e.now()
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var err error
	switch ev.Kind {
	case KindAuthor:
		err = e.store.IncrementAuthorClick(ctx, ev.ID, at)
	case KindSeries:
		err = e.store.IncrementSeriesClick(ctx, ev.ID, models.Day(at), at)
	default:
		err = fmt.Errorf("unknown click kind %q", ev.Kind)
	}
	if err != nil {
		return err
	}
	metrics.RecordClick(string(ev.Kind))
	return nil
}
