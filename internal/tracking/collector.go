package tracking

import (
	"context"
	"time"

	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/metrics"
)

type Applier interface {
	Apply(ctx context.Context, ev Event) error
}

// Collector decouples click submission from the request that caused it.
// Events sit in a buffered channel and are applied by a single worker on
// every tick and once more on Shutdown.
type Collector struct {
	ch      chan Event
	stop    chan struct{}
	done    chan struct{}
	applier Applier

	// OnError receives every event the store rejected. Set it before the
	// first Push.
	OnError func(Event, error)
}

func NewCollector(applier Applier, bufferSize int, flushInterval time.Duration) *Collector {
	c := &Collector{
		ch:      make(chan Event, bufferSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		applier: applier,
		OnError: logFailure,
	}
	go c.run(flushInterval)
	return c
}

// Push submits ev without blocking and reports whether it was accepted.
// Events are dropped when the buffer is full.
func (c *Collector) Push(ev Event) bool {
	if ev.ClickedAt.IsZero() {
		ev.ClickedAt = time.Now()
	}
	select {
	case c.ch <- ev:
		return true
	default:
		metrics.ClicksDropped.Inc()
		return false
	}
}

// Shutdown applies whatever is still buffered and returns.
func (c *Collector) Shutdown() {
	close(c.stop)
	<-c.done
}

func (c *Collector) run(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.stop:
			c.flush()
			return
		}
	}
}

func (c *Collector) flush() {
	var batch []Event
	for {
		select {
		case ev := <-c.ch:
			batch = append(batch, ev)
		default:
			goto done
		}
	}
done:
	if len(batch) == 0 {
		return
	}

	failed := 0
	for _, ev := range batch {
		if err := c.applier.Apply(context.Background(), ev); err != nil {
			failed++
			c.OnError(ev, err)
		}
	}
	logging.Component("tracking").Debug().Int("applied", len(batch)-failed).Int("failed", failed).Msg("flushed clicks")
}
