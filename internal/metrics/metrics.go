package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClicksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inorder_clicks_recorded_total",
			Help: "Click events applied to the stats tables",
		},
		[]string{"kind"},
	)

	ClicksDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inorder_clicks_dropped_total",
			Help: "Click events dropped because the tracking buffer was full",
		},
	)

	ClicksIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inorder_clicks_ignored_total",
			Help: "Click events acknowledged but not counted",
		},
		[]string{"reason"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inorder_store_errors_total",
			Help: "Store failures swallowed by a component",
		},
		[]string{"component", "operation"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inorder_search_duration_seconds",
			Help:    "Search latency including all three entity queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
	)

	FallbacksServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inorder_ranking_fallbacks_total",
			Help: "Ranking reads answered from the cold-start fallback",
		},
		[]string{"ranking"},
	)
)

func RecordClick(kind string) {
	ClicksRecorded.WithLabelValues(kind).Inc()
}

func RecordStoreError(component, operation string) {
	StoreErrors.WithLabelValues(component, operation).Inc()
}

func ObserveSearch(start time.Time) {
	SearchDuration.Observe(time.Since(start).Seconds())
}

func RecordFallback(ranking string) {
	FallbacksServed.WithLabelValues(ranking).Inc()
}
