// Package metrics exposes Prometheus instrumentation for the fetch
// pipeline and the feed cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all cf-tracker metrics.
type Registry struct {
	// Upstream fetches, by feed (user.info, user.status, ...) and
	// result (ok|error|stale).
	Fetches      *prometheus.CounterVec
	FetchLatency *prometheus.HistogramVec

	// Feed cache performance.
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Analytics pipeline.
	SnapshotsComputed prometheus.Counter
	StaleDiscards     *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
}

// NewRegistry creates all metrics and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cftracker_fetches_total",
				Help: "Upstream API fetches by feed and result",
			},
			[]string{"feed", "result"},
		),
		FetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cftracker_fetch_duration_seconds",
				Help:    "Upstream API fetch latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"feed"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cftracker_cache_hits_total",
				Help: "Feed cache hits by feed",
			},
			[]string{"feed"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cftracker_cache_misses_total",
				Help: "Feed cache misses by feed",
			},
			[]string{"feed"},
		),
		SnapshotsComputed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cftracker_snapshots_computed_total",
				Help: "Analytics snapshots computed",
			},
		),
		StaleDiscards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cftracker_stale_discards_total",
				Help: "Fetch results discarded because a newer request superseded them",
			},
			[]string{"feed"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cftracker_stage_duration_seconds",
				Help:    "Analytics pipeline stage duration",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"stage"},
		),
	}

	reg.MustRegister(
		r.Fetches,
		r.FetchLatency,
		r.CacheHits,
		r.CacheMisses,
		r.SnapshotsComputed,
		r.StaleDiscards,
		r.StageDuration,
	)
	return r
}

// NewNop returns a registry backed by a throwaway Prometheus registry,
// for tests and callers that do not export metrics.
func NewNop() *Registry {
	return NewRegistry(prometheus.NewRegistry())
}
