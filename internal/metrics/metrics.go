// Package metrics exposes Prometheus instrumentation for the search engine
// and its HTTP surface.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and snapshot Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tansaku",
			Name:      "searches_total",
			Help:      "Total number of search requests",
		},
		[]string{"reranked"}, // "true" / "false"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tansaku",
			Name:      "search_duration_seconds",
			Help:      "Search latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RerankFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tansaku",
			Name:      "rerank_fallbacks_total",
			Help:      "Rerank calls that fell back to the hash embedder",
		},
	)

	SnapshotBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tansaku",
			Name:      "snapshot_builds_total",
			Help:      "Total number of snapshot rebuilds",
		},
		[]string{"status"}, // "ok" / "error"
	)

	SnapshotDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tansaku",
			Name:      "snapshot_documents",
			Help:      "Documents in the active snapshot",
		},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tansaku",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers the engine metrics with the default registry. The engine
// constructor calls it, so later calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			SearchDuration,
			RerankFallbacksTotal,
			SnapshotBuildsTotal,
			SnapshotDocuments,
			EmbeddingCacheTotal,
		)
	})
}
