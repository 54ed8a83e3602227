package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entitysearch",
			Name:      "search_requests_total",
			Help:      "Total number of search-with-clusters requests",
		},
		[]string{"source", "status"}, // source: "text" / "span" / "match_all"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "entitysearch",
			Name:      "search_duration_seconds",
			Help:      "Delegate search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	SearchClauses = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "entitysearch",
			Name:      "search_clauses",
			Help:      "Number of span clauses per translated query",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		},
	)

	ClustersPerRequest = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "entitysearch",
			Name:      "clusters_per_request",
			Help:      "Number of clusters returned per request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	HitsPerRequest = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "entitysearch",
			Name:      "hits_per_request",
			Help:      "Number of hits clustered per request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	DocumentsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entitysearch",
			Name:      "documents_written_total",
			Help:      "Documents indexed or deleted through the bulk endpoints",
		},
		[]string{"op", "status"}, // op: "index" / "delete"
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search pipeline metrics on the default registry.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchClauses,
			ClustersPerRequest,
			HitsPerRequest,
			DocumentsWrittenTotal,
		)
	})
}
