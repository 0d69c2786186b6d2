package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orn"

// Outcome label values shared by the locate and upstream metrics.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Cache outcome label values.
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheError      = "error"
	CacheWriteError = "write_error"
)

// Resolution, cache and upstream Prometheus metrics.
var (
	LocateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locate_total",
			Help:      "Total number of resource name lookups",
		},
		[]string{"pattern", "status"},
	)

	LocateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "locate_duration_seconds",
			Help:      "Resource name lookup duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"pattern"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Lookup cache hits, misses and failures",
		},
		[]string{"result"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream content requests",
		},
		[]string{"host", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream content request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"host"},
	)

	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_results_total",
			Help:      "Search results returned per resource type",
		},
		[]string{"type"},
	)
)

var registerOnce sync.Once

// Register registers the resolution and HTTP metrics with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LocateTotal,
			LocateDuration,
			CacheTotal,
			UpstreamRequestsTotal,
			UpstreamRequestDuration,
			SearchResultsTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
		)
	})
}
