package pip

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resultCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pip_result_cache_hit_total",
		Help: "Number of lookups served from the quantized-point result cache.",
	})
	resultCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pip_result_cache_miss_total",
		Help: "Number of lookups that missed the result cache and ran the PIP test.",
	})
	malformedGeometrySkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pip_malformed_geometry_skipped_total",
		Help: "Number of candidates skipped due to malformed or missing geometry.",
	})
)
