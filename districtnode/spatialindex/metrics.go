package spatialindex

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	countryHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatialindex_country_route_hit_total",
		Help: "Number of stage-1 country routing matches.",
	})
	countryMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatialindex_country_route_miss_total",
		Help: "Number of lookups whose point matched no country (ocean, Antarctica).",
	})
	shardHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatialindex_shard_cache_hit_total",
		Help: "Number of stage-2 shard cache hits.",
	})
	shardMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatialindex_shard_cache_miss_total",
		Help: "Number of stage-2 shard cache misses triggering a stage-3 build.",
	})
	shardEviction = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spatialindex_shard_eviction_total",
		Help: "Number of shards evicted from the LRU cache.",
	})
	shardBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spatialindex_shard_build_seconds",
		Help:    "Stage-3 Sort-Tile-Recursive bulk-load latency.",
		Buckets: prometheus.DefBuckets,
	})
	lookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spatialindex_lookup_seconds",
		Help:    "End-to-end Lookup latency across all stages.",
		Buckets: prometheus.DefBuckets,
	})
)
