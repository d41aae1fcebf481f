package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_discovered_total",
		Help: "Number of distinct snapshot IDs observed from the catalog.",
	})
	downloadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_download_failures_total",
		Help: "Number of snapshot downloads that errored or were canceled.",
	})
	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_validation_failures_total",
		Help: "Number of downloaded snapshots that failed content-hash or Merkle root validation.",
	})
	activations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_activations_total",
		Help: "Number of times the serving pointer was swapped onto a new snapshot.",
	})
	prunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_pruned_total",
		Help: "Number of retained snapshot generations removed from disk.",
	})
	activeDistrictCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_active_district_count",
		Help: "District count reported by the currently active snapshot's metadata.",
	})
	pollLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_catalog_poll_latency_seconds",
		Help:    "Latency of a single catalog poll round.",
		Buckets: prometheus.DefBuckets,
	})
)
