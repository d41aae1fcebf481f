package provenance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mergeCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_merge_cycles_total",
		Help: "Number of merge worker cycles that completed successfully.",
	})
	mergeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_merge_failures_total",
		Help: "Number of merge cycles aborted by a shard append failure, leaving staging files in place.",
	})
	mergeSkippedFiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_merge_skipped_files_total",
		Help: "Staging files skipped during a merge cycle because they could not be read.",
	})
	malformedLinesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_malformed_lines_skipped_total",
		Help: "NDJSON lines skipped while reading a staging file or shard because they failed to parse.",
	})
	shardReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_shard_read_errors_total",
		Help: "Shard files that hit a gzip error before reaching a clean EOF (corrupt trailer or similar).",
	})
	queryEntriesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "provenance_query_entries_scanned_total",
		Help: "Entries read off disk across all queryProvenance calls, before filtering.",
	})
)
