// Package flags defines the command line flags specific to the
// districtnode service itself (components A-F), as distinct from the
// ambient flags in shared/cmd that any districtproof binary might want
// (logging, monitoring, config file loading).
package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	// CatalogURLFlag is the endpoint the snapshot synchronizer polls for
	// newly published snapshot metadata.
	CatalogURLFlag = &cli.StringFlag{
		Name:  "catalog-url",
		Usage: "URL of the snapshot catalog to poll for new boundary data",
		Value: "https://catalog.districtproof.example/v1/snapshots",
	}
	// IPFSGatewayFlag is the HTTP gateway used to fetch snapshot bundles
	// by content address.
	IPFSGatewayFlag = &cli.StringFlag{
		Name:  "ipfs-gateway",
		Usage: "IPFS HTTP gateway used to fetch snapshot bundles by CID",
		Value: "https://ipfs.io",
	}
	// SnapshotPollIntervalFlag controls how often the synchronizer checks
	// the catalog for a new snapshot.
	SnapshotPollIntervalFlag = &cli.DurationFlag{
		Name:  "snapshot-poll-interval",
		Usage: "How often to poll the snapshot catalog for new data",
		Value: 5 * time.Minute,
	}
	// RetainedSnapshotsFlag bounds how many superseded generations stay
	// on disk, available for rollback.
	RetainedSnapshotsFlag = &cli.IntFlag{
		Name:  "retained-snapshots",
		Usage: "Number of superseded snapshot generations to retain on disk for rollback",
		Value: 3,
	}
	// NodeCapacityFlag is the Sort-Tile-Recursive bulk loader's target
	// fan-out (and leaf-group size).
	NodeCapacityFlag = &cli.IntFlag{
		Name:  "node-capacity",
		Usage: "R-tree fan-out (K) for the spatial index bulk loader",
		Value: 16,
	}
	// MaxCountriesInMemoryFlag bounds the LRU cache of built per-country
	// R-tree shards.
	MaxCountriesInMemoryFlag = &cli.IntFlag{
		Name:  "max-countries-in-memory",
		Usage: "LRU capacity for built per-country R-tree shards",
		Value: 64,
	}
	// PipCacheSizeFlag bounds the point-in-polygon resolver's quantized-
	// coordinate result cache.
	PipCacheSizeFlag = &cli.Int64Flag{
		Name:  "pip-cache-size",
		Usage: "Maximum entries in the hot-coordinate result cache",
		Value: 1 << 20,
	}
	// PipCacheTTLFlag is how long a cached lookup result is served before
	// it must be recomputed.
	PipCacheTTLFlag = &cli.Int64Flag{
		Name:  "pip-cache-ttl",
		Usage: "Seconds a cached lookup result remains valid",
		Value: 300,
	}
	// MergeIntervalFlag is how often the provenance merge worker runs.
	MergeIntervalFlag = &cli.DurationFlag{
		Name:  "merge-interval",
		Usage: "How often the provenance merge worker consolidates staging files into shards",
		Value: 10 * time.Minute,
	}
	// ProvenanceQuiescenceFlag is how long a staging file must sit
	// untouched before the merge worker will fold it into a shard.
	ProvenanceQuiescenceFlag = &cli.DurationFlag{
		Name:  "provenance-quiescence",
		Usage: "How long a provenance staging file must be untouched before merging",
		Value: 2 * time.Minute,
	}
	// HTTPHostFlag is the host the HTTP boundary listens on.
	HTTPHostFlag = &cli.StringFlag{
		Name:  "http-host",
		Usage: "Host the HTTP boundary listens on",
		Value: "127.0.0.1",
	}
	// HTTPPortFlag is the port the HTTP boundary listens on.
	HTTPPortFlag = &cli.IntFlag{
		Name:  "http-port",
		Usage: "Port the HTTP boundary listens on",
		Value: 8500,
	}
)
