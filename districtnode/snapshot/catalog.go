package snapshot

import "context"

// Catalog is the discovery surface: a directory of published snapshots
// the synchronizer polls for new entries. A real implementation reads
// an IPNS record, a pinning service's API, or a flat manifest file;
// tests supply a fixed or mutable in-memory list.
type Catalog interface {
	Poll(ctx context.Context) ([]Meta, error)
}
