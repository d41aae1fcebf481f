// Package spatialindex is the hierarchical, country-partitioned
// spatial index standing between the boundary store and the
// point-in-polygon resolver. It has no corpus library to lean on — a
// Sort-Tile-Recursive R-tree bulk loader is domain logic this service
// owns outright, the same way the teacher owns its BLS aggregation or
// committee-assignment math by hand even while importing a cache
// library (golang-lru) and a metrics library (promauto) around it.
package spatialindex

import (
	"context"
	"sync"
	"time"

	"github.com/districtproof/districtnode/districtnode/boundary"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// K is the target fan-out (and leaf-group size) for the Sort-Tile-
// Recursive bulk loader. Node wiring may override this before
// constructing the first Index; it is not safe to change once a Shard
// build is in flight.
var K = 16

// ErrShardLoadFailed indicates a shard failed its integrity check
// during construction (malformed candidate set from the boundary
// store).
var ErrShardLoadFailed = errors.New("spatialindex: shard load failed")

// Store is the read surface this index needs from the boundary layer.
// Defined here (rather than importing the concrete Store type
// everywhere) so the index can be tested against a fake.
type Store interface {
	Countries(ctx context.Context) ([]*boundary.Country, error)
	DistrictsByCountry(ctx context.Context, countryCode string) ([]*boundary.District, error)
}

// Index is the hierarchical spatial index: a small in-memory country
// routing table (stage 1) in front of an LRU cache of lazily-built,
// per-country R-tree shards (stages 2-4).
type Index struct {
	store Store

	mu        sync.RWMutex
	countries []boundary.Country // stage 1 routing table

	shardCache *lru.Cache // countryCode -> *Shard
}

// New builds an Index over store with a shard cache bounded to
// maxCountriesInMemory entries. Call Refresh after a snapshot swap to
// reload the country routing table and drop every cached shard — the
// shards they'd serve belong to the superseded snapshot.
func New(store Store, maxCountriesInMemory int) (*Index, error) {
	cache, err := lru.New(maxCountriesInMemory)
	if err != nil {
		return nil, errors.Wrap(err, "spatialindex: constructing shard cache")
	}
	idx := &Index{store: store, shardCache: cache}
	return idx, nil
}

// SetStore repoints the index at a new backing store without
// rebuilding the Index itself. Call this before Refresh when a
// snapshot swap replaces the boundary store wholesale (a new bbolt
// file, not just new rows in the old one).
func (idx *Index) SetStore(store Store) {
	idx.mu.Lock()
	idx.store = store
	idx.mu.Unlock()
}

// Refresh reloads the stage-1 country routing table and evicts every
// cached shard. Called once per snapshot swap — a new snapshot's
// country partitions and district sets are entirely unrelated to the
// old one's.
func (idx *Index) Refresh(ctx context.Context) error {
	idx.mu.RLock()
	store := idx.store
	idx.mu.RUnlock()

	countries, err := store.Countries(ctx)
	if err != nil {
		return errors.Wrap(err, "spatialindex: loading country routing table")
	}
	table := make([]boundary.Country, len(countries))
	for i, c := range countries {
		table[i] = *c
	}

	idx.mu.Lock()
	idx.countries = table
	idx.mu.Unlock()

	idx.shardCache.Purge()
	return nil
}

// Lookup returns every candidate district id whose bbox contains pt.
// Ordering of results is not guaranteed. Returns an empty, non-error
// result when no country's bbox contains pt (ocean, Antarctica).
func (idx *Index) Lookup(ctx context.Context, pt boundary.Point) ([]string, error) {
	start := time.Now()
	defer func() { lookupLatency.Observe(time.Since(start).Seconds()) }()

	countryCodes := idx.routeCountries(pt)
	if len(countryCodes) == 0 {
		countryMiss.Inc()
		return nil, nil
	}
	countryHit.Add(float64(len(countryCodes)))

	var candidates []string
	for _, code := range countryCodes {
		shard, err := idx.shardFor(ctx, code)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, shard.query(pt)...)
	}
	return candidates, nil
}

// routeCountries is stage 1: a linear scan of the small in-memory
// country table. Typically returns exactly one country; more than one
// only in border/overlap cases.
func (idx *Index) routeCountries(pt boundary.Point) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []string
	for _, c := range idx.countries {
		if c.BBox.Contains(pt) {
			matches = append(matches, c.CountryCode)
		}
	}
	return matches
}

// shardFor is stages 2-3: an LRU-cached, lazily-built R-tree shard for
// countryCode. Shards are immutable once built, so a shard pointer
// obtained here remains safe to traverse even if the cache evicts its
// entry moments later — eviction only removes the cache's own
// bookkeeping, never the shard a reader is mid-traversal on.
func (idx *Index) shardFor(ctx context.Context, countryCode string) (*Shard, error) {
	if v, ok := idx.shardCache.Get(countryCode); ok {
		shardHit.Inc()
		shard := v.(*Shard)
		shard.touch()
		return shard, nil
	}

	shardMiss.Inc()
	start := time.Now()
	idx.mu.RLock()
	store := idx.store
	idx.mu.RUnlock()
	districts, err := store.DistrictsByCountry(ctx, countryCode)
	if err != nil {
		return nil, errors.Wrapf(ErrShardLoadFailed, "fetching districts for %s: %v", countryCode, err)
	}
	refs := make([]boundary.CandidateRef, len(districts))
	for i, d := range districts {
		refs[i] = boundary.CandidateRef{ID: d.ID, BBox: d.BBox}
	}

	shard, err := buildShard(countryCode, refs)
	if err != nil {
		return nil, errors.Wrapf(ErrShardLoadFailed, "building shard for %s: %v", countryCode, err)
	}
	shardBuildLatency.Observe(time.Since(start).Seconds())

	evicted := idx.shardCache.Add(countryCode, shard)
	if evicted {
		shardEviction.Inc()
	}
	return shard, nil
}

// Preload builds shards proactively for every country code in codes.
// The decision of *which* codes to preload (timezone-aware, event-
// driven, traffic-predicted, population-weighted) is external policy;
// this only honors the request.
func (idx *Index) Preload(ctx context.Context, codes []string) error {
	for _, code := range codes {
		if _, err := idx.shardFor(ctx, code); err != nil {
			return err
		}
	}
	return nil
}

