// Package pip is the point-in-polygon resolver: it consumes the
// candidate id iterator from the spatial index, fetches each
// candidate's full geometry from the boundary store, and decides which
// candidates actually contain the query point.
package pip

import (
	"context"
	"sort"
	"sync"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "pip")

// ErrNotFound is returned when no candidate contains the query point.
var ErrNotFound = errors.New("pip: no district contains this point")

// Store is the read surface this resolver needs from the boundary
// layer.
type Store interface {
	Get(ctx context.Context, id string) (*boundary.District, error)
}

// Resolver applies the exact point-in-polygon test to the candidates
// the spatial index hands it, breaking ties by precisionRank then id.
type Resolver struct {
	mu    sync.RWMutex
	store Store
	cache *resultCache
}

// New builds a Resolver over store with a result cache bounded to
// maxEntries, holding each cached result for ttl before it must be
// recomputed.
func New(store Store, maxEntries int64, ttlSeconds int64) (*Resolver, error) {
	cache, err := newResultCache(maxEntries, ttlSeconds)
	if err != nil {
		return nil, err
	}
	return &Resolver{store: store, cache: cache}, nil
}

// InvalidateAll drops every cached result — called on snapshot swap,
// since a district id that resolved correctly under the old snapshot
// may not even exist under the new one.
func (r *Resolver) InvalidateAll() {
	r.cache.clear()
}

// SetStore repoints the resolver at a new backing store. Callers
// should follow this with InvalidateAll: a cached result keyed by
// coordinate may have been produced against the superseded store's
// district set.
func (r *Resolver) SetStore(store Store) {
	r.mu.Lock()
	r.store = store
	r.mu.Unlock()
}

// Resolve fetches geometry for each candidate id, tests pt against it
// with an exact crossing-number test, and returns the matches sorted
// ascending by precisionRank (finest grain first), ties broken by
// lexicographic id. Returns ErrNotFound if nothing matches.
func (r *Resolver) Resolve(ctx context.Context, pt boundary.Point, candidateIDs []string) ([]*boundary.District, bool, error) {
	if d, ok := r.cache.get(pt); ok {
		return d, true, nil
	}

	r.mu.RLock()
	store := r.store
	r.mu.RUnlock()

	var matches []*boundary.District
	for _, id := range candidateIDs {
		d, err := store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, boundary.ErrDistrictNotFound) {
				// The candidate came from a stale shard; skip rather
				// than fail the whole lookup.
				malformedGeometrySkipped.Inc()
				continue
			}
			return nil, false, err
		}
		if !validGeometry(d.Geometry) {
			log.WithField("id", id).Warn("Skipping district with malformed geometry")
			malformedGeometrySkipped.Inc()
			continue
		}
		if containsPoint(d.Geometry, pt) {
			matches = append(matches, d)
		}
	}

	if len(matches) == 0 {
		return nil, false, ErrNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PrecisionRank != matches[j].PrecisionRank {
			return matches[i].PrecisionRank < matches[j].PrecisionRank
		}
		return matches[i].ID < matches[j].ID
	})

	r.cache.set(pt, matches)
	return matches, false, nil
}

func validGeometry(g boundary.Geometry) bool {
	if len(g.Polygons) == 0 {
		return false
	}
	for _, poly := range g.Polygons {
		if len(poly.Outer) < 3 {
			return false
		}
	}
	return true
}

// containsPoint applies the exact crossing-number (even-odd) test
// across every polygon in g, subtracting holes.
func containsPoint(g boundary.Geometry, pt boundary.Point) bool {
	for _, poly := range g.Polygons {
		if ringContains(poly.Outer, pt) {
			inHole := false
			for _, hole := range poly.Holes {
				if ringContains(hole, pt) {
					inHole = true
					break
				}
			}
			if !inHole {
				return true
			}
		}
	}
	return false
}

// ringContains implements the crossing-number point-in-polygon test
// for a single ring, using strict inequalities throughout (no special
// on-edge case). This is deliberate, not an oversight: two adjacent
// districts sharing an edge each enumerate that edge with opposite
// winding, and the strict-inequality crossing test assigns any point
// exactly on the shared edge to exactly one side — whichever polygon's
// edge is "below" the point in the sweep, consistent with the
// documented min-inclusive/max-exclusive rule applied per-edge rather
// than per-bbox. Special-casing on-edge points to always return true
// would instead make the point match both neighbors, breaking
// determinism at every shared border.
func ringContains(ring boundary.Ring, pt boundary.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		if (yi > pt.Lat) != (yj > pt.Lat) {
			xCross := xi + (pt.Lat-yi)/(yj-yi)*(xj-xi)
			if pt.Lon < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
