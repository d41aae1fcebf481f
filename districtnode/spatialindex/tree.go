package spatialindex

import (
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/shared/mathutil"
	"github.com/pkg/errors"
)

// node is either a leaf (Ref set, Children nil) or an internal node
// (Children set, Ref zeroed). An internal node's BBox is always the
// union of its children's.
type node struct {
	BBox     boundary.BBox
	Ref      boundary.CandidateRef
	Children []*node
}

func (n *node) isLeaf() bool { return n.Children == nil }

// Shard is one country's immutable R-tree, built once by Sort-Tile-
// Recursive bulk load and never mutated afterward.
type Shard struct {
	countryCode  string
	root         *node
	leafCount    int
	lastAccessed int64 // unix nanos, atomic
}

func (s *Shard) touch() {
	atomic.StoreInt64(&s.lastAccessed, time.Now().UnixNano())
}

// LastAccessed reports when this shard was last read.
func (s *Shard) LastAccessed() time.Time {
	return time.Unix(0, atomic.LoadInt64(&s.lastAccessed))
}

// buildShard constructs an R-tree over refs by Sort-Tile-Recursive bulk
// load: sort by x, split into ⌈√(n/K)⌉ vertical slices of ⌈n/slices⌉
// each, sort each slice by y, and pack consecutive groups of K leaves
// into parent nodes whose bbox is the union of their children. The
// parent layer is then folded pairwise-in-groups-of-K until a single
// root remains.
func buildShard(countryCode string, refs []boundary.CandidateRef) (*Shard, error) {
	if len(refs) == 0 {
		return nil, errors.New("spatialindex: cannot build a shard with zero candidates")
	}

	leaves := make([]*node, len(refs))
	for i, r := range refs {
		leaves[i] = &node{BBox: r.BBox, Ref: r}
	}

	layer := strTile(leaves)
	for len(layer) > 1 {
		layer = packLayer(layer)
	}

	shard := &Shard{countryCode: countryCode, root: layer[0], leafCount: len(refs)}
	shard.touch()
	return shard, nil
}

// strTile performs the one-shot Sort-Tile-Recursive slicing pass over
// the leaf layer and returns the resulting parent layer.
func strTile(leaves []*node) []*node {
	n := len(leaves)

	sort.Slice(leaves, func(i, j int) bool { return centerX(leaves[i].BBox) < centerX(leaves[j].BBox) })

	numSlices := int(math.Ceil(math.Sqrt(float64(mathutil.CeilDiv(n, K)))))
	if numSlices < 1 {
		numSlices = 1
	}
	sliceSize := mathutil.CeilDiv(n, numSlices)

	var parents []*node
	for start := 0; start < n; start += sliceSize {
		end := start + sliceSize
		if end > n {
			end = n
		}
		slice := leaves[start:end]
		sort.Slice(slice, func(i, j int) bool { return centerY(slice[i].BBox) < centerY(slice[j].BBox) })
		parents = append(parents, packLayer(slice)...)
	}
	return parents
}

// packLayer groups consecutive nodes into parents of at most K
// children each, with each parent's bbox the union of its children.
func packLayer(layer []*node) []*node {
	var out []*node
	for i := 0; i < len(layer); i += K {
		end := i + K
		if end > len(layer) {
			end = len(layer)
		}
		group := layer[i:end]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		bbox := group[0].BBox
		for _, g := range group[1:] {
			bbox = bbox.Union(g.BBox)
		}
		out = append(out, &node{BBox: bbox, Children: group})
	}
	return out
}

func centerX(b boundary.BBox) float64 { return (b.MinLon + b.MaxLon) / 2 }
func centerY(b boundary.BBox) float64 { return (b.MinLat + b.MaxLat) / 2 }
