// Package merkle builds the fixed-depth sparse Merkle tree a snapshot
// publishes its districts under, and generates/verifies the inclusion
// proofs the HTTP boundary hands back to callers. Construction follows
// a precomputed zero-hash ladder, bottom-up layer folding, and O(D)
// proof extraction.
package merkle

import (
	"sort"

	"github.com/districtproof/districtnode/shared/hashutil"
	"github.com/pkg/errors"
)

// Depth is the fixed tree depth every snapshot's tree is built to,
// regardless of how many districts it actually contains. Padding up to
// this depth is what makes every proof the same size on the wire.
const Depth = 12

// Capacity is the maximum number of real leaves a single tree can hold
// before it must be sharded into a second tree (2^Depth).
const Capacity = 1 << Depth

var (
	// ErrTooManyLeaves is returned when the leaf set exceeds Capacity.
	ErrTooManyLeaves = errors.New("merkle: leaf count exceeds shard capacity")
	// ErrEmptyLeaves is returned when building a tree from zero leaves.
	ErrEmptyLeaves = errors.New("merkle: no leaves provided")
	// ErrKeyNotInTree is returned when a proof is requested for a key
	// the tree does not contain.
	ErrKeyNotInTree = errors.New("merkle: key not in tree")
)

// zeroHashes[i] is the hash of an empty subtree of height i. zeroHashes[0]
// is the all-zero leaf hash; zeroHashes[i] = H(zeroHashes[i-1] || zeroHashes[i-1]).
var zeroHashes [Depth + 1][32]byte

func init() {
	for i := 1; i <= Depth; i++ {
		zeroHashes[i] = hashutil.HashConcat(zeroHashes[i-1][:], zeroHashes[i-1][:])
	}
}

// Leaf is a single district entry committed into the tree: leafHash =
// H(key || value), where value is whatever canonical encoding the
// boundary store commits (the hash of its encoded district record).
type Leaf struct {
	Key   string
	Value []byte
}

func (l Leaf) hash() [32]byte {
	return hashutil.HashConcat([]byte(l.Key), l.Value)
}

// Tree is an immutable, fixed-depth sparse Merkle tree over a sorted
// set of leaves. Trees are rebuilt wholesale per snapshot; there is no
// incremental update path because a snapshot's district set never
// changes after it is built.
type Tree struct {
	depth    uint
	layers   [][][32]byte // layers[0] = leaf hashes, layers[Depth] = {root}
	leaves   []Leaf        // sorted by Key, real leaves only (no padding)
	indexOf  map[string]int
}

// BuildTree constructs a fixed-depth tree from leaves, sorting them by
// key first so that tree construction is deterministic regardless of
// the order leaves were collected in.
func BuildTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}
	if len(leaves) > Capacity {
		return nil, ErrTooManyLeaves
	}

	sorted := make([]Leaf, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	indexOf := make(map[string]int, len(sorted))
	leafHashes := make([][32]byte, Capacity)
	for i := range leafHashes {
		leafHashes[i] = zeroHashes[0]
	}
	for i, l := range sorted {
		leafHashes[i] = l.hash()
		indexOf[l.Key] = i
	}

	layers := make([][][32]byte, Depth+1)
	layers[0] = leafHashes
	for level := 0; level < Depth; level++ {
		cur := layers[level]
		next := make([][32]byte, len(cur)/2)
		for i := 0; i < len(next); i++ {
			next[i] = hashutil.HashConcat(cur[2*i][:], cur[2*i+1][:])
		}
		layers[level+1] = next
	}

	return &Tree{
		depth:   Depth,
		layers:  layers,
		leaves:  sorted,
		indexOf: indexOf,
	}, nil
}

// Root returns the tree's Merkle root.
func (t *Tree) Root() [32]byte {
	return t.layers[Depth][0]
}

// Leaves returns the real (non-padding) leaves, sorted by key.
func (t *Tree) Leaves() []Leaf {
	return t.leaves
}

// Len returns the number of real leaves committed into the tree.
func (t *Tree) Len() int {
	return len(t.leaves)
}
