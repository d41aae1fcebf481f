package merkle

import (
	"github.com/districtproof/districtnode/shared/hashutil"
	"github.com/pkg/errors"
)

// ErrInvalidProof is returned by Verify when a proof's siblings/path
// bits do not fold up to the claimed root.
var ErrInvalidProof = errors.New("merkle: invalid proof")

// Proof is an inclusion witness: folding LeafHash up through Siblings
// according to PathIndices must yield Root. Every proof has exactly
// Depth siblings and path bits, regardless of tree occupancy — that
// uniformity is what makes proofs a fixed-size, circuit-friendly
// public input.
type Proof struct {
	Root        [32]byte
	LeafHash    [32]byte
	Siblings    [Depth][32]byte
	PathIndices [Depth]uint8 // 0 = leaf/node is the left child, 1 = right child
}

// GenerateProof builds an inclusion proof for key. Returns
// ErrKeyNotInTree if key has no leaf in this tree.
func (t *Tree) GenerateProof(key string) (*Proof, error) {
	idx, ok := t.indexOf[key]
	if !ok {
		return nil, errors.Wrapf(ErrKeyNotInTree, "key %q", key)
	}

	p := &Proof{
		Root:     t.Root(),
		LeafHash: t.layers[0][idx],
	}
	cur := idx
	for level := 0; level < Depth; level++ {
		siblingIdx := cur ^ 1
		p.Siblings[level] = t.layers[level][siblingIdx]
		p.PathIndices[level] = uint8(cur & 1)
		cur /= 2
	}
	return p, nil
}

// Verify folds p.LeafHash up through p.Siblings per p.PathIndices and
// checks the result against root. Returns ErrInvalidProof on mismatch;
// callers that pinned a different hash function than this package uses
// will also land here rather than crash, per the same-H requirement on
// proof verification.
func Verify(root [32]byte, p *Proof) error {
	node := p.LeafHash
	for level := 0; level < Depth; level++ {
		sibling := p.Siblings[level]
		if p.PathIndices[level] == 0 {
			node = hashutil.HashConcat(node[:], sibling[:])
		} else {
			node = hashutil.HashConcat(sibling[:], node[:])
		}
	}
	if node != root {
		return ErrInvalidProof
	}
	return nil
}
