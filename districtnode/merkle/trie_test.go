package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleLeaves() []Leaf {
	return []Leaf{
		{Key: "usa-hi-honolulu-district-1", Value: []byte("v1")},
		{Key: "usa-wa-king-district-7", Value: []byte("v7")},
		{Key: "usa-wa-king-district-2", Value: []byte("v2")},
		{Key: "usa-ca-la-district-12", Value: []byte("v12")},
	}
}

func TestBuildTreeEmptyFails(t *testing.T) {
	_, err := BuildTree(nil)
	require.ErrorIs(t, err, ErrEmptyLeaves)
}

func TestBuildTreeTooManyLeavesFails(t *testing.T) {
	leaves := make([]Leaf, Capacity+1)
	for i := range leaves {
		leaves[i] = Leaf{Key: string(rune(i)), Value: []byte{byte(i)}}
	}
	_, err := BuildTree(leaves)
	require.ErrorIs(t, err, ErrTooManyLeaves)
}

func TestBuildTreeSortsLeaves(t *testing.T) {
	tr, err := BuildTree(sampleLeaves())
	require.NoError(t, err)
	require.Equal(t, []string{
		"usa-ca-la-district-12",
		"usa-hi-honolulu-district-1",
		"usa-wa-king-district-2",
		"usa-wa-king-district-7",
	}, keysOf(tr.Leaves()))
}

func keysOf(leaves []Leaf) []string {
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Key
	}
	return out
}

func TestSingleRealLeafOfFullCapacityProducesValidDepthProof(t *testing.T) {
	tr, err := BuildTree([]Leaf{{Key: "usa-hi-honolulu-district-1", Value: []byte("only")}})
	require.NoError(t, err)

	proof, err := tr.GenerateProof("usa-hi-honolulu-district-1")
	require.NoError(t, err)
	require.Len(t, proof.Siblings, Depth)
	require.Len(t, proof.PathIndices, Depth)

	// The real leaf sits at index 0, so every sibling on the path is a
	// pure zero-subtree hash.
	for i := 0; i < Depth; i++ {
		require.Equal(t, zeroHashes[i], proof.Siblings[i])
	}
	require.NoError(t, Verify(tr.Root(), proof))
}

func TestGenerateProofUnknownKey(t *testing.T) {
	tr, err := BuildTree(sampleLeaves())
	require.NoError(t, err)
	_, err = tr.GenerateProof("does-not-exist")
	require.ErrorIs(t, err, ErrKeyNotInTree)
}

func TestVerifyRejectsTamperedRoot(t *testing.T) {
	tr, err := BuildTree(sampleLeaves())
	require.NoError(t, err)
	proof, err := tr.GenerateProof("usa-wa-king-district-2")
	require.NoError(t, err)

	badRoot := tr.Root()
	badRoot[0] ^= 0xFF
	require.ErrorIs(t, Verify(badRoot, proof), ErrInvalidProof)
}

func TestVerifyRejectsWrongLeaf(t *testing.T) {
	tr, err := BuildTree(sampleLeaves())
	require.NoError(t, err)
	proof, err := tr.GenerateProof("usa-wa-king-district-2")
	require.NoError(t, err)

	other, err := tr.GenerateProof("usa-wa-king-district-7")
	require.NoError(t, err)
	proof.LeafHash = other.LeafHash
	require.ErrorIs(t, Verify(tr.Root(), proof), ErrInvalidProof)
}

func TestEveryLeafVerifiesAgainstRoot(t *testing.T) {
	leaves := sampleLeaves()
	tr, err := BuildTree(leaves)
	require.NoError(t, err)
	root := tr.Root()
	for _, l := range leaves {
		proof, err := tr.GenerateProof(l.Key)
		require.NoError(t, err)
		require.NoError(t, Verify(root, proof))
	}
}
