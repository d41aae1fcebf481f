package merkle

import (
	"github.com/districtproof/districtnode/shared/bytesutil"
	"github.com/pkg/errors"
)

// CompactProof is the over-the-wire encoding of a Proof: big-endian,
// fixed-width byte strings hex-encoded with a leading "0x", matching
// the wire convention shared/bytesutil documents. Field names are
// deliberately terse (r, l, s, p) to keep the encoded payload small —
// every byte here is repeated in every lookup response.
type CompactProof struct {
	R string   `json:"r"`
	L string   `json:"l"`
	S []string `json:"s"`
	P []int    `json:"p"`
}

// ToCompact renders a Proof into its wire form.
func ToCompact(root [32]byte, p *Proof) CompactProof {
	s := make([]string, Depth)
	path := make([]int, Depth)
	for i := 0; i < Depth; i++ {
		s[i] = bytesutil.HexEncode(p.Siblings[i][:])
		path[i] = int(p.PathIndices[i])
	}
	return CompactProof{
		R: bytesutil.HexEncode(root[:]),
		L: bytesutil.HexEncode(p.LeafHash[:]),
		S: s,
		P: path,
	}
}

// FromCompact parses a wire-form proof back into a Proof plus its
// claimed root. fromCompact(toCompact(p)) must be the identity for
// every proof this package generates.
func FromCompact(c CompactProof) (root [32]byte, p *Proof, err error) {
	if len(c.S) != Depth || len(c.P) != Depth {
		return root, nil, errors.Errorf("merkle: compact proof must carry exactly %d siblings/path bits, got %d/%d", Depth, len(c.S), len(c.P))
	}

	rootBytes, err := bytesutil.HexDecode(c.R)
	if err != nil {
		return root, nil, errors.Wrap(err, "merkle: decoding root")
	}
	root = bytesutil.ToBytes32(rootBytes)

	leafBytes, err := bytesutil.HexDecode(c.L)
	if err != nil {
		return root, nil, errors.Wrap(err, "merkle: decoding leaf hash")
	}

	out := &Proof{LeafHash: bytesutil.ToBytes32(leafBytes), Root: root}
	for i := 0; i < Depth; i++ {
		sb, err := bytesutil.HexDecode(c.S[i])
		if err != nil {
			return root, nil, errors.Wrapf(err, "merkle: decoding sibling %d", i)
		}
		out.Siblings[i] = bytesutil.ToBytes32(sb)

		if c.P[i] != 0 && c.P[i] != 1 {
			return root, nil, errors.Errorf("merkle: path index %d out of range at level %d", c.P[i], i)
		}
		out.PathIndices[i] = uint8(c.P[i])
	}
	return root, out, nil
}
