// Package bytesutil provides the fixed-width, big-endian byte encoding
// used on the wire by the Merkle commitment engine and the boundary
// store's snapshot metadata. Everything here is big-endian so independent
// verifiers on different architectures agree byte for byte, unlike the
// little-endian SSZ convention used elsewhere in the wider ecosystem.
package bytesutil

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ToBytes32 truncates or zero-pads x to exactly 32 bytes.
func ToBytes32(x []byte) [32]byte {
	var y [32]byte
	copy(y[:], x)
	return y
}

// Bytes8 returns the big-endian encoding of x in an 8-byte slice.
func Bytes8(x uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, x)
	return b
}

// FromBytes8 decodes a big-endian 8-byte slice into a uint64. Panics if
// b is shorter than 8 bytes, mirroring the fixed-width wire contract.
func FromBytes8(b []byte) uint64 {
	return binary.BigEndian.Uint64(b[:8])
}

// Trunc returns the first 6 bytes of b, used to derive short display
// prefixes for ids and hashes in logs.
func Trunc(b []byte) []byte {
	if len(b) > 6 {
		return b[:6]
	}
	return b
}

// HexEncode renders b as a lowercase "0x"-prefixed hex string, the
// compact Merkle proof wire encoding used on the lookup response path.
func HexEncode(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// HexDecode parses a "0x"-prefixed (or bare) lowercase hex string back
// into bytes. Returns an error rather than panicking since this is used
// to decode untrusted wire input.
func HexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex string %q", s)
	}
	return b, nil
}
