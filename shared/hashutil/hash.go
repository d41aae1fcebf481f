// Package hashutil defines the single hash function used across the
// service: every Merkle leaf, internal node, and content digest goes
// through this package so independent verifiers agree on H.
package hashutil

import (
	"golang.org/x/crypto/sha3"
)

// Hash returns the Keccak-256 digest of data. This is the pinned H for
// the Merkle commitment engine (see districtnode/merkle) — chosen over a
// field-friendly hash (Poseidon, Rescue-Prime) because published roots
// are corroborated against EVM/on-chain state, not consumed directly by
// a ZK circuit; the circuit only needs the proof shape, not a specific H.
func Hash(data []byte) [32]byte {
	var hash [32]byte

	h := sha3.NewLegacyKeccak256()

	// The hash interface never returns an error, for that reason
	// we are not handling the error below. For reference, it is
	// stated here https://golang.org/pkg/hash/#Hash

	// #nosec G104
	h.Write(data)
	h.Sum(hash[:0])

	return hash
}

// RepeatHash applies the Keccak-256/SHA3 hash function repeatedly
// numTimes on a [32]byte array.
func RepeatHash(data [32]byte, numTimes uint64) [32]byte {
	if numTimes == 0 {
		return data
	}
	return RepeatHash(Hash(data[:]), numTimes-1)
}

// HashConcat hashes the concatenation of a and b in a single pass. Used
// for every internal Merkle node: H(left || right).
func HashConcat(a, b []byte) [32]byte {
	buf := make([]byte, 0, len(a)+len(b))
	buf = append(buf, a...)
	buf = append(buf, b...)
	return Hash(buf)
}
