package snapshot

import (
	"github.com/ipfs/go-cid"
)

// State is a snapshot's position in its lifecycle. Transitions move
// forward, with two exceptions: the terminal Rejected branch, and
// Rollback, which moves a Retained generation back to Active and the
// Active one to Retained.
type State int

const (
	Unknown State = iota
	Discovered
	Downloading
	Validated
	Active
	Superseded
	Retained
	Pruned
	Rejected
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case Discovered:
		return "Discovered"
	case Downloading:
		return "Downloading"
	case Validated:
		return "Validated"
	case Active:
		return "Active"
	case Superseded:
		return "Superseded"
	case Retained:
		return "Retained"
	case Pruned:
		return "Pruned"
	case Rejected:
		return "Rejected"
	default:
		return "Invalid"
	}
}

// Coverage describes which countries/subdivisions a snapshot's
// boundary data spans.
type Coverage struct {
	Countries    []string
	Subdivisions []string
}

// Meta is a snapshot's immutable, content-addressed metadata.
type Meta struct {
	SnapshotID    string
	IPFSCID       cid.Cid
	MerkleRoot    [32]byte
	Timestamp     int64
	DistrictCount int
	Version       string
	Coverage      Coverage
}

// Handle tracks one snapshot through its lifecycle alongside the
// reference count gating when it may be pruned.
type Handle struct {
	Meta  Meta
	State State

	refCount int32
}
