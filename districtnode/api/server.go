package api

import (
	"context"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "api")

// Index is the subset of spatialindex.Index the boundary calls.
type Index interface {
	Lookup(ctx context.Context, pt boundary.Point) ([]string, error)
}

// Resolver is the subset of pip.Resolver the boundary calls.
type Resolver interface {
	Resolve(ctx context.Context, pt boundary.Point, candidateIDs []string) ([]*boundary.District, bool, error)
}

// Snapshots is the subset of snapshot.Synchronizer the boundary calls.
type Snapshots interface {
	ActiveStore() (*boundary.Store, func(), error)
	ActiveMeta() (snapshot.Meta, bool)
	Retained() []string
}

// Server holds everything the HTTP handlers need: the serving
// components plus a request-latency/cache-hit window for the health
// endpoint. It carries no mutable state of its own beyond that window
// — every other field is read-only after construction.
type Server struct {
	index     Index
	resolver  Resolver
	snapshots Snapshots
	stats     *statsWindow
}

// NewServer wires a Server over the three serving components. The
// caller (districtnode/node) is responsible for keeping index and
// resolver repointed at the active store across snapshot swaps.
func NewServer(index Index, resolver Resolver, snapshots Snapshots) *Server {
	return &Server{
		index:     index,
		resolver:  resolver,
		snapshots: snapshots,
		stats:     newStatsWindow(),
	}
}

// proofFor acquires the active store just long enough to build an
// inclusion proof for id, releasing it before returning.
func (s *Server) proofFor(id string) ([32]byte, *merkle.Proof, error) {
	store, release, err := s.snapshots.ActiveStore()
	if err != nil {
		return [32]byte{}, nil, err
	}
	defer release()

	p, err := store.ProofFor(id)
	if err != nil {
		return [32]byte{}, nil, err
	}
	return store.MerkleRoot(), p, nil
}
