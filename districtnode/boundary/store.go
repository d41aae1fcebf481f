// Package boundary is the read-only key-value store over district
// records and their bounding boxes. It is the bottom layer every other
// component reads through: the spatial index's shard builder, the
// Merkle engine's leaf set, and the HTTP boundary's districtById route
// all resolve through Store.
package boundary

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prysmaticlabs/prombbolt"
	"go.etcd.io/bbolt"
)

const (
	databaseFileName = "districts.db"

	// districtCacheNumCounters tracks frequency for up to 1M district keys.
	districtCacheNumCounters = 1 << 20
	// districtCacheMaxCost bounds the hot-district cache at 16M cost
	// units; each cached district is charged len(id)+256, not its
	// encoded size.
	districtCacheMaxCost = 1 << 24
)

// ErrCorruptSnapshot is returned when the Merkle root recomputed over a
// snapshot's loaded districts does not match the root declared in its
// metadata.
var ErrCorruptSnapshot = errors.New("boundary: corrupt snapshot: merkle root mismatch")

// Store is an immutable-per-snapshot, bbolt-backed key-value store of
// district records plus their bounding boxes. A Store is built once per
// snapshot and never mutated; swapping to a new snapshot means building
// a new Store and atomically repointing to it (see districtnode/node).
type Store struct {
	db           *bbolt.DB
	databasePath string
	districtCache *ristretto.Cache

	snapshotID    string
	merkleRoot    [32]byte
	districtCount int
	tree          *merkle.Tree
}

// Open creates or opens a bbolt database rooted at dirPath and prepares
// its buckets. The returned Store holds no districts until Load is
// called with a snapshot's district set.
func Open(dirPath string) (*Store, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, errors.Wrap(err, "boundary: creating data dir")
	}
	datafile := path.Join(dirPath, databaseFileName)
	db, err := bbolt.Open(datafile, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if err == bbolt.ErrTimeout {
			return nil, errors.New("boundary: cannot obtain database lock, may be in use by another process")
		}
		return nil, errors.Wrap(err, "boundary: opening bbolt database")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: districtCacheNumCounters,
		MaxCost:     districtCacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "boundary: constructing district cache")
	}

	s := &Store{db: db, databasePath: dirPath, districtCache: cache}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return createBuckets(tx, districtsBucket, countriesBucket, snapshotMetaBucket)
	}); err != nil {
		return nil, errors.Wrap(err, "boundary: creating buckets")
	}

	if err := prometheus.Register(prombbolt.New("boundary_store", s.db)); err != nil {
		// Registered already (e.g. a second Store in the same process
		// during tests) is not fatal.
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
	}

	return s, nil
}

// Close releases the underlying bbolt handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath returns the directory this store writes files under.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

// SnapshotID, MerkleRoot, and DistrictCount describe the snapshot
// currently loaded into this store.
func (s *Store) SnapshotID() string      { return s.snapshotID }
func (s *Store) MerkleRoot() [32]byte    { return s.merkleRoot }
func (s *Store) DistrictCount() int      { return s.districtCount }

// ErrProofUnavailable is returned by ProofFor when Load has not yet
// populated this store's commitment tree.
var ErrProofUnavailable = errors.New("boundary: merkle tree not loaded")

// ProofFor builds an inclusion proof for id against the tree retained
// from the last Load call. The proof's leaf hash is H(id ‖ H(encoded
// district)), so it binds both the district id and the content hash of
// its encoded form — callers verify a fetched District by re-encoding
// it, recomputing that leaf hash, and checking it matches the proof's
// leaf hash before trusting merkle.Verify's root check.
func (s *Store) ProofFor(id string) (*merkle.Proof, error) {
	if s.tree == nil {
		return nil, ErrProofUnavailable
	}
	return s.tree.GenerateProof(id)
}

func createBuckets(tx *bbolt.Tx, buckets ...[]byte) error {
	for _, b := range buckets {
		if _, err := tx.CreateBucketIfNotExists(b); err != nil {
			return err
		}
	}
	return nil
}

// contextDone is a small helper mirroring the teacher's
// context-aware-but-synchronous-bbolt pattern: bbolt transactions are
// not cancellable mid-flight, so all this does is fail fast if the
// caller's context is already done before we begin.
func contextDone(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
