package boundary

import (
	"sort"

	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/districtproof/districtnode/shared/bytesutil"
	"github.com/districtproof/districtnode/shared/hashutil"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// Load replaces the store's contents with districts, verifying that the
// Merkle root recomputed over the canonicalized district set matches
// declaredRoot. It is the one operation that may run against a store
// before it becomes Active — callers (districtnode/snapshot) call Load
// during the Downloading→Validated transition, not after.
func (s *Store) Load(snapshotID string, districts []*District, declaredRoot [32]byte) error {
	leaves := make([]merkle.Leaf, 0, len(districts))
	for _, d := range districts {
		enc, err := encodeDistrict(d)
		if err != nil {
			return err
		}
		contentHash := hashutil.Hash(enc)
		leaves = append(leaves, merkle.Leaf{Key: d.ID, Value: contentHash[:]})
	}

	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return errors.Wrap(err, "boundary: building merkle tree over loaded districts")
	}
	recomputedRoot := tree.Root()
	if recomputedRoot != declaredRoot {
		return errors.Wrapf(ErrCorruptSnapshot, "recomputed %s != declared %s",
			bytesutil.HexEncode(recomputedRoot[:]), bytesutil.HexEncode(declaredRoot[:]))
	}

	countries := partitionByCountry(districts)

	if err := s.db.Update(func(tx *bbolt.Tx) error {
		dBkt := tx.Bucket(districtsBucket)
		cBkt := tx.Bucket(countriesBucket)
		metaBkt := tx.Bucket(snapshotMetaBucket)

		for _, d := range districts {
			enc, err := encodeDistrict(d)
			if err != nil {
				return err
			}
			if err := dBkt.Put([]byte(d.ID), enc); err != nil {
				return err
			}
		}
		for _, c := range countries {
			enc, err := encodeCountry(c)
			if err != nil {
				return err
			}
			if err := cBkt.Put([]byte(c.CountryCode), enc); err != nil {
				return err
			}
		}

		if err := metaBkt.Put(snapshotIDKey, []byte(snapshotID)); err != nil {
			return err
		}
		if err := metaBkt.Put(snapshotMerkleRootKey, declaredRoot[:]); err != nil {
			return err
		}
		if err := metaBkt.Put(snapshotDistrictCountKey, bytesutil.Bytes8(uint64(len(districts)))); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	s.snapshotID = snapshotID
	s.merkleRoot = declaredRoot
	s.districtCount = len(districts)
	s.tree = tree
	return nil
}

func partitionByCountry(districts []*District) []*Country {
	byCode := make(map[string]*Country)
	for _, d := range districts {
		c, ok := byCode[d.CountryCode]
		if !ok {
			c = &Country{CountryCode: d.CountryCode, BBox: d.BBox}
			byCode[d.CountryCode] = c
		} else {
			c.BBox = c.BBox.Union(d.BBox)
		}
		c.DistrictCount++
	}
	countries := make([]*Country, 0, len(byCode))
	for _, c := range byCode {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].CountryCode < countries[j].CountryCode })
	return countries
}
