package boundary

import (
	"context"

	"go.etcd.io/bbolt"
)

// CandidateRef is a lightweight (id, bbox) pair — the unit this store's
// spatial primitive hands to the index, well short of a full district.
type CandidateRef struct {
	ID   string
	BBox BBox
}

// RangeQuery visits every stored district whose bbox intersects query,
// invoking visit for each. Returning a non-nil error from visit stops
// the scan early and RangeQuery returns that error. This is the
// primitive the spatial index's shard builder is built upon: a full
// per-country scan filtered by intersection, since this store carries
// no secondary R-tree index of its own — that index lives one layer up,
// in districtnode/spatialindex, and is rebuilt from this primitive.
func (s *Store) RangeQuery(ctx context.Context, countryCode string, query BBox, visit func(CandidateRef) error) error {
	if err := contextDone(ctx); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(districtsBucket).ForEach(func(_, v []byte) error {
			d, err := decodeDistrict(v)
			if err != nil {
				return err
			}
			if d.CountryCode != countryCode {
				return nil
			}
			if !d.BBox.Intersects(query) {
				return nil
			}
			return visit(CandidateRef{ID: d.ID, BBox: d.BBox})
		})
	})
}
