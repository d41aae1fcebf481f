package boundary

import (
	"context"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// ErrDistrictNotFound is returned by Get when id has no district in the
// active snapshot.
var ErrDistrictNotFound = errors.New("boundary: district not found")

// Get retrieves a district by id in O(log n) plus disk access, serving
// hot ids out of the ristretto cache ahead of bbolt.
func (s *Store) Get(ctx context.Context, id string) (*District, error) {
	if err := contextDone(ctx); err != nil {
		return nil, err
	}

	if v, ok := s.districtCache.Get(id); ok {
		return v.(*District), nil
	}

	var d *District
	err := s.db.View(func(tx *bbolt.Tx) error {
		enc := tx.Bucket(districtsBucket).Get([]byte(id))
		if enc == nil {
			return ErrDistrictNotFound
		}
		decoded, err := decodeDistrict(enc)
		if err != nil {
			return err
		}
		d = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.districtCache.Set(id, d, int64(len(id)+256))
	return d, nil
}

// Countries returns every country partition in the active snapshot.
func (s *Store) Countries(ctx context.Context) ([]*Country, error) {
	if err := contextDone(ctx); err != nil {
		return nil, err
	}
	var countries []*Country
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(countriesBucket).ForEach(func(_, v []byte) error {
			c, err := decodeCountry(v)
			if err != nil {
				return err
			}
			countries = append(countries, c)
			return nil
		})
	})
	return countries, err
}

// DistrictsByCountry returns every district record belonging to
// countryCode — the primitive the spatial index's shard builder (stage
// 3, Sort-Tile-Recursive bulk load) fetches from this store.
func (s *Store) DistrictsByCountry(ctx context.Context, countryCode string) ([]*District, error) {
	if err := contextDone(ctx); err != nil {
		return nil, err
	}
	var out []*District
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(districtsBucket).ForEach(func(_, v []byte) error {
			d, err := decodeDistrict(v)
			if err != nil {
				return err
			}
			if d.CountryCode == countryCode {
				out = append(out, d)
			}
			return nil
		})
	})
	return out, err
}
