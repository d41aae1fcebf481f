package snapshot_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/merkle"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/districtproof/districtnode/shared/hashutil"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

func sampleDistricts() []*boundary.District {
	return []*boundary.District{
		{ID: "a", Name: "Alpha", CountryCode: "US", BBox: boundary.BBox{MinLon: -1, MinLat: -1, MaxLon: 1, MaxLat: 1}},
		{ID: "b", Name: "Bravo", CountryCode: "US", BBox: boundary.BBox{MinLon: 1, MinLat: 1, MaxLon: 2, MaxLat: 2}},
	}
}

func rootFor(t *testing.T, districts []*boundary.District) [32]byte {
	t.Helper()
	leaves := make([]merkle.Leaf, len(districts))
	for i, d := range districts {
		enc, err := json.Marshal(d)
		require.NoError(t, err)
		h := hashutil.Hash(enc)
		leaves[i] = merkle.Leaf{Key: d.ID, Value: h[:]}
	}
	tr, err := merkle.BuildTree(leaves)
	require.NoError(t, err)
	return tr.Root()
}

// bundleFor builds a complete (raw bytes, Meta) pair the way a real
// catalog + mirror would: raw is the JSON-encoded district array, and
// Meta.IPFSCID/MerkleRoot are computed over it, so a Downloader test
// double can simply hand the raw bytes back on Fetch.
func bundleFor(t *testing.T, id string, districts []*boundary.District) ([]byte, snapshot.Meta) {
	t.Helper()
	raw, err := json.Marshal(districts)
	require.NoError(t, err)

	mh, err := multihash.Sum(raw, multihash.SHA2_256, -1)
	require.NoError(t, err)
	c := cid.NewCidV1(cid.Raw, mh)

	return raw, snapshot.Meta{
		SnapshotID:    id,
		IPFSCID:       c,
		MerkleRoot:    rootFor(t, districts),
		DistrictCount: len(districts),
	}
}

type fixedCatalog struct {
	metas []snapshot.Meta
}

func (f fixedCatalog) Poll(ctx context.Context) ([]snapshot.Meta, error) {
	return f.metas, nil
}

type mapDownloader struct {
	raw map[string][]byte
}

func (m mapDownloader) Fetch(ctx context.Context, meta snapshot.Meta, stagingDir string) ([]byte, error) {
	b, ok := m.raw[meta.SnapshotID]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return b, nil
}
