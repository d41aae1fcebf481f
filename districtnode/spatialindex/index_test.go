package spatialindex_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/spatialindex"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	countries []*boundary.Country
	districts map[string][]*boundary.District
}

func (f *fakeStore) Countries(ctx context.Context) ([]*boundary.Country, error) {
	return f.countries, nil
}

func (f *fakeStore) DistrictsByCountry(ctx context.Context, countryCode string) ([]*boundary.District, error) {
	return f.districts[countryCode], nil
}

func gridDistricts(countryCode string, n int) []*boundary.District {
	out := make([]*boundary.District, n)
	for i := 0; i < n; i++ {
		lon := float64(i % 20)
		lat := float64(i / 20)
		out[i] = &boundary.District{
			ID:          fmt.Sprintf("%s-district-%d", countryCode, i),
			CountryCode: countryCode,
			BBox:        boundary.BBox{MinLon: lon, MinLat: lat, MaxLon: lon + 0.9, MaxLat: lat + 0.9},
		}
	}
	return out
}

func newTestIndex(t *testing.T) (*spatialindex.Index, *fakeStore) {
	t.Helper()
	districts := gridDistricts("US", 50)
	store := &fakeStore{
		countries: []*boundary.Country{
			{CountryCode: "US", BBox: boundary.BBox{MinLon: 0, MinLat: 0, MaxLon: 20, MaxLat: 20}},
		},
		districts: map[string][]*boundary.District{"US": districts},
	}
	idx, err := spatialindex.New(store, 4)
	require.NoError(t, err)
	require.NoError(t, idx.Refresh(context.Background()))
	return idx, store
}

func TestLookupFindsContainingDistrict(t *testing.T) {
	idx, _ := newTestIndex(t)
	hits, err := idx.Lookup(context.Background(), boundary.Point{Lon: 0.5, Lat: 0.5})
	require.NoError(t, err)
	require.Contains(t, hits, "US-district-0")
}

func TestLookupOceanReturnsEmptyNotError(t *testing.T) {
	idx, _ := newTestIndex(t)
	hits, err := idx.Lookup(context.Background(), boundary.Point{Lon: 170, Lat: -60})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestPreloadBuildsShardBeforeLookup(t *testing.T) {
	idx, _ := newTestIndex(t)
	require.NoError(t, idx.Preload(context.Background(), []string{"US"}))
	hits, err := idx.Lookup(context.Background(), boundary.Point{Lon: 5.5, Lat: 2.5})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}

func TestRefreshDropsStaleCountryTable(t *testing.T) {
	idx, store := newTestIndex(t)
	store.countries = nil
	require.NoError(t, idx.Refresh(context.Background()))

	hits, err := idx.Lookup(context.Background(), boundary.Point{Lon: 0.5, Lat: 0.5})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestEveryGridCellResolvesToExactlyOneDistrict(t *testing.T) {
	idx, _ := newTestIndex(t)
	for i := 0; i < 50; i++ {
		lon := float64(i%20) + 0.5
		lat := float64(i/20) + 0.5
		hits, err := idx.Lookup(context.Background(), boundary.Point{Lon: lon, Lat: lat})
		require.NoError(t, err)
		require.Lenf(t, hits, 1, "point (%v,%v) expected exactly one match, got %v", lon, lat, hits)
	}
}
