package pip_test

import (
	"context"
	"testing"
	"time"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/pip"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	districts map[string]*boundary.District
}

func (f *fakeStore) Get(ctx context.Context, id string) (*boundary.District, error) {
	d, ok := f.districts[id]
	if !ok {
		return nil, boundary.ErrDistrictNotFound
	}
	return d, nil
}

func square(minLon, minLat, maxLon, maxLat float64) boundary.Geometry {
	return boundary.Geometry{Polygons: []boundary.Polygon{{Outer: boundary.Ring{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
	}}}}
}

func TestResolveReturnsFinestPrecisionFirst(t *testing.T) {
	store := &fakeStore{districts: map[string]*boundary.District{
		"county": {ID: "county", PrecisionRank: 3, Geometry: square(-1, -1, 1, 1)},
		"ward":   {ID: "ward", PrecisionRank: 1, Geometry: square(-1, -1, 1, 1)},
	}}
	r, err := pip.New(store, 100, 300)
	require.NoError(t, err)

	matches, cacheHit, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"county", "ward"})
	require.NoError(t, err)
	require.False(t, cacheHit)
	require.Len(t, matches, 2)
	require.Equal(t, "ward", matches[0].ID)
	require.Equal(t, "county", matches[1].ID)
}

func TestResolveTiesBrokenLexicographically(t *testing.T) {
	store := &fakeStore{districts: map[string]*boundary.District{
		"zzz": {ID: "zzz", PrecisionRank: 2, Geometry: square(-1, -1, 1, 1)},
		"aaa": {ID: "aaa", PrecisionRank: 2, Geometry: square(-1, -1, 1, 1)},
	}}
	r, err := pip.New(store, 100, 300)
	require.NoError(t, err)

	matches, _, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"zzz", "aaa"})
	require.NoError(t, err)
	require.Equal(t, "aaa", matches[0].ID)
	require.Equal(t, "zzz", matches[1].ID)
}

func TestResolveNotFound(t *testing.T) {
	store := &fakeStore{districts: map[string]*boundary.District{
		"far": {ID: "far", Geometry: square(10, 10, 11, 11)},
	}}
	r, err := pip.New(store, 100, 300)
	require.NoError(t, err)

	_, _, err = r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"far"})
	require.ErrorIs(t, err, pip.ErrNotFound)
}

func TestResolveSkipsMalformedGeometry(t *testing.T) {
	store := &fakeStore{districts: map[string]*boundary.District{
		"bad":  {ID: "bad", Geometry: boundary.Geometry{}},
		"good": {ID: "good", PrecisionRank: 1, Geometry: square(-1, -1, 1, 1)},
	}}
	r, err := pip.New(store, 100, 300)
	require.NoError(t, err)

	matches, _, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"bad", "good"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "good", matches[0].ID)
}

func TestResolveCachesResult(t *testing.T) {
	store := &fakeStore{districts: map[string]*boundary.District{
		"only": {ID: "only", Geometry: square(-1, -1, 1, 1)},
	}}
	r, err := pip.New(store, 100, 300)
	require.NoError(t, err)

	_, cacheHit1, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"only"})
	require.NoError(t, err)
	require.False(t, cacheHit1)

	// ristretto buffers writes asynchronously; give the set a moment to
	// land before asserting the next Get observes it.
	time.Sleep(10 * time.Millisecond)

	_, cacheHit2, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"only"})
	require.NoError(t, err)
	require.True(t, cacheHit2)

	r.InvalidateAll()
	_, cacheHit3, err := r.Resolve(context.Background(), boundary.Point{Lon: 0, Lat: 0}, []string{"only"})
	require.NoError(t, err)
	require.False(t, cacheHit3)
}
