package snapshot_test

import (
	"context"
	"testing"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/stretchr/testify/require"
)

func TestPollOnceActivatesValidatedSnapshot(t *testing.T) {
	districts := sampleDistricts()
	raw, meta := bundleFor(t, "snap-1", districts)

	var activated *boundary.Store
	sync := snapshot.New(
		fixedCatalog{metas: []snapshot.Meta{meta}},
		mapDownloader{raw: map[string][]byte{"snap-1": raw}},
		snapshot.Config{
			GenerationsDir: t.TempDir(),
			OnActivate: func(store *boundary.Store) error {
				activated = store
				return nil
			},
		},
	)

	require.NoError(t, sync.PollOnce(context.Background()))

	gotMeta, ok := sync.ActiveMeta()
	require.True(t, ok)
	require.Equal(t, "snap-1", gotMeta.SnapshotID)
	require.NotNil(t, activated)

	store, release, err := sync.ActiveStore()
	require.NoError(t, err)
	defer release()
	d, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "Alpha", d.Name)
}

func TestPollOnceRejectsTamperedContent(t *testing.T) {
	districts := sampleDistricts()
	raw, meta := bundleFor(t, "snap-bad", districts)
	tampered := append(append([]byte{}, raw...), '\n')

	sync := snapshot.New(
		fixedCatalog{metas: []snapshot.Meta{meta}},
		mapDownloader{raw: map[string][]byte{"snap-bad": tampered}},
		snapshot.Config{GenerationsDir: t.TempDir()},
	)

	require.NoError(t, sync.PollOnce(context.Background()))
	_, ok := sync.ActiveMeta()
	require.False(t, ok)
}

func TestPollOnceSkipsAlreadySeenSnapshot(t *testing.T) {
	districts := sampleDistricts()
	raw, meta := bundleFor(t, "snap-dup", districts)
	calls := 0
	dl := countingDownloader{raw: raw, calls: &calls}

	sync := snapshot.New(
		fixedCatalog{metas: []snapshot.Meta{meta}},
		dl,
		snapshot.Config{GenerationsDir: t.TempDir()},
	)

	require.NoError(t, sync.PollOnce(context.Background()))
	require.NoError(t, sync.PollOnce(context.Background()))
	require.Equal(t, 1, calls)
}

type countingDownloader struct {
	raw   []byte
	calls *int
}

func (d countingDownloader) Fetch(ctx context.Context, meta snapshot.Meta, stagingDir string) ([]byte, error) {
	*d.calls++
	return d.raw, nil
}

// queueCatalog returns one batch of metas per Poll call, then an empty
// slice once the queue drains, modeling a catalog that only advertises
// newly published generations on each round.
type queueCatalog struct {
	batches [][]snapshot.Meta
	next    int
}

func (q *queueCatalog) Poll(ctx context.Context) ([]snapshot.Meta, error) {
	if q.next >= len(q.batches) {
		return nil, nil
	}
	b := q.batches[q.next]
	q.next++
	return b, nil
}

func TestSwapMovesPreviousGenerationToRetained(t *testing.T) {
	first := sampleDistricts()
	raw1, meta1 := bundleFor(t, "gen-1", first)
	second := []*boundary.District{
		{ID: "c", Name: "Charlie", CountryCode: "US", BBox: boundary.BBox{MinLon: 3, MinLat: 3, MaxLon: 4, MaxLat: 4}},
	}
	raw2, meta2 := bundleFor(t, "gen-2", second)

	catalog := &queueCatalog{batches: [][]snapshot.Meta{{meta1}, {meta2}}}
	sync := snapshot.New(
		catalog,
		mapDownloader{raw: map[string][]byte{"gen-1": raw1, "gen-2": raw2}},
		snapshot.Config{GenerationsDir: t.TempDir(), MaxRetained: 2},
	)

	require.NoError(t, sync.PollOnce(context.Background()))
	require.NoError(t, sync.PollOnce(context.Background()))

	gotMeta, ok := sync.ActiveMeta()
	require.True(t, ok)
	require.Equal(t, "gen-2", gotMeta.SnapshotID)
	require.Equal(t, []string{"gen-1"}, sync.Retained())

	require.NoError(t, sync.Rollback("gen-1"))
	gotMeta, ok = sync.ActiveMeta()
	require.True(t, ok)
	require.Equal(t, "gen-1", gotMeta.SnapshotID)
	require.Equal(t, []string{"gen-2"}, sync.Retained())

	require.ErrorIs(t, sync.Rollback("does-not-exist"), snapshot.ErrNotRetained)
}
