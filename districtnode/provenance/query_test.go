package provenance_test

import (
	"testing"
	"time"

	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/stretchr/testify/require"
)

func TestQueryFindsEntryStillInStaging(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))

	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{Tier: intPtr(1), MinConfidence: 80})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestQueryRoundTripsOptionalFields(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	pop := 345678
	e := validEntry()
	e.Name = "Honolulu City Council District 1"
	e.State = "HI"
	e.Population = &pop
	e.Source = "census-bulk"
	e.URL = "https://example.gov/boundary.geojson"
	e.Quality = &provenance.Quality{Valid: true, Topology: true, ResponseMS: 412, DataVintage: "2024"}
	require.NoError(t, provenance.Append(stagingDir, e))

	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{Tier: intPtr(1), MinConfidence: 80})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, e.Name, results[0].Name)
	require.Equal(t, pop, *results[0].Population)
	require.NotNil(t, results[0].Quality)
	require.True(t, results[0].Quality.Topology)
}

func TestQueryFiltersComposeAsAnd(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))

	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{Tier: intPtr(1), MinConfidence: 90})
	require.NoError(t, err)
	require.Len(t, results, 0, "confidence 85 should not satisfy MinConfidence 90")
}

func TestQueryBlockedFilterMatchesExactCode(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()

	blocked := validEntry()
	code := "portal-404"
	blocked.Blocked = &code
	blocked.AgentID = "agt-blocked"
	require.NoError(t, provenance.Append(stagingDir, blocked))

	unblocked := validEntry()
	unblocked.AgentID = "agt-clean"
	require.NoError(t, provenance.Append(stagingDir, unblocked))

	exact := "portal-404"
	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{BlockerCode: &exact})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "agt-blocked", results[0].AgentID)
}

func TestQueryDateRangeExcludesOutsideEntries(t *testing.T) {
	stagingDir, shardRoot := t.TempDir(), t.TempDir()
	require.NoError(t, provenance.Append(stagingDir, validEntry()))

	results, err := provenance.Query(shardRoot, stagingDir, provenance.Filter{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, results, 0)
}

func intPtr(i int) *int { return &i }
