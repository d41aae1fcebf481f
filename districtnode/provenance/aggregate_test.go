package provenance_test

import (
	"testing"
	"time"

	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/stretchr/testify/require"
)

func blockedEntry(code string, age time.Duration, now time.Time) provenance.Entry {
	e := validEntry()
	e.Blocked = &code
	e.Timestamp = now.Add(-age)
	return e
}

func TestComputeStatsSinglePass(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	entries := []provenance.Entry{
		validEntry(),
		blockedEntry("portal-404", 48*time.Hour, now),
	}
	stats := provenance.ComputeStats(entries)
	require.Equal(t, 2, stats.Count)
	require.Equal(t, 1, stats.ByBlocker["portal-404"])
	require.InDelta(t, 85.0, stats.AvgConfidence, 0.01)
}

func TestLatestPerKeyKeepsNewestTimestamp(t *testing.T) {
	older := validEntry()
	older.Timestamp = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := validEntry()
	newer.Timestamp = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer.Confidence = 50

	latest := provenance.LatestPerKey([]provenance.Entry{older, newer})
	require.Equal(t, 50, latest[newer.Key].Confidence)
}

func TestRetryCandidatesExcludesNeverPolicy(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	neverCode := blockedEntry("at-large-governance", 7*24*time.Hour, now)
	neverCode.Key = "0100000"
	dailyCode := blockedEntry("portal-404", 7*24*time.Hour, now)
	dailyCode.Key = "0200000"

	candidates := provenance.RetryCandidates(now, []provenance.Entry{neverCode, dailyCode})
	keys := make(map[string]bool)
	for _, c := range candidates {
		keys[c.Key] = true
	}
	require.False(t, keys["0100000"], "NEVER policy must never be a retry candidate")
	require.True(t, keys["0200000"], "DAILY policy elapsed 7 days must be a retry candidate")
}

func TestRetryCandidatesExcludesMultiCountyUnsupported(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	neverCode := blockedEntry("multi-county-unsupported", 400*24*time.Hour, now)
	neverCode.Key = "0700000"

	candidates := provenance.RetryCandidates(now, []provenance.Entry{neverCode})
	require.Len(t, candidates, 0, "multi-county-unsupported is a permanent blocker, never a retry candidate")
}

func TestRetryCandidatesRespectsElapsedInterval(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tooSoon := blockedEntry("portal-404", time.Hour, now)
	tooSoon.Key = "0300000"

	candidates := provenance.RetryCandidates(now, []provenance.Entry{tooSoon})
	require.Len(t, candidates, 0)
}

func TestRetryCandidatesSortsByPopulationThenTier(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	small := 1200
	large := 900000

	smallPop := blockedEntry("portal-404", 7*24*time.Hour, now)
	smallPop.Key = "0400000"
	smallPop.Population = &small

	largePop := blockedEntry("portal-404", 7*24*time.Hour, now)
	largePop.Key = "0500000"
	largePop.Population = &large

	candidates := provenance.RetryCandidates(now, []provenance.Entry{smallPop, largePop})
	require.Len(t, candidates, 2)
	require.Equal(t, "0500000", candidates[0].Key, "higher population retries first")
	require.Equal(t, "0400000", candidates[1].Key)
}

func TestFreshnessQueueBucketsByAge(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	fresh := validEntry()
	fresh.Key = "fresh-key"
	fresh.Timestamp = now.Add(-24 * time.Hour)

	critical := validEntry()
	critical.Key = "critical-key"
	critical.Timestamp = now.Add(-400 * 24 * time.Hour)

	queue := provenance.FreshnessQueue(now, []provenance.Entry{fresh, critical})
	require.Len(t, queue, 2)
	require.Equal(t, provenance.Critical, queue[0].Bucket, "most critical entries sort first")
	require.Equal(t, provenance.Fresh, queue[1].Bucket)
}
