package provenance

import (
	"sort"
	"time"
)

// Stats is the single-pass summary over a set of entries.
type Stats struct {
	ByTier      map[int]int
	ByAuthority map[int]int
	ByBlocker   map[string]int
	AvgConfidence float64
	Count       int
}

// ComputeStats folds entries into Stats in one pass.
func ComputeStats(entries []Entry) Stats {
	s := Stats{
		ByTier:      make(map[int]int),
		ByAuthority: make(map[int]int),
		ByBlocker:   make(map[string]int),
	}
	var confSum int
	for _, e := range entries {
		s.ByTier[e.Tier]++
		s.ByAuthority[e.Authority]++
		if e.IsBlocked() {
			s.ByBlocker[*e.Blocked]++
		}
		confSum += e.Confidence
		s.Count++
	}
	if s.Count > 0 {
		s.AvgConfidence = float64(confSum) / float64(s.Count)
	}
	return s
}

// LatestPerKey folds entries to the most recent entry per Key.
func LatestPerKey(entries []Entry) map[string]Entry {
	out := make(map[string]Entry)
	for _, e := range entries {
		cur, ok := out[e.Key]
		if !ok || e.Timestamp.After(cur.Timestamp) {
			out[e.Key] = e
		}
	}
	return out
}

// RetryCandidates returns the latest-per-key entries that are blocked,
// whose blocker's policy permits a retry, and whose last attempt is
// old enough per that policy. Results are sorted by priority:
// population descending first (a stalled district covering more
// people matters more), then tier descending as the tiebreak (a
// stalled coarse-tier record has more tier-upgrade potential left than
// one already near the finest tier).
func RetryCandidates(now time.Time, entries []Entry) []Entry {
	latest := LatestPerKey(entries)
	var out []Entry
	for _, e := range latest {
		if !e.IsBlocked() {
			continue
		}
		if policyFor(*e.Blocked) == PolicyNever {
			continue
		}
		if now.Sub(e.Timestamp) < policyInterval(*e.Blocked) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].populationOrZero() != out[j].populationOrZero() {
			return out[i].populationOrZero() > out[j].populationOrZero()
		}
		return out[i].Tier > out[j].Tier
	})
	return out
}

// FreshnessBucket classifies how stale an unblocked entry's last
// successful attempt is.
type FreshnessBucket int

const (
	Fresh FreshnessBucket = iota
	Aging
	Stale
	Critical
)

func (b FreshnessBucket) String() string {
	switch b {
	case Fresh:
		return "fresh"
	case Aging:
		return "aging"
	case Stale:
		return "stale"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Age thresholds for freshness bucketing: fresh under 90 days, aging
// 90-180, stale 180-365, critical past a full year without a
// successful attempt.
const (
	agingAfter    = 90 * 24 * time.Hour
	staleAfter    = 180 * 24 * time.Hour
	criticalAfter = 365 * 24 * time.Hour
)

func bucketFor(age time.Duration) FreshnessBucket {
	switch {
	case age >= criticalAfter:
		return Critical
	case age >= staleAfter:
		return Stale
	case age >= agingAfter:
		return Aging
	default:
		return Fresh
	}
}

// FreshnessEntry pairs a key's latest unblocked entry with its
// computed bucket.
type FreshnessEntry struct {
	Entry  Entry
	Bucket FreshnessBucket
}

// FreshnessQueue returns the latest-per-key entries that are not
// blocked, bucketed by age, sorted most-critical first.
func FreshnessQueue(now time.Time, entries []Entry) []FreshnessEntry {
	latest := LatestPerKey(entries)
	var out []FreshnessEntry
	for _, e := range latest {
		if e.IsBlocked() {
			continue
		}
		out = append(out, FreshnessEntry{Entry: e, Bucket: bucketFor(now.Sub(e.Timestamp))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket > out[j].Bucket
		}
		return out[i].Entry.Timestamp.Before(out[j].Entry.Timestamp)
	})
	return out
}
