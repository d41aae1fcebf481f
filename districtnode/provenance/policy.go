package provenance

import "time"

// RetryPolicy is how long to wait before a blocked discovery attempt
// is worth retrying.
type RetryPolicy int

const (
	// PolicyDefault is used for blocker codes with no explicit entry
	// in retryPolicies; a code this system has never seen classified
	// gets a conservative daily retry rather than being retried every
	// poll or never retried at all.
	PolicyDefault RetryPolicy = iota
	PolicyNever
	PolicyHourly
	PolicyDaily
	PolicyQuarterly
)

// retryPolicies classifies known blocker codes. Entries here are
// judgment calls about how often the underlying obstacle plausibly
// changes: a governance structure (at-large-governance) or a
// geometry mismatch no tier can resolve (multi-county-unsupported)
// doesn't change on any schedule worth polling for, a missing portal
// page can come back within hours, a 404 might be a deploy blip worth
// checking daily, and a paywall or legal block is worth revisiting
// quarterly in case terms change.
var retryPolicies = map[string]RetryPolicy{
	"at-large-governance":      PolicyNever,
	"multi-county-unsupported": PolicyNever,
	"no-district-concept":      PolicyNever,
	"portal-down":              PolicyHourly,
	"portal-404":               PolicyDaily,
	"rate-limited":             PolicyHourly,
	"paywalled":                PolicyQuarterly,
	"requires-foia":            PolicyQuarterly,
}

func policyFor(code string) RetryPolicy {
	if p, ok := retryPolicies[code]; ok {
		return p
	}
	return PolicyDefault
}

// policyInterval returns the minimum elapsed time before a blocked
// entry with the given code is a retry candidate.
func policyInterval(code string) time.Duration {
	switch policyFor(code) {
	case PolicyNever:
		return -1 // sentinel: never eligible, checked explicitly by callers
	case PolicyHourly:
		return time.Hour
	case PolicyDaily:
		return 24 * time.Hour
	case PolicyQuarterly:
		return 90 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
