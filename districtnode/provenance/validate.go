package provenance

import "github.com/pkg/errors"

// ErrInvalidEntry is returned by Validate when an entry fails any of
// the synchronous admission checks. It is the one validation error
// type the staging API returns; it never gets written to disk.
var ErrInvalidEntry = errors.New("provenance: invalid entry")

// Validate runs the synchronous per-entry checks the append path
// applies before an entry is ever written to a staging file. A
// rejected entry is never staged, merged, or queryable.
func Validate(e Entry) error {
	if e.Key == "" {
		return errors.Wrap(ErrInvalidEntry, "missing key")
	}
	if e.AgentID == "" {
		return errors.Wrap(ErrInvalidEntry, "missing agent id")
	}
	if e.Tier < 0 || e.Tier > 4 {
		return errors.Wrapf(ErrInvalidEntry, "tier %d out of range", e.Tier)
	}
	if e.Confidence < 0 || e.Confidence > 100 {
		return errors.Wrapf(ErrInvalidEntry, "confidence %d out of range", e.Confidence)
	}
	if e.Authority < 0 || e.Authority > 5 {
		return errors.Wrapf(ErrInvalidEntry, "authority %d out of range", e.Authority)
	}
	if len(e.Reasoning) == 0 {
		return errors.Wrap(ErrInvalidEntry, "empty reasoning")
	}
	if e.Timestamp.IsZero() {
		return errors.Wrap(ErrInvalidEntry, "unparseable or missing timestamp")
	}
	return nil
}
