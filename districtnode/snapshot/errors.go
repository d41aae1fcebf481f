package snapshot

import "github.com/pkg/errors"

var (
	// ErrAlreadyActive is returned when Activate is called for the
	// snapshot ID that is already serving; the call changes nothing.
	ErrAlreadyActive = errors.New("snapshot already active")
	// ErrNotRetained is returned when a rollback targets a snapshot ID
	// that isn't sitting in the retained generations list.
	ErrNotRetained = errors.New("snapshot not in retained set")
	// ErrValidationFailed wraps any failure to confirm downloaded bundle
	// content matches its declared content address or Merkle root.
	ErrValidationFailed = errors.New("snapshot validation failed")
	// ErrDownloadCanceled is returned when a download's context is
	// canceled before the staging directory is fully populated.
	ErrDownloadCanceled = errors.New("snapshot download canceled")
	// ErrNoActiveSnapshot is returned by ActiveStore/ActiveMeta-adjacent
	// callers before the first snapshot has validated and activated —
	// the cold-start SnapshotUnavailable case the HTTP boundary reports.
	ErrNoActiveSnapshot = errors.New("snapshot: no active snapshot")
)
