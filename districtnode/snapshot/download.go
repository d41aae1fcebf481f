package snapshot

import (
	"context"
	"path/filepath"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/pkg/errors"
)

// acquire downloads, validates, and loads one snapshot generation into
// a fresh boundary store rooted under generationsDir/<snapshotID>. It
// returns a Handle in either Validated or Rejected state; Rejected
// handles carry no usable store and must not be swapped in.
//
// A canceled ctx during Fetch unwinds without leaving the generation
// directory behind: the caller only learns the directory of a
// generation that made it to Validated.
func acquire(ctx context.Context, dl Downloader, generationsDir string, m Meta) (*Handle, *boundary.Store, string, error) {
	stagingDir := filepath.Join(generationsDir, m.SnapshotID)

	raw, err := dl.Fetch(ctx, m, stagingDir)
	if err != nil {
		downloadFailures.Inc()
		if ctx.Err() != nil {
			return nil, nil, "", errors.Wrapf(ErrDownloadCanceled, "snapshot %s", m.SnapshotID)
		}
		return nil, nil, "", errors.Wrapf(err, "snapshot: fetching %s", m.SnapshotID)
	}

	if err := verifyContentAddress(raw, m); err != nil {
		validationFailures.Inc()
		return &Handle{Meta: m, State: Rejected}, nil, "", err
	}

	districts, err := parseBundle(raw)
	if err != nil {
		validationFailures.Inc()
		return &Handle{Meta: m, State: Rejected}, nil, "", err
	}

	store, err := boundary.Open(stagingDir)
	if err != nil {
		return nil, nil, "", errors.Wrapf(err, "snapshot: opening staging store for %s", m.SnapshotID)
	}
	if err := store.Load(m.SnapshotID, districts, m.MerkleRoot); err != nil {
		_ = store.Close()
		validationFailures.Inc()
		return &Handle{Meta: m, State: Rejected}, nil, "", errors.Wrapf(ErrValidationFailed, "%s: %v", m.SnapshotID, err)
	}

	return &Handle{Meta: m, State: Validated}, store, stagingDir, nil
}
