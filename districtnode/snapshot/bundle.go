package snapshot

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// Downloader fetches a snapshot bundle's raw bytes into the given
// staging directory and returns them for validation. Implementations
// own the transport (IPFS, HTTP mirror, local filesystem staging
// area); Fetch must respect ctx cancellation and leave no partial
// files behind on a canceled download.
type Downloader interface {
	Fetch(ctx context.Context, m Meta, stagingDir string) ([]byte, error)
}

// parseBundle decodes a downloaded bundle's raw bytes into district
// records. The wire format is a JSON array, matching the store's own
// on-disk district encoding (see districtnode/boundary/encoding.go).
func parseBundle(raw []byte) ([]*boundary.District, error) {
	var districts []*boundary.District
	if err := json.Unmarshal(raw, &districts); err != nil {
		return nil, errors.Wrap(err, "snapshot: decoding bundle")
	}
	return districts, nil
}

// verifyContentAddress recomputes raw's multihash digest using the
// same hash function and length recorded in m's CID and compares it
// byte for byte, so a bundle served by an untrusted mirror can't
// silently substitute different bytes than the ones the catalog
// advertised.
func verifyContentAddress(raw []byte, m Meta) error {
	want := m.IPFSCID.Hash()
	decoded, err := multihash.Decode(want)
	if err != nil {
		return errors.Wrap(err, "snapshot: decoding CID multihash")
	}
	got, err := multihash.Sum(raw, decoded.Code, decoded.Length)
	if err != nil {
		return errors.Wrap(err, "snapshot: hashing bundle content")
	}
	if !bytes.Equal(got, want) {
		return errors.Wrapf(ErrValidationFailed, "content hash mismatch for %s", m.SnapshotID)
	}
	return nil
}
