package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/districtproof/districtnode/shared/bytesutil"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// manifestEntry is the catalog's wire shape for one published snapshot.
// No ecosystem catalog-protocol client appears anywhere in the
// retrieved corpus (IPNS records, pinning-service APIs, and flat
// manifest files are all bespoke per deployment), so this is a plain
// JSON array fetched over net/http rather than an invented dependency.
type manifestEntry struct {
	SnapshotID    string   `json:"snapshotId"`
	CID           string   `json:"cid"`
	MerkleRoot    string   `json:"merkleRoot"`
	Timestamp     int64    `json:"timestamp"`
	DistrictCount int      `json:"districtCount"`
	Version       string   `json:"version"`
	Countries     []string `json:"countries"`
	Subdivisions  []string `json:"subdivisions"`
}

// HTTPCatalog polls a flat JSON manifest over HTTP(S) for newly
// published snapshots.
type HTTPCatalog struct {
	url    string
	client *http.Client
}

// NewHTTPCatalog builds a Catalog that polls url for a JSON array of
// manifestEntry records.
func NewHTTPCatalog(url string) *HTTPCatalog {
	return &HTTPCatalog{url: url, client: &http.Client{Timeout: 30 * time.Second}}
}

// Poll fetches and parses the manifest. A malformed individual entry
// is logged and skipped rather than failing the whole poll — the same
// discipline the provenance query path and the teacher's log
// processing apply to partial corruption.
func (c *HTTPCatalog) Poll(ctx context.Context) ([]Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: building catalog request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: fetching catalog manifest")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("snapshot: catalog returned status %d", resp.StatusCode)
	}

	var entries []manifestEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "snapshot: decoding catalog manifest")
	}

	metas := make([]Meta, 0, len(entries))
	for _, e := range entries {
		m, err := e.toMeta()
		if err != nil {
			logrus.WithField("prefix", "snapshot").WithError(err).
				WithField("snapshotId", e.SnapshotID).Warn("Skipping malformed catalog entry")
			continue
		}
		metas = append(metas, m)
	}
	return metas, nil
}

func (e manifestEntry) toMeta() (Meta, error) {
	parsed, err := cid.Parse(e.CID)
	if err != nil {
		return Meta{}, errors.Wrap(err, "parsing CID")
	}
	rootBytes, err := bytesutil.HexDecode(e.MerkleRoot)
	if err != nil {
		return Meta{}, errors.Wrap(err, "decoding merkle root")
	}
	return Meta{
		SnapshotID:    e.SnapshotID,
		IPFSCID:       parsed,
		MerkleRoot:    bytesutil.ToBytes32(rootBytes),
		Timestamp:     e.Timestamp,
		DistrictCount: e.DistrictCount,
		Version:       e.Version,
		Coverage:      Coverage{Countries: e.Countries, Subdivisions: e.Subdivisions},
	}, nil
}
