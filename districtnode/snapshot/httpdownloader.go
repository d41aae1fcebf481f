package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// HTTPDownloader fetches a snapshot bundle's raw bytes from an IPFS
// HTTP gateway by content address. Like HTTPCatalog, this is plain
// net/http rather than an IPFS client library — no such library
// appears in the retrieved corpus, and the gateway's read path is
// just "GET /ipfs/<cid>".
type HTTPDownloader struct {
	gatewayURL string
	client     *http.Client
}

// NewHTTPDownloader builds a Downloader against the given IPFS gateway
// base URL (e.g. "https://ipfs.io").
func NewHTTPDownloader(gatewayURL string) *HTTPDownloader {
	return &HTTPDownloader{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		client:     &http.Client{Timeout: 2 * time.Minute},
	}
}

// Fetch downloads the bundle for m's content address. stagingDir is
// unused by this transport (the gateway serves content directly; there
// is no intermediate local staging file to manage), but remains part
// of the Downloader contract for transports that do need one (a local
// IPFS node writing into a staging area, for instance).
func (d *HTTPDownloader) Fetch(ctx context.Context, m Meta, stagingDir string) ([]byte, error) {
	url := fmt.Sprintf("%s/ipfs/%s", d.gatewayURL, m.IPFSCID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: building bundle request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ErrDownloadCanceled, ctx.Err().Error())
		}
		return nil, errors.Wrap(err, "snapshot: fetching bundle")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("snapshot: gateway returned status %d for %s", resp.StatusCode, m.SnapshotID)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: reading bundle body")
	}
	return raw, nil
}
