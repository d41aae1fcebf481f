package provenance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const stagingExt = ".ndjson"

// Append validates e and, if it passes, writes it to its own uniquely
// named file in stagingDir. Two agents (or two calls from the same
// agent) never contend for a file handle: the filename embeds the
// agent id and a nanosecond timestamp, so concurrent writers cannot
// collide without needing a lock.
func Append(stagingDir string, e Entry) error {
	if err := Validate(e); err != nil {
		return err
	}
	if err := os.MkdirAll(stagingDir, 0700); err != nil {
		return errors.Wrap(err, "provenance: creating staging dir")
	}

	line, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "provenance: encoding entry")
	}
	line = append(line, '\n')

	name := fmt.Sprintf("%s-%d%s", e.AgentID, time.Now().UnixNano(), stagingExt)
	path := filepath.Join(stagingDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(err, "provenance: creating staging file")
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return errors.Wrap(err, "provenance: writing staging file")
	}
	return nil
}
