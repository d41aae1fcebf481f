package provenance

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "provenance")

// Filter selects a subset of entries; zero-valued fields impose no
// constraint. Predicates compose as AND.
type Filter struct {
	Tier          *int
	MinConfidence int
	FIPSPrefix    string
	BlockerCode   *string // non-nil "" means "blocked, any code"; non-nil non-empty means exact code
	OnlyUnblocked bool
	From, To      time.Time
}

func (f Filter) matches(e Entry) bool {
	if f.Tier != nil && e.Tier != *f.Tier {
		return false
	}
	if e.Confidence < f.MinConfidence {
		return false
	}
	if f.FIPSPrefix != "" && !strings.HasPrefix(e.Key, f.FIPSPrefix) {
		return false
	}
	if f.OnlyUnblocked && e.IsBlocked() {
		return false
	}
	if f.BlockerCode != nil {
		if !e.IsBlocked() {
			return false
		}
		if *f.BlockerCode != "" && *e.Blocked != *f.BlockerCode {
			return false
		}
	}
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	return true
}

// Query streams every month-shard under shardRoot in f's date range,
// plus every file in the staging directory, applying f and collecting
// matches. A malformed NDJSON line or a gzip error partway through a
// shard is logged and skipped; it never aborts the scan of the rest of
// that shard or any other.
func Query(shardRoot, stagingDir string, f Filter) ([]Entry, error) {
	var out []Entry

	for _, month := range monthsInRange(shardRoot, f.From, f.To) {
		dir := filepath.Join(shardRoot, month)
		shardFiles, err := filepath.Glob(filepath.Join(dir, "discovery-log-*.ndjson.gz"))
		if err != nil {
			continue
		}
		for _, path := range shardFiles {
			entries, err := readShard(path)
			if err != nil {
				log.WithError(err).WithField("shard", path).Warn("shard read ended early")
			}
			for _, e := range entries {
				queryEntriesScanned.Inc()
				if f.matches(e) {
					out = append(out, e)
				}
			}
		}
	}

	staged, err := os.ReadDir(stagingDir)
	if err == nil {
		for _, de := range staged {
			if de.IsDir() {
				continue
			}
			rows, err := readNDJSON(filepath.Join(stagingDir, de.Name()))
			if err != nil {
				continue
			}
			for _, e := range rows {
				queryEntriesScanned.Inc()
				if f.matches(e) {
					out = append(out, e)
				}
			}
		}
	}
	return out, nil
}

// readShard decompresses every gzip member in path (merge.go appends
// one member per batch) and parses each NDJSON line. It returns
// whatever entries it could read plus a non-nil error if the stream
// ended with something other than a clean EOF, so a corrupt trailer
// after the last good frame doesn't lose already-read entries.
//
// Takes path's shard lock for the duration of the read so a merge
// cycle's append never interleaves with this decode; appendShard takes
// the same lock for the duration of its write.
func readShard(path string) ([]Entry, error) {
	lock := lockFor(path)
	lock.RLock()
	defer lock.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		shardReadErrors.Inc()
		return nil, err
	}
	gz.Multistream(true)
	defer gz.Close()

	var rows []Entry
	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			log.WithError(err).WithField("shard", path).Warn("skipping malformed shard line")
			malformedLinesSkipped.Inc()
			continue
		}
		rows = append(rows, e)
	}
	if err := sc.Err(); err != nil {
		shardReadErrors.Inc()
		return rows, err
	}
	return rows, nil
}

// monthsInRange lists the YYYY-MM shard directories to scan. With no
// date bound on one side, it falls back to whatever month directories
// actually exist under shardRoot rather than guessing an unbounded
// range to generate.
func monthsInRange(shardRoot string, from, to time.Time) []string {
	if from.IsZero() || to.IsZero() {
		des, err := os.ReadDir(shardRoot)
		if err != nil {
			return nil
		}
		var months []string
		for _, de := range des {
			if de.IsDir() {
				months = append(months, de.Name())
			}
		}
		return months
	}
	var months []string
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
