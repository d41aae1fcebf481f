package provenance

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Merger periodically consolidates staging files into compressed
// month/prefix shards. Only one merge cycle runs at a time: Run skips
// its cycle entirely if the previous one is still in flight.
type Merger struct {
	StagingDir string
	ShardRoot  string
	Quiescence time.Duration

	running int32
}

// Run lists staging files older than m.Quiescence, groups their
// entries by target shard, appends each shard's batch, and only then
// deletes the staging files that contributed to it. If any shard
// append fails, every staging file involved in this cycle is left in
// place so the next cycle retries the same entries.
func (m *Merger) Run() error {
	if !m.tryEnter() {
		return nil
	}
	defer m.exit()

	entries, err := os.ReadDir(m.StagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "provenance: listing staging directory")
	}

	type staged struct {
		path string
		rows []Entry
	}
	var ready []staged
	byShard := make(map[string][]Entry)

	now := time.Now()
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(m.StagingDir, de.Name())
		info, err := de.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < m.Quiescence {
			continue
		}
		rows, err := readNDJSON(path)
		if err != nil {
			mergeSkippedFiles.Inc()
			continue
		}
		ready = append(ready, staged{path: path, rows: rows})
		for _, e := range rows {
			target := shardPath(m.ShardRoot, e)
			byShard[target] = append(byShard[target], e)
		}
	}
	if len(ready) == 0 {
		return nil
	}

	for target, rows := range byShard {
		if err := appendShard(target, rows); err != nil {
			mergeFailures.Inc()
			return errors.Wrapf(err, "provenance: appending shard %s", target)
		}
	}

	for _, s := range ready {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "provenance: removing staged file %s", s.path)
		}
	}
	mergeCycles.Inc()
	return nil
}

func (m *Merger) tryEnter() bool {
	return atomic.CompareAndSwapInt32(&m.running, 0, 1)
}

func (m *Merger) exit() {
	atomic.StoreInt32(&m.running, 0)
}

func readNDJSON(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			malformedLinesSkipped.Inc()
			continue
		}
		rows = append(rows, e)
	}
	return rows, sc.Err()
}

func appendShard(path string, rows []Entry) error {
	lock := lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// A new gzip.Writer per append call emits an independent gzip
	// member; concatenated gzip members decode transparently under
	// gzip.Reader's default multistream mode, so the shard never needs
	// a decompress-rewrite-recompress cycle to grow.
	gz := gzip.NewWriter(f)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	for _, e := range rows {
		line, err := json.Marshal(e)
		if err != nil {
			gz.Close()
			return err
		}
		if _, err := gz.Write(append(line, '\n')); err != nil {
			gz.Close()
			return err
		}
	}
	return gz.Close()
}
