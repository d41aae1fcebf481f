package provenance

import (
	"fmt"
	"path/filepath"
	"sync"
)

// shardPath returns the month/prefix shard an entry belongs to,
// rooted under root. First-two-digits bucketing keeps any one shard
// from growing unbounded as the key space grows, without needing a
// central allocator to decide boundaries up front.
func shardPath(root string, e Entry) string {
	month := e.Timestamp.UTC().Format("2006-01")
	prefix := e.Key
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	for len(prefix) < 2 {
		prefix += "0"
	}
	return filepath.Join(root, month, fmt.Sprintf("discovery-log-%s.ndjson.gz", prefix))
}

// shardLocks guards concurrent access to a single shard file: the
// merge worker holds a write lock while appending a batch; query reads
// hold a read lock so they never observe a half-written gzip member.
// Shards across months/prefixes are independent and never contend.
var shardLocks sync.Map // map[string]*sync.RWMutex

func lockFor(path string) *sync.RWMutex {
	v, _ := shardLocks.LoadOrStore(path, &sync.RWMutex{})
	return v.(*sync.RWMutex)
}
