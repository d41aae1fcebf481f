package pip

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/pkg/errors"
)

// quantize rounds a coordinate to six decimal places (~11cm of
// precision at the equator), the cache key granularity the hot path
// guards.
func quantize(v float64) float64 {
	const scale = 1e6
	return float64(int64(v*scale+sign(v)*0.5)) / scale
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func cacheKey(pt boundary.Point) string {
	return fmt.Sprintf("%.6f,%.6f", quantize(pt.Lat), quantize(pt.Lon))
}

// resultCache is a TTL-bounded LRU of quantized-point -> resolved
// district set, invalidated wholesale on every snapshot swap.
type resultCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func newResultCache(maxEntries int64, ttlSeconds int64) (*resultCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "pip: constructing result cache")
	}
	return &resultCache{cache: c, ttl: time.Duration(ttlSeconds) * time.Second}, nil
}

func (rc *resultCache) get(pt boundary.Point) ([]*boundary.District, bool) {
	v, ok := rc.cache.Get(cacheKey(pt))
	if !ok {
		resultCacheMiss.Inc()
		return nil, false
	}
	resultCacheHit.Inc()
	return v.([]*boundary.District), true
}

func (rc *resultCache) set(pt boundary.Point, matches []*boundary.District) {
	rc.cache.SetWithTTL(cacheKey(pt), matches, 1, rc.ttl)
}

func (rc *resultCache) clear() {
	rc.cache.Clear()
}
