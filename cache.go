// cache.go -- optional bounded read-through cache for kissdb
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package kissdb

import (
	"fmt"

	lru "github.com/opencoff/golang-lru"
)

// readCache is a thin wrapper around an ARC cache of key -> value. It is
// a pure accelerator in front of Get: every Put that reaches a
// successful return also seeds or overwrites the cache entry for that
// key, so the cache can never be observed holding a value older than
// the last completed Put.
//
// A nil *readCache is valid and behaves as "no cache" -- every method
// is a no-op / always-miss.
type readCache struct {
	arc *lru.ARCCache
}

// newReadCache returns nil (no cache) when size <= 0.
func newReadCache(size int) (*readCache, error) {
	if size <= 0 {
		return nil, nil
	}

	arc, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("kissdb: create read cache: %w", err)
	}

	return &readCache{arc: arc}, nil
}

func (c *readCache) get(key []byte) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	v, ok := c.arc.Get(string(key))
	if !ok {
		return nil, false
	}

	return v.([]byte), true
}

// put seeds or overwrites the cache entry for key. The value is copied
// so later callers mutating their buffer can't corrupt the cache.
func (c *readCache) put(key, value []byte) {
	if c == nil {
		return
	}

	cp := append([]byte(nil), value...)
	c.arc.Add(string(key), cp)
}

func (c *readCache) purge() {
	if c == nil {
		return
	}

	c.arc.Purge()
}

func (c *readCache) len() int {
	if c == nil {
		return 0
	}

	return c.arc.Len()
}
