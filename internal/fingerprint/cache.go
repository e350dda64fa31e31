package fingerprint

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// KeyCache memoizes Fingerprint keys behind an LRU. Every detection
// pass re-derives the same name keys over the full contact set, so
// the analyze and flag paths share one cache across detectors.
type KeyCache struct {
	cache  *lru.Cache[string, string]
	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewKeyCache creates a key cache holding up to size entries.
func NewKeyCache(size int) (*KeyCache, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating key cache: %w", err)
	}
	return &KeyCache{cache: cache}, nil
}

// Fingerprint returns the canonical key of s, computing it on a miss.
func (c *KeyCache) Fingerprint(s string) string {
	if key, ok := c.cache.Get(s); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return key
	}

	key := Fingerprint(s)
	c.cache.Add(s, key)

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return key
}

// Stats reports cache effectiveness for debug logging.
func (c *KeyCache) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.cache.Len()
}
