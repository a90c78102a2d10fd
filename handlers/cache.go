// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultCacheTTL = 5 * time.Minute

// ReadCache holds GET responses shared by the household and person handlers.
// Writes bump a generation; a fill started before the bump is dropped so a
// slow reader cannot reinsert a row that a concurrent write replaced.
type ReadCache struct {
	mu    sync.Mutex
	gen   uint64
	store *cache.Cache
}

// NewReadCache creates a cache whose entries live for ttl (5m if ttl <= 0)
func NewReadCache(ttl time.Duration) *ReadCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ReadCache{store: cache.New(ttl, 2*ttl)}
}

// Get returns a cached value and the generation to pass to Fill on a miss
func (c *ReadCache) Get(key string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, found := c.store.Get(key)
	return v, c.gen, found
}

// Fill stores v unless a write has happened since gen was read
func (c *ReadCache) Fill(gen uint64, key string, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.store.SetDefault(key, v)
	return true
}

// Invalidate drops every entry and rejects in-flight fills
func (c *ReadCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.store.Flush()
}

// cacheKey joins a prefix and parameters into a cache key
func cacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
