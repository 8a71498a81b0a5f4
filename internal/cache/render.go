// Package cache keeps rendered markup so re-drawing a result does not run the
// markdown renderer again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Stats reports cache effectiveness.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// RenderCache maps (style, width, source text) to rendered output. Entries
// expire after the configured TTL and the least recently used entry is
// evicted once the capacity is reached.
type RenderCache struct {
	lru     *expirable.LRU[string, string]
	enabled bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewRenderCache creates a cache holding up to capacity entries for ttl.
// A non-positive capacity disables caching.
func NewRenderCache(capacity int, ttl time.Duration) *RenderCache {
	if capacity <= 0 {
		return &RenderCache{}
	}
	return &RenderCache{
		lru:     expirable.NewLRU[string, string](capacity, nil, ttl),
		enabled: true,
	}
}

// Key builds the cache key for rendering text with style at width.
func Key(style string, width int, text string) string {
	h := sha256.New()
	h.Write([]byte(style))
	h.Write([]byte{0, byte(width >> 8), byte(width)})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached rendering for key.
func (c *RenderCache) Get(key string) (string, bool) {
	if !c.enabled {
		return "", false
	}
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores a rendering.
func (c *RenderCache) Set(key, rendered string) {
	if !c.enabled {
		return
	}
	c.lru.Add(key, rendered)
}

// GetOrRender returns the cached value for key or calls render and caches a
// successful result.
func (c *RenderCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	out, err := render()
	if err != nil {
		return "", err
	}
	c.Set(key, out)
	return out, nil
}

// Purge drops every entry, e.g. after a style change.
func (c *RenderCache) Purge() {
	if c.enabled {
		c.lru.Purge()
	}
}

// Stats returns hit/miss counters and the current size.
func (c *RenderCache) Stats() Stats {
	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if c.enabled {
		s.Size = c.lru.Len()
	}
	return s
}
