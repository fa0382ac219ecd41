// ABOUTME: In-memory render cache that wraps an MDX-to-HTML function with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry with eviction on miss, concurrent access, and manual cache clearing.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"html/template"
	"sync"
	"time"
)

// RenderFunc is the signature for a source-to-HTML function that the cache wraps.
type RenderFunc func(ctx context.Context, src string) (template.HTML, error)

// cacheEntry holds a single cached render result with its creation timestamp.
type cacheEntry struct {
	html      template.HTML
	createdAt time.Time
}

// Cache wraps a rendering function with an in-memory cache.
// Cache keys are derived from the sha256 hash of the source text.
// Entries expire after the configured TTL; a zero TTL disables caching.
type Cache struct {
	renderFn RenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewCache creates a Cache wrapping the given rendering function.
func NewCache(renderFn RenderFunc, ttl time.Duration) *Cache {
	return &Cache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render returns the HTML for src, from cache when available and not expired.
// Errors are never cached.
func (c *Cache) Render(ctx context.Context, src string) (template.HTML, error) {
	if c.ttl <= 0 {
		return c.renderFn(ctx, src)
	}

	key := cacheKey(src)

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if time.Since(entry.createdAt) < c.ttl {
			html := entry.html
			c.mu.RUnlock()
			return html, nil
		}
	}
	c.mu.RUnlock()

	html, err := c.renderFn(ctx, src)
	if err != nil {
		return "", err
	}

	now := time.Now()
	c.mu.Lock()
	c.sweep(now)
	c.entries[key] = &cacheEntry{
		html:      html,
		createdAt: now,
	}
	c.mu.Unlock()

	return html, nil
}

// sweep drops expired entries. c.mu must be held for writing.
func (c *Cache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries in the cache. Expired entries are
// dropped on the next miss, so they may still be counted until then.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func cacheKey(src string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(src)))
}
