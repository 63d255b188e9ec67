package content

import (
	"sync"
	"time"
)

type cacheKey struct {
	modTime time.Time
	size    int64
}

type cacheEntry struct {
	key    cacheKey
	record PostRecord
}

// RenderCache memoizes rendered records per slug. An entry is reused only
// while the file's modification time and size are unchanged.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	hits    uint64
	misses  uint64
}

// NewRenderCache returns an empty cache.
func NewRenderCache() *RenderCache {
	return &RenderCache{entries: make(map[string]cacheEntry)}
}

func (c *RenderCache) get(slug string, key cacheKey) (PostRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[slug]
	if !ok || !e.key.modTime.Equal(key.modTime) || e.key.size != key.size {
		c.misses++
		return PostRecord{}, false
	}
	c.hits++
	return cloneRecord(e.record), true
}

func (c *RenderCache) put(slug string, key cacheKey, rec PostRecord) {
	c.mu.Lock()
	c.entries[slug] = cacheEntry{key: key, record: cloneRecord(rec)}
	c.mu.Unlock()
}

// Invalidate drops the entry for slug.
func (c *RenderCache) Invalidate(slug string) {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
}

// Retain drops every entry whose slug is not in slugs.
func (c *RenderCache) Retain(slugs []string) {
	keep := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		keep[s] = struct{}{}
	}
	c.mu.Lock()
	for slug := range c.entries {
		if _, ok := keep[slug]; !ok {
			delete(c.entries, slug)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of cached records.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *RenderCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// cloneRecord deep-copies the metadata so callers cannot mutate cached
// state. Metadata only holds the shapes normalizeValue produces.
func cloneRecord(rec PostRecord) PostRecord {
	meta := make(PostMetadata, len(rec.Metadata))
	for k, v := range rec.Metadata {
		meta[k] = cloneValue(v)
	}
	rec.Metadata = meta
	return rec
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
