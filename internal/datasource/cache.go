package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/blindbox-companion/internal/metrics"
)

// Cache keeps fetched feeds keyed by location. Entries can be saved to a file
// so a later run within the TTL skips the download.
type Cache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

type cacheEntry struct {
	Header  []string   `json:"header"`
	Rows    [][]string `json:"rows"`
	Expires time.Time  `json:"expires"`
}

// NewCache creates a feed cache. A non-positive ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = 0
	}
	return &Cache{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Enabled reports whether entries are kept at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns the cached feed for location.
func (c *Cache) Get(location string) (*Table, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 {
		if v, found := c.cache.Get(location); found {
			if t, ok := v.(*Table); ok {
				c.hitCount++
				c.updateMetrics()
				return t, true
			}
		}
	}

	c.missCount++
	c.updateMetrics()
	return nil, false
}

// Set stores a feed. Feeds without data rows are never cached so a blank
// download is retried on the next call.
func (c *Cache) Set(location string, t *Table) {
	if !c.Enabled() || t == nil || t.Len() == 0 {
		return
	}
	c.cache.Set(location, t, c.ttl)
}

// Invalidate drops the cached feed for location.
func (c *Cache) Invalidate(location string) {
	if c == nil {
		return
	}
	c.cache.Delete(location)
}

// Clear flushes the cache and resets statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

func (c *Cache) stats() (hits, misses uint64, ratio float64) {
	hits = c.hitCount
	misses = c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics must be called with mu held.
func (c *Cache) updateMetrics() {
	_, _, ratio := c.stats()
	metrics.UpdateCacheHitRatio(ratio)
}

// LoadFile adds the unexpired entries saved at path. A missing file is not an
// error.
func (c *Cache) LoadFile(path string) error {
	if !c.Enabled() {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read feed cache: %w", err)
	}

	var entries map[string]cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse feed cache %s: %w", path, err)
	}

	now := time.Now()
	for location, e := range entries {
		left := e.Expires.Sub(now)
		if left <= 0 {
			continue
		}
		if left > c.ttl {
			left = c.ttl
		}
		t := NewTable(e.Header)
		for _, row := range e.Rows {
			t.AddRow(row...)
		}
		c.cache.Set(location, t, left)
	}
	return nil
}

// SaveFile writes every unexpired entry to path.
func (c *Cache) SaveFile(path string) error {
	if !c.Enabled() {
		return nil
	}
	entries := make(map[string]cacheEntry)
	for location, item := range c.cache.Items() {
		t, ok := item.Object.(*Table)
		if !ok {
			continue
		}
		entries[location] = cacheEntry{
			Header:  t.Header,
			Rows:    t.Rows,
			Expires: time.Unix(0, item.Expiration),
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode feed cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write feed cache: %w", err)
	}
	return nil
}

// CachedSource serves a source's feed from a Cache when possible.
type CachedSource struct {
	src    CatalogSource
	cache  *Cache
	cached bool
}

// NewCachedSource wraps src. A nil or disabled cache passes every fetch through.
func NewCachedSource(src CatalogSource, c *Cache) *CachedSource {
	return &CachedSource{src: src, cache: c}
}

// Fetch returns the cached feed or fetches and caches it.
func (s *CachedSource) Fetch(ctx context.Context) (*Table, error) {
	if t, ok := s.cache.Get(s.src.Location()); ok {
		s.cached = true
		return t, nil
	}
	s.cached = false
	t, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(s.src.Location(), t)
	return t, nil
}

// Cached reports whether the last Fetch was served from the cache.
func (s *CachedSource) Cached() bool {
	return s.cached
}

// Name returns the wrapped source name.
func (s *CachedSource) Name() string {
	return s.src.Name()
}

// Location returns the wrapped source location.
func (s *CachedSource) Location() string {
	return s.src.Location()
}
