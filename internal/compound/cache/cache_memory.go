package cache

import (
	"context"
	"sync"
	"time"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
)

type entry struct {
	rows      []models.Compound
	expiresAt time.Time
}

// MemoryCache keeps catalog rows per compound name for a fixed TTL. An empty
// slice is a valid entry and records that the name is not in the catalog.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates a cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached rows for name, if present and fresh.
func (c *MemoryCache) Get(_ context.Context, name string) ([]models.Compound, bool, error) {
	key := scoring.CatalogKey(name)
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]models.Compound{}, e.rows...), true, nil
}

// Set stores rows for name.
func (c *MemoryCache) Set(_ context.Context, name string, rows []models.Compound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[scoring.CatalogKey(name)] = entry{
		rows:      append([]models.Compound{}, rows...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Purge drops every entry.
func (c *MemoryCache) Purge(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// Len reports the number of stored entries, including expired ones not yet
// evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
