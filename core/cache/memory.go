package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryCache is a bounded in-process Cache. It backs tests and deployments
// without Redis configured.
type MemoryCache struct {
	mu       sync.RWMutex
	now      func() time.Time
	maxItems int
	entries  map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache(maxItems int, now func() time.Time) *MemoryCache {
	if maxItems <= 0 {
		maxItems = 1024
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		now:      now,
		maxItems: maxItems,
		entries:  make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expiry := c.now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxItems {
		c.evictOneLocked()
	}
	c.entries[key] = memoryEntry{value: value, expiresAt: expiry}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if matched, err := path.Match(pattern, key); err == nil && matched {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// evictOneLocked drops the entry closest to expiry.
func (c *MemoryCache) evictOneLocked() {
	var victim string
	var soonest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(soonest) {
			victim = key
			soonest = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}
