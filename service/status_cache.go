package service

import (
	"sync"
	"time"

	"github.com/baseline-tools/bscan/domain"
)

// statusCache is an in-memory TTL cache for status records. Entries are
// never evicted beyond the freshness check on read: an expired entry stays
// usable as a last-resort fallback when a live fetch fails. The cache is
// not size-bounded.
type statusCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	record    domain.StatusRecord
	fetchedAt time.Time
}

func newStatusCache(ttl time.Duration) *statusCache {
	return &statusCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached record for id and whether it is still fresh.
// The second return is false both for missing and for expired entries;
// the first return distinguishes the two.
func (c *statusCache) Get(id string) (*domain.StatusRecord, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	record := entry.record
	fresh := c.now().Sub(entry.fetchedAt) < c.ttl
	if fresh {
		record.Source = domain.StatusSourceCache
	} else {
		record.Source = domain.StatusSourceStale
	}
	return &record, fresh
}

// Put stores a record with the current timestamp
func (c *statusCache) Put(id string, record domain.StatusRecord) {
	c.mu.Lock()
	c.entries[id] = cacheEntry{record: record, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of cached entries
func (c *statusCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
