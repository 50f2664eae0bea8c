package sla

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// cacheEntry holds a fetched value together with its absolute expiry.
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// ttlCache is a read-through cache with a fixed time-to-live. A read past an
// entry's expiry is treated as a miss and triggers a fresh fetch, which then
// refreshes the expiry. Entries are created lazily and never evicted except
// by clear. Concurrent callers racing on the same key may both fetch and
// overwrite; cached rows are configuration, so the refresh is idempotent.
type ttlCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry[T]
}

func newTTLCache[T any](ttl time.Duration, now func() time.Time) *ttlCache[T] {
	if now == nil {
		now = time.Now
	}
	return &ttlCache[T]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry[T]),
	}
}

// get returns the cached value for key, fetching through on a miss or an
// expired entry. A failed fetch propagates as-is and leaves the cache
// untouched.
func (c *ttlCache[T]) get(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	now := c.now()
	c.mu.Unlock()

	if ok && now.Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry[T]{value: value, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
	return value, nil
}

// clear drops all entries unconditionally.
func (c *ttlCache[T]) clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry[T])
	c.mu.Unlock()
}

// scopeKey builds the cache key for a lookup kind and organizational scope.
func scopeKey(kind string, departmentID, unitID *string) string {
	return fmt.Sprintf("%s_%s_%s", kind, derefOrNull(departmentID), derefOrNull(unitID))
}

func derefOrNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
