package stockclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key names one cache slot. There is exactly one slot per entity class.
type Key string

// Cache keys for the eight entity classes.
const (
	KeyWarehouses  Key = "warehouses"
	KeyLocations   Key = "locations"
	KeyProducts    Key = "products"
	KeyUsers       Key = "users"
	KeyReceipts    Key = "receipts"
	KeyDeliveries  Key = "deliveries"
	KeyTransfers   Key = "transfers"
	KeyAdjustments Key = "adjustments"
)

// Master data changes rarely; documents churn, so their window is
// shorter and a confirmed document shows up within a minute even
// without an explicit invalidation.
const (
	masterDataFreshness = 5 * time.Minute
	documentFreshness   = time.Minute
)

// Freshness returns how long a slot's data is served without refetching.
func (k Key) Freshness() time.Duration {
	switch k {
	case KeyReceipts, KeyDeliveries, KeyTransfers, KeyAdjustments:
		return documentFreshness
	}
	return masterDataFreshness
}

type slot struct {
	data      any
	fetchedAt time.Time
}

// Cache is a session-scoped read-through store. The backend stays the
// source of truth: the cache only memoizes responses, coalesces
// concurrent fetches per key, and lets callers patch slots optimistically
// ahead of server confirmation. Construct one per authenticated session.
type Cache struct {
	mu    sync.RWMutex
	slots map[Key]slot
	group singleflight.Group

	now func() time.Time // stubbed in tests
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{
		slots: make(map[Key]slot),
		now:   time.Now,
	}
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots[key]
	if !ok || s.data == nil {
		return nil, false
	}
	if c.now().Sub(s.fetchedAt) >= key.Freshness() {
		return nil, false
	}
	return s.data, true
}

func (c *Cache) commit(key Key, data any) {
	c.mu.Lock()
	c.slots[key] = slot{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
}

// GetOrFetch returns the slot's data, fetching when it is missing or
// stale. Concurrent calls for the same key share a single in-flight
// fetch regardless of how many callers arrive; a failed fetch leaves the
// previous slot contents untouched and returns the error to every
// waiting caller.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch func(context.Context) (any, error), force bool) (any, error) {
	if !force {
		if data, ok := c.fresh(key); ok {
			return data, nil
		}
	}

	resultChan := c.group.DoChan(string(key), func() (any, error) {
		// A fetch that finished while this caller was queued already
		// refreshed the slot; don't hit the network again.
		if !force {
			if data, ok := c.fresh(key); ok {
				return data, nil
			}
		}
		data, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.commit(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}

// Update replaces the slot's data with fn(current) and stamps it fresh.
// It never touches the network; callers pair it with the real backend
// call and roll back via Invalidate on failure.
func (c *Cache) Update(key Key, fn func(current any) any) {
	c.mu.Lock()
	s := c.slots[key]
	c.slots[key] = slot{data: fn(s.data), fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate empties one slot so the next GetOrFetch refetches
// regardless of freshness.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.slots, key)
	c.mu.Unlock()
}

// Clear empties every slot. Called on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.slots = make(map[Key]slot)
	c.mu.Unlock()
}

// Fetch is the typed front of Cache.GetOrFetch for a slice-of-T slot.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) ([]T, error), force bool) ([]T, error) {
	data, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, force)
	if err != nil {
		return nil, err
	}
	items, ok := data.([]T)
	if !ok {
		return nil, fmt.Errorf("stockclient: cache slot %q holds %T, not %T", key, data, items)
	}
	return items, nil
}

// Add appends an entity to a cached slice. No-op when the slot was
// never fetched; the eventual read-through fetch will include the
// entity anyway.
func Add[T Identifiable](c *Cache, key Key, item T) {
	c.Update(key, func(current any) any {
		items, ok := current.([]T)
		if !ok {
			return current
		}
		return append(append([]T(nil), items...), item)
	})
}

// UpdateByID replaces the cached entry whose id matches item's.
func UpdateByID[T Identifiable](c *Cache, key Key, item T) {
	c.Update(key, func(current any) any {
		items, ok := current.([]T)
		if !ok {
			return current
		}
		out := append([]T(nil), items...)
		for i := range out {
			if out[i].EntityID() == item.EntityID() {
				out[i] = item
			}
		}
		return out
	})
}

// RemoveByID filters out the cached entry with the given id.
func RemoveByID[T Identifiable](c *Cache, key Key, id string) {
	c.Update(key, func(current any) any {
		items, ok := current.([]T)
		if !ok {
			return current
		}
		out := make([]T, 0, len(items))
		for _, item := range items {
			if item.EntityID() != id {
				out = append(out, item)
			}
		}
		return out
	})
}
