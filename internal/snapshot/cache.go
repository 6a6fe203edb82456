// Package snapshot provides a small keyed cache with change
// subscriptions. The storefront keeps its catalog snapshot here and
// invalidates it when a catalog change event arrives, so read handlers
// serve from memory between changes.
package snapshot

import "sync"

// Cache maps string keys to arbitrary snapshot values and notifies
// subscribers when a key is written or invalidated. Instances are
// independent; construct one per concern with New.
type Cache struct {
	mu          sync.RWMutex
	values      map[string]any
	subscribers map[string]map[int]func()
	nextSub     int
}

func New() *Cache {
	return &Cache{
		values:      make(map[string]any),
		subscribers: make(map[string]map[int]func()),
	}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key and notifies the key's subscribers.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.values[key] = value
	subs := c.snapshotSubs(key)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Invalidate drops the cached value for key and notifies subscribers so
// they can refetch.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.values, key)
	subs := c.snapshotSubs(key)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers fn to run whenever key is set or invalidated. The
// returned function removes the subscription. Callbacks run outside the
// cache lock, so they may call back into the cache.
func (c *Cache) Subscribe(key string, fn func()) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	if c.subscribers[key] == nil {
		c.subscribers[key] = make(map[int]func())
	}
	c.subscribers[key][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers[key], id)
	}
}

// snapshotSubs copies the subscriber list for key; callers must hold mu.
func (c *Cache) snapshotSubs(key string) []func() {
	subs := make([]func(), 0, len(c.subscribers[key]))
	for _, fn := range c.subscribers[key] {
		subs = append(subs, fn)
	}
	return subs
}
