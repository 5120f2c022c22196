package llmruntime

import (
	"context"
	"sync"
	"sync/atomic"
)

// BuildFunc constructs a runtime for the provider.
type BuildFunc func(ctx context.Context, p Provider) (*Runtime, error)

// Cache memoizes runtimes per provider. Concurrent callers for the same
// provider wait for a single construction; failures are not stored.
// A waiter whose context is done stops waiting and returns the context error,
// while the construction it was waiting on carries on.
type Cache struct {
	lock    sync.Mutex
	epoch   uint64
	entries map[Provider]*cacheEntry
}

type cacheEntry struct {
	// sem holds a token while a caller owns the entry
	sem chan struct{}
	rt  atomic.Pointer[Runtime]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Provider]*cacheEntry)}
}

func (c *Cache) entry(p Provider) *cacheEntry {
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.entries[p]
	if !ok {
		e = &cacheEntry{sem: make(chan struct{}, 1)}
		c.entries[p] = e
	}
	return e
}

// GetOrBuild returns the cached runtime, or builds and stores one.
// The returned bool is true when the runtime came from the cache.
func (c *Cache) GetOrBuild(ctx context.Context, p Provider, build BuildFunc) (*Runtime, bool, error) {
	e := c.entry(p)
	if rt := e.rt.Load(); rt != nil {
		return rt, true, nil
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	defer func() { <-e.sem }()

	if rt := e.rt.Load(); rt != nil {
		return rt, true, nil
	}

	rt, err := build(ctx, p)
	if err != nil {
		return nil, false, err
	}
	e.rt.Store(rt)
	return rt, false, nil
}

// Peek returns the cached runtime without building.
func (c *Cache) Peek(p Provider) (*Runtime, bool) {
	c.lock.Lock()
	e, ok := c.entries[p]
	c.lock.Unlock()
	if !ok {
		return nil, false
	}
	rt := e.rt.Load()
	return rt, rt != nil
}

// Reset drops all entries and starts a new epoch. Builds in flight finish
// into the old epoch and are not visible afterwards.
func (c *Cache) Reset() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries = make(map[Provider]*cacheEntry)
	c.epoch++
	return c.epoch
}

// Epoch returns the number of resets so far.
func (c *Cache) Epoch() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.epoch
}
