// Package cache holds the last-fetched copy of a server-owned collection for one screen.
package cache

import "sync"

// EntityCache is a disposable, non-authoritative copy of one collection. It is only
// ever replaced wholesale by a reload; there is no per-item patching.
type EntityCache[T any] struct {
	mu      sync.RWMutex
	items   []T
	loaded  bool
	version uint64
}

// New returns an empty, unloaded cache.
func New[T any]() *EntityCache[T] {
	return &EntityCache[T]{}
}

// Replace stores a freshly fetched collection and bumps the version.
func (c *EntityCache[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	c.mu.Lock()
	c.items = cp
	c.loaded = true
	c.version++
	c.mu.Unlock()
}

// Items returns a copy of the cached collection.
func (c *EntityCache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached items.
func (c *EntityCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loaded reports whether at least one fetch result has been stored.
func (c *EntityCache[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Version counts Replace and Invalidate calls.
func (c *EntityCache[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Find returns the first item matching pred.
func (c *EntityCache[T]) Find(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the items matching pred, in cache order.
func (c *EntityCache[T]) Filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Invalidate drops the cached collection and bumps the version; the next read sees
// an unloaded cache.
func (c *EntityCache[T]) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.loaded = false
	c.version++
	c.mu.Unlock()
}
