// Package store holds the in-memory collections behind every entity kind.
//
// Each Collection owns its own mutex. Callers mutate and persist inside
// Mutate so the returned snapshot always reflects durable state, or the call
// fails before returning.
package store

import (
	"sync"
)

// Collection is an ordered, lock-guarded set of entities keyed by K.
type Collection[K comparable, T any] struct {
	mu    sync.Mutex
	items []T
	key   func(T) K
	clone func(T) T
}

// New creates a collection seeded with items. clone must return a deep copy;
// it decouples snapshots from the live data.
func New[K comparable, T any](items []T, key func(T) K, clone func(T) T) *Collection[K, T] {
	if items == nil {
		items = []T{}
	}
	return &Collection[K, T]{items: items, key: key, clone: clone}
}

// Snapshot returns a deep copy of the current contents.
func (c *Collection[K, T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Get returns a copy of the entity with id.
func (c *Collection[K, T]) Get(id K) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.IndexOf(c.items, id); i >= 0 {
		return c.clone(c.items[i]), true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities.
func (c *Collection[K, T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Mutate runs fn with exclusive access to the live slice and returns a
// snapshot taken before the lock is released. When fn fails, whatever it
// already changed stays in memory and the error is returned as-is.
func (c *Collection[K, T]) Mutate(fn func(items *[]T) error) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(&c.items); err != nil {
		return nil, err
	}
	return c.snapshotLocked(), nil
}

// Read runs fn while holding the lock. fn must not retain items.
func (c *Collection[K, T]) Read(fn func(items []T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.items)
}

// IndexOf returns the position of id in items, or -1.
func (c *Collection[K, T]) IndexOf(items []T, id K) int {
	for i := range items {
		if c.key(items[i]) == id {
			return i
		}
	}
	return -1
}

// Remove deletes every entity with id from items and reports whether any
// was found.
func (c *Collection[K, T]) Remove(items *[]T, id K) bool {
	kept := (*items)[:0]
	removed := false
	for _, item := range *items {
		if c.key(item) == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	*items = kept
	return removed
}

// Clone exposes the collection's deep-copy function.
func (c *Collection[K, T]) Clone(item T) T {
	return c.clone(item)
}

func (c *Collection[K, T]) snapshotLocked() []T {
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.clone(item)
	}
	return out
}
