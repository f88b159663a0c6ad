// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package lru provides a thread-safe, fixed-capacity least-recently-used
// cache keyed by string. It is a trimmed adaptation of the request cache
// used elsewhere in this codebase, without the transparent compression: the
// values cached here (compiled plural-rule functions) are a few bytes of
// closure state, far below the size where zstd framing would pay for
// itself.
package lru

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity, least-recently-used cache safe for concurrent
// use. The zero value is not ready for use; construct with [New].
type Cache[V any] struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	lock      sync.Mutex
}

type cacheEntry[V any] struct {
	key   string
	value V
}

// New constructs a Cache holding at most size entries. size <= 0 is treated
// as 1.
func New[V any](size int) *Cache[V] {
	if size <= 0 {
		size = 1
	}

	return &Cache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element, size),
	}
}

// Get returns the value stored for key and whether it was present. A hit
// makes key the most recently used entry.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		return el.Value.(*cacheEntry[V]).value, true
	}

	var zero V

	return zero, false
}

// Add stores value for key, evicting the least recently used entry if the
// cache is at capacity. Re-adding an existing key refreshes its recency.
func (c *Cache[V]) Add(key string, value V) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value.(*cacheEntry[V]).value = value

		return
	}

	el := c.evictList.PushFront(&cacheEntry[V]{key: key, value: value})
	c.items[key] = el

	if c.evictList.Len() > c.size {
		oldest := c.evictList.Back()
		if oldest != nil {
			c.evictList.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry[V]).key)
		}
	}
}
