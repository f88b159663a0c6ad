// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lru

import "testing"

func TestAddAndGet(t *testing.T) {
	c := New[int](2)
	c.Add("a", 1)

	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("Get(a) = %d, %v, want 1, true", got, ok)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New[int](2)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported ok, want false")
	}
}

func TestAddEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3) // evicts "a", the least recently used

	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) found a value after it should have been evicted")
	}

	if got, ok := c.Get("b"); !ok || got != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", got, ok)
	}

	if got, ok := c.Get("c"); !ok || got != 3 {
		t.Errorf("Get(c) = %d, %v, want 3, true", got, ok)
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	c := New[int](2)
	c.Add("a", 1)
	c.Add("b", 2)

	c.Get("a") // touch "a" so "b" becomes the least recently used

	c.Add("c", 3) // should evict "b", not "a"

	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) found a value after it should have been evicted")
	}

	if _, ok := c.Get("a"); !ok {
		t.Error("Get(a) was evicted despite being touched more recently than b")
	}
}

func TestAddExistingKeyUpdatesValueAndRecency(t *testing.T) {
	c := New[int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("a", 10) // refresh a's value and recency

	c.Add("c", 3) // should evict "b"

	if got, ok := c.Get("a"); !ok || got != 10 {
		t.Errorf("Get(a) = %d, %v, want 10, true", got, ok)
	}

	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) found a value after it should have been evicted")
	}
}

func TestNewClampsNonPositiveSizeToOne(t *testing.T) {
	c := New[int](0)
	c.Add("a", 1)
	c.Add("b", 2)

	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) found a value after a capacity-1 cache should have evicted it")
	}

	if got, ok := c.Get("b"); !ok || got != 2 {
		t.Errorf("Get(b) = %d, %v, want 2, true", got, ok)
	}
}
