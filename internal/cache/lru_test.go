// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package cache

import (
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[int64, string](3, time.Minute)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")

	for key, want := range map[int64]string{1: "a", 2: "b", 3: "c"} {
		got, ok := c.Get(key)
		if !ok || got != want {
			t.Errorf("Get(%d) = %q,%v, want %q,true", key, got, ok, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int64, string](3, time.Minute)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")

	// 1 becomes most recently used, so 2 is evicted next.
	c.Get(1)
	c.Add(4, "d")

	if _, ok := c.Get(2); ok {
		t.Error("expected key 2 to be evicted")
	}
	for _, key := range []int64{1, 3, 4} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected key %d to be present", key)
		}
	}
}

func TestLRU_UpdateRefreshes(t *testing.T) {
	c := NewLRU[string, int](2, time.Minute)
	c.Add("x", 1)
	c.Add("y", 2)
	c.Add("x", 10) // refresh x, y is now oldest
	c.Add("z", 3)

	if v, ok := c.Get("x"); !ok || v != 10 {
		t.Errorf("Get(x) = %d,%v, want 10,true", v, ok)
	}
	if _, ok := c.Get("y"); ok {
		t.Error("expected y to be evicted")
	}
}

func TestLRU_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRU[int64, string](10, time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Add(1, "a")
	now = now.Add(59 * time.Second)
	if _, ok := c.Get(1); !ok {
		t.Fatal("entry expired early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(1); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestLRU_RemoveAndStats(t *testing.T) {
	c := NewLRU[int64, string](10, time.Minute)
	c.Add(1, "a")

	c.Get(1) // hit
	c.Get(2) // miss

	if !c.Remove(1) {
		t.Error("Remove(1) = false, want true")
	}
	if c.Remove(1) {
		t.Error("second Remove(1) = true, want false")
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 0 {
		t.Errorf("Stats() = %d,%d,%d, want 1,1,0", hits, misses, size)
	}
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU[int, int](0, 0)
	if c.capacity != 10000 || c.ttl != 5*time.Minute {
		t.Errorf("defaults = %d,%v", c.capacity, c.ttl)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int, int](64, time.Minute)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := (g*1000 + i) % 128
				c.Add(key, i)
				c.Get(key)
				if i%10 == 0 {
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity 64", c.Len())
	}
}
