package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUCacheExpires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[[]string](4, time.Minute).WithClock(clock.now)

	c.Set("rates", []string{"USD", "EUR"})
	if got, ok := c.Get("rates"); !ok || len(got) != 2 {
		t.Fatalf("Get before TTL = %v, %v", got, ok)
	}

	clock.t = clock.t.Add(time.Minute)
	if _, ok := c.Get("rates"); ok {
		t.Fatalf("entry should expire after the TTL")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be removed on access, size = %d", c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRUCacheCleanExpiredAndDelete(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewLRUCache[int](10, time.Second).WithClock(clock.now)
	c.Set("old", 1)
	clock.t = clock.t.Add(2 * time.Second)
	c.Set("new", 2)

	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
	c.Delete("new")
	if c.Size() != 0 {
		t.Fatalf("size = %d, want 0", c.Size())
	}
}

func TestNewLRUCacheMinimumSize(t *testing.T) {
	c := NewLRUCache[int](0, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}
