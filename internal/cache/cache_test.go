package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New[[]string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("k", []string{"a", "b"})
	got, ok := c.Get("k")
	if !ok || len(got) != 2 {
		t.Fatalf("expected cached value, got %v ok=%v", got, ok)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New[int](4, 20*time.Millisecond)
	c.Set("k", 7)

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("value should expire after ttl")
	}
}

func TestCacheInvalidateAndPurge(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("invalidated key should miss")
	}

	c.Purge()
	if _, ok := c.Get("b"); ok {
		t.Fatal("purged cache should miss")
	}
}
