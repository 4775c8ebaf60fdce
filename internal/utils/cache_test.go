package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c, err := NewCache[string](2, time.Minute)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3") // evicts a

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Errorf("expected c=3, got %q ok=%v", v, ok)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache[int](4, time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	c.Set("k", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}
