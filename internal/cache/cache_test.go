// file: internal/cache/cache_test.go
// version: 1.1.0
// guid: 0d2e4f6a-8b9c-4d3e-5f7a-9b1c3d5e7f8a

package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c := New[[]string](time.Minute)
	v, ok := c.Get("nope")
	if ok || v != nil {
		t.Fatalf("expected miss, got %v ok=%v", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](time.Millisecond)
	c.Set("k", 42)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("k")
	if ok {
		t.Fatal("expected expired entry")
	}
}

func TestSetWithTTL(t *testing.T) {
	c := New[int](time.Millisecond)
	c.SetWithTTL("k", 1, time.Minute)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("explicit TTL should override the short default")
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New[int](time.Minute)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}

	v, err := c.GetOrCompute("k", compute)
	if err != nil || v != 7 {
		t.Fatalf("got %d, err %v", v, err)
	}
	v, err = c.GetOrCompute("k", compute)
	if err != nil || v != 7 {
		t.Fatalf("got %d, err %v", v, err)
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New[int](time.Minute)
	fail := errors.New("store down")
	_, err := c.GetOrCompute("k", func() (int, error) { return 0, fail })
	if err != fail {
		t.Fatalf("expected compute error, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("failed compute must not populate the cache")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be invalidated")
	}
	v, ok := c.Get("b")
	if !ok || v != "2" {
		t.Fatal("expected b to remain")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected all invalidated")
	}
}
