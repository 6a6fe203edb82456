package snapshot

import "testing"

func TestCacheGetSet(t *testing.T) {
	c := New()

	if _, ok := c.Get("products"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("products", []string{"a", "b"})
	v, ok := c.Get("products")
	if !ok {
		t.Fatal("expected hit")
	}
	if got := v.([]string); len(got) != 2 {
		t.Errorf("got %v", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New()
	c.Set("products", 1)
	c.Invalidate("products")
	if _, ok := c.Get("products"); ok {
		t.Error("invalidated key should miss")
	}
}

func TestCacheSubscribe(t *testing.T) {
	c := New()

	calls := 0
	unsubscribe := c.Subscribe("products", func() { calls++ })

	c.Set("products", 1)
	c.Invalidate("products")
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	c.Set("orders", 1) // different key
	if calls != 2 {
		t.Errorf("calls = %d after unrelated set, want 2", calls)
	}

	unsubscribe()
	c.Set("products", 2)
	if calls != 2 {
		t.Errorf("calls = %d after unsubscribe, want 2", calls)
	}
}

func TestCacheSubscriberMayReadCache(t *testing.T) {
	c := New()
	var seen any
	c.Subscribe("products", func() {
		seen, _ = c.Get("products")
	})
	c.Set("products", 42)
	if seen != 42 {
		t.Errorf("subscriber saw %v, want 42", seen)
	}
}

func TestCachesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Set("k", 1)
	if _, ok := b.Get("k"); ok {
		t.Error("caches must not share state")
	}
}
