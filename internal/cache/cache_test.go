package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache(t *testing.T) {
	t.Run("Get before and after expiry", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := NewWithClock[string, int](clock.Now)

		c.Put("a", 1, time.Minute)

		if v, ok := c.Get("a"); !ok || v != 1 {
			t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
		}

		clock.Advance(59 * time.Second)
		if _, ok := c.Get("a"); !ok {
			t.Error("entry should still be live")
		}

		clock.Advance(time.Second)
		if _, ok := c.Get("a"); ok {
			t.Error("entry should have expired")
		}
		if c.Len() != 0 {
			t.Errorf("expired entry should be evicted, Len() = %d", c.Len())
		}
	})

	t.Run("missing key", func(t *testing.T) {
		c := New[string, string]()
		if v, ok := c.Get("nope"); ok || v != "" {
			t.Errorf("Get(nope) = %q, %v", v, ok)
		}
	})

	t.Run("non-positive ttl stores nothing", func(t *testing.T) {
		c := New[string, int]()
		c.Put("a", 1, 0)
		if _, ok := c.Get("a"); ok {
			t.Error("expected nothing stored")
		}
	})

	t.Run("Delete and Invalidate", func(t *testing.T) {
		c := New[string, int]()
		c.Put("a", 1, time.Hour)
		c.Put("b", 2, time.Hour)

		c.Delete("a")
		if _, ok := c.Get("a"); ok {
			t.Error("a should be deleted")
		}

		c.Invalidate()
		if c.Len() != 0 {
			t.Errorf("expected empty cache, got %d", c.Len())
		}
	})

	t.Run("concurrent use", func(t *testing.T) {
		c := New[int, int]()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					c.Put(j, i, time.Hour)
					c.Get(j)
				}
			}(i)
		}
		wg.Wait()
		if c.Len() != 100 {
			t.Errorf("expected 100 keys, got %d", c.Len())
		}
	})
}
