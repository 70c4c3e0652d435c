package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"expensetracker/internal/log"
)

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[string](3, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")
	c.Set("key4", "value4") // evicts key1

	if _, found := c.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, k := range []string{"key2", "key3", "key4"} {
		if _, found := c.Get(k); !found {
			t.Errorf("%s should still exist", k)
		}
	}
	if c.Size() != 3 {
		t.Errorf("Size = %d, want 3", c.Size())
	}
}

func TestLRUCacheRecencyOnGet(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3) // evicts b, a was touched

	if _, found := c.Get("b"); found {
		t.Error("b should have been evicted")
	}
	if v, found := c.Get("a"); !found || v != 1 {
		t.Errorf("a = %d, %v", v, found)
	}
}

func TestLRUCacheTTL(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("other", "v")
	now = now.Add(2 * time.Minute)

	if _, found := c.Get("k"); found {
		t.Error("expired entry returned")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0", c.Size())
	}
}

func TestLRUCacheUpdate(t *testing.T) {
	c := NewLRUCache[[]int](4, time.Hour)

	if _, ok := c.Update("missing", func(v []int) ([]int, bool) { return v, true }); ok {
		t.Error("Update on a miss must not run")
	}

	c.Set("k", []int{1, 2, 3})
	got, ok := c.Update("k", func(v []int) ([]int, bool) { return v[1:], true })
	if !ok || len(got) != 2 {
		t.Fatalf("Update = %v, %v", got, ok)
	}
	if v, _ := c.Get("k"); len(v) != 2 {
		t.Errorf("stored value = %v", v)
	}

	if _, ok := c.Update("k", func(v []int) ([]int, bool) { return nil, false }); ok {
		t.Error("rejected update reported as applied")
	}
	if v, _ := c.Get("k"); len(v) != 2 {
		t.Errorf("rejected update changed value: %v", v)
	}
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](16, time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := string(rune('a' + (n+j)%20))
				c.Set(key, j)
				c.Get(key)
				c.Update(key, func(v int) (int, bool) { return v + 1, true })
			}
		}(i)
	}
	wg.Wait()
	if c.Size() > 16 {
		t.Errorf("Size = %d exceeds bound", c.Size())
	}
}

func TestManagerRun(t *testing.T) {
	c := NewLRUCache[int](4, time.Millisecond)
	c.Set("k", 1)

	m := NewManager(log.Discard())
	m.Register(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for c.Size() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if c.Size() != 0 {
		t.Error("manager did not evict expired entry")
	}
}
