// ABOUTME: Tests for the TTL content cache.
// ABOUTME: Validates expiry, replacement, size limits, eviction order and concurrency safety.

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock lets tests move time without sleeping
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration, size int) (*Cache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ttl, size)
	c.mu.Lock()
	c.now = clock.now
	c.mu.Unlock()
	t.Cleanup(c.Close)
	return c, clock
}

func TestCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	v, ok := c.Get("nb-1")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestCache_PutGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	c.Put("nb-1", "first")
	v, ok := c.Get("nb-1")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	c.Put("nb-1", "second")
	v, ok = c.Get("nb-1")
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("nb-1", "doc")
	clock.advance(59 * time.Second)
	_, ok := c.Get("nb-1")
	assert.True(t, ok)

	clock.advance(time.Second)
	_, ok = c.Get("nb-1")
	assert.False(t, ok)
}

func TestCache_PutRestartsTTL(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("nb-1", "doc")
	clock.advance(50 * time.Second)
	c.Put("nb-1", "doc")
	clock.advance(50 * time.Second)

	_, ok := c.Get("nb-1")
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 10)

	c.Put("nb-1", "doc")
	c.Invalidate("nb-1")
	c.Invalidate("never-stored")

	_, ok := c.Get("nb-1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictionOrder(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 3)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3")
	// Re-storing a moves it to the back, so b is now oldest.
	c.Put("a", "1")
	c.Put("d", "4")

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "oldest entry evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestCache_Unbounded(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, 0)

	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("k-%d", i), "v")
	}
	assert.Equal(t, 100, c.Len())
}

func TestCache_RemoveExpired(t *testing.T) {
	c, clock := newTestCache(t, time.Minute, 10)

	c.Put("old", "x")
	clock.advance(2 * time.Minute)
	c.Put("new", "y")

	c.removeExpired()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](time.Minute, 50)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d", (i*100+j)%80)
				c.Put(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Invalidate(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}

func TestCache_CloseTwice(t *testing.T) {
	c := New[string](time.Minute, 10)
	c.Close()
	c.Close()
}
