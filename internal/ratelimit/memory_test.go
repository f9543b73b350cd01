package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Hit(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	window := 5 * time.Minute

	t.Run("admits up to limit then rejects", func(t *testing.T) {
		store := NewMemoryStore()

		for i := 1; i <= 10; i++ {
			d, err := store.Hit(ctx, "203.0.113.7", clock.Now(), window, 10)
			require.NoError(t, err)
			assert.True(t, d.Allowed, "request %d should be admitted", i)
			assert.Equal(t, 10-i, d.Remaining)
		}

		d, err := store.Hit(ctx, "203.0.113.7", clock.Now(), window, 10)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Zero(t, d.Remaining)
	})

	t.Run("rejected attempts are not recorded", func(t *testing.T) {
		store := NewMemoryStore()
		start := clock.Now()

		for i := 0; i < 2; i++ {
			_, _ = store.Hit(ctx, "a", start, window, 2)
		}
		// Rejections just before the first attempts age out must not extend the window.
		for i := 0; i < 5; i++ {
			d, _ := store.Hit(ctx, "a", start.Add(window-time.Second), window, 2)
			assert.False(t, d.Allowed)
		}

		d, err := store.Hit(ctx, "a", start.Add(window), window, 2)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, d.Remaining)
	})

	t.Run("addresses are independent", func(t *testing.T) {
		store := NewMemoryStore()

		d, _ := store.Hit(ctx, "a", clock.Now(), window, 1)
		assert.True(t, d.Allowed)
		d, _ = store.Hit(ctx, "a", clock.Now(), window, 1)
		assert.False(t, d.Allowed)

		d, _ = store.Hit(ctx, "b", clock.Now(), window, 1)
		assert.True(t, d.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		store := NewMemoryStore()
		start := clock.Now()

		_, _ = store.Hit(ctx, "a", start, window, 2)
		_, _ = store.Hit(ctx, "a", start.Add(2*time.Minute), window, 2)

		d, _ := store.Hit(ctx, "a", start.Add(4*time.Minute), window, 2)
		assert.False(t, d.Allowed)

		// The first attempt has left the window, the second has not.
		d, _ = store.Hit(ctx, "a", start.Add(5*time.Minute), window, 2)
		assert.True(t, d.Allowed)
		assert.Zero(t, d.Remaining)

		d, _ = store.Hit(ctx, "a", start.Add(6*time.Minute), window, 2)
		assert.False(t, d.Allowed)
	})
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	window := time.Minute
	store := NewMemoryStore()

	_, _ = store.Hit(ctx, "old", clock.Now(), window, 5)
	clock.Advance(30 * time.Second)
	_, _ = store.Hit(ctx, "recent", clock.Now(), window, 5)
	require.Equal(t, 2, store.Len())

	clock.Advance(45 * time.Second)
	store.Sweep(clock.Now(), window)
	assert.Equal(t, 1, store.Len())

	clock.Advance(time.Minute)
	store.Sweep(clock.Now(), window)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_OpportunisticSweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	window := time.Minute
	store := NewMemoryStore()

	for _, addr := range []string{"a", "b", "c"} {
		_, _ = store.Hit(ctx, addr, clock.Now(), window, 5)
	}
	require.Equal(t, 3, store.Len())

	clock.Advance(2 * window)
	_, _ = store.Hit(ctx, "d", clock.Now(), window, 5)

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentSameAddress(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := store.Hit(ctx, "burst", now, time.Minute, 5)
			if err == nil && d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), admitted.Load())
}
