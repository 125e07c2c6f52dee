package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLGetSet(t *testing.T) {
	c := NewTTL[[]string](time.Minute)

	_, found := c.Get("2020")
	assert.False(t, found)

	c.Set("2020", []string{"2020-15", "2020-22"})
	value, found := c.Get("2020")
	require.True(t, found)
	assert.Equal(t, []string{"2020-15", "2020-22"}, value)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 1e-9)
	assert.Equal(t, 1, stats.Items)
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[int](20 * time.Millisecond)
	c.Set("k", 1)

	assert.Eventually(t, func() bool {
		_, found := c.Get("k")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestTTLDisabled(t *testing.T) {
	c := NewTTL[int](0)
	assert.False(t, c.Enabled())

	c.Set("k", 1)
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestTTLGetOrLoad(t *testing.T) {
	c := NewTTL[int](time.Minute)
	var calls atomic.Int32

	load := func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	value, cached, err := c.GetOrLoad(context.Background(), "answer", load)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 42, value)

	value, cached, err = c.GetOrLoad(context.Background(), "answer", load)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 42, value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTTLGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := NewTTL[int](time.Minute)
	boom := errors.New("upstream down")

	_, _, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	value, _, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestTTLGetOrLoadCoalescesConcurrentLoads(t *testing.T) {
	c := NewTTL[int](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.GetOrLoad(context.Background(), "slow", func(ctx context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 1, nil
			})
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
	value, found := c.Get("slow")
	assert.True(t, found)
	assert.Equal(t, 1, value)
}

func TestTTLGetOrLoadSurvivesCallerCancellation(t *testing.T) {
	c := NewTTL[int](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		close(started)
		select {
		case <-release:
			return 2020, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrLoad(firstCtx, "2020", load)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		value int
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		value, _, err := c.GetOrLoad(context.Background(), "2020", func(ctx context.Context) (int, error) {
			return 0, errors.New("second load should join the first")
		})
		second <- outcome{value, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 2020, got.value)

	value, found := c.Get("2020")
	assert.True(t, found)
	assert.Equal(t, 2020, value)
}

func TestTTLGetOrLoadHonoursCallerDeadline(t *testing.T) {
	c := NewTTL[int](time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := c.GetOrLoad(ctx, "slow", func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTTLGetOrLoadBoundsDetachedLoad(t *testing.T) {
	c := NewTTL[int](time.Minute)
	c.SetLoadTimeout(20 * time.Millisecond)

	_, _, err := c.GetOrLoad(context.Background(), "stuck", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTTLFlushAndDelete(t *testing.T) {
	c := NewTTL[string](time.Minute)
	c.Set("a", "x")
	c.Set("b", "y")

	c.Delete("a")
	assert.Equal(t, 1, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())
}
