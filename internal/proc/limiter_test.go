package proc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/errors"
)

func TestNewLimiter_Capacity(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{8, 8},
		{1, 1},
		{0, 1},
		{-3, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			assert.Equal(t, tt.expected, NewLimiter(tt.n).Capacity())
		})
	}
}

func TestNewDefaultLimiter(t *testing.T) {
	assert.GreaterOrEqual(t, NewDefaultLimiter().Capacity(), 2)
}

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, l.InFlight())

	release()
	release()
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_AcquireCancelled(t *testing.T) {
	l := NewLimiter(1)
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Cancelled))
	assert.Equal(t, 1, l.InFlight())
}

func TestLimiter_NeverExceedsCapacity(t *testing.T) {
	const capacity = 4
	l := NewLimiter(capacity)

	var current, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = l.Do(context.Background(), func(ctx context.Context) error {
				c := current.Add(1)
				for {
					p := peak.Load()
					if c <= p || peak.CompareAndSwap(p, c) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				current.Add(-1)
				if n%3 == 0 {
					return fmt.Errorf("probe %d failed", n)
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(capacity))
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_DoReleasesOnError(t *testing.T) {
	l := NewLimiter(1)
	boom := fmt.Errorf("boom")

	err := l.Do(context.Background(), func(context.Context) error { return boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_DoReleasesOnPanic(t *testing.T) {
	l := NewLimiter(1)

	assert.Panics(t, func() {
		_ = l.Do(context.Background(), func(context.Context) error { panic("probe exploded") })
	})
	assert.Equal(t, 0, l.InFlight())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release, err := l.Acquire(ctx)
	require.NoError(t, err)
	release()
}
