package proc

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/tungetti/adbkit/internal/errors"
)

// Limiter bounds the number of operations running at once. Bulk callers such
// as the network scanner acquire a permit per spawned process or connection.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
}

// NewLimiter creates a limiter with n permits. Values below one are treated
// as one.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(n)),
		capacity: int64(n),
	}
}

// NewDefaultLimiter sizes the limiter at twice the number of CPUs.
func NewDefaultLimiter() *Limiter {
	return NewLimiter(runtime.NumCPU() * 2)
}

// Acquire blocks until a permit is available or ctx is done. The returned
// release function is idempotent.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(errors.Cancelled, "waiting for permit", err).WithOp("proc.Limiter")
	}
	l.inFlight.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.inFlight.Add(-1)
			l.sem.Release(1)
		})
	}, nil
}

// Do runs fn while holding a permit. The permit is released when fn returns,
// fails or panics.
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	release, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// InFlight returns the number of permits currently held.
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}

// Capacity returns the total number of permits.
func (l *Limiter) Capacity() int {
	return int(l.capacity)
}
