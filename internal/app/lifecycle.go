package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc is a function called during shutdown.
// It receives a context that may be cancelled if shutdown times out.
type ShutdownFunc func(ctx context.Context) error

// Lifecycle manages application lifecycle including graceful shutdown.
// It turns SIGINT and SIGTERM into an interrupt channel that long-running
// commands use as their cancellation receiver.
type Lifecycle struct {
	mu            sync.Mutex
	shutdownFuncs []ShutdownFunc
	shutdownCh    chan struct{}
	doneCh        chan struct{}
	interruptCh   chan struct{}
	signal        os.Signal
	timeout       time.Duration
	shutdownOnce  sync.Once
	interruptOnce sync.Once
}

// NewLifecycle creates a new lifecycle manager with the specified shutdown timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	return &Lifecycle{
		shutdownCh:  make(chan struct{}),
		doneCh:      make(chan struct{}),
		interruptCh: make(chan struct{}),
		timeout:     timeout,
	}
}

// OnShutdown registers a function to be called during shutdown.
// Functions are called in reverse order of registration (LIFO).
func (l *Lifecycle) OnShutdown(fn ShutdownFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shutdownFuncs = append(l.shutdownFuncs, fn)
}

// WatchSignals routes the first SIGINT or SIGTERM to Interrupt until the
// returned stop function is called. Stop is idempotent.
func (l *Lifecycle) WatchSignals() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case sig := <-sigCh:
			l.interrupt(sig)
		case <-quit:
		case <-l.interruptCh:
		}
		// A second signal gets the default behaviour and terminates.
		signal.Stop(sigCh)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
			wg.Wait()
		})
	}
}

// Interrupt closes the interrupt channel as if a signal had arrived.
func (l *Lifecycle) Interrupt() {
	l.interrupt(nil)
}

func (l *Lifecycle) interrupt(sig os.Signal) {
	l.interruptOnce.Do(func() {
		l.mu.Lock()
		l.signal = sig
		l.mu.Unlock()
		close(l.interruptCh)
	})
}

// Interrupted returns a channel closed on the first watched signal, on
// Interrupt or when shutdown starts. It is the cancellation receiver handed
// to long-running commands.
func (l *Lifecycle) Interrupted() <-chan struct{} {
	return l.interruptCh
}

// Signal returns the signal that interrupted the application, or nil.
func (l *Lifecycle) Signal() os.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signal
}

// IsInterrupted returns true once the interrupt channel is closed.
func (l *Lifecycle) IsInterrupted() bool {
	select {
	case <-l.interruptCh:
		return true
	default:
		return false
	}
}

// Context derives a context from parent that is cancelled on interrupt.
func (l *Lifecycle) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-l.interruptCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// WaitForSignal blocks until SIGINT or SIGTERM is received,
// or until the shutdown channel is closed programmatically.
func (l *Lifecycle) WaitForSignal() os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		return sig
	case <-l.shutdownCh:
		return nil
	}
}

// Shutdown initiates graceful shutdown, calling all registered shutdown
// functions in reverse order of registration. Returns the last error
// encountered, if any.
func (l *Lifecycle) Shutdown() error {
	var lastErr error

	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)
		l.interrupt(nil)

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		l.mu.Lock()
		funcs := make([]ShutdownFunc, len(l.shutdownFuncs))
		copy(funcs, l.shutdownFuncs)
		l.mu.Unlock()

		for i := len(funcs) - 1; i >= 0; i-- {
			if err := funcs[i](ctx); err != nil {
				lastErr = err
			}
		}

		close(l.doneCh)
	})

	return lastErr
}

// Done returns a channel that's closed when shutdown is complete.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.doneCh
}

// ShutdownCh returns a channel that's closed when shutdown starts.
func (l *Lifecycle) ShutdownCh() <-chan struct{} {
	return l.shutdownCh
}

// IsShuttingDown returns true if shutdown has been initiated.
func (l *Lifecycle) IsShuttingDown() bool {
	select {
	case <-l.shutdownCh:
		return true
	default:
		return false
	}
}

// Timeout returns the configured shutdown timeout.
func (l *Lifecycle) Timeout() time.Duration {
	return l.timeout
}
