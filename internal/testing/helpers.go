// Package testing provides fixtures, helpers and assertions shared by adbkit
// tests: canned adb output, a fake adb binary, environment isolation and
// checks against proc.MockRunner and logging.Recorder.
package testing

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Context Helpers
// ============================================================================

// ContextWithTimeout creates a context with timeout for testing.
// The context is automatically cancelled when the test completes.
func ContextWithTimeout(t testing.TB, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx, cancel
}

// ============================================================================
// Environment Helpers
// ============================================================================

// IsolateEnv points the XDG directories at a fresh temporary directory and
// clears every ADBKIT_ variable for the duration of the test. It returns the
// directory.
func IsolateEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "ADBKIT_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return dir
}

// ============================================================================
// Wait Helpers
// ============================================================================

// WaitFor waits for a condition to become true with timeout.
// If the condition does not become true within the timeout, the test fails.
func WaitFor(t testing.TB, condition func() bool, timeout, interval time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// Closed reports whether ch is closed, waiting at most timeout.
func Closed(ch <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
