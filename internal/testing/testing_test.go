package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/adb"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

// =============================================================================
// Fixture Tests
// =============================================================================

func newFixtureAdb(t *testing.T) (*adb.Adb, *proc.MockRunner) {
	m := proc.NewMockRunner()
	a, err := adb.FromPath(FakeAdb(t, t.TempDir()), adb.Options{Runner: m})
	require.NoError(t, err)
	return a, m
}

func TestDevicesFixtures(t *testing.T) {
	tests := []struct {
		name   string
		output string
		count  int
	}{
		{"mixed states", DevicesOutput, 3},
		{"empty", DevicesEmptyOutput, 0},
		{"daemon start banner", DevicesDaemonStartOutput, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newFixtureAdb(t)
			m.SetResponse("devices -l", proc.SuccessOutcome(tt.output), nil)

			devices, err := a.Devices()
			require.NoError(t, err)
			assert.Len(t, devices, tt.count)
		})
	}
}

func TestVersionFixture(t *testing.T) {
	a, m := newFixtureAdb(t)
	m.SetResponse("--version", proc.SuccessOutcome(VersionOutput), nil)

	v, err := a.Version()
	require.NoError(t, err)
	assert.Equal(t, AdbVersion, v)
}

func TestWriteConfig(t *testing.T) {
	path := WriteConfig(t, t.TempDir(), "log_level: debug", "scan_port: 5556")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\nscan_port: 5556\n", string(data))
}

func TestWriteExecutable(t *testing.T) {
	path := WriteExecutable(t, t.TempDir(), "tool", "#!/bin/sh\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestIsolateEnv(t *testing.T) {
	t.Setenv("ADBKIT_LOG_LEVEL", "debug")

	dir := IsolateEnv(t)

	assert.Equal(t, dir, os.Getenv("XDG_CONFIG_HOME"))
	assert.Equal(t, dir, os.Getenv("XDG_CACHE_HOME"))
	_, set := os.LookupEnv("ADBKIT_LOG_LEVEL")
	assert.False(t, set)
}

func TestContextWithTimeout(t *testing.T) {
	ctx, _ := ContextWithTimeout(t, 10*time.Millisecond)

	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestWaitFor(t *testing.T) {
	start := time.Now()
	WaitFor(t, func() bool { return time.Since(start) > 20*time.Millisecond }, time.Second, 5*time.Millisecond)
}

func TestClosed(t *testing.T) {
	ch := make(chan struct{})
	assert.False(t, Closed(ch, 10*time.Millisecond))
	close(ch)
	assert.True(t, Closed(ch, 10*time.Millisecond))
}

// =============================================================================
// Assertion Tests
// =============================================================================

func TestAssertions_Pass(t *testing.T) {
	err := errors.New(errors.Timeout, "screencap did not finish")
	AssertErrorCode(t, err, errors.Timeout)
	AssertErrorContains(t, err, "did not finish")

	AssertOutcome(t, proc.SuccessOutcome(""), proc.StatusSuccess, proc.TriggerNone)

	m := proc.NewMockRunner()
	_, _ = m.Output(proc.New("adb").Args("devices", "-l"))
	AssertCalledWith(t, m, "devices", "-l")
	AssertNotCalledWith(t, m, "devices")
	AssertCallCount(t, m, 1)

	r := logging.NewRecorder()
	r.Warn("kill failed")
	AssertLogContains(t, r, "kill")
	AssertLogNotContains(t, r, "spawned")
	AssertLogLevel(t, r, logging.LevelWarn, "kill failed")
}

func TestAssertions_Fail(t *testing.T) {
	tests := []struct {
		name string
		fn   func(tb testing.TB)
	}{
		{"error code nil", func(tb testing.TB) { AssertErrorCode(tb, nil, errors.Timeout) }},
		{"error code mismatch", func(tb testing.TB) { AssertErrorCode(tb, errors.New(errors.Command, "x"), errors.Timeout) }},
		{"error contains", func(tb testing.TB) { AssertErrorContains(tb, errors.New(errors.Command, "x"), "y") }},
		{"outcome", func(tb testing.TB) {
			AssertOutcome(tb, proc.FailureOutcome(1, ""), proc.StatusSuccess, proc.TriggerNone)
		}},
		{"call count", func(tb testing.TB) { AssertCallCount(tb, proc.NewMockRunner(), 1) }},
		{"called with", func(tb testing.TB) { AssertCalledWith(tb, proc.NewMockRunner(), "devices") }},
		{"log contains", func(tb testing.TB) { AssertLogContains(tb, logging.NewRecorder(), "x") }},
		{"log level", func(tb testing.TB) {
			r := logging.NewRecorder()
			r.Info("x")
			AssertLogLevel(tb, r, logging.LevelWarn, "x")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingTB{TB: t}
			tt.fn(rec)
			assert.True(t, rec.failed, "assertion should have failed")
		})
	}
}

// recordingTB captures failures instead of failing the test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper()                                   {}
func (r *recordingTB) Errorf(format string, args ...interface{}) { r.failed = true }
