//go:build unix

package proc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
)

// =============================================================================
// Command Tests
// =============================================================================

func TestCommand_Defaults(t *testing.T) {
	c := New("adb")

	assert.Equal(t, "adb", c.Program())
	assert.Empty(t, c.Arguments())
	assert.Zero(t, c.Timeout())
	assert.False(t, c.HasSignal())
	assert.True(t, c.StdoutRedirect().IsPiped())
	assert.Equal(t, "adb", c.String())
}

func TestCommand_Builder(t *testing.T) {
	sig := make(chan struct{})
	c := New("/usr/bin/adb").
		Args("-s", "emulator-5554").
		Arg("shell").
		Args("getprop", "ro.product.model").
		WithTimeout(3 * time.Second).
		WithSignal(sig).
		Stderr(Null())

	assert.Equal(t, []string{"-s", "emulator-5554", "shell", "getprop", "ro.product.model"}, c.Arguments())
	assert.Equal(t, 3*time.Second, c.Timeout())
	assert.True(t, c.HasSignal())
	assert.Equal(t, "adb -s emulator-5554 shell getprop ro.product.model", c.String())

	c.WithTimeout(0).WithSignal(nil)
	assert.Zero(t, c.Timeout())
	assert.False(t, c.HasSignal())
}

func TestCommand_ArgumentsIsCopy(t *testing.T) {
	c := New("echo").Args("a", "b")
	args := c.Arguments()
	args[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, c.Arguments())
}

func TestRedirect_String(t *testing.T) {
	assert.Equal(t, "piped", Piped().String())
	assert.Equal(t, "inherit", Inherit().String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "null", File(nil).String())
	assert.Equal(t, "file(/dev/stdout)", File(os.Stdout).String())
}

// =============================================================================
// Engine Tests
// =============================================================================

func TestOutput_Success(t *testing.T) {
	o, err := New("echo").Arg("hello").Output()
	require.NoError(t, err)

	assert.True(t, o.Success())
	assert.Equal(t, "hello\n", o.StdoutString())
	assert.Empty(t, o.Stderr)
	assert.Equal(t, TriggerNone, o.Trigger)
	assert.NoError(t, o.Err())
	assert.Positive(t, o.Pid)
	assert.False(t, o.EndTime.Before(o.StartTime))
}

func TestOutput_CapturesStderr(t *testing.T) {
	o, err := New("sh").Args("-c", "echo out; echo err >&2").Output()
	require.NoError(t, err)

	assert.Equal(t, "out\n", o.StdoutString())
	assert.Equal(t, "err\n", o.StderrString())
}

func TestOutput_ExitCode(t *testing.T) {
	o, err := New("sh").Args("-c", "echo boom >&2; exit 7").Output()
	require.NoError(t, err)

	assert.True(t, o.Failed())
	assert.Equal(t, 7, o.ExitCode)
	assert.Equal(t, "boom\n", o.StderrString())
	assert.Equal(t, TriggerNone, o.Trigger)

	runErr := o.Err()
	require.Error(t, runErr)
	assert.True(t, errors.IsCode(runErr, errors.Command))

	var cmdErr *CommandError
	require.True(t, errors.As(runErr, &cmdErr))
	assert.Equal(t, 7, cmdErr.ExitCode)
}

func TestRun_FoldsFailure(t *testing.T) {
	assert.NoError(t, New("true").Run())

	err := New("false").Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Command))
}

func TestOutput_Timeout(t *testing.T) {
	start := time.Now()
	o, err := New("sleep").Arg("5").WithTimeout(200 * time.Millisecond).Output()
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.True(t, o.Signaled())
	assert.True(t, o.Killed())
	assert.True(t, o.Induced())
	assert.Equal(t, TriggerTimeout, o.Trigger)
	assert.NoError(t, o.Err())
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestOutput_TimeoutKeepsPartialOutput(t *testing.T) {
	o, err := New("sh").Args("-c", "echo ready; exec sleep 5").WithTimeout(300 * time.Millisecond).Output()
	require.NoError(t, err)

	assert.Equal(t, TriggerTimeout, o.Trigger)
	assert.Equal(t, "ready\n", o.StdoutString())
}

func TestOutput_Cancel(t *testing.T) {
	sig := make(chan struct{})
	go func() {
		time.Sleep(100 * time.Millisecond)
		close(sig)
	}()

	start := time.Now()
	o, err := New("sleep").Arg("5").WithSignal(sig).Output()
	require.NoError(t, err)

	assert.True(t, o.Signaled())
	assert.Equal(t, TriggerCancel, o.Trigger)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOutput_CancelBeforeSpawn(t *testing.T) {
	sig := make(chan struct{})
	close(sig)

	o, err := New("sleep").Arg("5").WithSignal(sig).Output()
	require.NoError(t, err)

	assert.Equal(t, TriggerCancel, o.Trigger)
	assert.True(t, o.Killed())
}

func TestOutput_NaturalExitBeatsTimeout(t *testing.T) {
	sig := make(chan struct{})
	o, err := New("echo").Arg("fast").WithTimeout(5 * time.Second).WithSignal(sig).Output()
	require.NoError(t, err)

	assert.True(t, o.Success())
	assert.Equal(t, TriggerNone, o.Trigger)
}

func TestOutput_SingleKill(t *testing.T) {
	rec := logging.NewRecorder()
	sig := make(chan struct{})
	close(sig)

	o, err := New("sleep").Arg("5").
		WithTimeout(time.Nanosecond).
		WithSignal(sig).
		WithLogger(rec).
		Output()
	require.NoError(t, err)

	assert.True(t, o.Induced())
	assert.Len(t, rec.Find("killing process"), 1)
	assert.False(t, rec.Contains("failed to kill"))
}

func TestOutput_ExternalSignal(t *testing.T) {
	tests := []struct {
		name   string
		script string
		status Status
		signal syscall.Signal
	}{
		{"SIGINT is expected", "kill -INT $$", StatusSignaled, syscall.SIGINT},
		{"SIGKILL is expected", "kill -KILL $$", StatusSignaled, syscall.SIGKILL},
		{"SIGTERM is a failure", "kill -TERM $$", StatusFailed, syscall.SIGTERM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New("sh").Args("-c", tt.script).Output()
			require.NoError(t, err)

			assert.Equal(t, tt.status, o.Status)
			assert.Equal(t, tt.signal, o.Signal)
			assert.Equal(t, -1, o.ExitCode)
			assert.Equal(t, TriggerNone, o.Trigger)
		})
	}
}

func TestSpawn_MissingBinary(t *testing.T) {
	o, err := New("adbkit-definitely-missing-binary").Output()

	require.Error(t, err)
	assert.Nil(t, o)
	assert.True(t, errors.IsCode(err, errors.Spawn))
	assert.Contains(t, err.Error(), "proc.Spawn")
}

func TestSpawn_FailureLeavesFileOpen(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	_, err = New("adbkit-definitely-missing-binary").Stdout(File(f)).Spawn()
	require.Error(t, err)

	_, err = f.WriteString("still open\n")
	assert.NoError(t, err)
}

func TestSpawn_Twice(t *testing.T) {
	c := New("true")
	p, err := c.Spawn()
	require.NoError(t, err)
	_, err = p.Output()
	require.NoError(t, err)

	_, err = c.Spawn()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAlreadySpawned))
}

func TestProcess_OutputTwice(t *testing.T) {
	p, err := New("true").Spawn()
	require.NoError(t, err)

	_, err = p.Output()
	require.NoError(t, err)
	_, err = p.Output()
	assert.True(t, errors.IsCode(err, errors.Validation))
}

func TestProcess_Stdin(t *testing.T) {
	p, err := New("cat").Spawn()
	require.NoError(t, err)

	_, err = p.Stdin().Write([]byte("fed through stdin"))
	require.NoError(t, err)

	o, err := p.Output()
	require.NoError(t, err)
	assert.Equal(t, "fed through stdin", o.StdoutString())
}

func TestOutput_StdoutToFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "screen.png"))
	require.NoError(t, err)
	defer f.Close()

	o, err := New("printf").Args("%s", "PNGDATA").Stdout(File(f)).Output()
	require.NoError(t, err)
	assert.True(t, o.Success())
	assert.Empty(t, o.Stdout)

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestOutput_NullStreams(t *testing.T) {
	o, err := New("sh").Args("-c", "echo hidden; echo gone >&2").
		Stdin(Null()).
		Stdout(Null()).
		Stderr(Null()).
		Output()
	require.NoError(t, err)

	assert.True(t, o.Success())
	assert.Empty(t, o.Stdout)
	assert.Empty(t, o.Stderr)
}

func TestOutput_GrandchildHoldsPipe(t *testing.T) {
	old := DrainGrace
	DrainGrace = 200 * time.Millisecond
	defer func() { DrainGrace = old }()

	start := time.Now()
	o, err := New("sh").Args("-c", "sleep 5 & echo parent").Output()
	require.NoError(t, err)

	assert.True(t, o.Success())
	assert.Equal(t, "parent\n", o.StdoutString())
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestOutput_DebugTrace(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  int
	}{
		{"enabled", true, 1},
		{"disabled", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := logging.NewRecorder()
			_, err := New("/bin/echo").Args("a", "b").WithDebug(tt.debug).WithLogger(rec).Output()
			require.NoError(t, err)

			entries := rec.Find("executing")
			require.Len(t, entries, tt.want)
			if tt.want > 0 {
				cmd, ok := entries[0].Field("cmd")
				require.True(t, ok)
				assert.Equal(t, "echo a b", cmd)
			}
		})
	}
}

// =============================================================================
// Pipe Tests
// =============================================================================

func TestPipe_Basic(t *testing.T) {
	o, err := PipeOutput(New("printf").Args("%s", "abcdef"), New("cat"))
	require.NoError(t, err)

	assert.True(t, o.Success())
	assert.Equal(t, "abcdef", o.StdoutString())
}

func TestPipe_Grep(t *testing.T) {
	up := New("printf").Args("%s\n", "mWakefulness=Awake", "mHalSomething=false")
	down := New("grep").Arg("mWakefulness=")

	o, err := PipeOutput(up, down)
	require.NoError(t, err)
	assert.Equal(t, []string{"mWakefulness=Awake"}, o.StdoutLines())
}

func TestPipe_LargeStream(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 64*1024) // 1 MiB, larger than a pipe buffer
	path := filepath.Join(t.TempDir(), "payload")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	o, err := PipeOutput(New("cat").Arg(path), New("cat"))
	require.NoError(t, err)

	require.Len(t, o.Stdout, len(payload))
	assert.True(t, bytes.Equal(payload, o.Stdout))
}

func TestPipe_DownstreamTimeout(t *testing.T) {
	up := New("sh").Args("-c", "echo first; exec sleep 5")
	down := New("cat")

	start := time.Now()
	o, err := PipeWithTimeout(up, down, 300*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, TriggerTimeout, o.Trigger)
	assert.Equal(t, "first\n", o.StdoutString())
	assert.Less(t, time.Since(start), time.Second)
}

func TestPipe_CancelKillsUpstream(t *testing.T) {
	cancel := make(chan struct{})
	up := New("sh").Args("-c", "echo first; exec sleep 5")
	down := New("cat").WithSignal(cancel)

	p, err := Pipe(up, down)
	require.NoError(t, err)
	upstream := p.upstream
	time.AfterFunc(200*time.Millisecond, func() { close(cancel) })

	start := time.Now()
	o, err := p.Output()
	require.NoError(t, err)

	assert.Equal(t, TriggerCancel, o.Trigger)
	assert.Less(t, time.Since(start), time.Second)
	select {
	case <-upstream.exited:
	default:
		t.Fatal("upstream still running after pipe output")
	}
}

func TestPipe_UpstreamReapedAfterNaturalExit(t *testing.T) {
	// head exits after one line; the upstream writer gets the grace period
	// to notice the closed pipe before being killed.
	up := New("sh").Args("-c", "echo one; echo two; exec sleep 0.1")
	down := New("head").Args("-n", "1")

	o, err := PipeOutput(up, down)
	require.NoError(t, err)

	assert.Equal(t, TriggerNone, o.Trigger)
	assert.Equal(t, "one\n", o.StdoutString())
}

func TestPipe_StdoutNotPiped(t *testing.T) {
	up := New("echo").Arg("x").Stdout(Null())

	p, err := Pipe(up, New("cat"))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.IsCode(err, errors.PipeContract))
}

func TestPipe_DownstreamSpawnFails(t *testing.T) {
	_, err := PipeOutput(New("sleep").Arg("5"), New("adbkit-definitely-missing-binary"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Spawn))
	assert.True(t, strings.Contains(err.Error(), "adbkit-definitely-missing-binary"))
}
