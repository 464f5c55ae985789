package proc

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/errors"
)

// =============================================================================
// Outcome Tests
// =============================================================================

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "signaled", StatusSignaled.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestTrigger_String(t *testing.T) {
	assert.Equal(t, "none", TriggerNone.String())
	assert.Equal(t, "timeout", TriggerTimeout.String())
	assert.Equal(t, "cancel", TriggerCancel.String())
	assert.Equal(t, "Trigger(5)", Trigger(5).String())
}

func TestOutcome_Classification(t *testing.T) {
	tests := []struct {
		name        string
		outcome     *Outcome
		success     bool
		signaled    bool
		failed      bool
		induced     bool
		interrupted bool
		killed      bool
	}{
		{
			name:    "success",
			outcome: &Outcome{Status: StatusSuccess},
			success: true,
		},
		{
			name:     "killed by timeout",
			outcome:  &Outcome{Status: StatusSignaled, Signal: syscall.SIGKILL, Trigger: TriggerTimeout, ExitCode: -1},
			signaled: true,
			induced:  true,
			killed:   true,
		},
		{
			name:        "interrupted externally",
			outcome:     &Outcome{Status: StatusSignaled, Signal: syscall.SIGINT, ExitCode: -1},
			signaled:    true,
			interrupted: true,
		},
		{
			name:    "exit code",
			outcome: &Outcome{Status: StatusFailed, ExitCode: 7},
			failed:  true,
		},
		{
			name:    "terminated by other signal",
			outcome: &Outcome{Status: StatusFailed, Signal: syscall.SIGTERM, ExitCode: -1},
			failed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.success, tt.outcome.Success())
			assert.Equal(t, tt.signaled, tt.outcome.Signaled())
			assert.Equal(t, tt.failed, tt.outcome.Failed())
			assert.Equal(t, tt.induced, tt.outcome.Induced())
			assert.Equal(t, tt.interrupted, tt.outcome.Interrupted())
			assert.Equal(t, tt.killed, tt.outcome.Killed())
		})
	}
}

func TestOutcome_StdoutLines(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"multiple lines", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"with trailing newline", "line1\nline2\n", []string{"line1", "line2"}},
		{"carriage returns", "a\r\nb\r\n", []string{"a", "b"}},
		{"empty output", "", []string{}},
		{"whitespace only", "  \n\t\n", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outcome{Stdout: []byte(tt.stdout), Stderr: []byte(tt.stdout)}
			assert.Equal(t, tt.expected, o.StdoutLines())
			assert.Equal(t, tt.expected, o.StderrLines())
		})
	}
}

func TestOutcome_Streams(t *testing.T) {
	o := &Outcome{Stdout: []byte("out"), Stderr: []byte("err")}

	assert.Equal(t, "out", o.StdoutString())
	assert.Equal(t, "err", o.StderrString())
	assert.True(t, o.HasStdout())
	assert.True(t, o.HasStderr())
	assert.Equal(t, []byte("outerr"), o.CombinedOutput())

	empty := &Outcome{}
	assert.False(t, empty.HasStdout())
	assert.False(t, empty.HasStderr())
}

func TestOutcome_Err(t *testing.T) {
	t.Run("nil unless failed", func(t *testing.T) {
		assert.NoError(t, (&Outcome{Status: StatusSuccess}).Err())
		assert.NoError(t, (&Outcome{Status: StatusSignaled, Signal: syscall.SIGKILL}).Err())
	})

	t.Run("failed carries command error", func(t *testing.T) {
		o := &Outcome{
			Program:  "/usr/bin/adb",
			Args:     []string{"install", "app.apk"},
			Status:   StatusFailed,
			ExitCode: 1,
			Stderr:   []byte("Failure [INSTALL_FAILED_ALREADY_EXISTS]\n"),
		}

		err := o.Err()
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.Command))

		var cmdErr *CommandError
		require.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode)
		assert.Equal(t, "adb: exit code 1: Failure [INSTALL_FAILED_ALREADY_EXISTS]", cmdErr.Error())
	})
}

func TestCommandError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CommandError
		expected string
	}{
		{
			name:     "exit code without stderr",
			err:      &CommandError{Program: "sh", ExitCode: 7},
			expected: "sh: exit code 7",
		},
		{
			name:     "signal",
			err:      &CommandError{Program: "/bin/sleep", ExitCode: -1, Signal: syscall.SIGTERM},
			expected: "sleep: signal terminated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "sh: failed (exit 7)", (&Outcome{Program: "/bin/sh", Status: StatusFailed, ExitCode: 7}).String())
	assert.Equal(t, "sleep: signaled (killed, trigger=timeout)",
		(&Outcome{Program: "sleep", Status: StatusSignaled, Signal: syscall.SIGKILL, Trigger: TriggerTimeout}).String())
}
