// Package proc spawns and supervises external processes. A Command
// accumulates a program, its arguments and stream redirections; Output
// spawns it, races natural exit against an optional timeout and cancellation
// signal, applies at most one forced kill and classifies what happened into
// an Outcome.
package proc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/tungetti/adbkit/internal/errors"
)

// Status classifies how a process ended.
type Status int

const (
	// StatusSuccess means the process exited with status zero.
	StatusSuccess Status = iota
	// StatusSignaled means the process died from SIGINT or SIGKILL, the two
	// signals a supervisor or an interactive user sends on purpose.
	StatusSignaled
	// StatusFailed means a non-zero exit code or any other terminating signal.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSignaled:
		return "signaled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// Trigger records why the engine killed a process, if it did.
type Trigger int

const (
	// TriggerNone means the process ended on its own.
	TriggerNone Trigger = iota
	// TriggerTimeout means the configured timeout elapsed first.
	TriggerTimeout
	// TriggerCancel means the cancellation signal fired first.
	TriggerCancel
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerNone:
		return "none"
	case TriggerTimeout:
		return "timeout"
	case TriggerCancel:
		return "cancel"
	default:
		return fmt.Sprintf("Trigger(%d)", t)
	}
}

// Outcome is the classified result of a finished process. It is built once
// by the engine and never mutated afterwards.
type Outcome struct {
	Program   string         // Program that was executed
	Args      []string       // Arguments passed to the program
	Pid       int            // OS process ID
	Stdout    []byte         // Captured standard output
	Stderr    []byte         // Captured standard error
	Status    Status         // Exactly one classification
	ExitCode  int            // Exit code, -1 when the process was signalled
	Signal    syscall.Signal // Terminating signal, 0 when none
	Trigger   Trigger        // Why the engine killed the process, if it did
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Success reports whether the process exited with status zero.
func (o *Outcome) Success() bool {
	return o.Status == StatusSuccess
}

// Signaled reports whether the process ended from SIGINT or SIGKILL.
func (o *Outcome) Signaled() bool {
	return o.Status == StatusSignaled
}

// Failed reports whether the process failed on its own.
func (o *Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Induced reports whether the engine killed the process because of a
// timeout or a cancellation request.
func (o *Outcome) Induced() bool {
	return o.Trigger != TriggerNone
}

// Interrupted reports whether the process died from SIGINT.
func (o *Outcome) Interrupted() bool {
	return o.Signal == syscall.SIGINT
}

// Killed reports whether the process died from SIGKILL.
func (o *Outcome) Killed() bool {
	return o.Signal == syscall.SIGKILL
}

// StdoutString returns stdout as a string.
func (o *Outcome) StdoutString() string {
	return string(o.Stdout)
}

// StderrString returns stderr as a string.
func (o *Outcome) StderrString() string {
	return string(o.Stderr)
}

// StdoutLines returns trimmed stdout split by newlines. Empty output yields
// an empty slice.
func (o *Outcome) StdoutLines() []string {
	return splitLines(o.Stdout)
}

// StderrLines returns trimmed stderr split by newlines.
func (o *Outcome) StderrLines() []string {
	return splitLines(o.Stderr)
}

func splitLines(b []byte) []string {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return []string{}
	}
	lines := strings.Split(trimmed, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// HasStdout returns true if there is any stdout output.
func (o *Outcome) HasStdout() bool {
	return len(o.Stdout) > 0
}

// HasStderr returns true if there is any stderr output.
func (o *Outcome) HasStderr() bool {
	return len(o.Stderr) > 0
}

// CombinedOutput returns stdout followed by stderr.
func (o *Outcome) CombinedOutput() []byte {
	var buf bytes.Buffer
	buf.Write(o.Stdout)
	buf.Write(o.Stderr)
	return buf.Bytes()
}

// Err returns nil unless the outcome is StatusFailed, in which case it
// returns an errors.Command error whose cause is a *CommandError.
func (o *Outcome) Err() error {
	if o.Status != StatusFailed {
		return nil
	}
	return errors.Wrap(errors.Command, "command failed", &CommandError{
		Program:  o.Program,
		Args:     o.Args,
		ExitCode: o.ExitCode,
		Signal:   o.Signal,
		Stderr:   o.Stderr,
	}).WithOp("proc.Output")
}

// String summarises the outcome for logs.
func (o *Outcome) String() string {
	switch {
	case o.Status == StatusSignaled:
		return fmt.Sprintf("%s: %s (%s, trigger=%s)", filepath.Base(o.Program), o.Status, o.Signal, o.Trigger)
	case o.Signal != 0:
		return fmt.Sprintf("%s: %s (%s)", filepath.Base(o.Program), o.Status, o.Signal)
	default:
		return fmt.Sprintf("%s: %s (exit %d)", filepath.Base(o.Program), o.Status, o.ExitCode)
	}
}

// CommandError describes a process that failed on its own.
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int
	Signal   syscall.Signal
	Stderr   []byte
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	status := fmt.Sprintf("exit code %d", e.ExitCode)
	if e.Signal != 0 {
		status = fmt.Sprintf("signal %s", e.Signal)
	}
	msg := strings.TrimSpace(string(e.Stderr))
	if msg == "" {
		return fmt.Sprintf("%s: %s", filepath.Base(e.Program), status)
	}
	return fmt.Sprintf("%s: %s: %s", filepath.Base(e.Program), status, msg)
}
