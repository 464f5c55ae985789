package testing

import (
	"strings"
	"testing"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

// ============================================================================
// Error Assertions
// ============================================================================

// AssertErrorCode checks if an error has a specific error code.
func AssertErrorCode(t testing.TB, err error, expectedCode errors.Code) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error with code %s, but got nil", expectedCode)
		return
	}

	actualCode := errors.GetCode(err)
	if actualCode != expectedCode {
		t.Errorf("expected error code %s, but got %s (error: %v)", expectedCode, actualCode, err)
	}
}

// AssertErrorContains checks if error message contains a substring.
func AssertErrorContains(t testing.TB, err error, substring string) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error containing %q, but got nil", substring)
		return
	}

	if !strings.Contains(err.Error(), substring) {
		t.Errorf("expected error to contain %q, but got: %v", substring, err)
	}
}

// ============================================================================
// Outcome Assertions
// ============================================================================

// AssertOutcome checks the status and trigger of an outcome.
func AssertOutcome(t testing.TB, o *proc.Outcome, status proc.Status, trigger proc.Trigger) {
	t.Helper()

	if o == nil {
		t.Errorf("expected %s outcome, but got nil", status)
		return
	}
	if o.Status != status || o.Trigger != trigger {
		t.Errorf("expected %s (trigger=%s), but got %s (trigger=%s)", status, trigger, o.Status, o.Trigger)
	}
}

// ============================================================================
// Runner Assertions
// ============================================================================

// AssertCalledWith checks that the mock runner ran a command with exactly
// these arguments.
func AssertCalledWith(t testing.TB, m *proc.MockRunner, args ...string) {
	t.Helper()

	if !m.WasCalledWith(args...) {
		t.Errorf("expected call with %q, but got: %v", strings.Join(args, " "), callLines(m))
	}
}

// AssertNotCalledWith checks that the mock runner never ran these arguments.
func AssertNotCalledWith(t testing.TB, m *proc.MockRunner, args ...string) {
	t.Helper()

	if m.WasCalledWith(args...) {
		t.Errorf("expected no call with %q", strings.Join(args, " "))
	}
}

// AssertCallCount checks the number of commands the mock runner ran.
func AssertCallCount(t testing.TB, m *proc.MockRunner, expected int) {
	t.Helper()

	if got := m.CallCount(); got != expected {
		t.Errorf("expected %d calls, but got %d: %v", expected, got, callLines(m))
	}
}

func callLines(m *proc.MockRunner) []string {
	var lines []string
	for _, c := range m.Calls() {
		lines = append(lines, c.Line())
	}
	return lines
}

// ============================================================================
// Logger Assertions
// ============================================================================

// AssertLogContains checks if the recorder captured a message.
func AssertLogContains(t testing.TB, r *logging.Recorder, substring string) {
	t.Helper()

	if !r.Contains(substring) {
		var msgs []string
		for _, e := range r.Entries() {
			msgs = append(msgs, e.Message)
		}
		t.Errorf("expected log to contain %q, but it doesn't (messages: %v)", substring, msgs)
	}
}

// AssertLogNotContains checks if the recorder did NOT capture a message.
func AssertLogNotContains(t testing.TB, r *logging.Recorder, substring string) {
	t.Helper()

	if r.Contains(substring) {
		t.Errorf("expected log to NOT contain %q, but it does", substring)
	}
}

// AssertLogLevel checks if a message was captured at a specific level.
func AssertLogLevel(t testing.TB, r *logging.Recorder, level logging.Level, substring string) {
	t.Helper()

	for _, e := range r.Find(substring) {
		if e.Level == level {
			return
		}
	}
	t.Errorf("expected log at level %s to contain %q, but it doesn't", level, substring)
}
