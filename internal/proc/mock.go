package proc

import (
	"strings"
	"sync"
	"syscall"
	"time"
)

// MockRunner is a test implementation of Runner that records calls and
// returns pre-configured outcomes. It is safe for concurrent use.
//
// Responses are keyed by the space-joined argument vector, e.g.
// "-s emulator-5554 shell getprop". For Pipe the upstream arguments are the
// key.
type MockRunner struct {
	mu         sync.Mutex
	responses  map[string]mockResponse
	calls      []MockCall
	defaultRes *mockResponse
}

type mockResponse struct {
	outcome *Outcome
	err     error
}

// MockCall records a call to the mock runner.
type MockCall struct {
	Program   string        // The program that was called
	Args      []string      // The arguments passed
	Timeout   time.Duration // Configured timeout
	HasSignal bool          // Whether a cancellation receiver was set
	Upstream  *MockCall     // Feeding command when called through Pipe
}

// Line returns the space-joined arguments, the key used for responses.
func (c MockCall) Line() string {
	return strings.Join(c.Args, " ")
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string]mockResponse),
	}
}

// SetResponse sets a canned outcome for a specific argument line. A Failed
// outcome with a nil err is returned as is; callers read the failure from
// Outcome.Err.
func (m *MockRunner) SetResponse(line string, outcome *Outcome, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[line] = mockResponse{outcome: outcome, err: err}
}

// SetDefaultResponse sets the response for lines without a specific one.
func (m *MockRunner) SetDefaultResponse(outcome *Outcome, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRes = &mockResponse{outcome: outcome, err: err}
}

// Calls returns a copy of all recorded calls.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// CallCount returns the number of calls made to the mock.
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent call, or an empty MockCall if no calls
// were made.
func (m *MockRunner) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return MockCall{}
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears all recorded calls but keeps responses.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// WasCalledWith returns true if a call was made with exactly these args.
func (m *MockRunner) WasCalledWith(args ...string) bool {
	line := strings.Join(args, " ")
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.Line() == line {
			return true
		}
	}
	return false
}

// Output implements Runner.
func (m *MockRunner) Output(cmd *Command) (*Outcome, error) {
	return m.record(callOf(cmd), nil)
}

// Pipe implements Runner.
func (m *MockRunner) Pipe(upstream, downstream *Command) (*Outcome, error) {
	up := callOf(upstream)
	return m.record(callOf(downstream), &up)
}

func callOf(cmd *Command) MockCall {
	return MockCall{
		Program:   cmd.Program(),
		Args:      cmd.Arguments(),
		Timeout:   cmd.Timeout(),
		HasSignal: cmd.HasSignal(),
	}
}

func (m *MockRunner) record(call MockCall, upstream *MockCall) (*Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call.Upstream = upstream
	m.calls = append(m.calls, call)

	key := call.Line()
	if upstream != nil {
		key = upstream.Line()
	}

	res, ok := m.responses[key]
	if !ok && m.defaultRes != nil {
		res, ok = *m.defaultRes, true
	}
	if !ok {
		res = mockResponse{outcome: SuccessOutcome("")}
	}
	if res.outcome == nil {
		return nil, res.err
	}

	// Return a copy with command info filled in
	o := *res.outcome
	o.Program = call.Program
	o.Args = call.Args
	return &o, res.err
}

// SuccessOutcome creates a successful outcome with the given stdout.
func SuccessOutcome(stdout string) *Outcome {
	now := time.Now()
	return &Outcome{
		Status:    StatusSuccess,
		Stdout:    []byte(stdout),
		StartTime: now,
		EndTime:   now,
	}
}

// FailureOutcome creates a failed outcome with the given exit code and stderr.
func FailureOutcome(exitCode int, stderr string) *Outcome {
	now := time.Now()
	return &Outcome{
		Status:    StatusFailed,
		ExitCode:  exitCode,
		Stderr:    []byte(stderr),
		StartTime: now,
		EndTime:   now,
	}
}

// SignaledOutcome creates an outcome for a process killed by sig.
func SignaledOutcome(sig syscall.Signal, trigger Trigger, stdout string) *Outcome {
	now := time.Now()
	return &Outcome{
		Status:    StatusSignaled,
		ExitCode:  -1,
		Signal:    sig,
		Trigger:   trigger,
		Stdout:    []byte(stdout),
		StartTime: now,
		EndTime:   now,
	}
}

// Ensure MockRunner implements Runner.
var _ Runner = (*MockRunner)(nil)
