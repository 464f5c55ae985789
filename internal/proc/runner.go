package proc

// Runner executes commands and returns their outcomes. Callers depend on it
// so tests can swap in a MockRunner.
type Runner interface {
	// Output spawns cmd and collects its outcome.
	Output(cmd *Command) (*Outcome, error)

	// Pipe runs upstream into downstream and collects downstream's outcome.
	Pipe(upstream, downstream *Command) (*Outcome, error)
}

// ExecRunner runs commands as real OS processes.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Output implements Runner.
func (ExecRunner) Output(cmd *Command) (*Outcome, error) {
	return cmd.Output()
}

// Pipe implements Runner.
func (ExecRunner) Pipe(upstream, downstream *Command) (*Outcome, error) {
	return PipeOutput(upstream, downstream)
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
