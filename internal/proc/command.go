package proc

import (
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tungetti/adbkit/internal/logging"
)

// Command is a specification for a process to be spawned. It is built
// fluently and consumed by a single Spawn. Configuration does no I/O and no
// validation; problems surface when the command is spawned.
type Command struct {
	program string
	args    []string
	dir     string
	env     []string

	stdin  Redirect
	stdout Redirect
	stderr Redirect

	timeout time.Duration
	signal  <-chan struct{}
	debug   bool
	logger  logging.Logger

	spawned atomic.Bool
}

// New creates a command for program with all three streams piped and debug
// tracing enabled.
func New(program string) *Command {
	return &Command{
		program: program,
		stdin:   Piped(),
		stdout:  Piped(),
		stderr:  Piped(),
		debug:   true,
		logger:  logging.NewNop(),
	}
}

// Arg appends a single argument.
func (c *Command) Arg(arg string) *Command {
	c.args = append(c.args, arg)
	return c
}

// Args appends arguments in order.
func (c *Command) Args(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// WithTimeout bounds the lifetime of the process. Zero clears the timeout.
func (c *Command) WithTimeout(d time.Duration) *Command {
	if d < 0 {
		d = 0
	}
	c.timeout = d
	return c
}

// WithSignal sets the cancellation receiver. The process is killed when the
// channel is closed or receives a value. Nil clears it.
func (c *Command) WithSignal(ch <-chan struct{}) *Command {
	c.signal = ch
	return c
}

// Stdin sets the standard input redirection.
func (c *Command) Stdin(r Redirect) *Command {
	c.stdin = r
	return c
}

// Stdout sets the standard output redirection.
func (c *Command) Stdout(r Redirect) *Command {
	c.stdout = r
	return c
}

// Stderr sets the standard error redirection.
func (c *Command) Stderr(r Redirect) *Command {
	c.stderr = r
	return c
}

// WithDebug toggles the "executing" trace emitted at spawn.
func (c *Command) WithDebug(on bool) *Command {
	c.debug = on
	return c
}

// WithLogger sets the logger used for tracing and kill diagnostics.
func (c *Command) WithLogger(l logging.Logger) *Command {
	if l == nil {
		l = logging.NewNop()
	}
	c.logger = l
	return c
}

// Dir sets the working directory of the child.
func (c *Command) Dir(dir string) *Command {
	c.dir = dir
	return c
}

// Env adds KEY=VALUE pairs on top of the parent's environment.
func (c *Command) Env(kv ...string) *Command {
	c.env = append(c.env, kv...)
	return c
}

// Program returns the program name or path.
func (c *Command) Program() string {
	return c.program
}

// Arguments returns a copy of the argument vector.
func (c *Command) Arguments() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// Timeout returns the configured timeout, zero when none.
func (c *Command) Timeout() time.Duration {
	return c.timeout
}

// HasSignal reports whether a cancellation receiver is configured.
func (c *Command) HasSignal() bool {
	return c.signal != nil
}

// StdoutRedirect returns the configured stdout redirection.
func (c *Command) StdoutRedirect() Redirect {
	return c.stdout
}

// String renders the command line with the program's base name.
func (c *Command) String() string {
	if len(c.args) == 0 {
		return filepath.Base(c.program)
	}
	return filepath.Base(c.program) + " " + strings.Join(c.args, " ")
}

// Output spawns the command and collects its outcome.
func (c *Command) Output() (*Outcome, error) {
	p, err := c.Spawn()
	if err != nil {
		return nil, err
	}
	return p.Output()
}

// Run spawns the command and returns an error if it could not be collected
// or failed on its own. A process killed by timeout or cancellation is not
// an error.
func (c *Command) Run() error {
	o, err := c.Output()
	if err != nil {
		return err
	}
	return o.Err()
}
