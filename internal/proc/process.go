package proc

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
)

var (
	// DrainGrace bounds how long Output keeps reading stdout and stderr after
	// the process exited. Grandchildren that inherited the pipe can hold it
	// open indefinitely; once the grace expires the read ends are closed.
	DrainGrace = 2 * time.Second

	// ReapGrace bounds how long a pipe's upstream process may outlive its
	// downstream before it is killed.
	ReapGrace = 2 * time.Second
)

// Process is a spawned child. Its outcome is collected exactly once through
// Output.
type Process struct {
	cmd     *exec.Cmd
	program string
	args    []string
	timeout time.Duration
	signal  <-chan struct{}
	logger  logging.Logger

	stdin  *os.File
	stdout *os.File
	stderr *os.File

	upstream *Process

	started time.Time
	exited  chan struct{}
	waitErr error

	collected atomic.Bool
}

// Spawn starts the process described by c. The command is consumed: a second
// call returns a Validation error.
func (c *Command) Spawn() (*Process, error) {
	if !c.spawned.CompareAndSwap(false, true) {
		c.closeOwned()
		return nil, errors.New(errors.Validation, "command already spawned").WithOp("proc.Spawn")
	}

	if c.debug {
		c.logger.Debug("executing", "cmd", c.String())
	}

	cmd := exec.Command(c.program, c.args...)
	cmd.Dir = c.dir
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	configureSysProcAttr(cmd)

	p := &Process{
		cmd:     cmd,
		program: c.program,
		args:    c.Arguments(),
		timeout: c.timeout,
		signal:  c.signal,
		logger:  c.logger,
		exited:  make(chan struct{}),
	}

	// Ends handed to the child; closed in the parent once it started.
	var childEnds []*os.File
	fail := func(err error) (*Process, error) {
		for _, f := range childEnds {
			f.Close()
		}
		for _, f := range []*os.File{p.stdin, p.stdout, p.stderr} {
			if f != nil {
				f.Close()
			}
		}
		return nil, errors.Wrapf(errors.Spawn, err, "failed to spawn %s", filepath.Base(c.program)).WithOp("proc.Spawn")
	}

	// stdin: the child reads, the parent writes.
	switch {
	case c.stdin.IsPiped():
		r, w, err := os.Pipe()
		if err != nil {
			return fail(err)
		}
		childEnds = append(childEnds, r)
		cmd.Stdin, p.stdin = r, w
	default:
		f, err := c.stdin.open(os.Stdin)
		if err != nil {
			return fail(err)
		}
		if f != nil && f != os.Stdin && (c.stdin.owned || c.stdin.kind == redirectNull) {
			childEnds = append(childEnds, f)
		}
		if f != nil {
			cmd.Stdin = f
		}
	}

	for _, s := range []struct {
		r      Redirect
		std    *os.File
		target *io.Writer
		parent **os.File
	}{
		{c.stdout, os.Stdout, &cmd.Stdout, &p.stdout},
		{c.stderr, os.Stderr, &cmd.Stderr, &p.stderr},
	} {
		if s.r.IsPiped() {
			r, w, err := os.Pipe()
			if err != nil {
				return fail(err)
			}
			childEnds = append(childEnds, w)
			*s.target, *s.parent = w, r
			continue
		}
		f, err := s.r.open(s.std)
		if err != nil {
			return fail(err)
		}
		if f != nil && f != s.std && (s.r.owned || s.r.kind == redirectNull) {
			childEnds = append(childEnds, f)
		}
		if f != nil {
			*s.target = f
		}
	}

	if err := cmd.Start(); err != nil {
		return fail(err)
	}
	for _, f := range childEnds {
		f.Close()
	}

	p.started = time.Now()
	go p.wait()
	return p, nil
}

// open resolves a non-piped redirect to the file the child should use.
func (r Redirect) open(std *os.File) (*os.File, error) {
	switch r.kind {
	case redirectInherit:
		return std, nil
	case redirectNull:
		flag := os.O_WRONLY
		if std == os.Stdin {
			flag = os.O_RDONLY
		}
		return os.OpenFile(os.DevNull, flag, 0)
	case redirectFile:
		return r.file, nil
	default:
		return nil, nil
	}
}

// closeOwned releases files the command was given ownership of.
func (c *Command) closeOwned() {
	for _, r := range []Redirect{c.stdin, c.stdout, c.stderr} {
		if r.owned && r.file != nil {
			r.file.Close()
		}
	}
}

func (p *Process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.exited)
}

// Pid returns the OS process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Stdin returns the write end of the child's stdin, or nil when stdin is not
// piped. Output closes it if the caller has not.
func (p *Process) Stdin() io.WriteCloser {
	if p.stdin == nil {
		return nil
	}
	return p.stdin
}

// TakeStdout transfers ownership of the stdout read end to the caller. After
// a successful take, Output no longer captures stdout.
func (p *Process) TakeStdout() (*os.File, bool) {
	f := p.stdout
	p.stdout = nil
	return f, f != nil
}

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error {
	return p.cmd.Process.Kill()
}

// Done is closed once the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.exited
}

// Wait blocks until the process exits. Piped output is not drained; use
// Output when the child may fill a pipe.
func (p *Process) Wait() {
	<-p.exited
}

// Output supervises the process until it exits, collects its piped output and
// classifies the result. It returns an error only for OS-level failures; a
// process that failed on its own is reported through Outcome.Err.
func (p *Process) Output() (*Outcome, error) {
	if !p.collected.CompareAndSwap(false, true) {
		return nil, errors.New(errors.Validation, "output already collected").WithOp("proc.Output")
	}

	if p.stdin != nil {
		p.stdin.Close()
	}

	stdout := startDrain(p.stdout)
	stderr := startDrain(p.stderr)

	trigger := p.supervise()
	<-p.exited
	end := time.Now()

	expired := make(chan struct{})
	grace := time.AfterFunc(DrainGrace, func() { close(expired) })
	defer grace.Stop()
	readErr := stdout.finish(expired)
	if err := stderr.finish(expired); readErr == nil {
		readErr = err
	}

	p.reapUpstream(trigger)

	o := &Outcome{
		Program:   p.program,
		Args:      p.args,
		Pid:       p.Pid(),
		Stdout:    stdout.bytes(),
		Stderr:    stderr.bytes(),
		Trigger:   trigger,
		StartTime: p.started,
		EndTime:   end,
		Duration:  end.Sub(p.started),
	}
	return p.classify(o, readErr)
}

// supervise races natural exit against the timeout and the cancellation
// signal. Exactly one branch wins; the losing branches are never revisited,
// so the process receives at most one kill.
func (p *Process) supervise() Trigger {
	var timer <-chan time.Time
	if p.timeout > 0 {
		remaining := p.timeout - time.Since(p.started)
		if remaining < 0 {
			remaining = 0
		}
		t := time.NewTimer(remaining)
		defer t.Stop()
		timer = t.C
	}

	select {
	case <-p.exited:
		return TriggerNone
	case <-p.signal:
		p.logger.Debug("cancellation received, killing process", "cmd", p.describe(), "pid", p.Pid())
		if p.forceKill() {
			return TriggerCancel
		}
		return TriggerNone
	case <-timer:
		p.logger.Debug("timeout expired, killing process", "cmd", p.describe(), "pid", p.Pid(), "timeout", p.timeout)
		if p.forceKill() {
			return TriggerTimeout
		}
		return TriggerNone
	}
}

// forceKill reports whether a kill was sent to a still-running process.
func (p *Process) forceKill() bool {
	select {
	case <-p.exited:
		return false
	default:
	}
	if err := p.Kill(); err != nil {
		p.logger.Warn("failed to kill process", "cmd", p.describe(), "pid", p.Pid(), "err", err)
		return false
	}
	return true
}

// reapUpstream waits for the feeding process of a pipe and kills it if it
// outlives the grace period. When downstream was killed there is no one left
// to read, so upstream is killed without waiting.
func (p *Process) reapUpstream(trigger Trigger) {
	up := p.upstream
	if up == nil {
		return
	}
	if trigger != TriggerNone {
		p.logger.Debug("pipe killed, killing upstream", "cmd", up.describe(), "pid", up.Pid(), "trigger", trigger)
		up.forceKill()
		<-up.exited
		return
	}
	t := time.NewTimer(ReapGrace)
	defer t.Stop()
	select {
	case <-up.exited:
	case <-t.C:
		p.logger.Debug("upstream outlived pipe, killing process", "cmd", up.describe(), "pid", up.Pid())
		up.forceKill()
		<-up.exited
	}
}

func (p *Process) classify(o *Outcome, readErr error) (*Outcome, error) {
	if p.waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(p.waitErr, &exitErr) {
			return nil, errors.Wrapf(errors.IO, p.waitErr, "failed to wait for %s", filepath.Base(p.program)).WithOp("proc.Output")
		}
	}
	if readErr != nil {
		return nil, errors.Wrapf(errors.IO, readErr, "failed to read output of %s", filepath.Base(p.program)).WithOp("proc.Output")
	}

	state := p.cmd.ProcessState
	if state == nil {
		return nil, errors.Newf(errors.IO, "no exit status for %s", filepath.Base(p.program)).WithOp("proc.Output")
	}

	switch {
	case state.Success():
		o.Status = StatusSuccess
	default:
		o.ExitCode = state.ExitCode()
		if sig, ok := signalOf(state); ok {
			o.Signal = sig
			if isExpectedSignal(sig) {
				o.Status = StatusSignaled
				break
			}
		}
		if o.Status != StatusSignaled {
			o.Status = StatusFailed
		}
	}
	return o, nil
}

func (p *Process) describe() string {
	if len(p.args) == 0 {
		return filepath.Base(p.program)
	}
	return filepath.Base(p.program) + " " + strings.Join(p.args, " ")
}

// drain copies one piped stream into memory.
type drain struct {
	f    *os.File
	buf  bytes.Buffer
	err  error
	done chan struct{}
}

func startDrain(f *os.File) *drain {
	d := &drain{f: f, done: make(chan struct{})}
	if f == nil {
		close(d.done)
		return d
	}
	go func() {
		defer close(d.done)
		_, err := d.buf.ReadFrom(f)
		if err != nil && !errors.Is(err, os.ErrClosed) {
			d.err = err
		}
	}()
	return d
}

// finish waits for the drain, closing the read end if the grace period
// expires first. The read end is always closed on return.
func (d *drain) finish(expired <-chan struct{}) error {
	if d.f == nil {
		return nil
	}
	select {
	case <-d.done:
	case <-expired:
		d.f.Close()
		<-d.done
	}
	d.f.Close()
	return d.err
}

func (d *drain) bytes() []byte {
	if d.f == nil {
		return nil
	}
	return d.buf.Bytes()
}
