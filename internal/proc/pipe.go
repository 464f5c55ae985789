package proc

import (
	"io"
	"time"

	"github.com/tungetti/adbkit/internal/errors"
)

// Pipe spawns upstream and downstream with upstream's stdout connected
// directly to downstream's stdin through an OS pipe. It returns the
// downstream process; collecting its Output also reaps upstream.
//
// Upstream stdout must be piped. Its stdin is closed and its stderr is
// discarded.
func Pipe(upstream, downstream *Command) (*Process, error) {
	if !upstream.stdout.IsPiped() {
		return nil, errors.Newf(errors.PipeContract, "stdout of %s is not piped", upstream.String()).WithOp("proc.Pipe")
	}

	up, err := upstream.Spawn()
	if err != nil {
		return nil, err
	}
	if up.stdin != nil {
		up.stdin.Close()
		up.stdin = nil
	}
	r, _ := up.TakeStdout()
	if up.stderr != nil {
		go func(stderr io.ReadCloser) {
			io.Copy(io.Discard, stderr)
			stderr.Close()
		}(up.stderr)
		up.stderr = nil
	}

	down, err := downstream.Stdin(ownedFile(r)).Spawn()
	if err != nil {
		up.forceKill()
		return nil, err
	}
	down.upstream = up
	return down, nil
}

// PipeOutput runs upstream into downstream and collects downstream's outcome.
func PipeOutput(upstream, downstream *Command) (*Outcome, error) {
	p, err := Pipe(upstream, downstream)
	if err != nil {
		return nil, err
	}
	return p.Output()
}

// PipeWithTimeout is PipeOutput with a timeout applied to downstream only.
// Whatever downstream wrote before being killed is returned.
func PipeWithTimeout(upstream, downstream *Command, d time.Duration) (*Outcome, error) {
	return PipeOutput(upstream, downstream.WithTimeout(d))
}
