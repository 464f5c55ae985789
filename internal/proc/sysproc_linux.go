//go:build linux

package proc

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr makes the kernel kill the child when the thread that
// spawned it dies, so abandoned children do not outlive the supervisor.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
