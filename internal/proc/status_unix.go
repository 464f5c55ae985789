//go:build unix

package proc

import (
	"os"
	"syscall"
)

// signalOf returns the signal that terminated the process, if any.
func signalOf(state *os.ProcessState) (syscall.Signal, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return ws.Signal(), true
}

// isExpectedSignal reports whether sig is one the supervisor or an
// interactive user sends on purpose.
func isExpectedSignal(sig syscall.Signal) bool {
	return sig == syscall.SIGINT || sig == syscall.SIGKILL
}
