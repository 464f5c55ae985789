//go:build !unix

package proc

import (
	"os"
	"syscall"
)

func signalOf(state *os.ProcessState) (syscall.Signal, bool) {
	return 0, false
}

func isExpectedSignal(sig syscall.Signal) bool {
	return false
}
