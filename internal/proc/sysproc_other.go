//go:build !linux

package proc

import "os/exec"

func configureSysProcAttr(cmd *exec.Cmd) {}
