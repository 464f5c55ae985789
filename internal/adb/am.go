package adb

import (
	"strings"

	"github.com/tungetti/adbkit/internal/errors"
)

// ActivityManager drives the device's "am" tool.
type ActivityManager struct {
	shell *Shell
}

// ActivityManager returns the activity manager of the device.
func (s *Shell) ActivityManager() *ActivityManager {
	return &ActivityManager{shell: s}
}

// Start starts the activity described by intent.
func (am *ActivityManager) Start(intent Intent) error {
	return am.send("start", intent)
}

// StartService starts the service described by intent.
func (am *ActivityManager) StartService(intent Intent) error {
	return am.send("startservice", intent)
}

// Broadcast sends intent to broadcast receivers.
func (am *ActivityManager) Broadcast(intent Intent) error {
	return am.send("broadcast", intent)
}

// ForceStop stops every process of a package.
func (am *ActivityManager) ForceStop(pkg string) error {
	return am.shell.ForceStop(pkg)
}

// send runs an intent command. am exits zero even when it rejects the
// intent, so its "Error:" lines are turned into an error here.
func (am *ActivityManager) send(command string, intent Intent) error {
	o, err := am.shell.run(append([]string{"am", command}, intent.Args()...)...)
	if err != nil {
		return err
	}
	for _, line := range append(o.StdoutLines(), o.StderrLines()...) {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "Error:"); ok {
			return errors.Newf(errors.Command, "am %s: %s", command, strings.TrimSpace(msg)).WithOp("adb.ActivityManager")
		}
	}
	return nil
}
