// Command adbkit wraps the adb executable: it lists, connects and scans for
// devices and runs shell, logcat and screencap commands with timeouts and
// Ctrl-C cancellation.
package main

import "os"

func main() {
	cli := NewCLI()
	os.Exit(cli.Run(os.Args[1:]))
}
