// Package procgroup starts commands in their own process group so that a
// whole tree of processes can be killed at once.
package procgroup

import (
	"errors"
	"os"
	"os/exec"
)

// Killed reports whether err from Kill means nothing was left to kill.
func Killed(err error) bool {
	return err == nil || errors.Is(err, os.ErrProcessDone)
}

// Bind configures cmd to start in a new group and makes context
// cancellation kill the whole group instead of only the direct child.
func Bind(cmd *exec.Cmd) {
	Configure(cmd)
	cmd.Cancel = func() error {
		return Kill(cmd)
	}
}
