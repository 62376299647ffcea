//go:build !unix && !windows

package procgroup

import (
	"os"
	"os/exec"
)

// Configure is a no-op where process groups are unavailable.
func Configure(*exec.Cmd) {}

// Kill terminates the direct child only.
func Kill(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}
