package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
	lineio "github.com/brunorios1080/Isaac-Installer/internal/io"
	"github.com/brunorios1080/Isaac-Installer/internal/procgroup"
)

// waitDelay bounds how long Wait keeps draining output once the process has
// exited or the context has killed it. A background child that inherited the
// output pipe would otherwise block Wait until it exits.
var waitDelay = 5 * time.Second

// realShellExecutor implements ShellExecutor using os/exec
type realShellExecutor struct{}

// NewRealShellExecutor creates a new shell executor that executes real commands
func NewRealShellExecutor() ShellExecutor {
	return &realShellExecutor{}
}

// Execute runs the command, streaming stdout and stderr through one pipe so
// their relative order is preserved.
func (s *realShellExecutor) Execute(ctx context.Context, c Command, w io.Writer) (Result, error) {
	result := Result{Command: c, ExitCode: -1}

	name, args := c.Argv()
	// #nosec G204 - Commands come from the installer configuration controlled by the operator
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	procgroup.Bind(cmd)
	if c.WorkDir != "" {
		cmd.Dir = c.WorkDir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return result, apperrors.SpawnFailed(c.String(), err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		waitErr <- err
	}()

	lines, forwardErr := lineio.ForwardLines(pr, w)
	result.Output = lines
	err := <-waitErr

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		case errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil:
			// The process itself exited; only a detached child kept the pipe open.
			result.ExitCode = cmd.ProcessState.ExitCode()
			return result, nil
		default:
			return result, apperrors.SpawnFailed(c.String(), err)
		}
	}
	if forwardErr != nil {
		return result, apperrors.SpawnFailed(c.String(), forwardErr)
	}

	result.ExitCode = 0
	return result, nil
}
