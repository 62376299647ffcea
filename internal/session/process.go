package session

import (
	"errors"
	"io"
	"os/exec"
	"sync"

	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
	"github.com/brunorios1080/Isaac-Installer/internal/procgroup"
)

// Process is a spawned background script
type Process interface {
	// Poll reports without blocking whether the process has exited and its exit code.
	Poll() (exited bool, exitCode int, err error)
	Kill() error
	Pid() int
}

// Starter spawns a script with its combined output sent to log
type Starter interface {
	Start(scriptPath string, log io.Writer) (Process, error)
}

type shellStarter struct {
	name string
	args []string
}

// NewShellStarter returns a Starter running scripts as `name args... script`
func NewShellStarter(name string, args ...string) Starter {
	return &shellStarter{name: name, args: args}
}

func (s *shellStarter) Start(scriptPath string, log io.Writer) (Process, error) {
	argv := append(append([]string{}, s.args...), scriptPath)
	cmd := exec.Command(s.name, argv...)
	cmd.Stdout = log
	cmd.Stderr = log
	procgroup.Configure(cmd)

	if err := cmd.Start(); err != nil {
		return nil, apperrors.SpawnFailed(s.name+" "+scriptPath, err)
	}

	p := &osProcess{cmd: cmd}
	go p.wait()
	return p, nil
}

type osProcess struct {
	cmd *exec.Cmd

	mu       sync.Mutex
	exited   bool
	exitCode int
	err      error
}

func (p *osProcess) wait() {
	err := p.cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = true
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode = 0
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
	default:
		p.exitCode = -1
		p.err = err
	}
}

func (p *osProcess) Poll() (bool, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited, p.exitCode, p.err
}

// Kill terminates the script together with everything it started.
func (p *osProcess) Kill() error {
	if err := procgroup.Kill(p.cmd); !procgroup.Killed(err) {
		return err
	}
	return nil
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}
