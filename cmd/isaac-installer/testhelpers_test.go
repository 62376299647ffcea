package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/brunorios1080/Isaac-Installer/internal/command"
	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
	"github.com/brunorios1080/Isaac-Installer/internal/retry"
)

func init() {
	color.NoColor = true
}

type fakeRunner struct {
	mu       sync.Mutex
	policy   retry.Policy
	commands []command.Command
	failOn   string
	attempts int
}

func (r *fakeRunner) Run(_ context.Context, w io.Writer, cmd command.Command) (*command.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	text := cmd.String()
	if r.failOn != "" && strings.Contains(text, r.failOn) {
		return &command.Result{Command: cmd, ExitCode: 1, Attempts: r.policy.Attempts()},
			&apperrors.CommandFailedError{Command: text, ExitCode: 1, Attempts: r.policy.Attempts()}
	}
	attempts := r.attempts
	if attempts == 0 {
		attempts = 1
	}
	return &command.Result{Command: cmd, Attempts: attempts}, nil
}

func (r *fakeRunner) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c.String())
	}
	return out
}

// useFakeRunner swaps the real process runner for runner and records the
// policy each command received.
func useFakeRunner(t *testing.T, runner *fakeRunner) {
	t.Helper()
	prev := newRunner
	t.Cleanup(func() { newRunner = prev })
	newRunner = func(policy retry.Policy, _ logrus.FieldLogger) command.Runner {
		runner.policy = policy
		return runner
	}
}

// runApp runs the CLI with args and returns its stdout
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"isaac-installer"}, args...))
	return out.String(), err
}
