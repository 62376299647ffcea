package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	apperrors "github.com/brunorios1080/Isaac-Installer/internal/errors"
	"github.com/brunorios1080/Isaac-Installer/internal/retry"
)

// runner implements Runner on top of a ShellExecutor and a retry policy
type runner struct {
	shell  ShellExecutor
	policy retry.Policy
	logger logrus.FieldLogger
}

// NewRunner creates a Runner that retries failed attempts according to policy.
// A nil logger discards log output.
func NewRunner(shell ShellExecutor, policy retry.Policy, logger logrus.FieldLogger) Runner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &runner{shell: shell, policy: policy, logger: logger}
}

// NewRealRunner creates a Runner that executes real processes.
func NewRealRunner(policy retry.Policy, logger logrus.FieldLogger) Runner {
	return NewRunner(NewRealShellExecutor(), policy, logger)
}

// Run executes cmd, echoing its output to w, until it exits zero or the
// policy's attempts are exhausted. On failure the error is a
// *errors.CommandFailedError for non-zero exits, or the executor's
// *errors.SpawnError unmodified.
func (r *runner) Run(ctx context.Context, w io.Writer, cmd Command) (*Result, error) {
	text := cmd.String()
	maxAttempts := r.policy.Attempts()
	log := r.logger.WithField("command", text)

	var last Result
	policy := r.policy
	policy.OnRetry = func(a retry.Attempt) {
		log.WithFields(logrus.Fields{
			"attempt": a.Number + 1,
			"delay":   a.Delay.String(),
		}).WithError(a.Err).Warn("Command failed, retrying")
		fmt.Fprintf(w, "Attempt %d/%d failed: %v\nRetrying in %s...\n", a.Number+1, maxAttempts, a.Err, a.Delay)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(a)
		}
	}

	attempts, err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		if attempt == 0 {
			fmt.Fprintf(w, "Running: %s\n", text)
		} else {
			fmt.Fprintf(w, "Running (attempt %d/%d): %s\n", attempt+1, maxAttempts, text)
		}

		res, execErr := r.shell.Execute(ctx, cmd, w)
		last = res
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if execErr != nil {
			return execErr
		}
		if res.ExitCode != 0 {
			return &apperrors.CommandFailedError{Command: text, ExitCode: res.ExitCode, Attempts: attempt + 1}
		}
		return nil
	})

	last.Command = cmd
	last.Attempts = attempts
	if err != nil {
		log.WithField("attempts", attempts).WithError(err).Debug("Command gave up")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &last, fmt.Errorf("command interrupted: %s: %w", text, err)
		}
		return &last, err
	}

	log.WithField("attempts", attempts).Debug("Command succeeded")
	return &last, nil
}

// RunSequence runs commands in order, stopping at the first failure.
func RunSequence(ctx context.Context, r Runner, w io.Writer, commands ...Command) ([]Result, error) {
	results := make([]Result, 0, len(commands))
	for _, cmd := range commands {
		res, err := r.Run(ctx, w, cmd)
		if res != nil {
			results = append(results, *res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
