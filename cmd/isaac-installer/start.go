package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/installer"
	"github.com/brunorios1080/Isaac-Installer/internal/script"
	"github.com/brunorios1080/Isaac-Installer/internal/session"
)

// Variables to allow mocking in tests
var (
	osExecutable = os.Executable
	newStarter   = func() session.Starter {
		name, args := script.Interpreter(runtime.GOOS)
		return session.NewShellStarter(name, args...)
	}
)

// NewStartCommand creates the start command definition
func NewStartCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Run the installation as a background script",
		Description: "Generates a platform script that prepares a " +
			"Python environment and runs 'install' inside it, spawns it in the background and " +
			"polls it until it exits. Only one background installation can run at a time.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print-script",
				Usage: "Print the generated script and exit without running it",
			},
			&cli.StringFlag{
				Name:  "temp-dir",
				Usage: "Directory for the temporary script, lock and run log (default: system temp dir)",
			},
		},
		Action: startCommand,
	}
}

func startCommand(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	text, err := renderInstallScript(cmd, s)
	if err != nil {
		return err
	}
	if cmd.Bool("print-script") {
		_, err := fmt.Fprint(s.out, text)
		return err
	}

	report := installer.NewReporter(s.out)
	sess := session.New(session.Options{
		TempDir:      cmd.String("temp-dir"),
		Extension:    script.Extension(runtime.GOOS),
		PollInterval: s.cfg.Background.PollInterval,
		Starter:      newStarter(),
		Logger:       s.logger,
		Observer: func(state session.State, status string) {
			switch state {
			case session.Running:
				report.Step("%s", status)
			case session.Succeeded:
				report.Success("%s", status)
			case session.Failed:
				report.Error("%s", status)
			default:
				report.Warn("%s", status)
			}
		},
	})

	if err := sess.Start(text); err != nil {
		return err
	}
	report.Info("Output is written to %s", sess.LogPath())

	return sess.Wait(ctx)
}

func renderInstallScript(cmd *cli.Command, s *settings) (string, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("failed to locate installer executable: %w", err)
	}

	args := []string{"--no-pause", "--dir", s.workDir}
	if cmd.IsSet("config") {
		args = append(args, "--config", s.configPath)
	}
	// The environment provides its own interpreter unless one was requested.
	python := "python"
	if cmd.IsSet("python") {
		python = s.cfg.Python
	}
	args = append(args, "--python", python)
	if cmd.IsSet("retries") {
		args = append(args, "--retries", strconv.Itoa(s.cfg.Retry.MaxAttempts))
	}
	if cmd.IsSet("backoff") {
		args = append(args, "--backoff", s.cfg.Retry.BackoffUnit.String())
	}
	if cmd.IsSet("log-level") {
		args = append(args, "--log-level", cmd.String("log-level"))
	}

	bg := s.cfg.Background
	return script.Render(runtime.GOOS, script.Options{
		Executable:    exe,
		WorkDir:       s.workDir,
		EnvManager:    bg.EnvManager,
		Environment:   bg.Environment,
		PythonVersion: bg.PythonVersion,
		Packages:      bg.Packages,
		InstallArgs:   args,
	})
}
