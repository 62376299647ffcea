package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/command"
	"github.com/brunorios1080/Isaac-Installer/internal/errors"
)

const runUsage = "isaac-installer run [--shell] -- <command> [args...]"

// NewRunCommand creates the run command definition
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a single command with retries and live output",
		UsageText: runUsage,
		ArgsUsage: "-- <command> [args...]",
		Description: "Runs an arbitrary command in the working directory using the configured retry policy. " +
			"A single quoted argument is split with shell word rules; --shell passes it to the platform shell instead.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "shell",
				Usage: "Run the command line through sh -c (cmd /c on Windows)",
			},
		},
		Action: runCommand,
	}
}

func runCommand(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return runCommandWithRunner(ctx, cmd, s.out, s.runner, s.workDir)
}

func runCommandWithRunner(ctx context.Context, cmd *cli.Command, w io.Writer, runner command.Runner, workDir string) error {
	c, err := parseRunInput(cmd.Args().Slice(), cmd.Bool("shell"))
	if err != nil {
		return err
	}
	c.WorkDir = workDir

	result, err := runner.Run(ctx, w, c)
	if err != nil {
		return err
	}
	if result.Attempts > 1 {
		fmt.Fprintf(w, "Succeeded after %d attempts\n", result.Attempts)
	}
	return nil
}

func parseRunInput(args []string, shell bool) (command.Command, error) {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 || (len(args) == 1 && args[0] == "") {
		return command.Command{}, errors.CommandRequired(runUsage)
	}

	if shell {
		line := args[0]
		for _, a := range args[1:] {
			line += " " + a
		}
		return command.Command{Line: line}, nil
	}

	if len(args) == 1 {
		c, err := command.ParseLine(args[0])
		if err != nil {
			return command.Command{}, fmt.Errorf("invalid command line %q: %w", args[0], err)
		}
		return c, nil
	}

	return command.Command{Name: args[0], Args: args[1:]}, nil
}
