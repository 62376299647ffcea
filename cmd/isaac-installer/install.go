package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/installer"
)

// NewInstallCommand creates the install command definition
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Clone, install dependencies, build and launch Isaac Sim",
		Description: "Runs every step in order: " + joinSteps() + ". " +
			"A missing dependency manifest or build script skips that step; a missing launch script is an error.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "skip",
				Usage: "Skip a step (repeatable): " + joinSteps(),
			},
		},
		Action: installCommand,
	}
}

func installCommand(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	skip := cmd.StringSlice("skip")
	if err := installer.ValidateSteps(skip); err != nil {
		return err
	}
	s.cfg.Steps.Skip = append(s.cfg.Steps.Skip, skip...)

	inst, err := installer.New(s.cfg, s.workDir, s.runner, s.out, s.logger)
	if err != nil {
		return err
	}
	return inst.Run(ctx)
}

// newStepCommand creates a command running a single installation step
func newStepCommand(step, usage string) *cli.Command {
	return &cli.Command{
		Name:  step,
		Usage: usage,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			inst, err := installer.New(s.cfg, s.workDir, s.runner, s.out, s.logger)
			if err != nil {
				return err
			}
			return inst.Run(ctx, step)
		},
	}
}

func joinSteps() string {
	return strings.Join(installer.Steps, ", ")
}
