package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/config"
	"github.com/brunorios1080/Isaac-Installer/internal/installer"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "isaac-installer",
		Usage: "Clone, build and launch Isaac Sim",
		Description: "isaac-installer clones the Isaac Sim repository, installs its Python dependencies, " +
			"runs its build script and launches it. Every external command is retried with exponential backoff.",
		Version: version,
		Action:  rootCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the configuration file (default: <dir>/" + config.ConfigFileName + ")",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Working directory the installation runs in (default: current directory)",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter command, e.g. \"python3\" or \"py -3.10\"",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "Maximum attempts per external command (1 disables retries)",
			},
			&cli.DurationFlag{
				Name:  "backoff",
				Usage: "Backoff unit; attempt n waits 2^n units before retrying",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); defaults to $LOG_LEVEL or warn",
			},
			&cli.BoolFlag{
				Name:  "no-pause",
				Usage: "Exit immediately on failure instead of waiting for Enter",
			},
		},
		Commands: []*cli.Command{
			NewInstallCommand(),
			newStepCommand(installer.StepClone, "Clone the Isaac Sim repository"),
			newStepCommand(installer.StepDeps, "Install Python dependencies"),
			newStepCommand(installer.StepBuild, "Run the Isaac Sim build script"),
			newStepCommand(installer.StepLaunch, "Launch Isaac Sim"),
			NewRunCommand(),
			NewStartCommand(),
			NewInitCommand(),
		},
	}
}

// rootCommand runs the full installation when no command is given, as
// happens when the binary is started by double-clicking it.
func rootCommand(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command %q. Run 'isaac-installer --help' for usage", cmd.Args().First())
	}
	return installCommand(ctx, cmd)
}
