package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/config"
	"github.com/brunorios1080/Isaac-Installer/internal/errors"
)

const configFileMode = 0o600

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates a " + config.ConfigFileName + " configuration file in the working directory " +
			"with the default repository, step paths, retry policy and example hooks.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	workDir, err := resolveWorkDir(cmd.String("dir"))
	if err != nil {
		return err
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = filepath.Join(workDir, config.ConfigFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil && !cmd.Bool("force") {
		return errors.ConfigAlreadyExists(configPath)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigContent), configFileMode); err != nil {
		return errors.DirectoryAccessFailed("create configuration file in", filepath.Dir(configPath), err)
	}

	// Get the writer from cli.Command
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "Configuration file created: %s\n", configPath)
	fmt.Fprintln(w, "Edit this file to customize your installation.")
	return nil
}

// Configuration with comments
const defaultConfigContent = `# Isaac Installer Configuration
version: "1.0"

# Source repository
repository:
  url: ` + config.DefaultRepositoryURL + `
  # Clone destination, relative to the working directory
  dir: ` + config.DefaultCloneDir + `
  # branch: main
  # depth: 1
  # Run "git lfs install" before and "git lfs pull" after cloning
  lfs: true

# Python interpreter command (e.g. "python3" or "py -3.10")
# python: python3

# Every external command is retried with exponential backoff:
# attempt n waits 2^n * backoff_unit before the next one.
# Set max_attempts to 1 to disable retries.
retry:
  max_attempts: 3
  backoff_unit: 1s

# Files used by each step, relative to the clone directory
steps:
  requirements: ` + config.DefaultRequirements + `
  build_script: ` + config.DefaultBuildScript + `
  # build_args: ["--release"]
  launch_script: ` + config.DefaultLaunchScript + `
  # launch_args: ["--headless"]
  # Steps to skip: clone, deps, build, hooks, launch
  # skip: [launch]

# Hooks that run after the build step
hooks:
  post_build: []
    # Example: Copy an environment file into the clone
    # - type: copy
    #   from: .env.example
    #   to: .env

    # Example: Run a command inside the clone
    # - type: command
    #   command: git log -1 --oneline

# Background installation (isaac-installer start)
background:
  env_manager: ` + config.DefaultEnvManager + `
  environment: ` + config.DefaultEnvironment + `
  python_version: "` + config.DefaultPythonVersion + `"
  packages: [numpy]
  poll_interval: 1s
`
