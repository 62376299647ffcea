package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/command"
	"github.com/brunorios1080/Isaac-Installer/internal/config"
	"github.com/brunorios1080/Isaac-Installer/internal/errors"
	"github.com/brunorios1080/Isaac-Installer/internal/logging"
	"github.com/brunorios1080/Isaac-Installer/internal/retry"
)

// Variables to allow mocking in tests
var (
	osGetwd   = os.Getwd
	newRunner = func(policy retry.Policy, logger logrus.FieldLogger) command.Runner {
		return command.NewRealRunner(policy, logger)
	}
)

// settings is everything a command needs, resolved from defaults, the
// config file, .env/environment and flags, in increasing precedence.
type settings struct {
	workDir    string
	configPath string
	cfg        *config.Config
	logger     *logrus.Logger
	runner     command.Runner
	out        io.Writer
}

func loadSettings(cmd *cli.Command) (*settings, error) {
	workDir, err := resolveWorkDir(cmd.String("dir"))
	if err != nil {
		return nil, err
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = filepath.Join(workDir, config.ConfigFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, errors.ConfigLoadFailed(configPath, err)
	}

	lookup, err := config.EnvLookup(filepath.Join(workDir, config.DotEnvFileName))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	errOut := cmd.Root().ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}

	logger := logging.New(logging.LevelFromEnv(cmd.String("log-level")), errOut)
	logger.WithFields(logrus.Fields{
		"work_dir": workDir,
		"config":   configPath,
	}).Debug("Configuration loaded")

	return &settings{
		workDir:    workDir,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
		runner:     newRunner(cfg.RetryPolicy(), logger),
		out:        out,
	}, nil
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := osGetwd()
		if err != nil {
			return "", errors.DirectoryAccessFailed("access current", ".", err)
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.DirectoryAccessFailed("resolve", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.DirectoryAccessFailed("access", abs, err)
	}
	if !info.IsDir() {
		return "", errors.DirectoryAccessFailed("use", abs, fmt.Errorf("not a directory"))
	}
	return abs, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Config) error {
	if cmd.IsSet("python") {
		cfg.Python = cmd.String("python")
	}
	if cmd.IsSet("retries") {
		n := cmd.Int("retries")
		if n < 1 {
			return fmt.Errorf("--retries must be a positive integer, got %d", n)
		}
		cfg.Retry.MaxAttempts = n
	}
	if cmd.IsSet("backoff") {
		d := cmd.Duration("backoff")
		if d <= 0 {
			return fmt.Errorf("--backoff must be a positive duration, got %s", d)
		}
		cfg.Retry.BackoffUnit = d
	}
	return cfg.Validate()
}
