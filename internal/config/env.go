package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables overriding file configuration
const (
	EnvRepoURL     = "ISAAC_INSTALLER_REPO_URL"
	EnvDir         = "ISAAC_INSTALLER_DIR"
	EnvBranch      = "ISAAC_INSTALLER_BRANCH"
	EnvPython      = "ISAAC_INSTALLER_PYTHON"
	EnvMaxAttempts = "ISAAC_INSTALLER_MAX_ATTEMPTS"
	EnvBackoffUnit = "ISAAC_INSTALLER_BACKOFF_UNIT"
	EnvLFS         = "ISAAC_INSTALLER_LFS"
	DotEnvFileName = ".env"
)

// LookupFunc looks up an environment variable
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup that consults the process environment first and
// then the given dotenv file. A missing dotenv file is not an error.
func EnvLookup(dotEnvPath string) (LookupFunc, error) {
	values := map[string]string{}
	if dotEnvPath != "" {
		read, err := godotenv.Read(dotEnvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", dotEnvPath, err)
		}
		if read != nil {
			values = read
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides configuration values from the environment
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvRepoURL); ok && v != "" {
		c.Repository.URL = v
	}
	if v, ok := lookup(EnvDir); ok && v != "" {
		c.Repository.Dir = v
	}
	if v, ok := lookup(EnvBranch); ok {
		c.Repository.Branch = v
	}
	if v, ok := lookup(EnvPython); ok && v != "" {
		c.Python = v
	}
	if v, ok := lookup(EnvMaxAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvMaxAttempts, v)
		}
		c.Retry.MaxAttempts = n
	}
	if v, ok := lookup(EnvBackoffUnit); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %q", EnvBackoffUnit, v)
		}
		c.Retry.BackoffUnit = d
	}
	if v, ok := lookup(EnvLFS); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", EnvLFS, v)
		}
		c.Repository.LFS = &enabled
	}

	return c.Validate()
}
