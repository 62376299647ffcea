package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/google/shlex"
	"go.yaml.in/yaml/v3"

	"github.com/brunorios1080/Isaac-Installer/internal/retry"
)

// Config represents the installer configuration
type Config struct {
	Version    string     `yaml:"version"`
	Repository Repository `yaml:"repository,omitempty"`
	Python     string     `yaml:"python,omitempty"`
	Retry      Retry      `yaml:"retry,omitempty"`
	Steps      Steps      `yaml:"steps,omitempty"`
	Hooks      Hooks      `yaml:"hooks,omitempty"`
	Background Background `yaml:"background,omitempty"`
}

// Repository describes the application source to clone
type Repository struct {
	URL    string `yaml:"url,omitempty"`
	Dir    string `yaml:"dir,omitempty"` // clone destination, relative to the working directory
	Branch string `yaml:"branch,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
	LFS    *bool  `yaml:"lfs,omitempty"` // nil = enabled
}

// Retry represents the retry policy for external commands
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	BackoffUnit time.Duration `yaml:"backoff_unit,omitempty"`
}

// Steps locates the files each step depends on, relative to the clone directory
type Steps struct {
	Requirements string   `yaml:"requirements,omitempty"`
	BuildScript  string   `yaml:"build_script,omitempty"`
	BuildArgs    []string `yaml:"build_args,omitempty"`
	LaunchScript string   `yaml:"launch_script,omitempty"`
	LaunchArgs   []string `yaml:"launch_args,omitempty"`
	Skip         []string `yaml:"skip,omitempty"`
}

// Hooks represents the post-build hooks configuration
type Hooks struct {
	PostBuild []Hook `yaml:"post_build,omitempty"`
}

// Hook represents a single hook configuration
type Hook struct {
	Type    string            `yaml:"type"` // "copy" or "command"
	From    string            `yaml:"from,omitempty"`
	To      string            `yaml:"to,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	WorkDir string            `yaml:"work_dir,omitempty"`
}

// Background configures the script used by the background installation
type Background struct {
	EnvManager    string        `yaml:"env_manager,omitempty"`
	Environment   string        `yaml:"environment,omitempty"`
	PythonVersion string        `yaml:"python_version,omitempty"`
	Packages      []string      `yaml:"packages,omitempty"`
	PollInterval  time.Duration `yaml:"poll_interval,omitempty"`
}

const (
	ConfigFileName        = ".isaac-installer.yml"
	CurrentVersion        = "1.0"
	DefaultRepositoryURL  = "https://github.com/isaac-sim/IsaacSim.git"
	DefaultCloneDir       = "IsaacSim"
	DefaultRequirements   = "requirements.txt"
	DefaultBuildScript    = "engine/build_scripts/build.sh"
	DefaultLaunchScript   = "run.py"
	DefaultEnvManager     = "conda"
	DefaultEnvironment    = "isaacsim"
	DefaultPythonVersion  = "3.10"
	DefaultPollInterval   = time.Second
	HookTypeCopy          = "copy"
	HookTypeCommand       = "command"
)

// DefaultPackages are installed into the background environment
var DefaultPackages = []string{"numpy"}

// DefaultPython returns the interpreter used when none is configured
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Default returns a configuration with every default filled in
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// LoadConfig loads configuration from .isaac-installer.yml in dir
func LoadConfig(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from path. A missing file yields the defaults.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate fills defaults and validates the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Repository.URL == "" {
		c.Repository.URL = DefaultRepositoryURL
	}
	if c.Repository.Dir == "" {
		c.Repository.Dir = DefaultCloneDir
	}
	if c.Repository.Depth < 0 {
		return fmt.Errorf("repository depth must not be negative, got %d", c.Repository.Depth)
	}
	if c.Python == "" {
		c.Python = DefaultPython()
	}
	if _, err := c.PythonCommand(); err != nil {
		return err
	}

	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = retry.DefaultMaxAttempts
	}
	if c.Retry.BackoffUnit < 0 {
		return fmt.Errorf("retry backoff_unit must not be negative, got %s", c.Retry.BackoffUnit)
	}
	if c.Retry.BackoffUnit == 0 {
		c.Retry.BackoffUnit = retry.DefaultUnit
	}

	if c.Steps.Requirements == "" {
		c.Steps.Requirements = DefaultRequirements
	}
	if c.Steps.BuildScript == "" {
		c.Steps.BuildScript = DefaultBuildScript
	}
	if c.Steps.LaunchScript == "" {
		c.Steps.LaunchScript = DefaultLaunchScript
	}

	if c.Background.EnvManager == "" {
		c.Background.EnvManager = DefaultEnvManager
	}
	if c.Background.Environment == "" {
		c.Background.Environment = DefaultEnvironment
	}
	if c.Background.PythonVersion == "" {
		c.Background.PythonVersion = DefaultPythonVersion
	}
	if c.Background.Packages == nil {
		c.Background.Packages = slices.Clone(DefaultPackages)
	}
	if c.Background.PollInterval < 0 {
		return fmt.Errorf("background poll_interval must not be negative, got %s", c.Background.PollInterval)
	}
	if c.Background.PollInterval == 0 {
		c.Background.PollInterval = DefaultPollInterval
	}

	// Validate hooks
	for i, hook := range c.Hooks.PostBuild {
		if err := hook.Validate(); err != nil {
			return fmt.Errorf("invalid hook %d: %w", i+1, err)
		}
	}

	return nil
}

// Validate validates a single hook configuration
func (h *Hook) Validate() error {
	switch h.Type {
	case HookTypeCopy:
		if h.From == "" || h.To == "" {
			return fmt.Errorf("copy hook requires both 'from' and 'to' fields")
		}
		if h.Command != "" {
			return fmt.Errorf("copy hook should not have 'command' field")
		}
	case HookTypeCommand:
		if h.Command == "" {
			return fmt.Errorf("command hook requires 'command' field")
		}
		if h.From != "" || h.To != "" {
			return fmt.Errorf("command hook should not have 'from' or 'to' fields")
		}
	default:
		return fmt.Errorf("invalid hook type '%s', must be 'copy' or 'command'", h.Type)
	}

	return nil
}

// HasHooks returns true if the configuration has any post-build hooks
func (c *Config) HasHooks() bool {
	return len(c.Hooks.PostBuild) > 0
}

// PythonCommand splits the configured interpreter into program and arguments
func (c *Config) PythonCommand() ([]string, error) {
	python := c.Python
	if python == "" {
		python = DefaultPython()
	}
	words, err := shlex.Split(python)
	if err != nil {
		return nil, fmt.Errorf("invalid python command %q: %w", python, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("python command is empty")
	}
	return words, nil
}

// UseLFS reports whether git-lfs should be used for the clone
func (c *Config) UseLFS() bool {
	return c.Repository.LFS == nil || *c.Repository.LFS
}

// RetryPolicy returns the retry policy for external commands
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		Unit:        c.Retry.BackoffUnit,
	}
}

// ResolveCloneDir returns the absolute clone destination
func (c *Config) ResolveCloneDir(workDir string) string {
	dir := c.Repository.Dir
	if dir == "" {
		dir = DefaultCloneDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(workDir, dir)
}

// ResolveStepPath resolves a step file relative to the clone directory
func ResolveStepPath(cloneDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cloneDir, path)
}

// IsSkipped reports whether the named step is listed in steps.skip
func (c *Config) IsSkipped(step string) bool {
	return slices.Contains(c.Steps.Skip, step)
}
