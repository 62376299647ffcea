package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common error messages with helpful context and suggestions

// CommandFailedError reports an external command that exited non-zero after
// every permitted attempt.
type CommandFailedError struct {
	Command  string
	ExitCode int
	Attempts int
}

func (e *CommandFailedError) Error() string {
	msg := fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Command)
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	return msg
}

// CommandFailed builds a CommandFailedError for a single attempt.
func CommandFailed(command string, exitCode int) error {
	return &CommandFailedError{Command: command, ExitCode: exitCode, Attempts: 1}
}

// SpawnError reports a process that could not be started or communicated with.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	msg := fmt.Sprintf("failed to start command: %s", e.Command)

	errorStr := e.Err.Error()
	if strings.Contains(errorStr, "executable file not found") || strings.Contains(errorStr, "no such file") {
		msg += `

Cause: Executable not found
Solutions:
  • Install the required program
  • Check that it is available in PATH
  • Use an absolute path in the configuration`
	} else if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Make the script executable
  • Check permissions of the working directory`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", e.Err)
	return msg
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// SpawnFailed wraps an error raised while starting or reading from a process.
func SpawnFailed(command string, err error) error {
	return &SpawnError{Command: command, Err: err}
}

// EnvironmentMissingError reports an expected file that does not exist.
type EnvironmentMissingError struct {
	What string // manifest, build script, launch script...
	Path string
}

func (e *EnvironmentMissingError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// EnvironmentMissing builds an EnvironmentMissingError.
func EnvironmentMissing(what, path string) error {
	return &EnvironmentMissingError{What: what, Path: path}
}

// Installer Step Errors
func LaunchScriptMissing(path string) error {
	msg := fmt.Sprintf(`cannot find launch script: %s

Solutions:
  • Check the clone directory and its contents
  • Set 'steps.launch_script' in .isaac-installer.yml
  • Run 'isaac-installer build' first if the launcher is produced by the build`, path)
	return fmt.Errorf("%s\n\n%w", msg, EnvironmentMissing("launch script", path))
}

func StepFailed(step string, err error) error {
	return fmt.Errorf("%s step failed: %w", step, err)
}

func UnknownStep(name string, known []string) error {
	msg := fmt.Sprintf("unknown step: %s", name)
	if len(known) > 0 {
		msg += "\n\nAvailable steps:"
		for _, s := range known {
			msg += fmt.Sprintf("\n  • %s", s)
		}
	}
	return errors.New(msg)
}

func CommandRequired(usage string) error {
	msg := fmt.Sprintf(`command is required

Usage: %s

Examples:
  • isaac-installer run -- git lfs pull
  • isaac-installer run --retries 5 "pip install numpy"`, usage)
	return errors.New(msg)
}

// Background Session Errors
func InstallationInProgress(lockPath string) error {
	msg := `an installation is already in progress

Wait for the running installation to finish before starting another one.`
	if lockPath != "" {
		msg += fmt.Sprintf("\n\nLock file: %s", lockPath)
	}
	return errors.New(msg)
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	if strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal") {
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Run 'isaac-installer init' in an empty directory to see a valid example`
	} else if strings.Contains(parseErrorStr, "invalid configuration") {
		msg += `

Cause: Configuration values are invalid
Solution: Fix the reported field and run again`
	} else if strings.Contains(parseErrorStr, "permission denied") {
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions with 'ls -la .isaac-installer.yml'`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", parseError)
	return errors.New(msg)
}

func ConfigAlreadyExists(configPath string) error {
	msg := fmt.Sprintf(`configuration file already exists: %s

Options:
  • Edit the existing file manually
  • Use 'isaac-installer init --force' to overwrite`, configPath)
	return errors.New(msg)
}

// File System Errors
func DirectoryAccessFailed(operation, path string, originalError error) error {
	msg := fmt.Sprintf("failed to %s directory: %s", operation, path)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check directory permissions
  • Run with appropriate privileges
  • Ensure you own the directory`
	} else if strings.Contains(errorStr, "no such file or directory") {
		msg += `

Cause: Directory does not exist
Solutions:
  • Create the parent directory first
  • Check the path spelling
  • Use an absolute path`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}

// Hook Errors
func HookExecutionFailed(hookIndex int, hookType string, originalError error) error {
	msg := fmt.Sprintf("failed to execute %s hook #%d", hookType, hookIndex+1)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check file permissions
  • Ensure the command is executable
  • Check source/destination path permissions`
	} else if strings.Contains(errorStr, "no such file") {
		msg += `

Cause: File or command not found
Solutions:
  • Check file paths in .isaac-installer.yml
  • Ensure the command exists in PATH
  • Use absolute paths for files`
	}

	return fmt.Errorf("%s\n\nOriginal error: %w", msg, originalError)
}
