package command

import (
	"context"
	"io"
	"runtime"
	"strings"

	"github.com/alessio/shellescape"
)

// Command represents an external command to be executed
type Command struct {
	Name    string   // Command name (e.g., "git")
	Args    []string // Command arguments
	Line    string   // Single shell line; when set, Name and Args are ignored
	WorkDir string   // Optional working directory
	Env     []string // Extra KEY=VALUE pairs added to the environment
}

// String returns the command text used in progress output and errors.
func (c Command) String() string {
	if c.Line != "" {
		return c.Line
	}
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, shellescape.Quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Argv returns the program and arguments actually spawned. Shell lines run
// through the platform shell.
func (c Command) Argv() (string, []string) {
	if c.Line != "" {
		if runtime.GOOS == "windows" {
			return "cmd", []string{"/c", c.Line}
		}
		return "sh", []string{"-c", c.Line}
	}
	return c.Name, c.Args
}

// Result represents the outcome of running a command
type Result struct {
	Command  Command
	ExitCode int
	Output   []string // combined stdout/stderr lines of the final attempt
	Attempts int
}

// ShellExecutor runs a single attempt of a command, forwarding its combined
// output to w line by line. A non-zero exit is reported through the
// returned Result, not as an error; the error is reserved for failures to
// start or communicate with the process.
type ShellExecutor interface {
	Execute(ctx context.Context, cmd Command, w io.Writer) (Result, error)
}

// Runner executes commands with retries
type Runner interface {
	Run(ctx context.Context, w io.Writer, cmd Command) (*Result, error)
}
