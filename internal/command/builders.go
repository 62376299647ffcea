package command

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// GitCloneOptions represents options for git clone command
type GitCloneOptions struct {
	Branch string
	Depth  int
}

// GitClone builds a git clone command
func GitClone(url, dir string, opts GitCloneOptions) Command {
	args := []string{"clone"}

	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}

	args = append(args, url, dir)

	return Command{
		Name: "git",
		Args: args,
	}
}

// GitLFSInstall builds a git lfs install command
func GitLFSInstall() Command {
	return Command{
		Name: "git",
		Args: []string{"lfs", "install"},
	}
}

// GitLFSPull builds a git lfs pull command run inside the clone
func GitLFSPull(dir string) Command {
	return Command{
		Name:    "git",
		Args:    []string{"lfs", "pull"},
		WorkDir: dir,
	}
}

// PipUpgrade builds a command upgrading pip itself
func PipUpgrade(python []string) Command {
	return pip(python, "install", "--upgrade", "pip")
}

// PipInstallRequirements builds a command installing a requirements file
func PipInstallRequirements(python []string, requirementsFile string) Command {
	return pip(python, "install", "-r", requirementsFile)
}

func pip(python []string, args ...string) Command {
	name, prefix := splitPrefix(python)
	full := append(append(prefix, "-m", "pip"), args...)
	return Command{
		Name: name,
		Args: full,
	}
}

// Script builds a command running a vendor script, choosing the interpreter
// from the file extension: .py runs with python, .sh with bash, .bat/.cmd
// with cmd; anything else is executed directly.
func Script(python []string, path string, args ...string) Command {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		name, prefix := splitPrefix(python)
		return Command{Name: name, Args: append(append(prefix, path), args...)}
	case ".sh":
		return Command{Name: "bash", Args: append([]string{path}, args...)}
	case ".bat", ".cmd":
		return Command{Name: "cmd", Args: append([]string{"/c", path}, args...)}
	default:
		return Command{Name: path, Args: args}
	}
}

// ParseLine splits a command line into a Command using shell word rules
// (quotes and escapes are honoured, no expansion is performed).
func ParseLine(line string) (Command, error) {
	words, err := SplitWords(line)
	if err != nil {
		return Command{}, err
	}
	if len(words) == 0 {
		return Command{}, errors.New("empty command line")
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}

// SplitWords splits s using shell word rules.
func SplitWords(s string) ([]string, error) {
	return shlex.Split(s)
}

// splitPrefix separates an interpreter prefix such as ["py", "-3.10"] into
// the program and its leading arguments. The returned slice is a copy.
func splitPrefix(prefix []string) (string, []string) {
	if len(prefix) == 0 {
		return "python3", nil
	}
	rest := make([]string, len(prefix)-1)
	copy(rest, prefix[1:])
	return prefix[0], rest
}
