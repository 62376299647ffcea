package framework

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600
)

type TestEnvironment struct {
	t               *testing.T
	tmpDir          string
	installerBinary string
	cleanup         []func()
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnvironment{
		t:       t,
		tmpDir:  tmpDir,
		cleanup: []func(){},
	}

	env.buildInstaller()

	return env
}

func (e *TestEnvironment) buildInstaller() {
	e.t.Helper()

	binary := filepath.Join(e.tmpDir, "isaac-installer")
	if prebuilt := os.Getenv("ISAAC_INSTALLER_E2E_BINARY"); prebuilt != "" {
		binary = prebuilt
		if _, err := os.Stat(binary); err != nil {
			e.t.Fatalf("Specified installer binary not found: %s", binary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/isaac-installer")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build installer binary: %v\nOutput: %s", err, output)
		}
	}

	// Validate the binary path
	binary = filepath.Clean(binary)
	if !filepath.IsAbs(binary) {
		absPath, err := filepath.Abs(binary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		binary = absPath
	}

	e.installerBinary = binary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// RequirePrograms skips the test unless every program is on PATH
func (e *TestEnvironment) RequirePrograms(programs ...string) {
	e.t.Helper()
	for _, p := range programs {
		if _, err := exec.LookPath(p); err != nil {
			e.t.Skipf("%s not available: %v", p, err)
		}
	}
}

// CreateWorkspace creates an empty directory the installer runs in
func (e *TestEnvironment) CreateWorkspace(name string) *Workspace {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory: %v", err)
	}

	return &Workspace{
		env:  e,
		path: dir,
	}
}

// CreateSourceRepo creates a git repository with files committed on main,
// usable as a clone URL.
func (e *TestEnvironment) CreateSourceRepo(name string, files map[string]string) string {
	e.t.Helper()

	repoDir := filepath.Join(e.tmpDir, name)

	e.run("git", "init", repoDir)
	e.runInDir(repoDir, "git", "config", "user.name", "Test User")
	e.runInDir(repoDir, "git", "config", "user.email", "test@example.com")

	e.writeFile(filepath.Join(repoDir, "README.md"), "# Test Repository")
	for path, content := range files {
		e.writeFile(filepath.Join(repoDir, path), content)
	}
	e.runInDir(repoDir, "git", "add", ".")
	e.runInDir(repoDir, "git", "commit", "-m", "Initial commit")

	// Explicitly rename the branch to main if it's not already
	e.runInDir(repoDir, "git", "branch", "-m", "main")

	return repoDir
}

func (e *TestEnvironment) run(command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed: %s %s\nOutput: %s\nError: %v",
			command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) runInDir(dir, command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed in %s: %s %s\nOutput: %s\nError: %v",
			dir, command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func (e *TestEnvironment) RunInstaller(args ...string) (string, error) {
	// Validate args don't contain dangerous characters
	for _, arg := range args {
		if err := validateArg(arg); err != nil {
			return "", fmt.Errorf("invalid argument: %w", err)
		}
	}

	cmd := createSafeCommand(e.installerBinary, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

func (e *TestEnvironment) Cleanup() {
	for _, fn := range e.cleanup {
		fn()
	}
}

type Workspace struct {
	env  *TestEnvironment
	path string
}

// RunInstaller runs the installer with the workspace as working directory.
// Pausing is always disabled.
func (w *Workspace) RunInstaller(args ...string) (string, error) {
	// Validate args don't contain dangerous characters
	for _, arg := range args {
		if err := validateArg(arg); err != nil {
			return "", fmt.Errorf("invalid argument: %w", err)
		}
	}

	cmd := createSafeCommand(w.env.installerBinary, append([]string{"--no-pause"}, args...)...)
	cmd.Dir = w.path
	cmd.Env = append(os.Environ(), "HOME="+w.env.tmpDir, "LOG_LEVEL=error")

	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (w *Workspace) Path() string {
	return w.path
}

func (w *Workspace) WriteConfig(content string) {
	w.env.writeFile(filepath.Join(w.path, ".isaac-installer.yml"), content)
}

func (w *Workspace) WriteFile(path, content string) {
	w.env.writeFile(filepath.Join(w.path, path), content)
}

func (w *Workspace) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(w.path, path))
	return err == nil
}

func (w *Workspace) ReadFile(path string) string {
	content, err := os.ReadFile(filepath.Join(w.path, path))
	if err != nil {
		w.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// validateArg checks if an argument is safe to pass to exec.Command
func validateArg(arg string) error {
	if arg == "" {
		return nil
	}

	// Check for shell metacharacters that could be dangerous
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\n", "\r"}
	for _, char := range dangerousChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains potentially dangerous character: %s", char)
		}
	}

	return nil
}

// createSafeCommand creates an exec.Cmd with a validated binary path
func createSafeCommand(binary string, args ...string) *exec.Cmd {
	return exec.Command(binary, args...)
}
