package e2e

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/brunorios1080/Isaac-Installer/test/e2e/framework"
)

// fakePython stands in for the interpreter: it prints its arguments
const fakePython = `#!/bin/sh
echo "python $*"
`

func TestInstallCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()
	env.RequirePrograms("git", "bash")

	source := env.CreateSourceRepo("isaac-source", map[string]string{
		"requirements.txt":              "numpy\n",
		"engine/build_scripts/build.sh": "echo building from $(pwd)\n",
		"run.py":                        "print('launch')\n",
	})

	writeConfig := func(ws *framework.Workspace, hooks string) {
		ws.WriteFile("fakepy.sh", fakePython)
		ws.WriteConfig(fmt.Sprintf(`version: "1.0"
repository:
  url: %s
  lfs: false
python: sh %s
retry:
  max_attempts: 1
%s`, source, filepath.Join(ws.Path(), "fakepy.sh"), hooks))
	}

	t.Run("FullInstall", func(t *testing.T) {
		ws := env.CreateWorkspace("full")
		writeConfig(ws, `hooks:
  post_build:
    - type: copy
      from: settings.env
      to: settings.env
    - type: command
      command: echo hook ran
`)
		ws.WriteFile("settings.env", "HEADLESS=1\n")

		output, err := ws.RunInstaller("install")
		framework.AssertNoError(t, err)

		cloneDir := filepath.Join(ws.Path(), "IsaacSim")
		framework.AssertOutputOrder(t, output, []string{
			"Cloning Isaac Sim into " + cloneDir,
			"Running: git clone",
			"Installing Python dependencies...",
			"python -m pip install --upgrade pip",
			"python -m pip install -r " + filepath.Join(cloneDir, "requirements.txt"),
			"Running Isaac Sim build script...",
			"building from " + cloneDir,
			"Running post-build hooks...",
			"Copying: settings.env → settings.env",
			"hook ran",
			"Launching Isaac Sim...",
			"python " + filepath.Join(cloneDir, "run.py"),
			"All steps completed",
		})
		framework.AssertFileContains(t, ws, "IsaacSim/settings.env", "HEADLESS=1")
	})

	t.Run("SecondRunSkipsClone", func(t *testing.T) {
		ws := env.CreateWorkspace("rerun")
		writeConfig(ws, "")

		_, err := ws.RunInstaller("clone")
		framework.AssertNoError(t, err)

		output, err := ws.RunInstaller("clone")
		framework.AssertNoError(t, err)
		framework.AssertOutputContains(t, output, "already exists (main @ ")
		framework.AssertOutputNotContains(t, output, "git clone")
	})

	t.Run("MissingFilesAreSkippedExceptLaunch", func(t *testing.T) {
		ws := env.CreateWorkspace("missing")
		writeConfig(ws, "")
		ws.WriteFile("IsaacSim/placeholder.txt", "not a checkout\n")

		output, err := ws.RunInstaller("install")
		framework.AssertError(t, err)
		framework.AssertOutputContains(t, output, "exists but is not a git repository")
		framework.AssertOutputContains(t, output, "dependency manifest not found")
		framework.AssertOutputContains(t, output, "build script not found")
		framework.AssertOutputContains(t, output, "cannot find launch script")
		framework.AssertHelpfulError(t, output)
	})

	t.Run("CloneFailureAborts", func(t *testing.T) {
		ws := env.CreateWorkspace("bad-url")
		ws.WriteConfig(`version: "1.0"
repository:
  url: /nonexistent/source/repo
  lfs: false
retry:
  max_attempts: 2
  backoff_unit: 10ms
`)

		output, err := ws.RunInstaller("install")
		framework.AssertError(t, err)
		framework.AssertOutputContains(t, output, "Running (attempt 2/2): git clone")
		framework.AssertOutputContains(t, output, "clone step failed")
		framework.AssertOutputNotContains(t, output, "Installing Python dependencies")
	})
}
