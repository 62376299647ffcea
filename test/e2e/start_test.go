package e2e

import (
	"runtime"
	"testing"

	"github.com/brunorios1080/Isaac-Installer/test/e2e/framework"
)

func TestStartCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("asserts on the bash script")
	}

	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	t.Run("PrintScript", func(t *testing.T) {
		ws := env.CreateWorkspace("start-print")
		ws.WriteConfig(`version: "1.0"
background:
  environment: sim-env
  python_version: "3.11"
  packages: [numpy, scipy]
`)

		output, err := ws.RunInstaller("start", "--print-script")
		framework.AssertNoError(t, err)
		framework.AssertOutputOrder(t, output, []string{
			"#!/usr/bin/env bash",
			"conda create -y -n sim-env python=3.11",
			"python -m pip install numpy scipy",
			"install --no-pause --dir " + ws.Path(),
		})
	})

	t.Run("BackgroundFailureIsReported", func(t *testing.T) {
		ws := env.CreateWorkspace("start-fail")
		ws.WriteConfig(`version: "1.0"
background:
  env_manager: definitely-not-conda
  poll_interval: 10ms
`)

		output, err := ws.RunInstaller("start", "--temp-dir", env.TmpDir())
		framework.AssertError(t, err)
		framework.AssertOutputContains(t, output, "Installation running")
		framework.AssertOutputContains(t, output, "Installation failed")
	})
}
