package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Executable:    "/opt/isaac installer/isaac-installer",
		WorkDir:       "/home/user/sim",
		EnvManager:    "conda",
		Environment:   "isaacsim",
		PythonVersion: "3.10",
		Packages:      []string{"numpy"},
		InstallArgs:   []string{"--no-pause", "--retries", "5"},
	}
}

func TestRender_Bash(t *testing.T) {
	out, err := Render("linux", testOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "#!/usr/bin/env bash\nset -euo pipefail\n"))
	assert.Contains(t, out, "cd /home/user/sim\n")
	assert.Contains(t, out, "conda create -y -n isaacsim python=3.10")
	assert.Contains(t, out, "conda run --no-capture-output -n isaacsim python -m pip install numpy")
	assert.Contains(t, out, "conda run --no-capture-output -n isaacsim '/opt/isaac installer/isaac-installer' install --no-pause --retries 5")
	assert.NotContains(t, out, "\r\n")
}

func TestRender_BashQuotesHostileValues(t *testing.T) {
	opts := testOptions()
	opts.WorkDir = "/tmp/it's here"
	opts.Packages = []string{"numpy; rm -rf /"}

	out, err := Render("darwin", opts)
	require.NoError(t, err)

	assert.Contains(t, out, `cd '/tmp/it'"'"'s here'`)
	assert.Contains(t, out, `pip install 'numpy; rm -rf /'`)
}

func TestRender_NoPackages(t *testing.T) {
	opts := testOptions()
	opts.Packages = nil

	out, err := Render("linux", opts)
	require.NoError(t, err)
	assert.NotContains(t, out, "pip install")
}

func TestRender_Batch(t *testing.T) {
	opts := testOptions()
	opts.Executable = `C:\Program Files\isaac-installer.exe`
	opts.WorkDir = `C:\sim`

	out, err := Render("windows", opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@echo off\r\n"))
	assert.Contains(t, out, `cd /d C:\sim`)
	assert.Contains(t, out, `call conda create -y -n isaacsim "python=3.10" || exit /b 1`)
	assert.Contains(t, out, `call conda run --no-capture-output -n isaacsim "C:\Program Files\isaac-installer.exe" install --no-pause --retries 5 || exit /b 1`)
	assert.Contains(t, out, "exit /b 0\r\n")
}

func TestRender_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		errMsg string
	}{
		{"missing executable", func(o *Options) { o.Executable = "" }, "executable"},
		{"missing work dir", func(o *Options) { o.WorkDir = "" }, "working directory"},
		{"missing environment", func(o *Options) { o.Environment = "" }, "environment"},
		{"missing python version", func(o *Options) { o.PythonVersion = "" }, "python version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			_, err := Render("linux", opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBatchQuote(t *testing.T) {
	assert.Equal(t, `""`, batchQuote(""))
	assert.Equal(t, "numpy", batchQuote("numpy"))
	assert.Equal(t, `"a b"`, batchQuote("a b"))
	assert.Equal(t, `"say ""hi"""`, batchQuote(`say "hi"`))
	assert.Equal(t, "100%%", batchQuote("100%"))
}

func TestExtensionAndInterpreter(t *testing.T) {
	assert.Equal(t, ".sh", Extension("linux"))
	assert.Equal(t, ".bat", Extension("windows"))

	name, args := Interpreter("linux")
	assert.Equal(t, "bash", name)
	assert.Empty(t, args)

	name, args = Interpreter("windows")
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c"}, args)
}
