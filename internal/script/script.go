// Package script renders the platform script run by a background installation.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/alessio/shellescape"
)

// Options describe what the generated script does
type Options struct {
	Executable    string   // installer binary re-invoked inside the environment
	WorkDir       string   // directory the installation runs in
	EnvManager    string   // e.g. conda
	Environment   string   // environment name
	PythonVersion string   // e.g. 3.10
	Packages      []string // installed with pip before the installer runs
	InstallArgs   []string // extra arguments passed to the install command
}

const bashTemplate = `#!/usr/bin/env bash
set -euo pipefail

cd {{quote .WorkDir}}

if ! {{quote .EnvManager}} run -n {{quote .Environment}} python --version >/dev/null 2>&1; then
  echo {{quote (printf "Creating environment %s (python %s)" .Environment .PythonVersion)}}
  {{quote .EnvManager}} create -y -n {{quote .Environment}} {{quote (printf "python=%s" .PythonVersion)}}
fi
{{if .Packages}}
echo {{quote (printf "Installing packages: %s" (join .Packages))}}
{{quote .EnvManager}} run --no-capture-output -n {{quote .Environment}} python -m pip install{{range .Packages}} {{quote .}}{{end}}
{{end}}
{{quote .EnvManager}} run --no-capture-output -n {{quote .Environment}} {{quote .Executable}} install{{range .InstallArgs}} {{quote .}}{{end}}
`

const batchTemplate = `@echo off
setlocal

cd /d {{quote .WorkDir}}

call {{quote .EnvManager}} run -n {{quote .Environment}} python --version >nul 2>&1
if errorlevel 1 (
  echo Creating environment {{.Environment}} ^(python {{.PythonVersion}}^)
  call {{quote .EnvManager}} create -y -n {{quote .Environment}} {{quote (printf "python=%s" .PythonVersion)}} || exit /b 1
)
{{if .Packages}}
echo Installing packages: {{join .Packages}}
call {{quote .EnvManager}} run --no-capture-output -n {{quote .Environment}} python -m pip install{{range .Packages}} {{quote .}}{{end}} || exit /b 1
{{end}}
call {{quote .EnvManager}} run --no-capture-output -n {{quote .Environment}} {{quote .Executable}} install{{range .InstallArgs}} {{quote .}}{{end}} || exit /b 1
exit /b 0
`

// Render returns the script text for goos
func Render(goos string, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	text, quote := bashTemplate, shellescape.Quote
	if goos == "windows" {
		text, quote = batchTemplate, batchQuote
	}

	tmpl, err := template.New("install").Funcs(template.FuncMap{
		"quote": quote,
		"join":  func(s []string) string { return strings.Join(s, " ") },
	}).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse script template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("failed to render script: %w", err)
	}

	out := buf.String()
	if goos == "windows" {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}

// Extension returns the script file extension for goos
func Extension(goos string) string {
	if goos == "windows" {
		return ".bat"
	}
	return ".sh"
}

// Interpreter returns the program and leading arguments that run a script on goos
func Interpreter(goos string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/c"}
	}
	return "bash", nil
}

func (o Options) validate() error {
	switch {
	case o.Executable == "":
		return errors.New("script requires the installer executable path")
	case o.WorkDir == "":
		return errors.New("script requires a working directory")
	case o.EnvManager == "" || o.Environment == "":
		return errors.New("script requires an environment manager and environment name")
	case o.PythonVersion == "":
		return errors.New("script requires a python version")
	}
	return nil
}

// batchQuote quotes s for cmd.exe when it contains separators or metacharacters
func batchQuote(s string) string {
	if s == "" {
		return `""`
	}
	s = strings.ReplaceAll(s, "%", "%%")
	if !strings.ContainsAny(s, " \t&|<>^()\",;=") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
