package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunorios1080/Isaac-Installer/internal/config"
)

func TestInitCommand_CreatesLoadableConfig(t *testing.T) {
	workDir := t.TempDir()

	output, err := runApp(t, "--dir", workDir, "init")
	require.NoError(t, err)

	configPath := filepath.Join(workDir, config.ConfigFileName)
	assert.Contains(t, output, "Configuration file created: "+configPath)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(configFileMode), info.Mode().Perm())

	cfg, err := config.LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRepositoryURL, cfg.Repository.URL)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.UseLFS())
	assert.Equal(t, config.DefaultPollInterval, cfg.Background.PollInterval)
	assert.Equal(t, []string{"numpy"}, cfg.Background.Packages)
	assert.False(t, cfg.HasHooks())
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	workDir := t.TempDir()
	configPath := filepath.Join(workDir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1.0\"\n"), 0o600))

	_, err := runApp(t, "--dir", workDir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file already exists")

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "version: \"1.0\"\n", string(content))
}

func TestInitCommand_Force(t *testing.T) {
	workDir := t.TempDir()
	configPath := filepath.Join(workDir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1.0\"\n"), 0o600))

	_, err := runApp(t, "--dir", workDir, "init", "--force")
	require.NoError(t, err)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Isaac Installer Configuration")
}

func TestInitCommand_CustomPath(t *testing.T) {
	workDir := t.TempDir()

	_, err := runApp(t, "--dir", workDir, "--config", "custom.yml", "init")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(workDir, "custom.yml"))
	assert.NoError(t, err)
}
