package testutil

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepo(t *testing.T) {
	dir := t.TempDir()

	hash := InitRepo(t, dir, "https://example.com/sim.git", map[string]string{"engine/build.sh": "echo build\n"})

	assert.Len(t, hash, 40)
	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, "engine", "build.sh"))

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "main", head.Name().Short())
	assert.Equal(t, hash, head.Hash().String())

	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/sim.git"}, remote.Config().URLs)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.NoError(t, err)
}
