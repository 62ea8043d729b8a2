package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rybkr/pit/internal/pitcore"
)

// newServedRepo builds a small repository with one commit, a branch, a tag,
// and a dirty working tree.
func newServedRepo(t *testing.T) *pitcore.Repository {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	repo, _, err := pitcore.Init(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.SetConfig("user.name", "Test User"))
	require.NoError(t, repo.SetConfig("user.email", "test@example.com"))

	path := repo.WorkPath("a.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))
	require.NoError(t, repo.Add([]string{path}))
	head, err := repo.Commit("first")
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("dev", head))
	require.NoError(t, repo.CreateTag("v1", head))

	require.NoError(t, os.WriteFile(repo.WorkPath("untracked.txt"), []byte("u"), 0o644))
	return repo
}

func TestBuildSummary(t *testing.T) {
	repo := newServedRepo(t)

	summary, err := BuildSummary(repo)
	require.NoError(t, err)

	assert.Equal(t, "master", summary.Branch)
	assert.False(t, summary.Detached)
	assert.NotEmpty(t, summary.Head)
	assert.Len(t, summary.Commits, 1)
	assert.Equal(t, "first", summary.Commits[0].Subject)
	assert.Contains(t, summary.Branches, "dev")
	assert.Contains(t, summary.Tags, "v1")
	assert.Equal(t, 1, summary.Status.Untracked)
	assert.Zero(t, summary.Status.Staged)
	assert.Zero(t, summary.StashDepth)
}

func TestBuildSummary_EmptyRepository(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	repo, _, err := pitcore.Init(t.TempDir())
	require.NoError(t, err)

	summary, err := BuildSummary(repo)
	require.NoError(t, err)

	assert.Equal(t, "master", summary.Branch)
	assert.Empty(t, summary.Head)
	assert.Empty(t, summary.Commits)
}
