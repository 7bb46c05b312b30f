package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/history"
)

// initRepo creates a git repository with two commits touching python files.
func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(relPath, content, message string, when time.Time) {
		require.NoError(t, os.WriteFile(filepath.Join(root, relPath), []byte(content), 0o644))
		_, err := wt.Add(relPath)
		require.NoError(t, err)
		_, err = wt.Commit(message, &gogit.CommitOptions{
			Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: when},
		})
		require.NoError(t, err)
	}

	now := time.Now()
	commit("solver.py", "def solve():\n    pass\n", "add solver", now.Add(-2*time.Hour))
	commit("solver.py", "def solve(x):\n    return x\n", "fix solver signature", now.Add(-time.Hour))
	commit("notes.txt", "scratch\n", "add notes", now.Add(-30*time.Minute))
	return root
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := history.Open(t.TempDir(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, history.ErrNoRepository)
}

func TestRecentChanges(t *testing.T) {
	root := initRepo(t)

	repo, err := history.Open(root, []string{".py"})
	require.NoError(t, err)

	changes, err := repo.RecentChanges(10)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "solver.py", changes[0].File)
	assert.Equal(t, "fix solver signature", changes[0].Message)
}

func TestHotspots(t *testing.T) {
	root := initRepo(t)

	repo, err := history.Open(root, []string{".py"})
	require.NoError(t, err)

	hotspots, err := repo.Hotspots(7*24*time.Hour, 10)
	require.NoError(t, err)

	require.Len(t, hotspots, 1)
	assert.Equal(t, "solver.py", hotspots[0].File)
	assert.Equal(t, 2, hotspots[0].Changes)
}

func TestLastModified(t *testing.T) {
	root := initRepo(t)

	repo, err := history.Open(root, nil)
	require.NoError(t, err)

	modified, err := repo.LastModified(7 * 24 * time.Hour)
	require.NoError(t, err)

	require.Contains(t, modified, "solver.py")
	require.Contains(t, modified, "notes.txt")
	assert.True(t, modified["notes.txt"].After(modified["solver.py"]))
}
