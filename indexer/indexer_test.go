package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/indexer"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestIndexRepository(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/main.py", "import helpers\n\n\ndef main():\n    pass\n")
	writeFile(t, root, "app/helpers.py", "def helper():\n    pass\n\n\nclass Util:\n    pass\n")
	writeFile(t, root, "solve.m", "y = helper_fn(3);\n")
	writeFile(t, root, "README.md", "not a source file\n")

	service := indexer.New(indexer.WithConcurrency(2))
	repo, err := service.IndexRepository(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, repo.Stats.TotalFiles)
	assert.Equal(t, 2, repo.Stats.TotalFunctions)
	assert.Equal(t, 1, repo.Stats.TotalClasses)
	assert.Equal(t, 0, repo.Stats.Errors)

	// Discovery order is lexical, so output order is deterministic.
	require.Len(t, repo.Files, 3)
	assert.Equal(t, "app/helpers.py", repo.Files[0].File)
	assert.Equal(t, "app/main.py", repo.Files[1].File)
	assert.Equal(t, "solve.m", repo.Files[2].File)
}

func TestIndexRepository_ErrorIsolation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.py", "def ok():\n    pass\n")
	writeFile(t, root, "broken.py", "def broken(:\n    pass\n")

	service := indexer.New()
	repo, err := service.IndexRepository(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Stats.TotalFiles)
	assert.Equal(t, 1, repo.Stats.Errors)
	assert.Equal(t, 1, repo.Stats.TotalFunctions)

	require.Len(t, repo.Files, 2)
	broken := repo.Files[0]
	assert.Equal(t, "broken.py", broken.File)
	require.NotNil(t, broken.Err)
	assert.Equal(t, "syntax", broken.Err.Category)
	assert.False(t, broken.HasRecords())
}

func TestIndexRepository_Excludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "import os\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {};\n")
	writeFile(t, root, "__pycache__/app.py", "cached = True\n")

	service := indexer.New()
	repo, err := service.IndexRepository(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, repo.Files, 1)
	assert.Equal(t, "app.py", repo.Files[0].File)
}

func TestIndexRepository_IncludeExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "import os\n")
	writeFile(t, root, "b.js", "const x = 1;\n")

	service := indexer.New(indexer.WithIncludeExtensions(".py"))
	repo, err := service.IndexRepository(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, repo.Files, 1)
	assert.Equal(t, "a.py", repo.Files[0].File)
}

func TestIndexRepository_MissingRoot(t *testing.T) {
	service := indexer.New()
	_, err := service.IndexRepository(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, indexer.ErrRootNotFound)
}

func TestIndexFiles_Subset(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def a():\n    pass\n")
	writeFile(t, root, "b.py", "def b():\n    pass\n")
	writeFile(t, root, "c.py", "def c():\n    pass\n")

	service := indexer.New()
	repo, err := service.IndexFiles(context.Background(), root, []string{"c.py", "a.py"})
	require.NoError(t, err)

	require.Len(t, repo.Files, 2)
	assert.Equal(t, "a.py", repo.Files[0].File)
	assert.Equal(t, "c.py", repo.Files[1].File)
	assert.Equal(t, 2, repo.Stats.TotalFunctions)
}
