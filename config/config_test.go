package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/config"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "depscope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.Default().MaxCycles, cfg.MaxCycles)
	assert.Contains(t, cfg.ExcludeDirs, "node_modules")
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depscope.yaml")
	content := `
exclude_dirs:
  - .git
  - generated
max_cycles: 50
gate:
  baseline: .depscope/pyright.json
  checker: ["pyright", "--outputjson"]
history:
  window_days: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".git", "generated"}, cfg.ExcludeDirs)
	assert.Equal(t, 50, cfg.MaxCycles)
	assert.Equal(t, ".depscope/pyright.json", cfg.Gate.BaselinePath)
	assert.Equal(t, []string{"pyright", "--outputjson"}, cfg.Gate.Checker)
	assert.Equal(t, 14, cfg.History.WindowDays)
	// untouched keys keep their defaults
	assert.Equal(t, 20, cfg.TopHotspots)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[unclosed"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
