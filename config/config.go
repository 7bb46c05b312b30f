// Package config loads depscope.yaml, the optional per-repository settings
// file. Missing file or absent keys fall back to defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seqra/depscope/graph"
	"github.com/seqra/depscope/indexer"
)

// DefaultFileName is looked up under the repository root when no explicit
// config path is given.
const DefaultFileName = "depscope.yaml"

// Gate configures the baseline quality gate.
type Gate struct {
	BaselinePath string   `yaml:"baseline"`
	Checker      []string `yaml:"checker"`
	TimeoutSecs  int      `yaml:"timeout_seconds"`
}

// History configures commit-history queries.
type History struct {
	CommitDepth int `yaml:"commit_depth"`
	WindowDays  int `yaml:"window_days"`
}

// Config is the root of depscope.yaml.
type Config struct {
	// IncludeExtensions restricts indexing to a subset of the supported
	// extensions; empty means all.
	IncludeExtensions []string `yaml:"include_extensions"`
	ExcludeDirs       []string `yaml:"exclude_dirs"`
	MaxCycles         int      `yaml:"max_cycles"`
	TopHotspots       int      `yaml:"top_hotspots"`
	Concurrency       int      `yaml:"concurrency"`
	Gate              Gate     `yaml:"gate"`
	History           History  `yaml:"history"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ExcludeDirs: indexer.DefaultExcludes,
		MaxCycles:   graph.DefaultMaxCycles,
		TopHotspots: 20,
		Concurrency: 4,
		Gate: Gate{
			BaselinePath: ".depscope/baseline.json",
		},
		History: History{
			CommitDepth: 12,
			WindowDays:  7,
		},
	}
}

// Load reads the config at path, applying defaults for absent keys. A
// missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", path, err)
	}
	if cfg.MaxCycles <= 0 {
		cfg.MaxCycles = graph.DefaultMaxCycles
	}
	if cfg.TopHotspots <= 0 {
		cfg.TopHotspots = 20
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return cfg, nil
}
