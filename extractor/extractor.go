package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/seqra/depscope/extractor/index"
	"github.com/seqra/depscope/extractor/javascript"
	"github.com/seqra/depscope/extractor/matlab"
	"github.com/seqra/depscope/extractor/python"
)

// Extractor parses one source file into a FileIndex. Implementations never
// fail outright: a parse failure is captured in the result's error descriptor
// so a batch can continue past a broken file.
type Extractor interface {
	// Extract parses src and returns the normalized per-file index.
	// relPath is the root-relative path recorded on every emitted record.
	Extract(ctx context.Context, src []byte, relPath string) *index.FileIndex
}

// Config controls extraction behavior shared by all languages
type Config struct {
	MaxFileSize int // Maximum file size in bytes; larger files index as errors
}

// DefaultMaxFileSize bounds single-file parsing cost
const DefaultMaxFileSize = 10 * 1024 * 1024

// Factory creates appropriate extractors based on file extension
type Factory struct {
	config *Config
}

// NewFactory creates a new extractor factory with the given config
func NewFactory(config *Config) *Factory {
	if config == nil {
		config = &Config{MaxFileSize: DefaultMaxFileSize}
	}
	if config.MaxFileSize == 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	return &Factory{config: config}
}

// Extensions lists the file extensions the factory can dispatch
func (f *Factory) Extensions() []string {
	return []string{".py", ".js", ".mjs", ".cjs", ".m"}
}

// ExtractorFor returns an appropriate extractor based on file extension.
// Python and JavaScript use the structural tree-sitter walker; MATLAB falls
// back to the token-based heuristic extractor.
func (f *Factory) ExtractorFor(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".py":
		return python.NewExtractor(f.config.MaxFileSize), nil
	case ".js", ".mjs", ".cjs":
		return javascript.NewExtractor(f.config.MaxFileSize), nil
	case ".m":
		return matlab.NewExtractor(f.config.MaxFileSize), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// Extract is a convenience method that dispatches on extension and extracts src
func (f *Factory) Extract(ctx context.Context, src []byte, relPath string) (*index.FileIndex, error) {
	extractor, err := f.ExtractorFor(relPath)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, src, relPath), nil
}
