package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"github.com/seqra/depscope/extractor"
	"github.com/seqra/depscope/extractor/index"
)

// ErrRootNotFound is returned when the analysis root does not exist; it is
// the only fatal error an indexing run produces.
var ErrRootNotFound = fmt.Errorf("root path not found")

// Repository is the aggregate result of indexing a source tree
type Repository struct {
	Root  string             `json:"root"`
	Files []*index.FileIndex `json:"files"`
	Stats Stats              `json:"stats"`
}

// Stats holds corpus-wide statistics
type Stats struct {
	TotalFiles     int `json:"total_files"`
	TotalFunctions int `json:"total_functions"`
	TotalClasses   int `json:"total_classes"`
	TotalLOC       int `json:"total_loc"`
	Errors         int `json:"errors"`
}

// Service discovers source files under a root and extracts each into a
// FileIndex. A single file's failure never aborts the batch; only a missing
// root is fatal.
type Service struct {
	fs          afs.Service
	factory     *extractor.Factory
	excludes    map[string]bool
	includes    map[string]bool
	concurrency int
	fileTimeout time.Duration
	logger      *slog.Logger
}

// DefaultExcludes are directory names skipped during discovery
var DefaultExcludes = []string{
	".git", ".hg", ".svn", "node_modules", "__pycache__",
	".venv", "venv", "vendor", ".depscope", "dist", "build",
}

// Option configures the indexer service
type Option func(*Service)

// WithExcludeDirs replaces the default exclusion directory names
func WithExcludeDirs(dirs ...string) Option {
	return func(s *Service) {
		s.excludes = make(map[string]bool, len(dirs))
		for _, dir := range dirs {
			s.excludes[dir] = true
		}
	}
}

// WithIncludeExtensions restricts discovery to a subset of the supported
// file extensions (e.g. only ".py"). Unsupported extensions are ignored.
func WithIncludeExtensions(exts ...string) Option {
	return func(s *Service) {
		s.includes = make(map[string]bool, len(exts))
		for _, ext := range exts {
			s.includes[strings.ToLower(ext)] = true
		}
	}
}

// WithConcurrency bounds parallel per-file extraction; 1 disables parallelism
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFileTimeout bounds the extraction of a single file; on expiry the file
// indexes as failed-with-error instead of hanging the batch
func WithFileTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fileTimeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFactory sets a custom extractor factory
func WithFactory(factory *extractor.Factory) Option {
	return func(s *Service) {
		if factory != nil {
			s.factory = factory
		}
	}
}

// New creates an indexer service
func New(opts ...Option) *Service {
	s := &Service{
		fs:          afs.New(),
		factory:     extractor.NewFactory(nil),
		concurrency: 4,
		fileTimeout: 30 * time.Second,
		logger:      slog.Default(),
	}
	WithExcludeDirs(DefaultExcludes...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexRepository discovers all supported source files under root and
// extracts each one. Discovery order is lexical, so repeated runs over
// unchanged content produce identical output.
func (s *Service) IndexRepository(ctx context.Context, root string) (*Repository, error) {
	files, err := s.discover(ctx, root)
	if err != nil {
		return nil, err
	}
	return s.indexFiles(ctx, root, files)
}

// IndexFiles indexes an explicit subset of root-relative files
func (s *Service) IndexFiles(ctx context.Context, root string, files []string) (*Repository, error) {
	if ok, _ := s.fs.Exists(ctx, root); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	normalized := make([]string, 0, len(files))
	for _, file := range files {
		normalized = append(normalized, filepath.ToSlash(file))
	}
	sort.Strings(normalized)
	return s.indexFiles(ctx, root, normalized)
}

// discover walks root and returns the sorted root-relative paths of
// candidate source files, pruning excluded directories.
func (s *Service) discover(ctx context.Context, root string) ([]string, error) {
	if ok, _ := s.fs.Exists(ctx, root); !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	supported := make(map[string]bool)
	for _, ext := range s.factory.Extensions() {
		if len(s.includes) > 0 && !s.includes[ext] {
			continue
		}
		supported[ext] = true
	}

	var files []string
	err := s.fs.Walk(ctx, root, func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			if s.excludes[info.Name()] {
				return false, nil
			}
			return true, nil
		}
		if supported[strings.ToLower(filepath.Ext(info.Name()))] {
			files = append(files, path.Join(parent, info.Name()))
		}
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// indexFiles extracts every file and aggregates corpus statistics. Extraction
// runs on a bounded worker group; results land in a position-addressed slice
// so output order stays deterministic regardless of scheduling.
func (s *Service) indexFiles(ctx context.Context, root string, files []string) (*Repository, error) {
	result := &Repository{Root: root, Files: make([]*index.FileIndex, len(files))}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for i, relPath := range files {
		i, relPath := i, relPath
		group.Go(func() error {
			result.Files[i] = s.indexOne(groupCtx, root, relPath)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, file := range result.Files {
		result.Stats.TotalFiles++
		if file.Failed() {
			result.Stats.Errors++
			s.logger.Warn("file indexing failed", "file", file.File, "error", file.Err.Error())
			continue
		}
		result.Stats.TotalFunctions += len(file.Functions)
		result.Stats.TotalClasses += len(file.Classes)
		result.Stats.TotalLOC += file.LOC
	}

	s.logger.Debug("indexed repository",
		"root", root,
		"files", result.Stats.TotalFiles,
		"functions", result.Stats.TotalFunctions,
		"errors", result.Stats.Errors)
	return result, nil
}

// indexOne reads and extracts a single file; all failures are embedded in
// the returned FileIndex.
func (s *Service) indexOne(ctx context.Context, root, relPath string) *index.FileIndex {
	ext, err := s.factory.ExtractorFor(relPath)
	if err != nil {
		return &index.FileIndex{
			File: relPath,
			Err:  &index.ExtractError{Category: "io", Message: err.Error()},
		}
	}

	location := path.Join(root, relPath)
	src, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return &index.FileIndex{
			File: relPath,
			Err:  &index.ExtractError{Category: "io", Message: fmt.Sprintf("failed to read file: %v", err)},
		}
	}

	fileCtx, cancel := context.WithTimeout(ctx, s.fileTimeout)
	defer cancel()
	return ext.Extract(fileCtx, src, relPath)
}
