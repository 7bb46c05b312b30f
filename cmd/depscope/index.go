package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/seqra/depscope/config"
	"github.com/seqra/depscope/indexer"
)

// newIndexCmd creates the "index" command.
func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [files...]",
		Short: "Index source files under the root",
		Long:  "Index discovers supported source files, extracts functions, classes, and imports from each, and prints the aggregate as JSON. Explicit file arguments restrict indexing to that subset.",
		RunE:  runIndex,
	}
	cmd.Flags().StringP("output", "o", "", "Write JSON to file instead of stdout")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	repo, err := indexRepository(ctx, cfg, root, args)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	return writeJSON(cmd, output, repo)
}

// indexRepository runs the indexer with the effective configuration.
func indexRepository(ctx context.Context, cfg *config.Config, root string, files []string) (*indexer.Repository, error) {
	opts := []indexer.Option{
		indexer.WithExcludeDirs(cfg.ExcludeDirs...),
		indexer.WithConcurrency(cfg.Concurrency),
	}
	if len(cfg.IncludeExtensions) > 0 {
		opts = append(opts, indexer.WithIncludeExtensions(cfg.IncludeExtensions...))
	}
	service := indexer.New(opts...)
	if len(files) > 0 {
		return service.IndexFiles(ctx, root, files)
	}
	return service.IndexRepository(ctx, root)
}

// writeJSON marshals v and writes it to path, or stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if path == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %v: %w", path, err)
	}
	return nil
}
