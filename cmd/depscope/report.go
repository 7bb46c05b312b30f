package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqra/depscope/graph"
	"github.com/seqra/depscope/history"
	"github.com/seqra/depscope/report"
	"github.com/seqra/depscope/repository"
)

// newReportCmd creates the "report" command.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a repository summary",
		Long:  "Report indexes the repository, analyzes the dependency graph, reads recent commit history, and renders everything as a markdown summary.",
		RunE:  runReport,
	}
	cmd.Flags().StringP("output", "o", "", "Write markdown to file instead of stdout")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	repo, err := indexRepository(ctx, cfg, root, nil)
	if err != nil {
		return err
	}
	g := graph.Build(repo.Files)
	analysis := graph.Analyze(g, cfg.MaxCycles, cfg.TopHotspots)

	project, err := repository.New().DetectRepository(root)
	if err != nil {
		slog.Warn("failed to detect repository", "error", err)
	}

	changes, changeHotspots := repositoryHistory(root, cfg.History.CommitDepth, cfg.History.WindowDays)
	markdown := report.RenderContext(&report.Context{
		Project:        project,
		Repo:           repo,
		Analysis:       analysis,
		RecentChanges:  changes,
		ChangeHotspots: changeHotspots,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("failed to write %v: %w", output, err)
		}
		return nil
	}
	cmd.Println(markdown)
	return nil
}

// repositoryHistory reads recent changes and change-count hotspots from
// commit history; roots outside a git repository report neither.
func repositoryHistory(root string, commitDepth, windowDays int) ([]history.Change, []history.Hotspot) {
	repo, err := history.Open(root, nil)
	if err != nil {
		if !errors.Is(err, history.ErrNoRepository) {
			slog.Warn("failed to open repository history", "error", err)
		}
		return nil, nil
	}
	changes, err := repo.RecentChanges(commitDepth)
	if err != nil {
		slog.Warn("failed to read commit history", "error", err)
		return nil, nil
	}
	hotspots, err := repo.Hotspots(time.Duration(windowDays)*24*time.Hour, 20)
	if err != nil {
		slog.Warn("failed to read change hotspots", "error", err)
	}
	return changes, hotspots
}
