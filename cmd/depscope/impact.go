package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqra/depscope/graph"
	"github.com/seqra/depscope/history"
	"github.com/seqra/depscope/impact"
	"github.com/seqra/depscope/report"
)

// newImpactCmd creates the "impact" command.
func newImpactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact <file>",
		Short: "Score the impact of modifying a file",
		Long:  "Impact finds the files that depend on the target, weights them by role, and classifies the change into a risk tier.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImpact,
	}
	cmd.Flags().Bool("markdown", false, "Render the result as markdown instead of JSON")
	cmd.Flags().StringP("output", "o", "", "Write JSON to file instead of stdout")
	return cmd
}

func runImpact(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}
	target := filepath.ToSlash(args[0])

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	repo, err := indexRepository(ctx, cfg, root, nil)
	if err != nil {
		return err
	}
	g := graph.Build(repo.Files)

	opts := []impact.Option{}
	if modified := recentModifications(root, cfg.History.WindowDays); modified != nil {
		opts = append(opts, impact.WithLastModified(modified))
	}
	result := impact.New(g, opts...).Score(target)

	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
		cmd.Println(report.RenderImpact(result))
		return nil
	}
	output, _ := cmd.Flags().GetString("output")
	return writeJSON(cmd, output, result)
}

// recentModifications loads per-file change times from commit history.
// Roots outside a git repository simply skip the recency bonus.
func recentModifications(root string, windowDays int) map[string]time.Time {
	repo, err := history.Open(root, nil)
	if err != nil {
		if !errors.Is(err, history.ErrNoRepository) {
			slog.Warn("failed to open repository history", "error", err)
		}
		return nil
	}
	modified, err := repo.LastModified(time.Duration(windowDays) * 24 * time.Hour)
	if err != nil {
		slog.Warn("failed to read commit history", "error", err)
		return nil
	}
	return modified
}
