package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/seqra/depscope/graph"
)

// newDepsCmd creates the "deps" command.
func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Analyze the dependency graph",
		Long:  "Deps indexes the repository, builds the file dependency graph, and reports cycles and fan-in hotspots as JSON.",
		RunE:  runDeps,
	}
	cmd.Flags().StringP("output", "o", "", "Write JSON to file instead of stdout")
	return cmd
}

func runDeps(cmd *cobra.Command, args []string) error {
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

	output, _ := cmd.Flags().GetString("output")
	return writeJSON(cmd, output, analysis)
}
