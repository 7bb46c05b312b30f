// Command depscope indexes a repository's source files, builds the file
// dependency graph, and reports cycles, hotspots, and change impact.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seqra/depscope/config"
	"github.com/seqra/depscope/repository"
)

const version = "0.3.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "depscope",
		Short: "Static dependency and change-impact analysis",
		Long:  "depscope indexes source files, builds a file dependency graph, detects cycles, and scores the impact of modifying a file.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(viper.GetBool("verbose"))
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().String("root", ".", "Repository root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default <root>/depscope.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Env vars: DEPSCOPE_ROOT, DEPSCOPE_VERBOSE, etc.
	viper.SetEnvPrefix("DEPSCOPE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newImpactCmd())
	rootCmd.AddCommand(newGateCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig resolves the effective configuration for the current run. A
// default root is widened to the enclosing project root, so depscope can be
// invoked from any subdirectory of the repository.
func loadConfig() (*config.Config, string, error) {
	root := viper.GetString("root")
	if root == "." {
		if project, err := repository.New().DetectProject(root); err == nil && project.Type != "unknown" {
			root = project.RootPath
		}
	}
	configPath := viper.GetString("config")
	if configPath == "" {
		configPath = filepath.Join(root, config.DefaultFileName)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print depscope version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("depscope %s\n", version)
		},
	}
}
