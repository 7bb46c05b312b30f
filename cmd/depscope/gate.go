package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqra/depscope/gate"
)

// ErrGateFailed is returned when the diagnostic count exceeds the baseline.
var ErrGateFailed = errors.New("gate failed")

// newGateCmd creates the "gate" command.
func newGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Run the baseline quality gate",
		Long:  "Gate runs the configured external checker and compares its diagnostics against the recorded baseline. The gate passes as long as the error count does not increase.",
		RunE:  runGate,
	}
	cmd.Flags().Bool("init", false, "Record the current diagnostics as the new baseline")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	cmd.Flags().StringSlice("checker", nil, "Checker command and arguments (overrides config)")
	cmd.Flags().StringP("output", "o", "", "Write the comparison JSON to file")
	return cmd
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig()
	if err != nil {
		return err
	}

	checker := cfg.Gate.Checker
	if override, _ := cmd.Flags().GetStringSlice("checker"); len(override) > 0 {
		checker = override
	}
	if len(checker) == 0 {
		return errors.New("no checker configured, set gate.checker in depscope.yaml or pass --checker")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runner := &gate.Runner{
		Command: checker,
		Root:    root,
		Timeout: time.Duration(cfg.Gate.TimeoutSecs) * time.Second,
	}
	diagnostics, toolVersion, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		diagnostics = gate.EscalateWarnings(diagnostics)
	}

	baselinePath := cfg.Gate.BaselinePath
	if !filepath.IsAbs(baselinePath) {
		baselinePath = filepath.Join(root, baselinePath)
	}

	if init, _ := cmd.Flags().GetBool("init"); init {
		baseline := gate.NewBaseline(checker[0], toolVersion, diagnostics)
		if err := gate.SaveBaseline(baselinePath, baseline); err != nil {
			return err
		}
		cmd.Printf("baseline saved: %d errors -> %v\n", baseline.ErrorCount, baselinePath)
		return nil
	}

	baseline, err := gate.LoadBaseline(baselinePath)
	if err != nil {
		return err
	}
	passed, comparison := gate.Compare(diagnostics, baseline)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := writeJSON(cmd, output, comparison); err != nil {
			return err
		}
	}

	cmd.Println(comparison.Message)
	if !passed {
		return fmt.Errorf("%w: %v", ErrGateFailed, comparison.Message)
	}
	return nil
}
