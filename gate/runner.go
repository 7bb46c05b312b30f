package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrCheckerNotFound indicates the external checker binary is not on PATH.
var ErrCheckerNotFound = errors.New("checker not found")

// DefaultCheckerTimeout bounds a single checker invocation.
const DefaultCheckerTimeout = 5 * time.Minute

// Runner invokes an external diagnostic tool and parses its JSON output.
// The output format follows the pyright --outputjson shape: a top-level
// version plus a generalDiagnostics array.
type Runner struct {
	Command []string
	Root    string
	Timeout time.Duration
}

type checkerOutput struct {
	Version            string `json:"version"`
	GeneralDiagnostics []struct {
		File     string `json:"file"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Rule     string `json:"rule"`
		Range    struct {
			Start struct {
				Line      int `json:"line"`
				Character int `json:"character"`
			} `json:"start"`
		} `json:"range"`
	} `json:"generalDiagnostics"`
}

// Run executes the checker and returns its diagnostics with fingerprints
// assigned, plus the tool version it reported.
func (r *Runner) Run(ctx context.Context) ([]Diagnostic, string, error) {
	if len(r.Command) == 0 {
		return nil, "", errors.New("checker command is empty")
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultCheckerTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Root
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %v", ErrCheckerNotFound, r.Command[0])
		}
		// Checkers exit non-zero when they find diagnostics; only bail
		// out when there is no parseable output at all.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || stdout.Len() == 0 {
			return nil, "", fmt.Errorf("checker %v failed: %w", r.Command[0], err)
		}
	}

	output, err := parseCheckerOutput(stdout.Bytes())
	if err != nil {
		return nil, "", err
	}

	diagnostics := make([]Diagnostic, 0, len(output.GeneralDiagnostics))
	for _, diag := range output.GeneralDiagnostics {
		diagnostics = append(diagnostics, Diagnostic{
			File:        diag.File,
			Line:        diag.Range.Start.Line,
			Column:      diag.Range.Start.Character,
			Severity:    diag.Severity,
			Message:     diag.Message,
			Rule:        diag.Rule,
			Fingerprint: Fingerprint(diag.File, diag.Message, r.Root),
		})
	}
	return diagnostics, output.Version, nil
}

func parseCheckerOutput(data []byte) (*checkerOutput, error) {
	var output checkerOutput
	if err := json.Unmarshal(data, &output); err == nil {
		return &output, nil
	}
	// Some checkers mix log lines into stdout; scan for the JSON line.
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		if err := json.Unmarshal([]byte(line), &output); err == nil {
			return &output, nil
		}
	}
	return nil, errors.New("could not parse checker output")
}
