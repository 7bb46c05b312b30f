// Package gate implements a baseline quality gate: a change passes as long
// as it does not increase the diagnostic count over a recorded baseline.
package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Diagnostic is a single finding reported by an external checker.
type Diagnostic struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Rule        string `json:"rule,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Baseline is the persisted snapshot a later run is compared against.
type Baseline struct {
	Tool         string   `json:"tool"`
	Version      string   `json:"version"`
	Timestamp    string   `json:"timestamp"`
	ErrorCount   int      `json:"error_count"`
	WarningCount int      `json:"warning_count"`
	Fingerprints []string `json:"fingerprints"`
}

// Comparison describes the outcome of checking current diagnostics against
// a baseline.
type Comparison struct {
	Status         string `json:"status"`
	BaselineErrors int    `json:"baseline_errors"`
	CurrentErrors  int    `json:"current_errors"`
	Delta          int    `json:"delta"`
	NewErrors      int    `json:"new_errors,omitempty"`
	ResolvedErrors int    `json:"resolved_errors,omitempty"`
	Message        string `json:"message"`
}

var (
	linePattern       = regexp.MustCompile(`line \d+`)
	columnPattern     = regexp.MustCompile(`column \d+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize reduces a diagnostic to a location-stable form: the
// root-relative path joined with the message, with line/column numbers and
// whitespace variation stripped, lowercased. Diagnostics that move a few
// lines keep the same normalized form.
func Normalize(file, message, root string) string {
	relPath := file
	if rel, err := filepath.Rel(root, file); err == nil {
		relPath = rel
	}
	msg := linePattern.ReplaceAllString(message, "line N")
	msg = columnPattern.ReplaceAllString(msg, "column N")
	msg = strings.TrimSpace(whitespacePattern.ReplaceAllString(msg, " "))
	return strings.ToLower(relPath + ":" + msg)
}

// Fingerprint returns the stable 16-hex-digit identity of a diagnostic.
func Fingerprint(file, message, root string) string {
	sum := sha256.Sum256([]byte(Normalize(file, message, root)))
	return hex.EncodeToString(sum[:])[:16]
}

// EscalateWarnings returns a copy of the diagnostics with warning severity
// promoted to error, for strict gating.
func EscalateWarnings(diagnostics []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diagnostics))
	copy(out, diagnostics)
	for i := range out {
		if out[i].Severity == "warning" {
			out[i].Severity = "error"
		}
	}
	return out
}

// NewBaseline snapshots the current diagnostics. Only error-severity
// fingerprints are recorded; warnings contribute to the count only.
func NewBaseline(tool, version string, diagnostics []Diagnostic) *Baseline {
	b := &Baseline{
		Tool:      tool,
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, d := range diagnostics {
		switch d.Severity {
		case "error":
			b.ErrorCount++
			b.Fingerprints = append(b.Fingerprints, d.Fingerprint)
		case "warning":
			b.WarningCount++
		}
	}
	return b
}

// LoadBaseline reads a baseline file. A missing file returns (nil, nil):
// first runs have nothing to compare against.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read baseline %v: %w", path, err)
	}
	var baseline Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %v: %w", path, err)
	}
	return &baseline, nil
}

// SaveBaseline writes a baseline file, creating parent directories.
func SaveBaseline(path string, baseline *Baseline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create baseline dir: %w", err)
	}
	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline %v: %w", path, err)
	}
	return nil
}

// Compare checks current diagnostics against a baseline. The gate passes
// whenever the current error count does not exceed the baseline count; a
// nil baseline always passes.
func Compare(current []Diagnostic, baseline *Baseline) (bool, *Comparison) {
	errorCount := 0
	warningCount := 0
	fingerprints := make(map[string]bool)
	for _, d := range current {
		switch d.Severity {
		case "error":
			errorCount++
			fingerprints[d.Fingerprint] = true
		case "warning":
			warningCount++
		}
	}

	if baseline == nil {
		return true, &Comparison{
			Status:        "no_baseline",
			CurrentErrors: errorCount,
			Message:       "no baseline found, run init to create one",
		}
	}

	passed := errorCount <= baseline.ErrorCount

	baselineSet := make(map[string]bool, len(baseline.Fingerprints))
	for _, fp := range baseline.Fingerprints {
		baselineSet[fp] = true
	}
	newErrors := 0
	for fp := range fingerprints {
		if !baselineSet[fp] {
			newErrors++
		}
	}
	resolved := 0
	for fp := range baselineSet {
		if !fingerprints[fp] {
			resolved++
		}
	}

	comparison := &Comparison{
		BaselineErrors: baseline.ErrorCount,
		CurrentErrors:  errorCount,
		Delta:          errorCount - baseline.ErrorCount,
		NewErrors:      newErrors,
		ResolvedErrors: resolved,
	}
	if passed {
		comparison.Status = "pass"
		comparison.Message = fmt.Sprintf("error count: %d (baseline: %d)", errorCount, baseline.ErrorCount)
	} else {
		comparison.Status = "fail"
		comparison.Message = fmt.Sprintf("error count increased: %d > %d (+%d)", errorCount, baseline.ErrorCount, errorCount-baseline.ErrorCount)
	}
	return passed, comparison
}
