// Package impact scores the blast radius of modifying a file by weighting
// its graph dependents by role.
package impact

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/seqra/depscope/graph"
)

// Scoring weights. Dependents contribute DependentPoints each, adjusted by a
// role multiplier: test files count for half, critical entry points double.
const (
	DependentPoints        = 10
	CriticalFileMultiplier = 2.0
	TestFileMultiplier     = 0.5
	RecentChangeBonus      = 5
	RecentChangeWindow     = 7 * 24 * time.Hour
)

// Risk tier lower bounds, inclusive.
const (
	RiskLow    = 20
	RiskMedium = 50
	RiskHigh   = 100
)

// Dependent identifies a file with a direct edge to the target.
type Dependent struct {
	File string `json:"file"`
}

// Result is the structured outcome of scoring a single target file.
type Result struct {
	TargetFile      string      `json:"target_file"`
	AnalyzedAt      string      `json:"analyzed_at"`
	FileType        string      `json:"file_type"`
	Dependents      []Dependent `json:"dependents"`
	DependentCount  int         `json:"dependent_count"`
	CriticalFiles   int         `json:"critical_files"`
	TestFiles       int         `json:"test_files"`
	Score           int         `json:"score"`
	RiskLevel       string      `json:"risk_level"`
	Recommendations []string    `json:"recommendations"`
}

// Scorer computes impact results against a pre-built dependency graph.
type Scorer struct {
	graph *graph.DependencyGraph
	// lastModified maps root-relative paths to their most recent change
	// time, typically sourced from commit history. Optional.
	lastModified map[string]time.Time
	now          func() time.Time
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithLastModified supplies per-file recency metadata. Targets modified
// within the recent-change window earn a score bonus.
func WithLastModified(modified map[string]time.Time) Option {
	return func(s *Scorer) {
		s.lastModified = modified
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// New returns a Scorer over the supplied graph.
func New(g *graph.DependencyGraph, opts ...Option) *Scorer {
	s := &Scorer{graph: g, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the impact of modifying target. Dependents are the nodes
// with a direct edge to the target; transitive impact is out of scope.
func (s *Scorer) Score(target string) *Result {
	dependents := s.graph.Dependents(target)

	score := float64(len(dependents) * DependentPoints)
	criticalCount := 0
	testCount := 0
	for _, dep := range dependents {
		lower := strings.ToLower(dep)
		switch {
		case strings.Contains(lower, "test") || strings.Contains(lower, "spec"):
			testCount++
			score += DependentPoints * (TestFileMultiplier - 1)
		case strings.Contains(lower, "main") || strings.Contains(lower, "run") || strings.Contains(lower, "batch"):
			criticalCount++
			score += DependentPoints * (CriticalFileMultiplier - 1)
		}
	}

	if modified, ok := s.lastModified[target]; ok {
		if s.now().Sub(modified) <= RecentChangeWindow {
			score += RecentChangeBonus
		}
	}

	total := int(score)
	risk := riskLevel(total)
	result := &Result{
		TargetFile:      target,
		AnalyzedAt:      s.now().Format(time.RFC3339),
		FileType:        FileType(target),
		Dependents:      make([]Dependent, 0, len(dependents)),
		DependentCount:  len(dependents),
		CriticalFiles:   criticalCount,
		TestFiles:       testCount,
		Score:           total,
		RiskLevel:       risk,
		Recommendations: recommendations(risk, criticalCount, testCount, len(dependents)),
	}
	for _, dep := range dependents {
		result.Dependents = append(result.Dependents, Dependent{File: dep})
	}
	return result
}

// FileType classifies a path by extension.
func FileType(file string) string {
	switch path.Ext(file) {
	case ".m":
		return "matlab"
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	default:
		return "unknown"
	}
}

func riskLevel(score int) string {
	switch {
	case score < RiskLow:
		return "low"
	case score < RiskMedium:
		return "medium"
	case score < RiskHigh:
		return "high"
	default:
		return "critical"
	}
}

func recommendations(risk string, criticalCount, testCount, dependentCount int) []string {
	var recs []string
	if risk == "high" || risk == "critical" {
		recs = append(recs, "isolate the change in a workspace branch")
		recs = append(recs, "run the full test suite before merging")
	}
	if criticalCount > 0 {
		recs = append(recs, pluralize(criticalCount, "critical file")+" affected - review carefully")
	}
	if testCount > 0 {
		recs = append(recs, pluralize(testCount, "test file")+" may need updating")
	}
	if dependentCount == 0 {
		recs = append(recs, "no dependent files - safe to modify")
	}
	return recs
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
