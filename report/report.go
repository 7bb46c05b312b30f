// Package report renders index, graph, and impact results as markdown. It
// formats structured outputs only and never recomputes or adjusts scores.
package report

import (
	"fmt"
	"strings"

	"github.com/seqra/depscope/extractor/index"
	"github.com/seqra/depscope/graph"
	"github.com/seqra/depscope/history"
	"github.com/seqra/depscope/impact"
	"github.com/seqra/depscope/indexer"
	"github.com/seqra/depscope/repository"
)

// CriticalItem is a symbol flagged as critical by decorator or docstring tag.
type CriticalItem struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Warning flags a problem surfaced while indexing or graph analysis.
type Warning struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Name     string `json:"name,omitempty"`
}

// maxParams is the parameter count beyond which a function draws a
// complexity warning.
const maxParams = 5

// CriticalItems scans indexed functions for a critical marker, either a
// decorator containing "critical" or a docstring tag.
func CriticalItems(files []*index.FileIndex) []CriticalItem {
	var items []CriticalItem
	for _, file := range files {
		if file.Failed() {
			continue
		}
		for _, fn := range file.Functions {
			reason := ""
			for _, dec := range fn.Decorators {
				if strings.Contains(strings.ToLower(dec), "critical") {
					reason = "decorator: " + dec
					break
				}
			}
			doc := strings.ToLower(fn.Doc)
			if strings.Contains(doc, "@critical") || strings.Contains(doc, "critical:") {
				reason = "docstring tag"
			}
			if reason != "" {
				items = append(items, CriticalItem{
					File:   file.File,
					Line:   fn.Line,
					Name:   fn.Name,
					Type:   "function",
					Reason: reason,
				})
			}
		}
	}
	return items
}

// Warnings collects extraction failures, dependency cycles, and
// over-parameterized functions.
func Warnings(repo *indexer.Repository, analysis *graph.Analysis) []Warning {
	var warnings []Warning
	for _, file := range repo.Files {
		if file.Failed() {
			warnings = append(warnings, Warning{
				Severity: "FAIL",
				Category: "syntax",
				Message:  file.Err.Error(),
				File:     file.File,
			})
		}
	}
	if analysis != nil {
		for _, cycle := range analysis.Cycles {
			w := Warning{
				Severity: "FAIL",
				Category: "cycle",
				Message:  "circular dependency: " + cycle.Display(),
			}
			if len(cycle.Path) > 0 {
				w.File = cycle.Path[0]
			}
			warnings = append(warnings, w)
		}
	}
	for _, file := range repo.Files {
		if file.Failed() {
			continue
		}
		for _, fn := range file.Functions {
			if len(fn.Params) > maxParams {
				warnings = append(warnings, Warning{
					Severity: "WARN",
					Category: "complexity",
					Message:  fmt.Sprintf("function has %d parameters (>%d)", len(fn.Params), maxParams),
					File:     file.File,
					Line:     fn.Line,
					Name:     fn.Name,
				})
			}
		}
	}
	return warnings
}

// NextActions turns warnings and hotspots into a short prioritized list.
func NextActions(warnings []Warning, hotspots []graph.Hotspot) []string {
	var actions []string
	cycles := 0
	syntaxErrors := 0
	complexFuncs := 0
	for _, w := range warnings {
		switch w.Category {
		case "cycle":
			cycles++
		case "syntax":
			syntaxErrors++
		case "complexity":
			complexFuncs++
		}
	}
	if cycles > 0 {
		actions = append(actions, fmt.Sprintf("fix %d circular dependencies", cycles))
	}
	if syntaxErrors > 0 {
		actions = append(actions, fmt.Sprintf("fix %d syntax errors", syntaxErrors))
	}
	if len(hotspots) > 0 && hotspots[0].FanIn > 5 {
		top := hotspots[0]
		actions = append(actions, fmt.Sprintf("review hotspot: %v (fan_in=%d)", top.File, top.FanIn))
	}
	if complexFuncs > 0 {
		actions = append(actions, fmt.Sprintf("reduce complexity in %d functions", complexFuncs))
	}
	if len(actions) == 0 {
		actions = append(actions, "no critical issues, consider adding tests or documentation")
	}
	if len(actions) > 5 {
		actions = actions[:5]
	}
	return actions
}

// Context bundles everything the repository summary renders.
type Context struct {
	Project        *repository.Repository
	Repo           *indexer.Repository
	Analysis       *graph.Analysis
	RecentChanges  []history.Change
	ChangeHotspots []history.Hotspot
	GeneratedAt    string
}

// RenderContext renders the repository summary markdown.
func RenderContext(ctx *Context) string {
	var b strings.Builder
	b.WriteString("# Repository Context\n\n")
	if ctx.Project != nil {
		name := ctx.Project.Root
		if ctx.Project.Info != nil && ctx.Project.Info.Name != "" {
			name = ctx.Project.Info.Name
		}
		fmt.Fprintf(&b, "> Project: %v (%v)\n", name, ctx.Project.Kind)
		if ctx.Project.Origin != "" {
			fmt.Fprintf(&b, "> Origin: %v\n", ctx.Project.Origin)
		}
	}
	if ctx.GeneratedAt != "" {
		fmt.Fprintf(&b, "> Generated: %v\n", ctx.GeneratedAt)
	}
	if ctx.Project != nil || ctx.GeneratedAt != "" {
		b.WriteString("\n")
	}

	b.WriteString("## Recent Changes\n\n")
	if len(ctx.RecentChanges) == 0 {
		b.WriteString("No recent changes.\n")
	}
	for _, change := range ctx.RecentChanges {
		if change.Message != "" {
			fmt.Fprintf(&b, "- `%v` — %v\n", change.File, change.Message)
		} else {
			fmt.Fprintf(&b, "- `%v`\n", change.File)
		}
	}

	b.WriteString("\n## Index\n\n")
	if ctx.Repo != nil {
		stats := ctx.Repo.Stats
		fmt.Fprintf(&b, "- Files: %d\n", stats.TotalFiles)
		fmt.Fprintf(&b, "- Functions: %d\n", stats.TotalFunctions)
		fmt.Fprintf(&b, "- Classes: %d\n", stats.TotalClasses)
		fmt.Fprintf(&b, "- Lines: %d\n", stats.TotalLOC)
		fmt.Fprintf(&b, "- Errors: %d\n", stats.Errors)

		items := CriticalItems(ctx.Repo.Files)
		if len(items) > 0 {
			b.WriteString("\n## Critical Items\n\n")
			for _, item := range items {
				fmt.Fprintf(&b, "- `%v:%d` %v (%v)\n", item.File, item.Line, item.Name, item.Reason)
			}
		}
	}

	if ctx.Analysis != nil {
		b.WriteString("\n## Dependencies\n\n")
		fmt.Fprintf(&b, "- Nodes: %d, edges: %d\n", ctx.Analysis.TotalFiles, ctx.Analysis.TotalEdges)
		fmt.Fprintf(&b, "- Cycles: %d\n", ctx.Analysis.CycleCount)
		for _, cycle := range ctx.Analysis.Cycles {
			fmt.Fprintf(&b, "  - %v\n", cycle.Display())
		}
		if ctx.Analysis.Truncated {
			b.WriteString("  - cycle enumeration truncated\n")
		}
		if len(ctx.Analysis.Hotspots) > 0 {
			b.WriteString("\n### Hotspots\n\n")
			for _, hs := range ctx.Analysis.Hotspots {
				fmt.Fprintf(&b, "- `%v` fan_in=%d fan_out=%d\n", hs.File, hs.FanIn, hs.FanOut)
			}
		}
	}

	if len(ctx.ChangeHotspots) > 0 {
		b.WriteString("\n## Change Frequency\n\n")
		for _, hs := range ctx.ChangeHotspots {
			fmt.Fprintf(&b, "- `%v` changed %d times\n", hs.File, hs.Changes)
		}
	}

	var warnings []Warning
	if ctx.Repo != nil {
		warnings = Warnings(ctx.Repo, ctx.Analysis)
	}
	if len(warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			location := w.File
			if w.Line > 0 {
				location = fmt.Sprintf("%v:%d", w.File, w.Line)
			}
			fmt.Fprintf(&b, "- [%v] %v: %v (%v)\n", w.Severity, w.Category, w.Message, location)
		}
	}

	var hotspots []graph.Hotspot
	if ctx.Analysis != nil {
		hotspots = ctx.Analysis.Hotspots
	}
	b.WriteString("\n## Next Actions\n\n")
	for i, action := range NextActions(warnings, hotspots) {
		fmt.Fprintf(&b, "%d. %v\n", i+1, action)
	}
	return b.String()
}

// RenderImpact renders an impact result as markdown. Scores and tiers come
// straight from the result.
func RenderImpact(result *impact.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Impact Analysis: %v risk\n\n", strings.ToUpper(result.RiskLevel))
	fmt.Fprintf(&b, "- File: `%v`\n", result.TargetFile)
	fmt.Fprintf(&b, "- Type: %v\n", result.FileType)
	fmt.Fprintf(&b, "- Score: %d\n", result.Score)

	fmt.Fprintf(&b, "\n## Dependents (%d)\n\n", result.DependentCount)
	if len(result.Dependents) == 0 {
		b.WriteString("(none)\n")
	}
	const displayLimit = 10
	for i, dep := range result.Dependents {
		if i == displayLimit {
			fmt.Fprintf(&b, "- ... and %d more\n", len(result.Dependents)-displayLimit)
			break
		}
		fmt.Fprintf(&b, "- `%v`\n", dep.File)
	}

	b.WriteString("\n## Recommendations\n\n")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(&b, "- %v\n", rec)
	}
	return b.String()
}
