package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqra/depscope/extractor/index"
	"github.com/seqra/depscope/graph"
	"github.com/seqra/depscope/impact"
	"github.com/seqra/depscope/indexer"
	"github.com/seqra/depscope/report"
	"github.com/seqra/depscope/repository"
)

func TestCriticalItems(t *testing.T) {
	files := []*index.FileIndex{
		{
			File: "jobs/payout.py",
			Functions: []index.FunctionRecord{
				{Name: "transfer", Line: 10, Decorators: []string{"critical"}},
				{Name: "audit", Line: 30, Doc: "Audit trail.\n\n@critical: money moves here"},
				{Name: "helper", Line: 50},
			},
		},
		{
			File: "broken.py",
			Err:  &index.ExtractError{Category: "syntax", Message: "invalid syntax"},
		},
	}

	items := report.CriticalItems(files)

	require.Len(t, items, 2)
	assert.Equal(t, "transfer", items[0].Name)
	assert.Equal(t, "decorator: critical", items[0].Reason)
	assert.Equal(t, "audit", items[1].Name)
	assert.Equal(t, "docstring tag", items[1].Reason)
}

func TestWarnings(t *testing.T) {
	repo := &indexer.Repository{
		Files: []*index.FileIndex{
			{File: "broken.py", Err: &index.ExtractError{Category: "syntax", Message: "invalid syntax", Line: 2}},
			{
				File: "wide.py",
				Functions: []index.FunctionRecord{
					{Name: "wide", Line: 1, Params: make([]index.Param, 6)},
				},
			},
		},
	}
	analysis := &graph.Analysis{
		Cycles: []graph.Cycle{{Path: []string{"a.py", "b.py"}}},
	}

	warnings := report.Warnings(repo, analysis)

	require.Len(t, warnings, 3)
	assert.Equal(t, "syntax", warnings[0].Category)
	assert.Equal(t, "FAIL", warnings[0].Severity)
	assert.Equal(t, "cycle", warnings[1].Category)
	assert.Equal(t, "a.py", warnings[1].File)
	assert.Equal(t, "complexity", warnings[2].Category)
	assert.Equal(t, "WARN", warnings[2].Severity)
}

func TestNextActions(t *testing.T) {
	warnings := []report.Warning{
		{Category: "cycle"},
		{Category: "syntax"},
		{Category: "complexity"},
	}
	hotspots := []graph.Hotspot{{File: "core.py", FanIn: 9}}

	actions := report.NextActions(warnings, hotspots)

	require.Len(t, actions, 4)
	assert.Contains(t, actions[0], "circular")
	assert.Contains(t, actions[1], "syntax")
	assert.Contains(t, actions[2], "core.py")

	clean := report.NextActions(nil, nil)
	require.Len(t, clean, 1)
	assert.Contains(t, clean[0], "no critical issues")
}

func TestRenderContext(t *testing.T) {
	repo := &indexer.Repository{
		Root: "/repo",
		Files: []*index.FileIndex{
			{File: "a.py", Functions: []index.FunctionRecord{{Name: "f", Line: 1}}},
		},
		Stats: indexer.Stats{TotalFiles: 1, TotalFunctions: 1, TotalLOC: 12},
	}
	g := graph.NewDependencyGraph()
	g.AddEdge("a.py", "b.py")
	analysis := graph.Analyze(g, 0, 10)

	project := &repository.Repository{
		Kind:   "git",
		Root:   "/repo",
		Origin: "https://example.com/acme/solver.git",
		Info:   &repository.Project{Name: "solver", Type: "git"},
	}

	out := report.RenderContext(&report.Context{Project: project, Repo: repo, Analysis: analysis})

	assert.True(t, strings.HasPrefix(out, "# Repository Context"))
	assert.Contains(t, out, "> Project: solver (git)")
	assert.Contains(t, out, "> Origin: https://example.com/acme/solver.git")
	assert.Contains(t, out, "- Files: 1")
	assert.Contains(t, out, "- Functions: 1")
	assert.Contains(t, out, "## Next Actions")
}

func TestRenderImpact(t *testing.T) {
	g := graph.NewDependencyGraph()
	g.AddEdge("main_runner.py", "core.py")
	result := impact.New(g).Score("core.py")

	out := report.RenderImpact(result)

	assert.Contains(t, out, "# Impact Analysis")
	assert.Contains(t, out, "`core.py`")
	assert.Contains(t, out, "`main_runner.py`")
	assert.Contains(t, out, "Score: 20")
}
