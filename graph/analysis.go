package graph

import "sort"

// Hotspot describes a node by its dependency fan
type Hotspot struct {
	File   string `json:"file"`
	FanIn  int    `json:"fan_in"`
	FanOut int    `json:"fan_out"`
}

// Hotspots returns the topN nodes ordered by fan-in descending. Ties break
// on lexical path order so repeated runs report the same list.
func (g *DependencyGraph) Hotspots(topN int) []Hotspot {
	hotspots := make([]Hotspot, 0, len(g.nodes))
	for node := range g.nodes {
		hotspots = append(hotspots, Hotspot{
			File:   node,
			FanIn:  g.FanIn(node),
			FanOut: g.FanOut(node),
		})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].FanIn != hotspots[j].FanIn {
			return hotspots[i].FanIn > hotspots[j].FanIn
		}
		return hotspots[i].File < hotspots[j].File
	})
	if topN > 0 && len(hotspots) > topN {
		hotspots = hotspots[:topN]
	}
	return hotspots
}

// Analysis is the structured dependency report for a graph
type Analysis struct {
	TotalFiles int       `json:"total_files"`
	TotalEdges int       `json:"total_edges"`
	Cycles     []Cycle   `json:"cycles"`
	CycleCount int       `json:"cycle_count"`
	Truncated  bool      `json:"truncated,omitempty"`
	Hotspots   []Hotspot `json:"hotspots"`
}

// Analyze runs cycle detection and hotspot ranking over the graph
func Analyze(g *DependencyGraph, maxCycles, topHotspots int) *Analysis {
	cycles := g.FindCycles(maxCycles)
	return &Analysis{
		TotalFiles: g.NodeCount(),
		TotalEdges: g.EdgeCount(),
		Cycles:     cycles.Cycles,
		CycleCount: len(cycles.Cycles),
		Truncated:  cycles.Truncated,
		Hotspots:   g.Hotspots(topHotspots),
	}
}
