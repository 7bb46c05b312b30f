package graph

import "strings"

// DefaultMaxCycles bounds cycle enumeration on densely-connected graphs.
// Elementary-cycle enumeration is exponential in the worst case; when the
// ceiling trips the result is marked truncated instead of silently cut.
const DefaultMaxCycles = 1000

// Cycle is a closed walk through the graph. The path holds each node once;
// the closing edge back to the first node is implied.
type Cycle struct {
	Path []string `json:"path"`
}

// Display renders the cycle with its closing node repeated
func (c Cycle) Display() string {
	if len(c.Path) == 0 {
		return ""
	}
	return strings.Join(append(append([]string{}, c.Path...), c.Path[0]), " -> ")
}

// CycleSet is the deduplicated result of cycle enumeration
type CycleSet struct {
	Cycles    []Cycle `json:"cycles"`
	Truncated bool    `json:"truncated,omitempty"`
}

// FindCycles enumerates the elementary cycles of the graph. A depth-first
// search runs from every node keeping the current path; reaching a node
// already on the path emits the sub-path from that node as a candidate.
// Candidates are canonicalized by rotating the lexicographically smallest
// node to the front (direction preserved) and deduplicated across origins,
// so the same cycle found from different start nodes reports exactly once.
// Results are ordered deterministically. maxCycles <= 0 applies
// DefaultMaxCycles.
func (g *DependencyGraph) FindCycles(maxCycles int) *CycleSet {
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}

	result := &CycleSet{}
	seen := make(map[string]bool)
	onPath := make(map[string]int) // node -> position on current path
	var path []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		onPath[node] = len(path)
		path = append(path, node)

		for _, next := range g.Dependencies(node) {
			if start, ok := onPath[next]; ok {
				cycle := canonicalize(path[start:])
				key := strings.Join(cycle, "\x00")
				if !seen[key] {
					if len(result.Cycles) >= maxCycles {
						result.Truncated = true
						return false
					}
					seen[key] = true
					result.Cycles = append(result.Cycles, Cycle{Path: cycle})
				}
				continue
			}
			if !dfs(next) {
				return false
			}
		}

		path = path[:len(path)-1]
		delete(onPath, node)
		return true
	}

	for _, origin := range g.Nodes() {
		if !dfs(origin) {
			break
		}
	}
	return result
}

// canonicalize rotates the cycle so its lexicographically smallest node
// comes first, preserving edge direction. Structurally identical cycles
// compare equal regardless of where traversal entered them.
func canonicalize(cycle []string) []string {
	if len(cycle) == 0 {
		return nil
	}
	smallest := 0
	for i, node := range cycle {
		if node < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}
