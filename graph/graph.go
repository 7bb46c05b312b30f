package graph

import "sort"

// DependencyGraph is a directed graph over file nodes where an edge u→v
// means file u references file v. Edges are deduplicated and self-edges are
// rejected, so a symbol referencing its own file never produces a cycle of
// length one. A graph is built once per analysis run from a fresh index and
// never mutated incrementally.
type DependencyGraph struct {
	nodes   map[string]bool
	edges   map[string]map[string]bool // from -> set of to
	reverse map[string]map[string]bool // to -> set of from
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:   make(map[string]bool),
		edges:   make(map[string]map[string]bool),
		reverse: make(map[string]map[string]bool),
	}
}

// AddNode registers a node without edges
func (g *DependencyGraph) AddNode(node string) {
	g.nodes[node] = true
}

// AddEdge adds a deduplicated directed edge; self-edges are dropped
func (g *DependencyGraph) AddEdge(from, to string) {
	if from == to {
		return
	}
	g.nodes[from] = true
	g.nodes[to] = true
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	g.edges[from][to] = true
	if g.reverse[to] == nil {
		g.reverse[to] = make(map[string]bool)
	}
	g.reverse[to][from] = true
}

// HasEdge reports whether the edge from→to exists
func (g *DependencyGraph) HasEdge(from, to string) bool {
	return g.edges[from][to]
}

// Nodes returns all node identifiers in lexical order
func (g *DependencyGraph) Nodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Dependencies returns the nodes that from depends on, in lexical order
func (g *DependencyGraph) Dependencies(from string) []string {
	return sortedKeys(g.edges[from])
}

// Dependents returns the nodes with a direct edge to target, in lexical order
func (g *DependencyGraph) Dependents(target string) []string {
	return sortedKeys(g.reverse[target])
}

// FanIn is the number of files that depend on node
func (g *DependencyGraph) FanIn(node string) int {
	return len(g.reverse[node])
}

// FanOut is the number of files node depends on
func (g *DependencyGraph) FanOut(node string) int {
	return len(g.edges[node])
}

// EdgeCount returns the total number of edges
func (g *DependencyGraph) EdgeCount() int {
	total := 0
	for _, targets := range g.edges {
		total += len(targets)
	}
	return total
}

// NodeCount returns the total number of nodes
func (g *DependencyGraph) NodeCount() int {
	return len(g.nodes)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
