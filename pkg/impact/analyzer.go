package impact

import "github.com/codelens/codelens/pkg/graph"

// ImpactResult is the outcome of a dependent traversal for one file.
// Recomputed per query; never cached across different selected files.
type ImpactResult struct {
	File string `json:"file"`
	// Direct holds dependents discovered at depth 0, in discovery order.
	Direct []string `json:"direct_dependents"`
	// Transitive holds dependents at depth >= 1 not already counted as
	// direct, in discovery order. Always disjoint from Direct.
	Transitive []string `json:"transitive_dependents"`
	// All is Direct followed by Transitive.
	All          []string  `json:"all_dependents"`
	Risk         RiskLevel `json:"risk_level"`
	RiskScore    int       `json:"risk_score"`
	IsEntryPoint bool      `json:"is_entry_point"`
}

// Analyzer answers impact queries over one immutable graph build. It holds
// the adjacency index plus edge-ordered dependent lists so traversal
// discovery order is deterministic across runs.
type Analyzer struct {
	idx *graph.Index
	// dependentsOrdered mirrors idx.Dependents with first-occurrence edge
	// order preserved. Map iteration order would make discovery order
	// nondeterministic.
	dependentsOrdered map[string][]string
	importsOrdered    map[string][]string
}

// NewAnalyzer builds an Analyzer for a graph. The graph is treated as an
// immutable snapshot; a reindex requires a new Analyzer.
func NewAnalyzer(g *graph.Graph) *Analyzer {
	idx := graph.BuildIndex(g)

	a := &Analyzer{
		idx:               idx,
		dependentsOrdered: make(map[string][]string, len(idx.Order)),
		importsOrdered:    make(map[string][]string, len(idx.Order)),
	}

	seen := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if !idx.Has(e.Source) || !idx.Has(e.Target) {
			continue
		}
		key := e.EdgeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		a.dependentsOrdered[e.Target] = append(a.dependentsOrdered[e.Target], e.Source)
		a.importsOrdered[e.Source] = append(a.importsOrdered[e.Source], e.Target)
	}

	return a
}

// Index exposes the underlying adjacency index.
func (a *Analyzer) Index() *graph.Index { return a.idx }

// Dependents computes the blast radius of changing fileID. maxDepth caps
// traversal depth; a value <= 0 means unlimited. An unknown fileID yields
// empty, well-typed result lists rather than an error.
func (a *Analyzer) Dependents(fileID string, maxDepth int) ImpactResult {
	res := ImpactResult{
		File:       fileID,
		Direct:     []string{},
		Transitive: []string{},
	}

	if a.idx.Has(fileID) {
		visited := map[string]bool{fileID: true}
		a.walk(fileID, fileID, 0, maxDepth, visited, &res)
	}

	res.All = make([]string, 0, len(res.Direct)+len(res.Transitive))
	res.All = append(res.All, res.Direct...)
	res.All = append(res.All, res.Transitive...)
	res.RiskScore = len(res.All)
	res.Risk = RiskFromDependents(res.RiskScore)
	res.IsEntryPoint = a.IsEntryPoint(fileID)

	return res
}

// walk records dependents of current at the given depth, then recurses one
// level deeper. Recording a full level before recursing guarantees that a
// file reachable both directly and transitively is counted once, as direct.
// The shared visited set makes the traversal cycle-safe.
func (a *Analyzer) walk(origin, current string, depth, maxDepth int, visited map[string]bool, res *ImpactResult) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}

	var discovered []string
	for _, dep := range a.dependentsOrdered[current] {
		if dep == origin || visited[dep] {
			continue // self-edges and revisits are excluded by construction
		}
		visited[dep] = true

		if depth == 0 {
			res.Direct = append(res.Direct, dep)
		} else {
			res.Transitive = append(res.Transitive, dep)
		}
		discovered = append(discovered, dep)
	}

	for _, dep := range discovered {
		a.walk(origin, dep, depth+1, maxDepth, visited, res)
	}
}

// Imports returns the files fileID imports, in edge order. Empty (not nil)
// for unknown ids.
func (a *Analyzer) Imports(fileID string) []string {
	imports := a.importsOrdered[fileID]
	if imports == nil {
		return []string{}
	}
	return imports
}

// IsEntryPoint reports whether fileID sits at the root of the dependency
// tree: it has at least one dependent and imports nothing itself. This
// heuristic cannot distinguish a true entry point from an unused file that
// happens to have dependents pointing at it; callers should treat it as an
// approximation.
func (a *Analyzer) IsEntryPoint(fileID string) bool {
	return len(a.idx.Dependents[fileID]) > 0 && len(a.idx.Imports[fileID]) == 0
}
