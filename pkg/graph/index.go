package graph

// Index holds bidirectional adjacency for one graph build. It is owned by
// the build that produced it and is never mutated afterward; a reload
// produces a fresh Index.
//
// Every known node id has an entry in both maps, even when empty, so
// lookups never need existence checks. Edge multiplicity collapses to set
// membership here; the matrix view keeps per-pair counts separately.
type Index struct {
	// Imports maps a file to the set of files it imports.
	Imports map[string]map[string]bool
	// Dependents maps a file to the set of files that import it.
	Dependents map[string]map[string]bool
	// ImportCounts maps a file to its distinct import count.
	ImportCounts map[string]int
	// Order preserves the node list order of the source graph. Metric
	// ranking uses it for stable tie-breaking.
	Order []string
}

// BuildIndex converts a graph's flat node/edge lists into adjacency maps.
// Edges referencing ids absent from the node list are dropped silently:
// malformed input degrades to a smaller graph, it never fails the build.
func BuildIndex(g *Graph) *Index {
	idx := &Index{
		Imports:      make(map[string]map[string]bool, len(g.Nodes)),
		Dependents:   make(map[string]map[string]bool, len(g.Nodes)),
		ImportCounts: make(map[string]int, len(g.Nodes)),
		Order:        make([]string, 0, len(g.Nodes)),
	}

	// Initialize every node first so childless/parentless files resolve to
	// empty sets rather than missing keys.
	for _, n := range g.Nodes {
		if _, seen := idx.Imports[n.ID]; seen {
			continue
		}
		idx.Imports[n.ID] = make(map[string]bool)
		idx.Dependents[n.ID] = make(map[string]bool)
		idx.ImportCounts[n.ID] = 0
		idx.Order = append(idx.Order, n.ID)
	}

	for _, e := range g.Edges {
		imports, okSrc := idx.Imports[e.Source]
		dependents, okDst := idx.Dependents[e.Target]
		if !okSrc || !okDst {
			continue // edge references an unknown id
		}
		if !imports[e.Target] {
			imports[e.Target] = true
			idx.ImportCounts[e.Source]++
		}
		dependents[e.Source] = true
	}

	return idx
}

// Has reports whether the id exists in the index.
func (idx *Index) Has(id string) bool {
	_, ok := idx.Imports[id]
	return ok
}

// DependentCount returns the number of direct dependents of id, 0 for
// unknown ids.
func (idx *Index) DependentCount(id string) int {
	return len(idx.Dependents[id])
}
