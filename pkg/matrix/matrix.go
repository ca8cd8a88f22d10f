// Package matrix builds the dense dependency-structure matrix backing the
// cycle view: per-pair import counts, circular-dependency pairs, and the
// directory boundaries used as visual separators on both axes.
package matrix

import (
	"strings"

	"github.com/codelens/codelens/pkg/graph"
)

// DefaultMaxSize caps the rendered matrix. Truncation keeps the first
// entries in node order so repeated builds show the same subset.
const DefaultMaxSize = 60

// CyclePair is one circular dependency, reported once per pair.
type CyclePair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Result is the fully derived matrix view for one graph build.
type Result struct {
	// Labels are the full file ids on both axes, in node order.
	Labels []string `json:"labels"`
	// ShortLabels are the trailing path segments, for compact axis display.
	ShortLabels []string `json:"short_labels"`
	// Cells[i][j] counts import edges from Labels[i] to Labels[j]. Diagonal
	// cells stay zero; self-edges are flagged, not counted.
	Cells [][]int `json:"cells"`
	// DirectorySeparators lists row indices where the parent directory
	// changes relative to the previous row.
	DirectorySeparators []int `json:"directory_separators"`
	// Cycles holds both orientations of every cycle pair ("a|b" and "b|a")
	// so lookups succeed from either axis order.
	Cycles     map[string]bool `json:"cycles"`
	CyclePairs []CyclePair     `json:"cycle_pairs"`
	// SelfEdges marks files with an import edge onto themselves.
	SelfEdges map[string]bool `json:"self_edges"`
	// TotalDeps counts off-diagonal import relationships inside the
	// rendered subset. TotalCycles counts cycle pairs, each once.
	TotalDeps   int  `json:"total_deps"`
	TotalCycles int  `json:"total_cycles"`
	Truncated   bool `json:"truncated"`
}

// Build derives the matrix for g, truncated to at most maxSize files. A
// maxSize <= 0 falls back to DefaultMaxSize. Edges pointing outside the
// rendered subset are dropped with it; every guarantee holds within the
// subset only.
func Build(g *graph.Graph, maxSize int) *Result {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	idx := graph.BuildIndex(g)
	labels := idx.Order
	truncated := len(labels) > maxSize
	if truncated {
		labels = labels[:maxSize]
	}

	pos := make(map[string]int, len(labels))
	for i, id := range labels {
		pos[id] = i
	}

	res := &Result{
		Labels:      labels,
		ShortLabels: make([]string, len(labels)),
		Cells:       make([][]int, len(labels)),
		Cycles:      map[string]bool{},
		CyclePairs:  []CyclePair{},
		SelfEdges:   map[string]bool{},
		Truncated:   truncated,
	}
	for i, id := range labels {
		res.ShortLabels[i] = shortLabel(id)
		res.Cells[i] = make([]int, len(labels))
	}
	res.DirectorySeparators = separators(labels)

	for _, e := range g.Edges {
		i, ok := pos[e.Source]
		if !ok {
			continue
		}
		j, ok := pos[e.Target]
		if !ok {
			continue
		}
		if i == j {
			res.SelfEdges[e.Source] = true
			continue
		}
		res.Cells[i][j]++
	}

	for i, src := range labels {
		for j := i + 1; j < len(labels); j++ {
			if res.Cells[i][j] > 0 {
				res.TotalDeps++
			}
			if res.Cells[j][i] > 0 {
				res.TotalDeps++
			}
			if res.Cells[i][j] > 0 && res.Cells[j][i] > 0 {
				dst := labels[j]
				res.Cycles[cycleKey(src, dst)] = true
				res.Cycles[cycleKey(dst, src)] = true
				res.CyclePairs = append(res.CyclePairs, CyclePair{A: src, B: dst})
			}
		}
	}
	res.TotalCycles = len(res.CyclePairs)

	return res
}

// InCycle reports whether the pair (a, b) is circular, in either order.
func (r *Result) InCycle(a, b string) bool {
	return r.Cycles[cycleKey(a, b)]
}

func cycleKey(a, b string) string {
	return a + "|" + b
}

func shortLabel(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// separators returns the indices where the parent directory differs from
// the previous label's.
func separators(labels []string) []int {
	seps := []int{}
	prev := ""
	for i, id := range labels {
		dir := ""
		if idx := strings.LastIndex(id, "/"); idx >= 0 {
			dir = id[:idx]
		}
		if i > 0 && dir != prev {
			seps = append(seps, i)
		}
		prev = dir
	}
	return seps
}
