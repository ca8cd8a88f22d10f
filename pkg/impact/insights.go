package impact

import (
	"fmt"
	"sort"
)

// GraphMetrics summarizes one graph build for the insights view.
type GraphMetrics struct {
	TotalFiles        int            `json:"total_files"`
	TotalEdges        int            `json:"total_edges"`
	AvgDependencies   float64        `json:"avg_dependencies"`
	EntryPointCount   int            `json:"entry_point_count"`
	MostCriticalFiles []CriticalFile `json:"most_critical_files"`
}

// CriticalFile is one entry in the most-depended-on ranking.
type CriticalFile struct {
	File       string `json:"file"`
	Dependents int    `json:"dependents"`
}

// criticalFileLimit caps the most-critical ranking for summary display.
const criticalFileLimit = 5

// GraphMetrics computes whole-graph aggregates: counts, average import
// fan-out, and the files with the most dependents.
func (a *Analyzer) GraphMetrics() GraphMetrics {
	m := GraphMetrics{
		TotalFiles: len(a.idx.Order),
	}

	for _, id := range a.idx.Order {
		m.TotalEdges += len(a.idx.Imports[id])
		if a.IsEntryPoint(id) {
			m.EntryPointCount++
		}
	}
	if m.TotalFiles > 0 {
		m.AvgDependencies = float64(m.TotalEdges) / float64(m.TotalFiles)
	}

	ranked := make([]CriticalFile, 0, len(a.idx.Order))
	for _, id := range a.idx.Order {
		if n := len(a.idx.Dependents[id]); n > 0 {
			ranked = append(ranked, CriticalFile{File: id, Dependents: n})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Dependents > ranked[j].Dependents
	})
	if len(ranked) > criticalFileLimit {
		ranked = ranked[:criticalFileLimit]
	}
	m.MostCriticalFiles = ranked

	return m
}

// Summarize produces the one-line impact summary shown above the dependent
// lists in the dashboard and MCP output.
func Summarize(res ImpactResult) string {
	switch {
	case res.RiskScore == 0:
		return fmt.Sprintf("No other files depend on %s; changes are contained.", res.File)
	case res.RiskScore == 1:
		return fmt.Sprintf("Changing %s affects 1 file directly or indirectly.", res.File)
	default:
		return fmt.Sprintf("Changing %s affects %d files (%d directly, %d transitively).",
			res.File, res.RiskScore, len(res.Direct), len(res.Transitive))
	}
}
