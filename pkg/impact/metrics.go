package impact

import "sort"

// FileMetrics holds the per-file aggregates computed once per graph build.
type FileMetrics struct {
	File           string    `json:"file"`
	DependentCount int       `json:"dependent_count"`
	ImportCount    int       `json:"import_count"`
	Importance     int       `json:"importance"`
	IsEntryPoint   bool      `json:"is_entry_point"`
	Risk           RiskLevel `json:"risk_level"`
}

// FileMetrics computes metrics for every file, sorted descending by
// importance. Breaking a widely-depended-on file is costlier than breaking
// one that merely imports a lot, so dependents weigh 2:1 over imports.
// Ties keep the graph's node order (stable sort) so top-N selection is
// deterministic across recomputation.
func (a *Analyzer) FileMetrics() []FileMetrics {
	metrics := make([]FileMetrics, 0, len(a.idx.Order))
	for _, id := range a.idx.Order {
		dependents := len(a.idx.Dependents[id])
		imports := len(a.idx.Imports[id])
		metrics = append(metrics, FileMetrics{
			File:           id,
			DependentCount: dependents,
			ImportCount:    imports,
			Importance:     2*dependents + imports,
			IsEntryPoint:   a.IsEntryPoint(id),
			Risk:           RiskFromDependents(dependents),
		})
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].Importance > metrics[j].Importance
	})

	return metrics
}

// Metric returns the metrics for a single file, or nil if the file is not
// in the graph.
func (a *Analyzer) Metric(fileID string) *FileMetrics {
	if !a.idx.Has(fileID) {
		return nil
	}
	dependents := len(a.idx.Dependents[fileID])
	imports := len(a.idx.Imports[fileID])
	return &FileMetrics{
		File:           fileID,
		DependentCount: dependents,
		ImportCount:    imports,
		Importance:     2*dependents + imports,
		IsEntryPoint:   a.IsEntryPoint(fileID),
		Risk:           RiskFromDependents(dependents),
	}
}

// TopFiles returns the n most important file ids.
func (a *Analyzer) TopFiles(n int) []string {
	metrics := a.FileMetrics()
	if n > len(metrics) {
		n = len(metrics)
	}
	top := make([]string, 0, n)
	for _, m := range metrics[:n] {
		top = append(top, m.File)
	}
	return top
}

// EntryPoints returns every entry-point file, in importance order.
func (a *Analyzer) EntryPoints() []string {
	var entries []string
	for _, m := range a.FileMetrics() {
		if m.IsEntryPoint {
			entries = append(entries, m.File)
		}
	}
	if entries == nil {
		entries = []string{}
	}
	return entries
}
