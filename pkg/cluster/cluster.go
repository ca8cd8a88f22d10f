// Package cluster groups graph files by parent directory into a collapsible
// tree for the dashboard sidebar. Clustering is a pure derivation: the same
// file list reclusters cheaply whenever expansion state changes, and the
// caller owns that expansion state entirely.
package cluster

import (
	"strings"

	"github.com/codelens/codelens/pkg/impact"
)

// RootPath is the sentinel directory for files with no path separator.
const RootPath = "/"

// FileEntry is one clustering input tuple.
type FileEntry struct {
	ID         string
	Risk       impact.RiskLevel
	Dependents int
}

// DirectoryCluster aggregates the files sharing one parent directory.
// IsExpanded mirrors the caller-supplied expanded set; the cluster
// computation never mutates expansion state.
type DirectoryCluster struct {
	Path            string           `json:"path"`
	Name            string           `json:"name"`
	Files           []string         `json:"files"`
	Children        []string         `json:"children"`
	FileCount       int              `json:"file_count"`
	TotalDependents int              `json:"total_dependents"`
	MaxRisk         impact.RiskLevel `json:"max_risk"`
	IsExpanded      bool             `json:"is_expanded"`
}

// Build clusters files by parent directory and wires the directory tree in
// a second pass over the finished map. It returns the cluster map plus the
// root directories, i.e. those whose own parent is not present as a cluster.
// Roots and child lists keep first-encounter order so rendering is
// deterministic across recomputation.
func Build(files []FileEntry, expanded map[string]bool) (map[string]*DirectoryCluster, []string) {
	clusters := make(map[string]*DirectoryCluster)
	var order []string

	for _, f := range files {
		dir := ClusterForFile(f.ID)
		c, ok := clusters[dir]
		if !ok {
			c = &DirectoryCluster{
				Path:       dir,
				Name:       baseName(dir),
				Files:      []string{},
				Children:   []string{},
				MaxRisk:    impact.RiskLow,
				IsExpanded: expanded[dir],
			}
			clusters[dir] = c
			order = append(order, dir)
		}
		c.Files = append(c.Files, f.ID)
		c.FileCount++
		c.TotalDependents += f.Dependents
		c.MaxRisk = impact.MaxRisk(c.MaxRisk, f.Risk)
	}

	// Parent wiring runs over the completed map so link direction never
	// depends on input order.
	var roots []string
	for _, dir := range order {
		parent := parentDir(dir)
		if p, ok := clusters[parent]; ok && parent != dir {
			p.Children = append(p.Children, dir)
		} else {
			roots = append(roots, dir)
		}
	}
	if roots == nil {
		roots = []string{}
	}

	return clusters, roots
}

// FromMetrics adapts a metrics list into clustering input tuples.
func FromMetrics(metrics []impact.FileMetrics) []FileEntry {
	entries := make([]FileEntry, 0, len(metrics))
	for _, m := range metrics {
		entries = append(entries, FileEntry{
			ID:         m.File,
			Risk:       m.Risk,
			Dependents: m.DependentCount,
		})
	}
	return entries
}

// ClusterForFile returns the directory path a file clusters under: its path
// with the last segment removed, or RootPath for separator-free ids.
func ClusterForFile(fileID string) string {
	idx := strings.LastIndex(fileID, "/")
	if idx < 0 {
		return RootPath
	}
	return fileID[:idx]
}

// parentDir returns the parent of a directory path. The sentinel root is its
// own terminus.
func parentDir(dir string) string {
	if dir == RootPath {
		return RootPath
	}
	idx := strings.LastIndex(dir, "/")
	if idx < 0 {
		return RootPath
	}
	return dir[:idx]
}

func baseName(dir string) string {
	if dir == RootPath {
		return RootPath
	}
	idx := strings.LastIndex(dir, "/")
	if idx < 0 {
		return dir
	}
	return dir[idx+1:]
}
