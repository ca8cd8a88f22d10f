// Package graph defines the core structural data model for CodeLens.
// These types are the shared vocabulary across all modules.
// Changes to this file require review from all teams.
package graph

import "time"

// Graph represents a point-in-time file-level import graph for a repository.
// Graphs are immutable once built; a reindex replaces the graph wholesale,
// it is never patched in place.
type Graph struct {
	ID        string     `json:"id"`
	RepoID    string     `json:"repo_id,omitempty"`
	CommitSHA string     `json:"commit_sha,omitempty"`
	Nodes     []*Node    `json:"nodes"`
	Edges     []Edge     `json:"edges"`
	Stats     GraphStats `json:"stats"`
	BuiltAt   time.Time  `json:"built_at"`
}

// Node represents a single file in the import graph.
type Node struct {
	ID          string `json:"id"`                     // repo-relative file path, unique key
	Label       string `json:"label,omitempty"`        // display name, usually the base name
	Language    string `json:"language,omitempty"`     // language tag: "typescript", "python", etc.
	ImportCount int    `json:"import_count,omitempty"` // raw import statement count from the indexer
}

// Edge represents one import relationship: Source imports Target.
// Equivalently, Target has Source as a dependent. A file pair may appear
// more than once when the indexer reports multiple import statements.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// EdgeKey returns a stable string key for deduplication and set operations.
func (e Edge) EdgeKey() string {
	return e.Source + "|" + e.Target
}

// GraphStats holds summary statistics for a graph build.
type GraphStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
	Languages int `json:"languages"`
	BuildMs   int `json:"build_ms"`
}

// ComputeStats fills in the derivable fields of Stats from the node and
// edge lists.
func (g *Graph) ComputeStats() {
	langs := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.Language != "" {
			langs[n.Language] = true
		}
	}
	g.Stats.NodeCount = len(g.Nodes)
	g.Stats.EdgeCount = len(g.Edges)
	g.Stats.Languages = len(langs)
}

// NodeSet returns the set of known node ids.
func (g *Graph) NodeSet() map[string]bool {
	set := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		set[n.ID] = true
	}
	return set
}

// Delta represents the structural difference between two graph builds.
// Deltas are immutable once computed.
type Delta struct {
	ID           string     `json:"id"`
	BaseGraphID  string     `json:"base_graph_id"`
	HeadGraphID  string     `json:"head_graph_id"`
	AddedNodes   []Node     `json:"added_nodes"`
	RemovedNodes []Node     `json:"removed_nodes"`
	AddedEdges   []Edge     `json:"added_edges"`
	RemovedEdges []Edge     `json:"removed_edges"`
	Stats        DeltaStats `json:"stats"`
}

// DeltaStats holds summary statistics for a delta.
type DeltaStats struct {
	AddedNodeCount   int `json:"added_node_count"`
	RemovedNodeCount int `json:"removed_node_count"`
	AddedEdgeCount   int `json:"added_edge_count"`
	RemovedEdgeCount int `json:"removed_edge_count"`
}
