package graph

import "github.com/google/uuid"

// ComputeDelta computes the structural difference between a base and head
// graph build. Nodes diff by id, edges by (source, target) pair.
func ComputeDelta(base, head *Graph) *Delta {
	delta := &Delta{
		ID:          uuid.New().String(),
		BaseGraphID: base.ID,
		HeadGraphID: head.ID,
	}

	baseNodes := base.NodeSet()
	headNodes := head.NodeSet()

	for _, node := range head.Nodes {
		if !baseNodes[node.ID] {
			delta.AddedNodes = append(delta.AddedNodes, *node)
		}
	}
	for _, node := range base.Nodes {
		if !headNodes[node.ID] {
			delta.RemovedNodes = append(delta.RemovedNodes, *node)
		}
	}

	// Edge diff using set operations on edge keys
	baseEdges := make(map[string]Edge, len(base.Edges))
	for _, e := range base.Edges {
		baseEdges[e.EdgeKey()] = e
	}
	headEdges := make(map[string]Edge, len(head.Edges))
	for _, e := range head.Edges {
		headEdges[e.EdgeKey()] = e
	}

	for key, edge := range headEdges {
		if _, exists := baseEdges[key]; !exists {
			delta.AddedEdges = append(delta.AddedEdges, edge)
		}
	}
	for key, edge := range baseEdges {
		if _, exists := headEdges[key]; !exists {
			delta.RemovedEdges = append(delta.RemovedEdges, edge)
		}
	}

	delta.Stats = DeltaStats{
		AddedNodeCount:   len(delta.AddedNodes),
		RemovedNodeCount: len(delta.RemovedNodes),
		AddedEdgeCount:   len(delta.AddedEdges),
		RemovedEdgeCount: len(delta.RemovedEdges),
	}

	return delta
}
