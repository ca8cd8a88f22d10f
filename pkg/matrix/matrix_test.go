package matrix

import (
	"reflect"
	"testing"

	"github.com/codelens/codelens/pkg/graph"
)

func buildGraph(nodes []string, edges [][2]string) *graph.Graph {
	g := &graph.Graph{}
	for _, id := range nodes {
		g.Nodes = append(g.Nodes, &graph.Node{ID: id})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, graph.Edge{Source: e[0], Target: e[1]})
	}
	return g
}

func TestBuildCells(t *testing.T) {
	g := buildGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"a", "b"}, {"b", "c"}},
	)

	res := Build(g, 0)

	if !reflect.DeepEqual(res.Labels, []string{"a", "b", "c"}) {
		t.Fatalf("Labels = %v", res.Labels)
	}
	if res.Cells[0][1] != 2 {
		t.Errorf("Cells[a][b] = %d, want 2 (duplicate edges counted)", res.Cells[0][1])
	}
	if res.Cells[1][2] != 1 || res.Cells[2][1] != 0 {
		t.Errorf("Cells[b][c] = %d, Cells[c][b] = %d", res.Cells[1][2], res.Cells[2][1])
	}
	if res.TotalDeps != 2 {
		t.Errorf("TotalDeps = %d, want 2 relationships", res.TotalDeps)
	}
}

func TestBuildCycleSymmetric(t *testing.T) {
	g := buildGraph(
		[]string{"A", "B"},
		[][2]string{{"A", "B"}, {"B", "A"}},
	)

	res := Build(g, 0)

	if !res.InCycle("A", "B") || !res.InCycle("B", "A") {
		t.Error("cycle lookup must succeed from both orders")
	}
	if res.TotalCycles != 1 {
		t.Errorf("TotalCycles = %d, want the pair counted once", res.TotalCycles)
	}
	if len(res.CyclePairs) != 1 || res.CyclePairs[0] != (CyclePair{A: "A", B: "B"}) {
		t.Errorf("CyclePairs = %v", res.CyclePairs)
	}
}

func TestBuildSelfEdge(t *testing.T) {
	g := buildGraph(
		[]string{"A"},
		[][2]string{{"A", "A"}},
	)

	res := Build(g, 0)

	if res.Cells[0][0] != 0 {
		t.Errorf("diagonal cell = %d, want 0", res.Cells[0][0])
	}
	if !res.SelfEdges["A"] {
		t.Error("self-edge must be flagged")
	}
	if res.TotalCycles != 0 || res.TotalDeps != 0 {
		t.Errorf("self-edge counted: cycles=%d deps=%d", res.TotalCycles, res.TotalDeps)
	}
}

func TestBuildTruncation(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e"}
	g := buildGraph(nodes, [][2]string{{"e", "a"}, {"b", "a"}})

	res := Build(g, 3)

	if !res.Truncated {
		t.Error("result should be marked truncated")
	}
	if !reflect.DeepEqual(res.Labels, []string{"a", "b", "c"}) {
		t.Errorf("Labels = %v, want the first 3 in node order", res.Labels)
	}
	// The e->a edge points outside the rendered subset and is dropped.
	if res.TotalDeps != 1 {
		t.Errorf("TotalDeps = %d, want 1", res.TotalDeps)
	}
}

func TestBuildShortLabelsAndSeparators(t *testing.T) {
	g := buildGraph(
		[]string{"src/a.ts", "src/b.ts", "lib/c.ts", "main.ts"},
		nil,
	)

	res := Build(g, 0)

	if !reflect.DeepEqual(res.ShortLabels, []string{"a.ts", "b.ts", "c.ts", "main.ts"}) {
		t.Errorf("ShortLabels = %v", res.ShortLabels)
	}
	if !reflect.DeepEqual(res.DirectorySeparators, []int{2, 3}) {
		t.Errorf("DirectorySeparators = %v, want [2 3]", res.DirectorySeparators)
	}
}

func TestBuildUnknownEdgeIgnored(t *testing.T) {
	g := buildGraph(
		[]string{"a"},
		[][2]string{{"a", "ghost"}},
	)

	res := Build(g, 0)
	if res.TotalDeps != 0 {
		t.Errorf("TotalDeps = %d, want 0 for edge to unknown node", res.TotalDeps)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	res := Build(&graph.Graph{}, 0)
	if len(res.Labels) != 0 || res.TotalDeps != 0 || res.TotalCycles != 0 {
		t.Errorf("empty graph result = %+v", res)
	}
}
