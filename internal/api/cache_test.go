package api

import (
	"fmt"
	"testing"

	"github.com/codelens/codelens/pkg/graph"
	"github.com/codelens/codelens/pkg/impact"
)

func cachedGraph(id string) (*graph.Graph, *impact.Analyzer) {
	g := &graph.Graph{ID: id, Nodes: []*graph.Node{{ID: "a"}}}
	return g, impact.NewAnalyzer(g)
}

func TestGraphCachePutGet(t *testing.T) {
	c := NewGraphCache(2)

	g, a := cachedGraph("g1")
	c.Put("g1", g, a)

	gotG, gotA := c.Get("g1")
	if gotG != g || gotA != a {
		t.Error("Get should return the cached graph and analyzer")
	}

	if gotG, _ := c.Get("missing"); gotG != nil {
		t.Error("Get of unknown id should return nil")
	}
}

func TestGraphCacheEviction(t *testing.T) {
	c := NewGraphCache(2)

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("g%d", i)
		g, a := cachedGraph(id)
		c.Put(id, g, a)
	}

	if g, _ := c.Get("g1"); g != nil {
		t.Error("oldest entry should be evicted at capacity")
	}
	if g, _ := c.Get("g3"); g == nil {
		t.Error("newest entry should survive")
	}
}

func TestGraphCacheLRUOrder(t *testing.T) {
	c := NewGraphCache(2)

	g1, a1 := cachedGraph("g1")
	g2, a2 := cachedGraph("g2")
	c.Put("g1", g1, a1)
	c.Put("g2", g2, a2)

	// Touch g1 so g2 becomes the eviction candidate.
	c.Get("g1")

	g3, a3 := cachedGraph("g3")
	c.Put("g3", g3, a3)

	if g, _ := c.Get("g1"); g == nil {
		t.Error("recently used entry should not be evicted")
	}
	if g, _ := c.Get("g2"); g != nil {
		t.Error("least recently used entry should be evicted")
	}
}
