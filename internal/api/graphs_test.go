package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codelens/codelens/pkg/graph"
	"github.com/codelens/codelens/pkg/impact"
)

// newCachedHandler builds a Handler whose cache already holds the graph, so
// query handlers never reach the database or storage.
func newCachedHandler(g *graph.Graph) *Handler {
	cache := NewGraphCache(4)
	cache.Put(g.ID, g, impact.NewAnalyzer(g))
	return NewHandler(nil, nil, nil, cache)
}

func testServer(g *graph.Graph) *httptest.Server {
	h := newCachedHandler(g)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func chainGraph() *graph.Graph {
	// main.ts -> src/app.ts -> src/core.ts
	return &graph.Graph{
		ID: "g1",
		Nodes: []*graph.Node{
			{ID: "main.ts"},
			{ID: "src/app.ts"},
			{ID: "src/core.ts"},
		},
		Edges: []graph.Edge{
			{Source: "main.ts", Target: "src/app.ts"},
			{Source: "src/app.ts", Target: "src/core.ts"},
		},
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHandleImpact(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var body struct {
		Result  impact.ImpactResult `json:"result"`
		Summary string              `json:"summary"`
	}
	status := getJSON(t, srv.URL+"/api/graphs/g1/impact?file=src/core.ts", &body)

	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(body.Result.Direct) != 1 || body.Result.Direct[0] != "src/app.ts" {
		t.Errorf("direct = %v", body.Result.Direct)
	}
	if len(body.Result.Transitive) != 1 || body.Result.Transitive[0] != "main.ts" {
		t.Errorf("transitive = %v", body.Result.Transitive)
	}
	if body.Summary == "" {
		t.Error("expected non-empty summary")
	}
}

func TestHandleImpactMissingFile(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	if status := getJSON(t, srv.URL+"/api/graphs/g1/impact", nil); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without file parameter", status)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var metrics []impact.FileMetrics
	if status := getJSON(t, srv.URL+"/api/graphs/g1/metrics", &metrics); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(metrics) != 3 {
		t.Fatalf("got %d metrics, want 3", len(metrics))
	}
	if metrics[0].File != "src/core.ts" && metrics[0].File != "src/app.ts" {
		t.Errorf("unexpected top file %s", metrics[0].File)
	}

	var single impact.FileMetrics
	if status := getJSON(t, srv.URL+"/api/graphs/g1/metrics?file=src/core.ts", &single); status != http.StatusOK {
		t.Fatalf("single metric status = %d", status)
	}
	if single.DependentCount != 1 || !single.IsEntryPoint {
		t.Errorf("core metrics = %+v", single)
	}
}

func TestHandleEntryPoints(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var body struct {
		EntryPoints []string `json:"entry_points"`
	}
	if status := getJSON(t, srv.URL+"/api/graphs/g1/entrypoints", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(body.EntryPoints) != 1 || body.EntryPoints[0] != "src/core.ts" {
		t.Errorf("entry points = %v", body.EntryPoints)
	}
}

func TestHandleClusters(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var body struct {
		Clusters map[string]json.RawMessage `json:"clusters"`
		Roots    []string                   `json:"roots"`
	}
	if status := getJSON(t, srv.URL+"/api/graphs/g1/clusters?expanded=src", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if _, ok := body.Clusters["src"]; !ok {
		t.Errorf("clusters = %v, want src present", body.Clusters)
	}
	if _, ok := body.Clusters["/"]; !ok {
		t.Errorf("clusters = %v, want sentinel root present", body.Clusters)
	}
}

func TestHandleMatrix(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var body struct {
		Labels []string `json:"labels"`
		Cells  [][]int  `json:"cells"`
	}
	if status := getJSON(t, srv.URL+"/api/graphs/g1/matrix", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(body.Labels) != 3 || len(body.Cells) != 3 {
		t.Errorf("matrix shape = %dx%d, want 3x3", len(body.Labels), len(body.Cells))
	}
}

func TestHandleInsights(t *testing.T) {
	srv := testServer(chainGraph())
	defer srv.Close()

	var body impact.GraphMetrics
	if status := getJSON(t, srv.URL+"/api/graphs/g1/insights", &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body.TotalFiles != 3 || body.TotalEdges != 2 {
		t.Errorf("insights = %+v", body)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		h := APIKeyAuth("secret")(inner)
		req := httptest.NewRequest("GET", "/api/repos", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("accepts correct key", func(t *testing.T) {
		h := APIKeyAuth("secret")(inner)
		req := httptest.NewRequest("GET", "/api/repos", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("empty key disables auth", func(t *testing.T) {
		h := APIKeyAuth("")(inner)
		req := httptest.NewRequest("GET", "/api/repos", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestCORSPreflights(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the inner handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/repos", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}
