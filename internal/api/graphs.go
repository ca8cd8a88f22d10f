package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/codelens/codelens/pkg/cluster"
	"github.com/codelens/codelens/pkg/graph"
	"github.com/codelens/codelens/pkg/impact"
	"github.com/codelens/codelens/pkg/matrix"
)

// loadAnalyzer loads a graph build by ID, checking the cache first, then
// falling back to DB metadata lookup + storage client. The analyzer is built
// once per cache fill.
func (h *Handler) loadAnalyzer(ctx context.Context, graphID string) (*graph.Graph, *impact.Analyzer, error) {
	if g, a := h.cache.Get(graphID); g != nil {
		return g, a, nil
	}

	build, err := h.repoSvc.GetBuildByGraphID(ctx, graphID)
	if err != nil {
		return nil, nil, fmt.Errorf("graph metadata: %w", err)
	}

	g, err := h.ingestionSvc.LoadGraph(ctx, build.RepoID, graphID)
	if err != nil {
		return nil, nil, fmt.Errorf("load graph blob: %w", err)
	}

	a := impact.NewAnalyzer(g)
	h.cache.Put(graphID, g, a)

	return g, a, nil
}

func (h *Handler) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, _, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) handleImpact(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, "file parameter required")
		return
	}

	maxDepth := 0 // unlimited
	if v := r.URL.Query().Get("max_depth"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxDepth = parsed
		}
	}

	result := a.Dependents(file, maxDepth)
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  result,
		"summary": impact.Summarize(result),
	})
}

func (h *Handler) handleImports(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, "file parameter required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file":    file,
		"imports": a.Imports(file),
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	// Single-file lookup when file is given; full ranking otherwise.
	if file := r.URL.Query().Get("file"); file != "" {
		m := a.Metric(file)
		if m == nil {
			writeError(w, http.StatusNotFound, "file not in graph")
			return
		}
		writeJSON(w, http.StatusOK, m)
		return
	}

	metrics := a.FileMetrics()
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(metrics) {
			metrics = metrics[:n]
		}
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) handleEntryPoints(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entry_points": a.EntryPoints(),
	})
}

func (h *Handler) handleClusters(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	// Expansion state belongs to the caller and arrives per request.
	expanded := make(map[string]bool)
	for _, dir := range r.URL.Query()["expanded"] {
		expanded[dir] = true
	}

	clusters, roots := cluster.Build(cluster.FromMetrics(a.FileMetrics()), expanded)
	writeJSON(w, http.StatusOK, map[string]any{
		"clusters": clusters,
		"roots":    roots,
	})
}

func (h *Handler) handleMatrix(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, _, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	maxSize := 0
	if v := r.URL.Query().Get("max_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxSize = parsed
		}
	}

	writeJSON(w, http.StatusOK, matrix.Build(g, maxSize))
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	_, a, err := h.loadAnalyzer(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, a.GraphMetrics())
}

func (h *Handler) handleDiff(w http.ResponseWriter, r *http.Request) {
	baseID := r.PathValue("baseID")
	headID := r.PathValue("headID")
	ctx := r.Context()

	// Stored delta first; compute on the fly for pairs never diffed at
	// ingest time.
	row, err := h.repoSvc.GetDeltaBetween(ctx, baseID, headID)
	if err == nil {
		delta, derr := h.ingestionSvc.LoadDelta(ctx, row.RepoID, row.ID)
		if derr == nil {
			writeJSON(w, http.StatusOK, delta)
			return
		}
	}

	base, _, err := h.loadAnalyzer(ctx, baseID)
	if err != nil {
		writeError(w, http.StatusNotFound, "base graph not found")
		return
	}
	head, _, err := h.loadAnalyzer(ctx, headID)
	if err != nil {
		writeError(w, http.StatusNotFound, "head graph not found")
		return
	}

	writeJSON(w, http.StatusOK, graph.ComputeDelta(base, head))
}
