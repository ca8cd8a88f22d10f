// Package api implements the hosted CodeLens REST API.
// It provides ingest and graph-query endpoints backed by Postgres and blob
// storage.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/codelens/codelens/internal/ingestion"
	"github.com/codelens/codelens/internal/repostore"
)

// Handler is the top-level API handler for the hosted CodeLens service.
type Handler struct {
	db           *sql.DB
	repoSvc      *repostore.Service
	ingestionSvc *ingestion.Service
	cache        *GraphCache
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, repoSvc *repostore.Service, ingestionSvc *ingestion.Service, cache *GraphCache) *Handler {
	if cache == nil {
		cache = NewGraphCacheFromEnv()
	}
	return &Handler{
		db:           db,
		repoSvc:      repoSvc,
		ingestionSvc: ingestionSvc,
		cache:        cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/ingest", h.handleIngest)
	mux.HandleFunc("PATCH /api/repos/{repoID}", h.handlePatchRepo)
	mux.HandleFunc("DELETE /api/repos/{repoID}", h.handleDeleteRepo)

	// Read endpoints
	mux.HandleFunc("GET /api/repos", h.handleListRepos)
	mux.HandleFunc("GET /api/repos/{repoID}", h.handleGetRepo)
	mux.HandleFunc("GET /api/repos/{repoID}/builds", h.handleListBuilds)
	mux.HandleFunc("GET /api/graphs/{graphID}", h.handleGetGraph)
	mux.HandleFunc("GET /api/graphs/{graphID}/impact", h.handleImpact)
	mux.HandleFunc("GET /api/graphs/{graphID}/imports", h.handleImports)
	mux.HandleFunc("GET /api/graphs/{graphID}/metrics", h.handleMetrics)
	mux.HandleFunc("GET /api/graphs/{graphID}/entrypoints", h.handleEntryPoints)
	mux.HandleFunc("GET /api/graphs/{graphID}/clusters", h.handleClusters)
	mux.HandleFunc("GET /api/graphs/{graphID}/matrix", h.handleMatrix)
	mux.HandleFunc("GET /api/graphs/{graphID}/insights", h.handleInsights)
	mux.HandleFunc("GET /api/graphs/{baseID}/diff/{headID}", h.handleDiff)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
