package api

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"

	"github.com/codelens/codelens/internal/ingestion"
)

// ingestRequest is the JSON body for POST /api/v1/ingest.
type ingestRequest struct {
	RepoFullName  string          `json:"repo_full_name"`
	DefaultBranch string          `json:"default_branch"`
	CommitSHA     string          `json:"commit_sha"`
	Branch        string          `json:"branch"`
	Graph         json.RawMessage `json:"graph"`
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Support gzip-compressed request bodies
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return
		}
		defer gz.Close()
		body = gz
	}

	var req ingestRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.RepoFullName == "" || req.CommitSHA == "" || len(req.Graph) == 0 {
		writeError(w, http.StatusBadRequest, "repo_full_name, commit_sha, and graph are required")
		return
	}

	if req.DefaultBranch == "" {
		req.DefaultBranch = "main"
	}

	ctx := r.Context()
	repo, err := h.repoSvc.EnsureRepository(ctx, req.RepoFullName, req.DefaultBranch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to ensure repository: "+err.Error())
		return
	}

	res, err := h.ingestionSvc.Ingest(ctx, ingestion.IngestRequest{
		RepoID:    repo.ID,
		CommitSHA: req.CommitSHA,
		Branch:    req.Branch,
		Payload:   req.Graph,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingest failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}
