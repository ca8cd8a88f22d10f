package api

import (
	"encoding/json"
	"net/http"

	"github.com/codelens/codelens/internal/repostore"
)

type repoResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
}

type buildResponse struct {
	ID        string  `json:"id"`
	CommitSHA string  `json:"commit_sha"`
	Branch    *string `json:"branch,omitempty"`
	Status    string  `json:"status"`
	GraphID   *string `json:"graph_id,omitempty"`
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
	BuildMs   int     `json:"build_ms"`
	CreatedAt string  `json:"created_at"`
}

func buildRowToResponse(b *repostore.BuildRow) buildResponse {
	return buildResponse{
		ID:        b.ID,
		CommitSHA: b.CommitSHA,
		Branch:    b.Branch,
		Status:    b.Status,
		GraphID:   b.GraphID,
		NodeCount: b.NodeCount,
		EdgeCount: b.EdgeCount,
		BuildMs:   b.BuildMs,
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) handleListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repoSvc.ListRepositories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, []repoResponse{})
		return
	}

	var result []repoResponse
	for _, repo := range repos {
		result = append(result, repoResponse{
			ID:            repo.ID,
			FullName:      repo.FullName,
			DefaultBranch: repo.DefaultBranch,
		})
	}

	if result == nil {
		result = []repoResponse{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	repoID := r.PathValue("repoID")

	builds, err := h.repoSvc.ListBuildsByRepo(r.Context(), repoID)
	if err != nil {
		writeJSON(w, http.StatusOK, []buildResponse{})
		return
	}

	var result []buildResponse
	for i := range builds {
		result = append(result, buildRowToResponse(&builds[i]))
	}

	if result == nil {
		result = []buildResponse{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetRepo(w http.ResponseWriter, r *http.Request) {
	repoID := r.PathValue("repoID")

	repo, err := h.repoSvc.GetRepositoryByID(r.Context(), repoID)
	if err != nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	writeJSON(w, http.StatusOK, repoResponse{
		ID:            repo.ID,
		FullName:      repo.FullName,
		DefaultBranch: repo.DefaultBranch,
	})
}

func (h *Handler) handlePatchRepo(w http.ResponseWriter, r *http.Request) {
	repoID := r.PathValue("repoID")

	var req struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DefaultBranch == "" {
		writeError(w, http.StatusBadRequest, "default_branch is required")
		return
	}

	repo, err := h.repoSvc.UpdateDefaultBranch(r.Context(), repoID, req.DefaultBranch)
	if err != nil {
		writeError(w, http.StatusNotFound, "repository not found")
		return
	}

	writeJSON(w, http.StatusOK, repoResponse{
		ID:            repo.ID,
		FullName:      repo.FullName,
		DefaultBranch: repo.DefaultBranch,
	})
}

func (h *Handler) handleDeleteRepo(w http.ResponseWriter, r *http.Request) {
	repoID := r.PathValue("repoID")

	if err := h.repoSvc.DeleteRepository(r.Context(), repoID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete repository")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
