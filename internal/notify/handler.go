package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/codelens/codelens/internal/ingestion"
	"github.com/codelens/codelens/internal/repostore"
)

// Handler processes incoming indexer callback events.
type Handler struct {
	secret     []byte
	repos      *repostore.Service
	ingestions *ingestion.Service
}

// NewHandler creates a new callback Handler.
func NewHandler(secret []byte, repos *repostore.Service, ingestions *ingestion.Service) *Handler {
	return &Handler{
		secret:     secret,
		repos:      repos,
		ingestions: ingestions,
	}
}

// ServeHTTP handles incoming callback requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 50<<20)) // 50 MB limit, graphs inline
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if err := VerifySignature(body, signature, h.secret); err != nil {
		log.Printf("callback signature verification failed: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get(EventHeader)
	if eventType == "" {
		http.Error(w, "missing "+EventHeader+" header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		log.Printf("callback parse error for %s: %v", eventType, err)
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch e := event.(type) {
	case *IndexCompletedEvent:
		if err := h.handleIndexCompleted(ctx, e); err != nil {
			log.Printf("handle index_completed event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

	case *RepoRemovedEvent:
		if err := h.handleRepoRemoved(ctx, e); err != nil {
			log.Printf("handle repo_removed event: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (h *Handler) handleIndexCompleted(ctx context.Context, e *IndexCompletedEvent) error {
	if len(e.Graph) == 0 {
		return fmt.Errorf("index_completed for %s carries no graph", e.RepoFullName)
	}

	repo, err := h.repos.EnsureRepository(ctx, e.RepoFullName, e.DefaultBranch)
	if err != nil {
		return fmt.Errorf("ensure repository %s: %w", e.RepoFullName, err)
	}

	res, err := h.ingestions.Ingest(ctx, ingestion.IngestRequest{
		RepoID:    repo.ID,
		CommitSHA: e.CommitSHA,
		Branch:    e.Branch,
		Payload:   e.Graph,
	})
	if err != nil {
		return fmt.Errorf("ingest graph for %s: %w", e.RepoFullName, err)
	}

	log.Printf("ingested graph %s for %s (commit %s)", res.GraphID, e.RepoFullName, e.CommitSHA)
	return nil
}

func (h *Handler) handleRepoRemoved(ctx context.Context, e *RepoRemovedEvent) error {
	repo, err := h.repos.GetRepository(ctx, e.RepoFullName)
	if err != nil {
		// Unknown repo: nothing to remove.
		log.Printf("repo_removed for untracked repository %s", e.RepoFullName)
		return nil
	}

	if err := h.repos.DeleteRepository(ctx, repo.ID); err != nil {
		return fmt.Errorf("delete repository %s: %w", e.RepoFullName, err)
	}

	log.Printf("removed repository %s", e.RepoFullName)
	return nil
}
