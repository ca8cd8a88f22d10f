package ingestion

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/codelens/codelens/internal/repostore"
	"github.com/codelens/codelens/pkg/graph"
)

// Build lifecycle statuses.
const (
	StatusQueued    = "QUEUED"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// IngestRequest describes one graph upload from the indexer.
type IngestRequest struct {
	RepoID    string
	CommitSHA string
	Branch    string
	// Payload is the raw graph document: {nodes: [...], edges: [...]}.
	Payload []byte
}

// IngestResult reports what an accepted upload produced.
type IngestResult struct {
	GraphID string `json:"graph_id"`
	DeltaID string `json:"delta_id,omitempty"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// Notifier abstracts the callback channel used to tell subscribers a build
// is ready, so the ingestion package does not depend on a concrete
// implementation.
type Notifier interface {
	GraphReady(ctx context.Context, repoID, graphID string) error
}

// Service orchestrates the ingestion pipeline.
type Service struct {
	db       *sql.DB
	repos    *repostore.Service
	storage  StorageClient
	notifier Notifier
}

// NewService creates a new ingestion Service. notifier may be nil.
func NewService(db *sql.DB, repos *repostore.Service, storage StorageClient, notifier Notifier) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		storage:  storage,
		notifier: notifier,
	}
}

// Storage exposes the underlying storage client.
func (s *Service) Storage() StorageClient { return s.storage }

// CreateBuild creates a new graph-build record and returns its ID.
// The idempotency key is repo_id + commit_sha.
func (s *Service) CreateBuild(ctx context.Context, req IngestRequest) (string, error) {
	idempotencyKey := fmt.Sprintf("%s:%s", req.RepoID, req.CommitSHA)

	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO graph_builds (repo_id, commit_sha, branch, idempotency_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (idempotency_key) DO UPDATE SET updated_at = now()
		 RETURNING id`,
		req.RepoID, req.CommitSHA, nilIfEmpty(req.Branch), idempotencyKey,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create build: %w", err)
	}
	return id, nil
}

// UpdateBuildStatus updates the status and optional error message.
func (s *Service) UpdateBuildStatus(ctx context.Context, id, status string, errMsg *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE graph_builds SET status = $1, error_message = $2, updated_at = now() WHERE id = $3`,
		status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update build status: %w", err)
	}
	return nil
}

// Ingest runs the full pipeline for one uploaded graph: parse, persist,
// diff against the repository's previous build, and notify subscribers.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (res *IngestResult, err error) {
	buildID, err := s.CreateBuild(ctx, req)
	if err != nil {
		return nil, err
	}

	if err = s.UpdateBuildStatus(ctx, buildID, StatusRunning, nil); err != nil {
		return nil, fmt.Errorf("update status to running: %w", err)
	}

	// On failure, mark the build as failed
	defer func() {
		if err != nil {
			errMsg := err.Error()
			if updateErr := s.UpdateBuildStatus(ctx, buildID, StatusFailed, &errMsg); updateErr != nil {
				log.Printf("failed to update build status: %v", updateErr)
			}
		}
	}()

	start := time.Now()
	g := &graph.Graph{}
	if err = json.Unmarshal(req.Payload, g); err != nil {
		return nil, fmt.Errorf("parse graph payload: %w", err)
	}
	g.ID = uuid.New().String()
	g.RepoID = req.RepoID
	g.CommitSHA = req.CommitSHA
	g.BuiltAt = time.Now().UTC()
	g.ComputeStats()
	g.Stats.BuildMs = int(time.Since(start).Milliseconds())

	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	if err = s.storage.PutGraph(ctx, req.RepoID, g.ID, data); err != nil {
		return nil, fmt.Errorf("put graph blob: %w", err)
	}

	prevID, err := s.latestGraphID(ctx, req.RepoID)
	if err != nil {
		return nil, fmt.Errorf("query previous build: %w", err)
	}

	storageRef := fmt.Sprintf("%s/graphs/%s.json", req.RepoID, g.ID)
	_, err = s.db.ExecContext(ctx,
		`UPDATE graph_builds
		 SET status = $1, graph_id = $2, node_count = $3, edge_count = $4, build_ms = $5, storage_ref = $6, updated_at = now()
		 WHERE id = $7`,
		StatusCompleted, g.ID, g.Stats.NodeCount, g.Stats.EdgeCount, g.Stats.BuildMs, storageRef, buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("finalize build: %w", err)
	}

	res = &IngestResult{
		GraphID: g.ID,
		Nodes:   g.Stats.NodeCount,
		Edges:   g.Stats.EdgeCount,
	}

	// A first build for a repository has nothing to diff against.
	if prevID != "" {
		deltaID, derr := s.storeDelta(ctx, req.RepoID, prevID, g)
		if derr != nil {
			return nil, derr
		}
		res.DeltaID = deltaID
	}

	if s.notifier != nil {
		if nerr := s.notifier.GraphReady(ctx, req.RepoID, g.ID); nerr != nil {
			// Delivery failures do not fail the build.
			log.Printf("graph_ready notification failed for %s: %v", g.ID, nerr)
		}
	}

	log.Printf("build %s completed: graph=%s nodes=%d edges=%d", buildID, g.ID, res.Nodes, res.Edges)
	return res, nil
}

// latestGraphID returns the most recent completed graph id for a repo, or ""
// if the repo has no completed builds.
func (s *Service) latestGraphID(ctx context.Context, repoID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT graph_id FROM graph_builds
		 WHERE repo_id = $1 AND status = $2 AND graph_id IS NOT NULL
		 ORDER BY updated_at DESC LIMIT 1`,
		repoID, StatusCompleted,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) storeDelta(ctx context.Context, repoID, baseGraphID string, head *graph.Graph) (string, error) {
	baseData, err := s.storage.GetGraph(ctx, repoID, baseGraphID)
	if err != nil {
		return "", fmt.Errorf("load base graph: %w", err)
	}
	base := &graph.Graph{}
	if err := json.Unmarshal(baseData, base); err != nil {
		return "", fmt.Errorf("unmarshal base graph: %w", err)
	}

	delta := graph.ComputeDelta(base, head)

	data, err := json.Marshal(delta)
	if err != nil {
		return "", fmt.Errorf("marshal delta: %w", err)
	}
	if err := s.storage.PutDelta(ctx, repoID, delta.ID, data); err != nil {
		return "", fmt.Errorf("put delta blob: %w", err)
	}

	storageRef := fmt.Sprintf("%s/deltas/%s.json", repoID, delta.ID)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graph_deltas (id, repo_id, base_graph_id, head_graph_id, added_nodes, removed_nodes, added_edges, removed_edges, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (base_graph_id, head_graph_id) DO UPDATE SET storage_ref = EXCLUDED.storage_ref`,
		delta.ID, repoID, delta.BaseGraphID, delta.HeadGraphID,
		delta.Stats.AddedNodeCount, delta.Stats.RemovedNodeCount,
		delta.Stats.AddedEdgeCount, delta.Stats.RemovedEdgeCount,
		storageRef,
	)
	if err != nil {
		return "", fmt.Errorf("insert delta row: %w", err)
	}
	return delta.ID, nil
}

// LoadGraph fetches and decodes a stored graph build.
func (s *Service) LoadGraph(ctx context.Context, repoID, graphID string) (*graph.Graph, error) {
	data, err := s.storage.GetGraph(ctx, repoID, graphID)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", graphID, err)
	}
	g := &graph.Graph{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("unmarshal graph %s: %w", graphID, err)
	}
	return g, nil
}

// LoadDelta fetches and decodes a stored delta.
func (s *Service) LoadDelta(ctx context.Context, repoID, deltaID string) (*graph.Delta, error) {
	data, err := s.storage.GetDelta(ctx, repoID, deltaID)
	if err != nil {
		return nil, fmt.Errorf("load delta %s: %w", deltaID, err)
	}
	d := &graph.Delta{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("unmarshal delta %s: %w", deltaID, err)
	}
	return d, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
