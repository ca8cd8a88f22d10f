// Package repostore manages repository records and graph-build metadata
// backed by Postgres.
package repostore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Service provides repository and build-metadata access backed by Postgres.
type Service struct {
	db *sql.DB
}

// Repository represents a repository tracked by CodeLens.
type Repository struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildRow represents graph-build metadata from the database.
type BuildRow struct {
	ID           string    `json:"id"`
	RepoID       string    `json:"repo_id"`
	CommitSHA    string    `json:"commit_sha"`
	Branch       *string   `json:"branch,omitempty"`
	Status       string    `json:"status"`
	GraphID      *string   `json:"graph_id,omitempty"`
	NodeCount    int       `json:"node_count"`
	EdgeCount    int       `json:"edge_count"`
	BuildMs      int       `json:"build_ms"`
	StorageRef   *string   `json:"storage_ref,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeltaRow represents graph-delta metadata from the database.
type DeltaRow struct {
	ID           string    `json:"id"`
	RepoID       string    `json:"repo_id"`
	BaseGraphID  string    `json:"base_graph_id"`
	HeadGraphID  string    `json:"head_graph_id"`
	AddedNodes   int       `json:"added_nodes"`
	RemovedNodes int       `json:"removed_nodes"`
	AddedEdges   int       `json:"added_edges"`
	RemovedEdges int       `json:"removed_edges"`
	StorageRef   string    `json:"storage_ref"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewService creates a new repostore Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// UpsertRepository creates or updates a repository record.
func (s *Service) UpsertRepository(ctx context.Context, fullName, defaultBranch string) (*Repository, error) {
	r := &Repository{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO repositories (full_name, default_branch)
		 VALUES ($1, $2)
		 ON CONFLICT (full_name) DO UPDATE
		   SET default_branch = EXCLUDED.default_branch
		 RETURNING id, full_name, default_branch, created_at`,
		fullName, defaultBranch,
	).Scan(&r.ID, &r.FullName, &r.DefaultBranch, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert repository %s: %w", fullName, err)
	}
	return r, nil
}

// GetRepository retrieves a repository by full name.
func (s *Service) GetRepository(ctx context.Context, fullName string) (*Repository, error) {
	r := &Repository{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, default_branch, created_at
		 FROM repositories WHERE full_name = $1`,
		fullName,
	).Scan(&r.ID, &r.FullName, &r.DefaultBranch, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get repository %s: %w", fullName, err)
	}
	return r, nil
}

// GetRepositoryByID retrieves a repository by ID.
func (s *Service) GetRepositoryByID(ctx context.Context, id string) (*Repository, error) {
	r := &Repository{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, default_branch, created_at
		 FROM repositories WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.FullName, &r.DefaultBranch, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get repository %s: %w", id, err)
	}
	return r, nil
}

// EnsureRepository gets or creates a repository by full name.
func (s *Service) EnsureRepository(ctx context.Context, fullName, defaultBranch string) (*Repository, error) {
	r, err := s.GetRepository(ctx, fullName)
	if err == nil {
		return r, nil
	}

	r, err = s.UpsertRepository(ctx, fullName, defaultBranch)
	if err != nil {
		// Could be a race condition; try getting again
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return s.GetRepository(ctx, fullName)
		}
		return nil, fmt.Errorf("ensure repository: %w", err)
	}
	return r, nil
}

// UpdateDefaultBranch changes the default branch of a repository.
func (s *Service) UpdateDefaultBranch(ctx context.Context, id, defaultBranch string) (*Repository, error) {
	r := &Repository{}
	err := s.db.QueryRowContext(ctx,
		`UPDATE repositories SET default_branch = $2
		 WHERE id = $1
		 RETURNING id, full_name, default_branch, created_at`,
		id, defaultBranch,
	).Scan(&r.ID, &r.FullName, &r.DefaultBranch, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update repository %s: %w", id, err)
	}
	return r, nil
}

// ListRepositories returns all tracked repositories.
func (s *Service) ListRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, default_branch, created_at
		 FROM repositories ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	defer rows.Close()

	var repos []Repository
	for rows.Next() {
		var r Repository
		if err := rows.Scan(&r.ID, &r.FullName, &r.DefaultBranch, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// DeleteRepository removes a repository and its build metadata.
// Stored blobs are left for the storage backend's retention policy.
func (s *Service) DeleteRepository(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM repositories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete repository %s: %w", id, err)
	}
	return nil
}

// ListBuildsByRepo returns all graph builds for a repository, newest first.
func (s *Service) ListBuildsByRepo(ctx context.Context, repoID string) ([]BuildRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, repo_id, commit_sha, branch, status, graph_id,
		        node_count, edge_count, build_ms, storage_ref, error_message, created_at
		 FROM graph_builds WHERE repo_id = $1 ORDER BY created_at DESC`,
		repoID,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildRow
	for rows.Next() {
		var b BuildRow
		if err := rows.Scan(
			&b.ID, &b.RepoID, &b.CommitSHA, &b.Branch, &b.Status, &b.GraphID,
			&b.NodeCount, &b.EdgeCount, &b.BuildMs, &b.StorageRef, &b.ErrorMessage, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// GetBuildByGraphID returns build metadata for a stored graph.
func (s *Service) GetBuildByGraphID(ctx context.Context, graphID string) (*BuildRow, error) {
	b := &BuildRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, repo_id, commit_sha, branch, status, graph_id,
		        node_count, edge_count, build_ms, storage_ref, error_message, created_at
		 FROM graph_builds WHERE graph_id = $1`,
		graphID,
	).Scan(
		&b.ID, &b.RepoID, &b.CommitSHA, &b.Branch, &b.Status, &b.GraphID,
		&b.NodeCount, &b.EdgeCount, &b.BuildMs, &b.StorageRef, &b.ErrorMessage, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get build for graph %s: %w", graphID, err)
	}
	return b, nil
}

// GetLatestBuild returns the most recent completed build for a repository.
func (s *Service) GetLatestBuild(ctx context.Context, repoID string) (*BuildRow, error) {
	b := &BuildRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, repo_id, commit_sha, branch, status, graph_id,
		        node_count, edge_count, build_ms, storage_ref, error_message, created_at
		 FROM graph_builds
		 WHERE repo_id = $1 AND status = 'COMPLETED' AND graph_id IS NOT NULL
		 ORDER BY created_at DESC LIMIT 1`,
		repoID,
	).Scan(
		&b.ID, &b.RepoID, &b.CommitSHA, &b.Branch, &b.Status, &b.GraphID,
		&b.NodeCount, &b.EdgeCount, &b.BuildMs, &b.StorageRef, &b.ErrorMessage, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get latest build for repo %s: %w", repoID, err)
	}
	return b, nil
}

// GetDeltaBetween returns delta metadata for a base/head graph pair.
func (s *Service) GetDeltaBetween(ctx context.Context, baseGraphID, headGraphID string) (*DeltaRow, error) {
	d := &DeltaRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, repo_id, base_graph_id, head_graph_id,
		        added_nodes, removed_nodes, added_edges, removed_edges, storage_ref, created_at
		 FROM graph_deltas WHERE base_graph_id = $1 AND head_graph_id = $2`,
		baseGraphID, headGraphID,
	).Scan(
		&d.ID, &d.RepoID, &d.BaseGraphID, &d.HeadGraphID,
		&d.AddedNodes, &d.RemovedNodes, &d.AddedEdges, &d.RemovedEdges, &d.StorageRef, &d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get delta %s..%s: %w", baseGraphID, headGraphID, err)
	}
	return d, nil
}
