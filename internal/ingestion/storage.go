// Package ingestion orchestrates the CodeLens pipeline: graph intake,
// validation, delta computation, and result storage.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for graph builds and deltas.
type StorageClient interface {
	PutGraph(ctx context.Context, repoID, graphID string, data []byte) error
	GetGraph(ctx context.Context, repoID, graphID string) ([]byte, error)
	PutDelta(ctx context.Context, repoID, deltaID string, data []byte) error
	GetDelta(ctx context.Context, repoID, deltaID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(repoID, kind, id string) string {
	return filepath.Join(s.BaseDir, repoID, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutGraph stores a graph-build blob.
func (s *LocalStorage) PutGraph(ctx context.Context, repoID, graphID string, data []byte) error {
	return s.put(s.path(repoID, "graphs", graphID), data)
}

// GetGraph retrieves a graph-build blob.
func (s *LocalStorage) GetGraph(ctx context.Context, repoID, graphID string) ([]byte, error) {
	return os.ReadFile(s.path(repoID, "graphs", graphID))
}

// PutDelta stores a delta blob.
func (s *LocalStorage) PutDelta(ctx context.Context, repoID, deltaID string, data []byte) error {
	return s.put(s.path(repoID, "deltas", deltaID), data)
}

// GetDelta retrieves a delta blob.
func (s *LocalStorage) GetDelta(ctx context.Context, repoID, deltaID string) ([]byte, error) {
	return os.ReadFile(s.path(repoID, "deltas", deltaID))
}
