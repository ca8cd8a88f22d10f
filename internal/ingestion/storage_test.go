package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutGetGraph(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"nodes":[],"edges":[]}`)
	if err := s.PutGraph(ctx, "repo1", "graph1", data); err != nil {
		t.Fatalf("PutGraph: %v", err)
	}

	got, err := s.GetGraph(ctx, "repo1", "graph1")
	if err != nil {
		t.Fatalf("GetGraph: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetGraph = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "repo1", "graphs", "graph1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoragePutGetDelta(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"added_nodes":[]}`)
	if err := s.PutDelta(ctx, "repo1", "delta1", data); err != nil {
		t.Fatalf("PutDelta: %v", err)
	}

	got, err := s.GetDelta(ctx, "repo1", "delta1")
	if err != nil {
		t.Fatalf("GetDelta: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetDelta = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "repo1", "deltas", "delta1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	_, err := s.GetGraph(ctx, "repo1", "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent graph")
	}
}
