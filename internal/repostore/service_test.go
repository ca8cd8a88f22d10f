package repostore

import (
	"testing"
	"time"
)

func TestRepositoryStruct(t *testing.T) {
	repo := Repository{
		ID:            "repo-uuid-1",
		FullName:      "org/myrepo",
		DefaultBranch: "main",
		CreatedAt:     time.Now(),
	}

	if repo.FullName != "org/myrepo" {
		t.Errorf("FullName = %q, want %q", repo.FullName, "org/myrepo")
	}
	if repo.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want %q", repo.DefaultBranch, "main")
	}
}

func TestBuildRowOptionalFields(t *testing.T) {
	b := BuildRow{
		ID:        "build-uuid-1",
		RepoID:    "repo-uuid-1",
		CommitSHA: "abc123f",
		Status:    "QUEUED",
	}

	if b.GraphID != nil {
		t.Errorf("GraphID = %v, want nil before completion", b.GraphID)
	}
	if b.ErrorMessage != nil {
		t.Errorf("ErrorMessage = %v, want nil", b.ErrorMessage)
	}

	graphID := "graph-uuid-1"
	b.GraphID = &graphID
	b.Status = "COMPLETED"
	if *b.GraphID != "graph-uuid-1" || b.Status != "COMPLETED" {
		t.Errorf("completed build = %+v", b)
	}
}

func TestNewService(t *testing.T) {
	s := NewService(nil)
	if s == nil {
		t.Fatal("NewService returned nil")
	}
}
