package results

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRepoPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	repo, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("NewFileRepo: %v", err)
	}
	if err := repo.Append(context.Background(), []AnalysisResult{sampleResult("r1", "a.pdf", 80)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reloaded, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	stored, err := reloaded.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "r1" {
		t.Fatalf("expected persisted result, got %v", stored)
	}
}

func TestFileRepoDiscardsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	repo, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("expected corrupt snapshot to be discarded, got %v", err)
	}
	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected empty store, got %v", stored)
	}

	// The repo stays writable after discarding the corrupt snapshot.
	if err := repo.Append(context.Background(), []AnalysisResult{sampleResult("r1", "a.pdf", 50)}); err != nil {
		t.Fatalf("Append after discard: %v", err)
	}
}

func TestFileRepoClearRemovesSnapshotContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	repo, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("NewFileRepo: %v", err)
	}
	if err := repo.Append(context.Background(), []AnalysisResult{sampleResult("r1", "a.pdf", 80)}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	reloaded, err := NewFileRepo(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	stored, _ := reloaded.List(context.Background())
	if len(stored) != 0 {
		t.Fatalf("expected empty store after clear, got %v", stored)
	}
}
