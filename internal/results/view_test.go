package results

import (
	"testing"
	"time"
)

func TestFilterMinScoreAndRejected(t *testing.T) {
	rejected := sampleResult("r2", "b.pdf", 90)
	rejected.Rejected = true
	rejected.Status = StatusRejected
	stored := []AnalysisResult{
		sampleResult("r1", "a.pdf", 80),
		rejected,
		sampleResult("r3", "c.pdf", 40),
	}

	filtered := Filter(stored, 50, false)
	if len(filtered) != 1 || filtered[0].ID != "r1" {
		t.Fatalf("expected only r1, got %v", filtered)
	}

	withRejected := Filter(stored, 50, true)
	if len(withRejected) != 2 {
		t.Fatalf("expected 2 with rejected shown, got %d", len(withRejected))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	stored := []AnalysisResult{
		sampleResult("r1", "a.pdf", 80),
		sampleResult("r2", "b.pdf", 20),
	}
	_ = Filter(stored, 50, true)
	if len(stored) != 2 || stored[1].ID != "r2" {
		t.Fatalf("input mutated: %v", stored)
	}
}

func TestSortByScoreStable(t *testing.T) {
	stored := []AnalysisResult{
		sampleResult("a", "a.pdf", 80),
		sampleResult("b", "b.pdf", 80),
		sampleResult("c", "c.pdf", 60),
	}

	sorted := SortResults(stored, SortByScore)
	if sorted[0].ID != "a" || sorted[1].ID != "b" || sorted[2].ID != "c" {
		t.Fatalf("expected stable [a b c], got [%s %s %s]", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

func TestSortByName(t *testing.T) {
	stored := []AnalysisResult{
		sampleResult("r1", "Charlie.pdf", 50),
		sampleResult("r2", "alice.pdf", 50),
		sampleResult("r3", "Bob.pdf", 50),
	}

	sorted := SortResults(stored, SortByName)
	if sorted[0].ID != "r2" || sorted[1].ID != "r3" || sorted[2].ID != "r1" {
		t.Fatalf("unexpected name order: [%s %s %s]", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
}

func TestSortByReviewDateDescending(t *testing.T) {
	older := sampleResult("r1", "a.pdf", 50)
	older.ReviewDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleResult("r2", "b.pdf", 50)
	newer.ReviewDate = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	sorted := SortResults([]AnalysisResult{older, newer}, SortByReviewDate)
	if sorted[0].ID != "r2" {
		t.Fatalf("expected newest first, got %s", sorted[0].ID)
	}
}
