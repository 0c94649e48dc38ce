package results

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedService(t *testing.T, stored ...AnalysisResult) *Service {
	t.Helper()
	repo := NewMemoryRepo()
	if len(stored) > 0 {
		if err := repo.Append(context.Background(), stored); err != nil {
			t.Fatalf("seed repo: %v", err)
		}
	}
	return NewService(repo)
}

func sampleResult(id, name string, score int) AnalysisResult {
	r := AnalysisResult{
		ID:            id,
		CandidateName: name,
		MatchScore:    score,
		Insights:      "ok",
		Status:        StatusPending,
		ReviewDate:    time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	r.Normalize()
	return r
}

func TestMergeDropsDuplicateNames(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	appended, err := svc.Merge(context.Background(), []AnalysisResult{
		sampleResult("r2", "alice.pdf", 90),
		sampleResult("r3", "bob.pdf", 70),
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(appended) != 1 || appended[0].ID != "r3" {
		t.Fatalf("expected only bob appended, got %v", appended)
	}

	stored, _ := svc.List(context.Background())
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored results, got %d", len(stored))
	}
	// The original alice entry is never overwritten.
	if stored[0].ID != "r1" || stored[0].MatchScore != 80 {
		t.Fatalf("existing entry was overwritten: %+v", stored[0])
	}
}

func TestMergeRerunNeverGrowsStore(t *testing.T) {
	svc := seedService(t)
	batch := []AnalysisResult{
		sampleResult("r1", "alice.pdf", 80),
		sampleResult("r2", "bob.pdf", 70),
	}

	if _, err := svc.Merge(context.Background(), batch); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	rerun := []AnalysisResult{
		sampleResult("r3", "alice.pdf", 80),
		sampleResult("r4", "bob.pdf", 70),
	}
	if _, err := svc.Merge(context.Background(), rerun); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	stored, _ := svc.List(context.Background())
	if len(stored) != 2 {
		t.Fatalf("store grew on re-run: %d results", len(stored))
	}
}

func TestRejectDefaultReason(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	result, err := svc.Reject(context.Background(), "r1", "")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if result.RejectionReason != "Not a good fit for the role" {
		t.Fatalf("expected default reason, got %q", result.RejectionReason)
	}
	if result.Status != StatusRejected || !result.Rejected {
		t.Fatalf("unexpected state: %+v", result)
	}
}

func TestRejectFromReviewed(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	if _, err := svc.AddNotes(context.Background(), "r1", "good communicator"); err != nil {
		t.Fatalf("AddNotes: %v", err)
	}
	result, err := svc.Reject(context.Background(), "r1", "role mismatch")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if result.RejectionReason != "role mismatch" {
		t.Fatalf("unexpected reason: %q", result.RejectionReason)
	}
}

func TestRejectShortlistedIsInvalid(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	if _, err := svc.ToggleFavorite(context.Background(), "r1"); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if _, err := svc.Reject(context.Background(), "r1", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAddNotesTransitionsPendingToReviewed(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	result, err := svc.AddNotes(context.Background(), "r1", "strong systems depth")
	if err != nil {
		t.Fatalf("AddNotes: %v", err)
	}
	if result.Status != StatusReviewed {
		t.Fatalf("expected reviewed, got %q", result.Status)
	}
	if result.DetailedNotes != "strong systems depth" {
		t.Fatalf("notes not stored: %q", result.DetailedNotes)
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	on, err := svc.ToggleFavorite(context.Background(), "r1")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on.Favorite || on.Status != StatusShortlisted {
		t.Fatalf("unexpected state after toggle on: %+v", on)
	}

	off, err := svc.ToggleFavorite(context.Background(), "r1")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.Favorite || off.Status != StatusPending {
		t.Fatalf("unexpected state after toggle off: %+v", off)
	}
}

func TestToggleFavoriteOffRevertsToRejected(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "alice.pdf", 80))

	if _, err := svc.Reject(context.Background(), "r1", ""); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	// Favoriting a rejected result shortlists it but keeps the rejected flag.
	on, err := svc.ToggleFavorite(context.Background(), "r1")
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if on.Status != StatusShortlisted || !on.Rejected {
		t.Fatalf("unexpected state: %+v", on)
	}

	off, err := svc.ToggleFavorite(context.Background(), "r1")
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.Status != StatusRejected {
		t.Fatalf("expected revert to rejected, got %q", off.Status)
	}
}

func TestToggleCompareCapFIFO(t *testing.T) {
	svc := seedService(t,
		sampleResult("r1", "a.pdf", 80),
		sampleResult("r2", "b.pdf", 70),
		sampleResult("r3", "c.pdf", 60),
	)

	ctx := context.Background()
	if _, err := svc.ToggleCompare(ctx, "r1"); err != nil {
		t.Fatalf("compare r1: %v", err)
	}
	if _, err := svc.ToggleCompare(ctx, "r2"); err != nil {
		t.Fatalf("compare r2: %v", err)
	}
	selection, err := svc.ToggleCompare(ctx, "r3")
	if err != nil {
		t.Fatalf("compare r3: %v", err)
	}
	if len(selection) != 2 || selection[0] != "r2" || selection[1] != "r3" {
		t.Fatalf("expected FIFO eviction to [r2 r3], got %v", selection)
	}
}

func TestToggleCompareRemoves(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "a.pdf", 80))

	ctx := context.Background()
	if _, err := svc.ToggleCompare(ctx, "r1"); err != nil {
		t.Fatalf("compare add: %v", err)
	}
	selection, err := svc.ToggleCompare(ctx, "r1")
	if err != nil {
		t.Fatalf("compare remove: %v", err)
	}
	if len(selection) != 0 {
		t.Fatalf("expected empty selection, got %v", selection)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "a.pdf", 80))

	if err := svc.Clear(context.Background(), false); !errors.Is(err, ErrConfirmRequired) {
		t.Fatalf("expected ErrConfirmRequired, got %v", err)
	}
	if err := svc.Clear(context.Background(), true); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stored, _ := svc.List(context.Background())
	if len(stored) != 0 {
		t.Fatalf("expected empty store, got %d", len(stored))
	}
}

func TestClearEmptiesCompareSelection(t *testing.T) {
	svc := seedService(t, sampleResult("r1", "a.pdf", 80))

	ctx := context.Background()
	if _, err := svc.ToggleCompare(ctx, "r1"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := svc.Clear(ctx, true); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	selected, err := svc.CompareSelection(ctx)
	if err != nil {
		t.Fatalf("CompareSelection: %v", err)
	}
	if len(selected) != 0 {
		t.Fatalf("expected empty selection after clear, got %v", selected)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	first := sampleResult("r1", "a.pdf", 80)
	first.TopSkills = []string{"go", "sql"}
	second := sampleResult("r2", "b.pdf", 60)
	second.DetailedNotes = "notes"
	svc := seedService(t, first, second)

	ctx := context.Background()
	exported, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	restored := seedService(t)
	if err := restored.Import(ctx, exported); err != nil {
		t.Fatalf("Import: %v", err)
	}

	after, _ := restored.List(ctx)
	if len(after) != 2 {
		t.Fatalf("expected 2 results, got %d", len(after))
	}
	if after[0].ID != "r1" || after[1].ID != "r2" {
		t.Fatalf("order not preserved: %v, %v", after[0].ID, after[1].ID)
	}
	if after[0].TopSkills[0] != "go" || after[1].DetailedNotes != "notes" {
		t.Fatalf("field values not preserved")
	}
}

func TestBatchRejectStoresBatchReason(t *testing.T) {
	svc := seedService(t,
		sampleResult("r1", "a.pdf", 80),
		sampleResult("r2", "b.pdf", 70),
	)

	if err := svc.BatchReject(context.Background(), []string{"r1", "r2"}); err != nil {
		t.Fatalf("BatchReject: %v", err)
	}
	stored, _ := svc.List(context.Background())
	for _, result := range stored {
		if result.RejectionReason != BatchRejectionReason {
			t.Fatalf("unexpected reason for %s: %q", result.ID, result.RejectionReason)
		}
		if result.Status != StatusRejected {
			t.Fatalf("unexpected status for %s: %q", result.ID, result.Status)
		}
	}
}

func TestTransitionsLeaveOthersUntouched(t *testing.T) {
	svc := seedService(t,
		sampleResult("r1", "a.pdf", 80),
		sampleResult("r2", "b.pdf", 70),
	)

	before, _ := svc.Get(context.Background(), "r2")
	if _, err := svc.Reject(context.Background(), "r1", "nope"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	after, _ := svc.Get(context.Background(), "r2")
	if before.Status != after.Status || before.ReviewDate != after.ReviewDate {
		t.Fatalf("unrelated result mutated: before=%+v after=%+v", before, after)
	}
}
