package results

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hireview-backend/internal/shared/telemetry"
)

// BatchRejectionReason is stored when many results are rejected at once.
const BatchRejectionReason = "Batch rejection - not a good fit for the role"

// Service owns the result collection and the review workflow. All mutations
// are serialized by its mutex; reads copy under the repo's own locking.
type Service struct {
	repo Repo

	mu      sync.Mutex
	compare []string
	now     func() time.Time
}

// NewService constructs a Service over the given repo.
func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the full stored collection in insertion order.
func (s *Service) List(ctx context.Context) ([]AnalysisResult, error) {
	return s.repo.List(ctx)
}

// Get returns one result by ID.
func (s *Service) Get(ctx context.Context, id string) (AnalysisResult, error) {
	return s.repo.GetByID(ctx, id)
}

// Merge appends new results, dropping any whose candidate name is already
// stored. Existing entries are never overwritten. Returns what was appended.
func (s *Service) Merge(ctx context.Context, incoming []AnalysisResult) ([]AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appended := make([]AnalysisResult, 0, len(incoming))
	seen := make(map[string]struct{}, len(incoming))
	for _, result := range incoming {
		if _, dup := seen[result.CandidateName]; dup {
			continue
		}
		exists, err := s.repo.ExistsByName(ctx, result.CandidateName)
		if err != nil {
			return nil, fmt.Errorf("merge results: %w", err)
		}
		if exists {
			telemetry.Info("results.merge.duplicate", map[string]any{
				"candidate": result.CandidateName,
			})
			continue
		}
		result.Normalize()
		seen[result.CandidateName] = struct{}{}
		appended = append(appended, result)
	}

	if len(appended) == 0 {
		return appended, nil
	}
	if err := s.repo.Append(ctx, appended); err != nil {
		return nil, fmt.Errorf("merge results: %w", err)
	}
	return appended, nil
}

// Reject transitions pending or reviewed results to rejected. An empty
// reason stores the default reason. Shortlisted results cannot be rejected
// directly; un-favorite them first.
func (s *Service) Reject(ctx context.Context, id, reason string) (AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AnalysisResult{}, err
	}
	if result.Status != StatusPending && result.Status != StatusReviewed {
		return AnalysisResult{}, fmt.Errorf("%w: cannot reject a %s result", ErrInvalidTransition, result.Status)
	}

	if reason == "" {
		reason = DefaultRejectionReason
	}
	result.Status = StatusRejected
	result.Rejected = true
	result.RejectionReason = reason
	result.ReviewDate = s.now()

	if err := s.repo.Update(ctx, result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// AddNotes stores reviewer notes, moving pending results to reviewed.
func (s *Service) AddNotes(ctx context.Context, id, notes string) (AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AnalysisResult{}, err
	}

	result.DetailedNotes = notes
	if result.Status == StatusPending {
		result.Status = StatusReviewed
	}
	result.ReviewDate = s.now()

	if err := s.repo.Update(ctx, result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// ToggleFavorite flips the favorite flag. Turning it on shortlists the
// result; turning it off reverts to rejected when the result was previously
// rejected, else to pending.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AnalysisResult{}, err
	}

	if result.Favorite {
		result.Favorite = false
		if result.Rejected {
			result.Status = StatusRejected
		} else {
			result.Status = StatusPending
		}
	} else {
		result.Favorite = true
		result.Status = StatusShortlisted
	}
	result.ReviewDate = s.now()

	if err := s.repo.Update(ctx, result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// ToggleCompare adds or removes an ID from the compare selection. The
// selection holds at most 2 IDs; adding a third evicts the oldest.
func (s *Service) ToggleCompare(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	for i, existing := range s.compare {
		if existing == id {
			s.compare = append(s.compare[:i], s.compare[i+1:]...)
			return s.compareSnapshot(), nil
		}
	}

	s.compare = append(s.compare, id)
	if len(s.compare) > 2 {
		s.compare = s.compare[len(s.compare)-2:]
	}
	return s.compareSnapshot(), nil
}

// CompareSelection returns the (at most 2) selected results in selection order.
func (s *Service) CompareSelection(ctx context.Context) ([]AnalysisResult, error) {
	s.mu.Lock()
	ids := s.compareSnapshot()
	s.mu.Unlock()

	selected := make([]AnalysisResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.repo.GetByID(ctx, id)
		if err != nil {
			// Selection can reference an ID cleared elsewhere; skip it.
			continue
		}
		selected = append(selected, result)
	}
	return selected, nil
}

// BatchShortlist favorites and shortlists every given ID.
func (s *Service) BatchShortlist(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		result, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("batch shortlist %s: %w", id, err)
		}
		result.Favorite = true
		result.Status = StatusShortlisted
		result.ReviewDate = s.now()
		if err := s.repo.Update(ctx, result); err != nil {
			return fmt.Errorf("batch shortlist %s: %w", id, err)
		}
	}
	return nil
}

// BatchReject rejects every given ID with the batch rejection reason.
func (s *Service) BatchReject(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		result, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("batch reject %s: %w", id, err)
		}
		result.Status = StatusRejected
		result.Rejected = true
		result.Favorite = false
		result.RejectionReason = BatchRejectionReason
		result.ReviewDate = s.now()
		if err := s.repo.Update(ctx, result); err != nil {
			return fmt.Errorf("batch reject %s: %w", id, err)
		}
	}
	return nil
}

// Clear empties the store and the compare selection. Irreversible, so the
// caller must confirm explicitly.
func (s *Service) Clear(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.compare = nil
	return nil
}

// Export returns the full collection, order-preserving, for serialization.
func (s *Service) Export(ctx context.Context) ([]AnalysisResult, error) {
	return s.repo.List(ctx)
}

// Import replaces the collection with a previously exported one.
func (s *Service) Import(ctx context.Context, imported []AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range imported {
		imported[i].Normalize()
	}
	if err := s.repo.Replace(ctx, imported); err != nil {
		return err
	}
	s.compare = nil
	return nil
}

func (s *Service) compareSnapshot() []string {
	out := make([]string, len(s.compare))
	copy(out, s.compare)
	return out
}
