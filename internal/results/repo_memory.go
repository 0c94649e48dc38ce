package results

import (
	"context"
	"sync"
)

// MemoryRepo keeps the result collection in memory, insertion-ordered, and
// is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	ordered []AnalysisResult
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// List returns a copy of the collection in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AnalysisResult, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

// GetByID returns a result by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.ordered {
		if result.ID == id {
			return result, nil
		}
	}
	return AnalysisResult{}, ErrNotFound
}

// ExistsByName reports whether any stored result carries the candidate name.
func (r *MemoryRepo) ExistsByName(ctx context.Context, candidateName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.ordered {
		if result.CandidateName == candidateName {
			return true, nil
		}
	}
	return false, nil
}

// Append adds results to the end of the collection.
func (r *MemoryRepo) Append(ctx context.Context, results []AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = append(r.ordered, results...)
	return nil
}

// Update replaces the stored result with the same ID.
func (r *MemoryRepo) Update(ctx context.Context, result AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ordered {
		if r.ordered[i].ID == result.ID {
			r.ordered[i] = result
			return nil
		}
	}
	return ErrNotFound
}

// Replace swaps the whole collection, preserving the given order.
func (r *MemoryRepo) Replace(ctx context.Context, results []AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = make([]AnalysisResult, len(results))
	copy(r.ordered, results)
	return nil
}

// Clear empties the collection.
func (r *MemoryRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = nil
	return nil
}
