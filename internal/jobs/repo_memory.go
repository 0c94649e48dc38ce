package jobs

import (
	"context"
	"sync"
)

// MemoryRepo keeps the job spec in memory.
type MemoryRepo struct {
	mu   sync.RWMutex
	spec Spec
}

// NewMemoryRepo constructs a MemoryRepo seeded with the default spec.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{spec: DefaultSpec()}
}

func (r *MemoryRepo) Get(ctx context.Context) (Spec, error) {
	if err := ctx.Err(); err != nil {
		return Spec{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spec, nil
}

func (r *MemoryRepo) Put(ctx context.Context, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spec = spec
	return nil
}
