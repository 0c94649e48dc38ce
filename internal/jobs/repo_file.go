package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hireview-backend/internal/shared/telemetry"
)

// FileRepo persists the job spec as a JSON snapshot. A corrupt snapshot is
// discarded in favor of the default spec.
type FileRepo struct {
	path string

	mu   sync.RWMutex
	spec Spec
}

// NewFileRepo loads the snapshot at path, falling back to the default spec.
func NewFileRepo(path string) (*FileRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	repo := &FileRepo{path: path, spec: DefaultSpec()}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read job snapshot: %w", err)
	}

	var stored Spec
	if err := json.Unmarshal(raw, &stored); err != nil {
		telemetry.Error("jobs.snapshot.corrupt", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return repo, nil
	}
	repo.spec = stored
	return repo, nil
}

func (r *FileRepo) Get(ctx context.Context) (Spec, error) {
	if err := ctx.Err(); err != nil {
		return Spec{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.spec, nil
}

func (r *FileRepo) Put(ctx context.Context, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal job snapshot: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write job snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace job snapshot: %w", err)
	}
	r.spec = spec
	return nil
}
