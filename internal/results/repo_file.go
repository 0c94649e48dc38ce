package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hireview-backend/internal/shared/telemetry"
)

// FileRepo persists the collection as a JSON snapshot on disk, delegating
// in-memory bookkeeping to MemoryRepo. A snapshot is rewritten after every
// mutation; an unparseable snapshot at load time is discarded, never fatal.
type FileRepo struct {
	path string
	mem  *MemoryRepo
}

// NewFileRepo loads the snapshot at path (creating parent directories) and
// returns a repo backed by it.
func NewFileRepo(path string) (*FileRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	repo := &FileRepo{path: path, mem: NewMemoryRepo()}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results snapshot: %w", err)
	}

	var stored []AnalysisResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		telemetry.Error("results.snapshot.corrupt", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return repo, nil
	}
	for i := range stored {
		stored[i].Normalize()
	}
	repo.mem.ordered = stored
	return repo, nil
}

func (r *FileRepo) List(ctx context.Context) ([]AnalysisResult, error) {
	return r.mem.List(ctx)
}

func (r *FileRepo) GetByID(ctx context.Context, id string) (AnalysisResult, error) {
	return r.mem.GetByID(ctx, id)
}

func (r *FileRepo) ExistsByName(ctx context.Context, candidateName string) (bool, error) {
	return r.mem.ExistsByName(ctx, candidateName)
}

func (r *FileRepo) Append(ctx context.Context, results []AnalysisResult) error {
	if err := r.mem.Append(ctx, results); err != nil {
		return err
	}
	return r.snapshot(ctx)
}

func (r *FileRepo) Update(ctx context.Context, result AnalysisResult) error {
	if err := r.mem.Update(ctx, result); err != nil {
		return err
	}
	return r.snapshot(ctx)
}

func (r *FileRepo) Replace(ctx context.Context, results []AnalysisResult) error {
	if err := r.mem.Replace(ctx, results); err != nil {
		return err
	}
	return r.snapshot(ctx)
}

func (r *FileRepo) Clear(ctx context.Context) error {
	if err := r.mem.Clear(ctx); err != nil {
		return err
	}
	return r.snapshot(ctx)
}

// snapshot writes the full collection atomically (temp file + rename).
func (r *FileRepo) snapshot(ctx context.Context) error {
	stored, err := r.mem.List(ctx)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write results snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace results snapshot: %w", err)
	}
	return nil
}
