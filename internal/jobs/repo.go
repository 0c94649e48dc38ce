package jobs

import "context"

// Repo persists the single job spec.
type Repo interface {
	Get(ctx context.Context) (Spec, error)
	Put(ctx context.Context, spec Spec) error
}
