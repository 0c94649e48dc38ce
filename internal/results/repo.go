package results

import "context"

// Repo defines persistence for the result collection. Implementations must
// preserve insertion order across List calls.
type Repo interface {
	List(ctx context.Context) ([]AnalysisResult, error)
	GetByID(ctx context.Context, id string) (AnalysisResult, error)
	ExistsByName(ctx context.Context, candidateName string) (bool, error)
	Append(ctx context.Context, results []AnalysisResult) error
	Update(ctx context.Context, result AnalysisResult) error
	Replace(ctx context.Context, results []AnalysisResult) error
	Clear(ctx context.Context) error
}
