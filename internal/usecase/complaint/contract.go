package complaint

import (
	"context"

	"github.com/civicdesk/minwon/internal/domain"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

// Repository defines the storage contract for complaint lifecycle operations.
type Repository interface {
	NextNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, c *domcomplaint.Complaint) error
	Get(ctx context.Context, id string) (domcomplaint.Complaint, error)
	GetByNumber(ctx context.Context, number string) (domcomplaint.Complaint, error)
	List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error)
	Count(ctx context.Context) (int, error)
}

// Analyst produces the intake summary and department assignment.
type Analyst interface {
	Analyze(ctx context.Context, title, content, category string) (domain.AnalysisResult, error)
}

// Embedder vectorizes the three complaint text fields in one call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Assistant generates response drafts and answers staff questions.
type Assistant interface {
	Draft(ctx context.Context, title, content, category string) (string, error)
	Assist(ctx context.Context, question, title, content, category string) (string, error)
}
