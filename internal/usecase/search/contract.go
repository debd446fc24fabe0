package search

import (
	"context"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
)

// Repository defines the index contract for similarity search.
type Repository interface {
	// QueryField runs a KNN search over one indexed vector field.
	// category is an optional TAG pre-filter; empty means the full corpus.
	QueryField(
		ctx context.Context, src source.Source,
		vector []float32, topK int, threshold float64, category string,
	) ([]hit.Hit, error)
}

// Classifier assigns a complaint category to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
