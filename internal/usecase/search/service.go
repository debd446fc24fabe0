// Package search implements category-aware multi-field similarity search
// with reciprocal rank fusion.
package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/search/fused"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	"github.com/civicdesk/minwon/internal/domain/search/strategy"
	"github.com/civicdesk/minwon/internal/metrics"
)

// Policy holds the routing and fusion constants. These are tunable
// policy values surfaced from configuration, not derived quantities.
type Policy struct {
	// ConfidenceThreshold gates category-filtered routing.
	ConfidenceThreshold float64
	// HighMatchThreshold decides whether a category-filtered pass is
	// good enough to skip the broadened full-corpus pass.
	HighMatchThreshold float64
	// RRFK is the reciprocal rank fusion damping constant.
	RRFK int
}

// Response is the annotated outcome of one similarity search.
type Response struct {
	Category        string
	Confidence      float64
	Strategy        strategy.Strategy
	Results         []fused.Result
	TotalCandidates int
}

// Service orchestrates classify, embed, route, per-field search and fusion.
type Service struct {
	repo     Repository
	classify Classifier
	embed    Embedder
	policy   Policy
	logger   *zap.Logger
}

// New creates a search service.
func New(repo Repository, classify Classifier, embed Embedder, policy Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		classify: classify,
		embed:    embed,
		policy:   policy,
		logger:   logger,
	}
}

// Search runs the full pipeline for one query.
// Classification failure degrades to the unfiltered full-corpus
// strategy; embedding failure is fatal since no search is possible
// without a query vector.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	classification, vector, err := s.classifyAndEmbed(ctx, req.Text())
	if err != nil {
		return Response{}, err
	}

	rt := decideRoute(classification, s.policy.ConfidenceThreshold)

	var candidates []hit.Hit
	var label strategy.Strategy

	if rt.useCategoryFilter {
		candidates = s.searchFields(ctx, vector, rt.category, req.TopK(), req.Threshold())

		if bestSimilarity(candidates) >= s.policy.HighMatchThreshold {
			label = strategy.CategoryHighMatch
		} else {
			label = strategy.CategoryLowMatchThenBroadened
			broadened := s.searchFields(ctx, vector, "", req.TopK(), req.Threshold())
			candidates = append(candidates, broadened...)
		}
	} else {
		label = strategy.DirectAllSearch
		candidates = s.searchFields(ctx, vector, "", req.TopK(), req.Threshold())
	}

	metrics.SearchStrategyTotal.WithLabelValues(string(label)).Inc()

	results := fuseRRF(candidates, req.TopK(), s.policy.RRFK)

	s.logger.Debug("Similarity search completed",
		zap.String("strategy", string(label)),
		zap.String("category", classification.Category),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)))

	return Response{
		Category:        classification.Category,
		Confidence:      classification.Confidence,
		Strategy:        label,
		Results:         results,
		TotalCandidates: len(candidates),
	}, nil
}

// classifyAndEmbed runs the two independent upstream calls concurrently.
func (s *Service) classifyAndEmbed(
	ctx context.Context, text string,
) (domain.ClassificationResult, []float32, error) {
	var (
		wg             sync.WaitGroup
		classification domain.ClassificationResult
		embedding      domain.EmbeddingResult
		embedErr       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := s.classify.Classify(ctx, text)
		if err != nil {
			// Inconclusive classification is a normal outcome; search
			// proceeds over the full corpus.
			s.logger.Warn("Classification failed, using full-corpus search", zap.Error(err))
			return
		}
		classification = res
	}()
	go func() {
		defer wg.Done()
		embedding, embedErr = s.embed.Embed(ctx, text)
	}()
	wg.Wait()

	if embedErr != nil {
		return domain.ClassificationResult{}, nil, fmt.Errorf("vectorize query: %w", embedErr)
	}

	return classification, embedding.Embedding, nil
}

// bestSimilarity returns the highest per-field similarity in the candidate set.
func bestSimilarity(hits []hit.Hit) float64 {
	best := 0.0
	for _, h := range hits {
		if h.Similarity() > best {
			best = h.Similarity()
		}
	}
	return best
}
