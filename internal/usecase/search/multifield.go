package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
	"github.com/civicdesk/minwon/internal/metrics"
)

// contentOverFetchFactor widens category-filtered content queries.
// The content field has no native category-filtered query path, so
// the unfiltered candidate set is over-fetched and filtered in-process.
const contentOverFetchFactor = 2

// searchFields queries the requested vector fields in parallel and
// concatenates the per-field hit lists in canonical field order.
// Hits for the same document arriving via different fields are NOT
// deduplicated here; identity is consolidated by the fuser only.
// A failing field contributes zero hits instead of aborting the search.
func (s *Service) searchFields(
	ctx context.Context, vector []float32,
	category string, topK int, threshold float64,
) []hit.Hit {
	fields := source.All()
	perField := make([][]hit.Hit, len(fields))

	var wg sync.WaitGroup
	for i, src := range fields {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()

			hits, err := s.queryOneField(ctx, src, vector, category, topK, threshold)
			if err != nil {
				metrics.SearchFieldFailuresTotal.WithLabelValues(string(src)).Inc()
				s.logger.Warn("Field query failed, continuing with remaining fields",
					zap.String("field", string(src)), zap.Error(err))
				return
			}
			perField[i] = hits
		}(i, src)
	}
	wg.Wait()

	// Concatenate in fixed field order so fusion input is deterministic
	// regardless of goroutine completion order.
	var combined []hit.Hit
	for i, hits := range perField {
		for _, h := range hits {
			combined = append(combined, h.Tagged(fields[i]))
		}
	}

	return combined
}

// queryOneField dispatches one field query, applying the content-field
// over-fetch workaround when a category filter is requested.
func (s *Service) queryOneField(
	ctx context.Context, src source.Source,
	vector []float32, category string, topK int, threshold float64,
) ([]hit.Hit, error) {
	if src == source.Content && category != "" {
		return s.queryContentFiltered(ctx, vector, category, topK, threshold)
	}
	return s.repo.QueryField(ctx, src, vector, topK, threshold, category)
}

// queryContentFiltered over-fetches the unfiltered content candidates
// and applies the category filter in-process before truncating to topK.
func (s *Service) queryContentFiltered(
	ctx context.Context, vector []float32,
	category string, topK int, threshold float64,
) ([]hit.Hit, error) {
	candidates, err := s.repo.QueryField(
		ctx, source.Content, vector, topK*contentOverFetchFactor, threshold, "")
	if err != nil {
		return nil, err
	}

	filtered := make([]hit.Hit, 0, topK)
	for _, h := range candidates {
		if h.Payload().Category != category {
			continue
		}
		filtered = append(filtered, h)
		if len(filtered) == topK {
			break
		}
	}

	return filtered, nil
}
