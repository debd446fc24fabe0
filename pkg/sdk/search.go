package minwon

import (
	"context"
	"fmt"
	"time"

	"github.com/civicdesk/minwon/internal/domain/search/fused"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

// SearchService runs category-routed multi-field similarity search.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// SearchOption tunes a single search call.
type SearchOption func(*searchParams)

type searchParams struct {
	topK      int
	threshold float64
}

// SearchTopK sets the number of fused results to return. Default: 3.
func SearchTopK(n int) SearchOption {
	return func(p *searchParams) { p.topK = n }
}

// SearchThreshold sets the per-field similarity cutoff. Default: 0.5.
func SearchThreshold(v float64) SearchOption {
	return func(p *searchParams) { p.threshold = v }
}

// Similar finds complaints semantically similar to the given text.
func (s *SearchService) Similar(
	ctx context.Context, text string, opts ...SearchOption,
) (_ SearchResponse, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.similar", start, err) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	req, err := request.New(text, p.topK, p.threshold)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	resp, err := s.svc.Search(ctx, &req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalSearchResponse(resp), nil
}

func fromInternalSearchResponse(resp searchuc.Response) SearchResponse {
	results := make([]SearchResult, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, fromInternalResult(&resp.Results[i]))
	}
	return SearchResponse{
		Category:        resp.Category,
		Confidence:      resp.Confidence,
		Strategy:        string(resp.Strategy),
		Results:         results,
		TotalCandidates: resp.TotalCandidates,
	}
}

func fromInternalResult(r *fused.Result) SearchResult {
	sources := make([]string, 0, len(r.Sources()))
	for _, src := range r.Sources() {
		sources = append(sources, string(src))
	}
	contributions := make(map[string]float64, len(r.Contributions()))
	for src, c := range r.Contributions() {
		contributions[string(src)] = c
	}
	p := r.Payload()
	return SearchResult{
		ID:            r.ID(),
		Number:        p.Number,
		Title:         p.Title,
		Summary:       p.Summary,
		Category:      p.Category,
		Department:    p.Department,
		Response:      p.Response,
		FinalScore:    r.FinalScore(),
		MaxSimilarity: r.MaxSimilarity(),
		AvgSimilarity: r.AvgSimilarity(),
		SourceCount:   r.SourceCount(),
		Sources:       sources,
		Contributions: contributions,
	}
}
