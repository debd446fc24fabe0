// Package fused holds the rank-fused search result value object.
package fused

import (
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
)

// Result is one document after reciprocal rank fusion across fields.
// Computed fresh per request, never persisted.
type Result struct {
	id            string
	finalScore    float64
	sourceCount   int
	maxSimilarity float64
	avgSimilarity float64
	sources       []source.Source
	contributions map[source.Source]float64
	payload       hit.Payload
}

// New creates a fused result.
func New(
	id string, finalScore float64, sourceCount int,
	maxSimilarity, avgSimilarity float64,
	sources []source.Source, contributions map[source.Source]float64,
	payload hit.Payload,
) Result {
	return Result{
		id:            id,
		finalScore:    finalScore,
		sourceCount:   sourceCount,
		maxSimilarity: maxSimilarity,
		avgSimilarity: avgSimilarity,
		sources:       sources,
		contributions: contributions,
		payload:       payload,
	}
}

// ID returns the complaint identifier.
func (r *Result) ID() string { return r.id }

// FinalScore returns the diversity-weighted RRF score.
func (r *Result) FinalScore() float64 { return r.finalScore }

// SourceCount returns the number of distinct fields that surfaced this document.
func (r *Result) SourceCount() int { return r.sourceCount }

// MaxSimilarity returns the best similarity seen across all contributing fields.
func (r *Result) MaxSimilarity() float64 { return r.maxSimilarity }

// AvgSimilarity returns the mean similarity across all contributing hits.
func (r *Result) AvgSimilarity() float64 { return r.avgSimilarity }

// Sources returns the contributing fields in canonical order.
func (r *Result) Sources() []source.Source { return r.sources }

// Contributions returns each field's individual RRF contribution.
func (r *Result) Contributions() map[source.Source]float64 { return r.contributions }

// Payload returns the complaint snapshot carried over from the best hit.
func (r *Result) Payload() hit.Payload { return r.payload }
