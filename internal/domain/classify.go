package domain

import "context"

// Classifier assigns a complaint category to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) (ClassificationResult, error)
}

// ClassificationResult is the outcome of a single classification call.
// An empty Category with Confidence 0 means the classification failed or
// was inconclusive; it must never be used as a search filter.
type ClassificationResult struct {
	Category   string
	Confidence float64
	// TotalTokens consumed by the upstream call, for usage accounting.
	TotalTokens int
}

// Conclusive reports whether the result names a usable category.
func (r ClassificationResult) Conclusive() bool {
	return r.Category != ""
}

// ClampConfidence forces a raw confidence value into [0,1].
// Out-of-range and NaN-ish inputs collapse to the nearest bound.
func ClampConfidence(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
