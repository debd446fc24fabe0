package domain

import "context"

// Analyst produces the intake-time summary and department assignment.
type Analyst interface {
	Analyze(ctx context.Context, title, content, category string) (AnalysisResult, error)
}

// AnalysisResult is the outcome of intake analysis.
type AnalysisResult struct {
	Summary     string
	Department  string
	TotalTokens int
}
