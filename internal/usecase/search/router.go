package search

import "github.com/civicdesk/minwon/internal/domain"

// route is the outcome of the category routing decision.
type route struct {
	useCategoryFilter bool
	category          string
}

// decideRoute picks the search strategy from a classification result.
// The category filter is used only when the classifier is confident
// enough AND named a category at all. Pure function, no side effects.
func decideRoute(c domain.ClassificationResult, confidenceThreshold float64) route {
	if !c.Conclusive() || c.Confidence < confidenceThreshold {
		return route{}
	}
	return route{useCategoryFilter: true, category: c.Category}
}
