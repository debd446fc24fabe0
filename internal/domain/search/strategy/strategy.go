// Package strategy enumerates the routing outcomes of a similarity search.
package strategy

// Strategy labels how a search request was routed.
type Strategy string

// Routing outcomes.
const (
	// CategoryHighMatch: category-filtered search found a strong match,
	// no broadening was needed.
	CategoryHighMatch Strategy = "category_high_match"
	// CategoryLowMatchThenBroadened: category-filtered results were weak,
	// an unfiltered full-corpus pass was appended.
	CategoryLowMatchThenBroadened Strategy = "category_low_match_then_broadened"
	// DirectAllSearch: classification was inconclusive or low-confidence,
	// only the unfiltered full-corpus search ran.
	DirectAllSearch Strategy = "direct_all_search"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == CategoryHighMatch || s == CategoryLowMatchThenBroadened || s == DirectAllSearch
}
