// Package source enumerates the indexed text fields a search hit can come from.
package source

// Source identifies which indexed field produced a search hit.
type Source string

// Indexed complaint text fields.
const (
	Title   Source = "title"
	Content Source = "content"
	Summary Source = "summary"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	return s == Title || s == Content || s == Summary
}

// All returns every indexed field in the canonical query order.
// The order is fixed so that downstream rank fusion is deterministic.
func All() []Source {
	return []Source{Title, Content, Summary}
}
