// Package category holds the closed set of complaint categories.
package category

import (
	"fmt"
	"strings"
)

// Set is the immutable closed set of category labels, fixed at startup
// from configuration. Categories are never created or removed at runtime.
type Set struct {
	labels []string
	index  map[string]struct{}
}

// NewSet validates and creates a category set.
// Labels must be non-empty, trimmed, and unique.
func NewSet(labels []string) (Set, error) {
	if len(labels) == 0 {
		return Set{}, fmt.Errorf("at least one category is required")
	}

	index := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			return Set{}, fmt.Errorf("empty category label")
		}
		if _, ok := index[trimmed]; ok {
			return Set{}, fmt.Errorf("duplicate category: %s", trimmed)
		}
		index[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	return Set{labels: out, index: index}, nil
}

// Contains reports whether label is a member of the set.
func (s Set) Contains(label string) bool {
	_, ok := s.index[label]
	return ok
}

// Labels returns the category labels in configuration order.
func (s Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of categories.
func (s Set) Len() int { return len(s.labels) }
