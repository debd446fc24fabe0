// Package hit holds the per-field search hit value object.
package hit

import "github.com/civicdesk/minwon/internal/domain/search/source"

// Payload is the complaint snapshot attached to a hit by the index.
type Payload struct {
	Number     string
	Title      string
	Content    string
	Summary    string
	Category   string
	Department string
	Response   string
}

// Hit is a single similarity search hit from one indexed field.
// The index itself has no notion of which field produced a hit once
// results are merged; Source is attached right after retrieval.
type Hit struct {
	id         string
	similarity float64
	src        source.Source
	payload    Payload
}

// New creates a search hit.
func New(id string, similarity float64, src source.Source, payload Payload) Hit {
	return Hit{id: id, similarity: similarity, src: src, payload: payload}
}

// ID returns the complaint identifier.
func (h *Hit) ID() string { return h.id }

// Similarity returns the cosine similarity in [0,1].
func (h *Hit) Similarity() float64 { return h.similarity }

// Source returns the indexed field that produced this hit.
func (h *Hit) Source() source.Source { return h.src }

// Payload returns the complaint snapshot.
func (h *Hit) Payload() Payload { return h.payload }

// Tagged returns a copy with the source field set.
func (h Hit) Tagged(src source.Source) Hit {
	h.src = src
	return h
}
