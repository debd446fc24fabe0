// Package search runs KNN queries against the complaint index and maps
// results into domain hits.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/civicdesk/minwon/internal/db"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a search repository. prefix is the storage key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// vectorFieldFor maps a hit source to its indexed hash field.
func vectorFieldFor(src source.Source) string {
	switch src {
	case source.Title:
		return "title_vec"
	case source.Content:
		return "content_vec"
	default:
		return "summary_vec"
	}
}

// payloadFields are returned with every KNN hit so callers never need a
// second round trip per result.
var payloadFields = []string{
	"number", "title", "content", "summary",
	"category", "department", "response",
}

// QueryField runs a KNN search over one indexed vector field.
// Hits below threshold are dropped after the distance-to-similarity
// conversion. category is an optional TAG pre-filter; empty means the
// full corpus.
func (r *Repo) QueryField(
	ctx context.Context, src source.Source,
	vector []float32, topK int, threshold float64, category string,
) ([]hit.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    r.prefix + "complaint:idx",
		VectorField:  vectorFieldFor(src),
		Vector:       vector,
		K:            topK,
		ReturnFields: payloadFields,
	}
	if category != "" {
		q.Tag = &db.TagFilter{Key: "category", Value: category}
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn %s: %w", src, err)
	}

	return r.parseHits(sr, src, threshold), nil
}

// parseHits converts db entries into domain hits, dropping low-similarity ones.
func (r *Repo) parseHits(sr *db.SearchResult, src source.Source, threshold float64) []hit.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	keyPrefix := r.prefix + "complaint:"
	hits := make([]hit.Hit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		if entry.Score < threshold {
			continue
		}
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		hits = append(hits, hit.New(id, entry.Score, src, parsePayload(entry.Fields)))
	}

	return hits
}

func parsePayload(fields map[string]string) hit.Payload {
	return hit.Payload{
		Number:     fields["number"],
		Title:      fields["title"],
		Content:    fields["content"],
		Summary:    fields["summary"],
		Category:   fields["category"],
		Department: fields["department"],
		Response:   fields["response"],
	}
}
