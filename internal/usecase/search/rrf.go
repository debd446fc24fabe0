package search

import (
	"sort"

	"github.com/civicdesk/minwon/internal/domain/search/fused"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
)

// defaultRRFK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const defaultRRFK = 60

// diversityStep is the per-extra-source multiplier increment.
// A document surfaced independently by several fields is stronger
// corroboration than the same rank from one field alone.
const diversityStep = 0.1

// fuseAccum gathers one document's state across all source groups.
type fuseAccum struct {
	id            string
	totalRRF      float64
	contributions map[source.Source]float64
	sources       []source.Source
	similarities  []float64
	maxSimilarity float64
	bestHit       hit.Hit
}

// fuseRRF merges per-field hit lists into one ranked list via
// reciprocal rank fusion with a source-diversity bonus.
//
// Per source group, hits are ranked by similarity descending (stable,
// so arrival order breaks ties) and each contributes 1/(rrfK + rank).
// A document the broadened pass re-surfaces via a field that already
// found it counts once per field, at its best rank.
// final_score = sum of contributions * (1 + (source_count-1)*0.1).
// Empty input yields an empty output, which is a valid result.
func fuseRRF(hits []hit.Hit, topK, rrfK int) []fused.Result {
	if len(hits) == 0 {
		return nil
	}
	if rrfK <= 0 {
		rrfK = defaultRRFK
	}

	groups := groupBySource(hits)

	// Accumulate in first-seen order so map iteration never leaks into
	// the final ordering.
	accums := make(map[string]*fuseAccum)
	var order []string

	for _, src := range source.All() {
		group := groups[src]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Similarity() > group[j].Similarity()
		})

		rank := 0
		counted := make(map[string]bool, len(group))
		for _, h := range group {
			if counted[h.ID()] {
				continue
			}
			counted[h.ID()] = true

			contribution := 1.0 / float64(rrfK+rank+1)
			rank++

			acc, ok := accums[h.ID()]
			if !ok {
				acc = &fuseAccum{
					id:            h.ID(),
					contributions: make(map[source.Source]float64),
					bestHit:       h,
				}
				accums[h.ID()] = acc
				order = append(order, h.ID())
			}

			acc.totalRRF += contribution
			if _, seen := acc.contributions[src]; !seen {
				acc.sources = append(acc.sources, src)
			}
			acc.contributions[src] += contribution
			acc.similarities = append(acc.similarities, h.Similarity())
			if h.Similarity() > acc.maxSimilarity {
				acc.maxSimilarity = h.Similarity()
				acc.bestHit = h
			}
		}
	}

	results := make([]fused.Result, 0, len(order))
	for _, id := range order {
		acc := accums[id]

		sourceCount := len(acc.sources)
		diversityWeight := 1 + float64(sourceCount-1)*diversityStep
		finalScore := acc.totalRRF * diversityWeight

		var sum float64
		for _, sim := range acc.similarities {
			sum += sim
		}
		avgSimilarity := sum / float64(len(acc.similarities))

		results = append(results, fused.New(
			id, finalScore, sourceCount,
			acc.maxSimilarity, avgSimilarity,
			acc.sources, acc.contributions,
			acc.bestHit.Payload(),
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore() > results[j].FinalScore()
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results
}

// groupBySource splits hits into per-field groups, preserving arrival order.
func groupBySource(hits []hit.Hit) map[source.Source][]hit.Hit {
	groups := make(map[source.Source][]hit.Hit, 3)
	for _, h := range hits {
		groups[h.Source()] = append(groups[h.Source()], h)
	}
	return groups
}
