package search

import (
	"sort"
)

// Fuser merges per-sub-query result lists into one deduplicated,
// re-ranked list. Identity is the hit ID; when the same entity matches
// several sub-queries its highest raw score wins, and the coverage
// bonus rewards entities that matched more of the sub-queries.
type Fuser struct {
	coverageWeight   float64
	confidenceBase   float64
	confidenceWeight float64
}

// fusedHit accumulates state for one unique entity during fusion.
type fusedHit struct {
	id      string
	payload any
	score   float64
	matched map[string]struct{}
}

// NewFuser creates a fuser with the configured ranking parameters.
func NewFuser(cfg Config) *Fuser {
	return &Fuser{
		coverageWeight:   cfg.CoverageWeight,
		confidenceBase:   cfg.ConfidenceBase,
		confidenceWeight: cfg.ConfidenceWeight,
	}
}

// Fuse merges the keyed result lists into at most limit ranked results.
//
// The adjusted score is
//
//	score × (1 + coverage × coverageWeight) × (confidenceBase + confidence × confidenceWeight)
//
// where coverage is matchedSubQueries/totalSubQueries and confidence is
// the decomposition strategy's fixed confidence. Sub-query lists are
// consumed in decomposition order and the final sort is stable, so
// equal adjusted scores keep first-seen order and the whole pass is
// deterministic regardless of how the map was populated.
func (f *Fuser) Fuse(perSubQuery map[string][]Hit, decomposed DecomposedQuery, limit int) []RankedResult {
	total := len(decomposed.SubQueries)
	if total == 0 {
		return nil
	}

	byID := make(map[string]*fusedHit)
	var ordered []*fusedHit

	for _, sq := range decomposed.SubQueries {
		for _, hit := range perSubQuery[sq] {
			fh, ok := byID[hit.ID]
			if !ok {
				fh = &fusedHit{
					id:      hit.ID,
					payload: hit.Payload,
					score:   hit.Score,
					matched: make(map[string]struct{}, 1),
				}
				byID[hit.ID] = fh
				ordered = append(ordered, fh)
			} else if hit.Score > fh.score {
				fh.score = hit.Score
				fh.payload = hit.Payload
			}
			fh.matched[sq] = struct{}{}
		}
	}

	confidenceFactor := f.confidenceBase + decomposed.Confidence*f.confidenceWeight

	adjusted := make([]float64, len(ordered))
	for i, fh := range ordered {
		coverage := float64(len(fh.matched)) / float64(total)
		adjusted[i] = fh.score * (1 + coverage*f.coverageWeight) * confidenceFactor
	}

	idx := make([]int, len(ordered))
	for i := range idx {
		idx[i] = i
	}
	// Stable sort over insertion indices: ties keep first-seen order.
	sort.SliceStable(idx, func(a, b int) bool {
		return adjusted[idx[a]] > adjusted[idx[b]]
	})

	if limit > 0 && len(idx) > limit {
		idx = idx[:limit]
	}

	out := make([]RankedResult, len(idx))
	for i, j := range idx {
		out[i] = RankedResult{
			ID:      ordered[j].id,
			Payload: ordered[j].payload,
			Score:   adjusted[j],
		}
	}
	return out
}
