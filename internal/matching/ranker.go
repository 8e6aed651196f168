package matching

import (
    "context"
    "sort"
)

// DefaultTopN caps a candidate list when no limit is configured; the product
// wants a short curated list, not an exhaustive sort of the whole pool.
const DefaultTopN = 10

// rankCandidates scores the user's vector against every candidate vector and
// returns the top-N in a deterministic order.
//
// The hard exclusions (same university, not self, no existing non-rejected
// match, gender constraints) happen in the repository query that produced
// candidates; this function is pure CPU over the surviving pool. Ordering is
// score descending with candidate ID ascending as the tie-break, so repeated
// calls over the same pool yield identical lists. The context is checked each
// iteration so a caller can abandon a large pool early; nothing here is ever
// persisted.
func rankCandidates(ctx context.Context, user *PreferenceVector, candidates []*PreferenceVector, topN int) ([]*ScoredCandidate, error) {
    if topN <= 0 {
        topN = DefaultTopN
    }

    scored := make([]*ScoredCandidate, 0, len(candidates))
    seen := make(map[int64]bool, len(candidates))

    for _, candidate := range candidates {
        if err := ctx.Err(); err != nil {
            return nil, err
        }
        if candidate.UserID == user.UserID || seen[candidate.UserID] {
            continue
        }
        seen[candidate.UserID] = true

        result := Score(user, candidate)
        scored = append(scored, &ScoredCandidate{
            UserID:    candidate.UserID,
            Score:     result.Total,
            Breakdown: result.Breakdown,
        })
    }

    sort.Slice(scored, func(i, j int) bool {
        if scored[i].Score != scored[j].Score {
            return scored[i].Score > scored[j].Score
        }
        return scored[i].UserID < scored[j].UserID
    })

    if len(scored) > topN {
        scored = scored[:topN]
    }
    return scored, nil
}
