// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/Q2x38b/indexio/pkg/types"

// Diversify caps per-source representation: it walks the ranked results in
// order and admits a result only while its source's counter is below
// maxPerSource (default 5 when <= 0). The output is an order-preserving
// subsequence of the input, so relative rank survives.
//
// The pass is greedy, not globally optimal: a result excluded for quota may
// outrank an admitted result from a rarer source further down. That is
// deliberate; the scoring is heuristic and the single pass keeps the policy
// predictable.
func Diversify(results []types.Result, maxPerSource int) []types.Result {
	if maxPerSource <= 0 {
		maxPerSource = 5
	}
	counts := make(map[types.SourceID]int)
	out := make([]types.Result, 0, len(results))
	for _, r := range results {
		if counts[r.Source] >= maxPerSource {
			continue
		}
		counts[r.Source]++
		out = append(out, r)
	}
	return out
}
