// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Duplicate-detection thresholds. Empirically chosen; kept as named
// constants rather than retuned.
const (
	// titleJaccardThreshold applies to same-source pairs.
	titleJaccardThreshold = 0.8

	// descJaccardThreshold applies to pairs with identical normalized titles.
	descJaccardThreshold = 0.6
)

// Merge combines per-source result lists into one, removing near-duplicate
// entries. It is deterministic given identical input order: results are
// processed in input order and each new result is compared against every
// already-accepted one (O(n²), acceptable because n is bounded by the sum of
// per-source limits). When a duplicate is found, the survivor is whichever
// of the pair has the higher score, ties broken by longer description.
//
// The merged list is sorted by score descending; at equal score, results
// with a newer timestamp come first and untimestamped results sort last.
func Merge(lists [][]types.Result) []types.Result {
	var accepted []types.Result
	for _, list := range lists {
		for _, r := range list {
			idx := -1
			for i := range accepted {
				if areDuplicates(&accepted[i], &r) {
					idx = i
					break
				}
			}
			if idx < 0 {
				accepted = append(accepted, r)
				continue
			}
			if prefer(&r, &accepted[idx]) {
				accepted[idx] = r
			}
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		si, sj := accepted[i].ScoreOrDefault(0), accepted[j].ScoreOrDefault(0)
		if si != sj {
			return si > sj
		}
		ti, tj := accepted[i].Timestamp, accepted[j].Timestamp
		if ti.IsZero() != tj.IsZero() {
			return !ti.IsZero()
		}
		return ti.After(tj)
	})
	return accepted
}

// areDuplicates reports whether a and b describe the same underlying item.
func areDuplicates(a, b *types.Result) bool {
	if normalizeURL(a.URL) == normalizeURL(b.URL) {
		return true
	}
	if a.Source == b.Source && jaccard(a.Title, b.Title) > titleJaccardThreshold {
		return true
	}
	if normalizeTitle(a.Title) == normalizeTitle(b.Title) && jaccard(a.Description, b.Description) > descJaccardThreshold {
		return true
	}
	return false
}

// prefer reports whether candidate should replace current as the surviving
// duplicate.
func prefer(candidate, current *types.Result) bool {
	cs, xs := candidate.ScoreOrDefault(0), current.ScoreOrDefault(0)
	if cs != xs {
		return cs > xs
	}
	return len(candidate.Description) > len(current.Description)
}

// normalizeURL strips the scheme, a leading "www.", and a trailing slash on
// the path, case-folding the host. The query string is kept: distinct query
// strings usually mean distinct pages.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	s := host + path
	if u.RawQuery != "" {
		s += "?" + u.RawQuery
	}
	return s
}

// normalizeTitle lowercases and collapses whitespace.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// jaccard computes token-set Jaccard similarity between two strings, where
// tokens are lowercase whitespace-split words.
func jaccard(a, b string) float64 {
	as, bs := tokenSet(a), tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for tok := range as {
		if bs[tok] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
