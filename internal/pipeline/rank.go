// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Composite-score weights. Empirically chosen in the scoring design; kept as
// named constants rather than retuned.
const (
	weightBase       = 0.4
	weightTrust      = 0.2
	weightAffinity   = 0.3
	weightConfidence = 0.1

	// defaultSignal substitutes for any missing base score, unlisted trust
	// or unlisted affinity.
	defaultSignal = 0.5
)

// sourceTrust is the static per-source authority table. Sources absent from
// the table score the explicit default; the fallback branch is tested, not
// accidental.
var sourceTrust = map[types.SourceID]float64{
	types.SourceWikipedia:     0.9,
	types.SourceDuckDuckGo:    0.65,
	types.SourceGitHub:        0.85,
	types.SourceStackOverflow: 0.8,
	types.SourceNPM:           0.75,
	types.SourceCrates:        0.75,
	types.SourceHackerNews:    0.7,
	types.SourceReddit:        0.6,
	types.SourceNVD:           0.95,
	types.SourceCrtSh:         0.8,
	types.SourceURLScan:       0.75,
	types.SourceIPAPI:         0.8,
	types.SourceArxiv:         0.9,
	types.SourceOpenAlex:      0.85,
	types.SourceCrossref:      0.9,
}

// intentAffinity maps (intent, source) to how well that source typically
// answers that intent. Missing pairs fall back to defaultSourceRelevance,
// then to defaultSignal.
var intentAffinity = map[types.IntentType]map[types.SourceID]float64{
	types.IntentSecurity: {
		types.SourceNVD:        1.0,
		types.SourceGitHub:     0.7,
		types.SourceHackerNews: 0.6,
		types.SourceDuckDuckGo: 0.5,
		types.SourceReddit:     0.4,
	},
	types.IntentTech: {
		types.SourceStackOverflow: 1.0,
		types.SourceGitHub:        0.95,
		types.SourceNPM:           0.85,
		types.SourceCrates:        0.85,
		types.SourceHackerNews:    0.7,
		types.SourceWikipedia:     0.5,
	},
	types.IntentResearch: {
		types.SourceArxiv:     1.0,
		types.SourceOpenAlex:  0.95,
		types.SourceCrossref:  0.9,
		types.SourceWikipedia: 0.6,
	},
	types.IntentDOI: {
		types.SourceCrossref: 1.0,
		types.SourceOpenAlex: 0.9,
		types.SourceArxiv:    0.8,
	},
	types.IntentIP: {
		types.SourceIPAPI:   1.0,
		types.SourceURLScan: 0.7,
		types.SourceCrtSh:   0.5,
	},
	types.IntentDomain: {
		types.SourceCrtSh:      1.0,
		types.SourceURLScan:    0.9,
		types.SourceIPAPI:      0.6,
		types.SourceDuckDuckGo: 0.5,
	},
	types.IntentUsername: {
		types.SourceGitHub:     0.9,
		types.SourceReddit:     0.8,
		types.SourceHackerNews: 0.7,
	},
	types.IntentPerson: {
		types.SourceWikipedia:  1.0,
		types.SourceDuckDuckGo: 0.7,
		types.SourceReddit:     0.5,
	},
	types.IntentCompany: {
		types.SourceWikipedia:  0.9,
		types.SourceDuckDuckGo: 0.7,
		types.SourceHackerNews: 0.7,
		types.SourceGitHub:     0.6,
	},
}

// defaultSourceRelevance is the per-source fallback when an intent has no
// affinity entry for a source.
var defaultSourceRelevance = map[types.SourceID]float64{
	types.SourceWikipedia:     0.7,
	types.SourceDuckDuckGo:    0.7,
	types.SourceGitHub:        0.6,
	types.SourceStackOverflow: 0.55,
	types.SourceNPM:           0.4,
	types.SourceCrates:        0.4,
	types.SourceHackerNews:    0.6,
	types.SourceReddit:        0.55,
	types.SourceNVD:           0.3,
	types.SourceCrtSh:         0.25,
	types.SourceURLScan:       0.25,
	types.SourceIPAPI:         0.2,
	types.SourceArxiv:         0.45,
	types.SourceOpenAlex:      0.45,
	types.SourceCrossref:      0.45,
}

// Recency bonus tiers, additive on top of the weighted sum.
const (
	bonusDay   = 0.1
	bonusWeek  = 0.05
	bonusMonth = 0.02
)

// Rank computes a composite relevance score for every result and returns the
// results sorted by it, descending. The output is a permutation of the
// input: nothing is created or dropped. Scores are clamped to 1.0; all terms
// are non-negative so no lower clamp is needed.
func Rank(results []types.Result, intent types.QueryIntent) []types.Result {
	ranked := make([]types.Result, len(results))
	copy(ranked, results)

	now := time.Now()
	for i := range ranked {
		score := weightBase*ranked[i].ScoreOrDefault(defaultSignal) +
			weightTrust*trustOf(ranked[i].Source) +
			weightAffinity*affinityOf(intent.Type, ranked[i].Source) +
			weightConfidence*intent.Confidence
		score += recencyBonus(ranked[i].Timestamp, now)
		if score > 1.0 {
			score = 1.0
		}
		ranked[i].SetScore(score)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Score > *ranked[j].Score
	})
	return ranked
}

func trustOf(id types.SourceID) float64 {
	if t, ok := sourceTrust[id]; ok {
		return t
	}
	return defaultSignal
}

func affinityOf(intent types.IntentType, id types.SourceID) float64 {
	if m, ok := intentAffinity[intent]; ok {
		if a, ok := m[id]; ok {
			return a
		}
	}
	if a, ok := defaultSourceRelevance[id]; ok {
		return a
	}
	return defaultSignal
}

// recencyBonus rewards fresh results. Missing timestamps earn nothing.
func recencyBonus(ts, now time.Time) float64 {
	if ts.IsZero() {
		return 0
	}
	age := now.Sub(ts)
	switch {
	case age < 24*time.Hour:
		return bonusDay
	case age < 7*24*time.Hour:
		return bonusWeek
	case age < 30*24*time.Hour:
		return bonusMonth
	default:
		return 0
	}
}
