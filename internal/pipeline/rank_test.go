// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

func TestRankIsPermutation(t *testing.T) {
	in := []types.Result{
		mkResult(types.SourceReddit, "a", "https://example.org/a", 0.2),
		mkResult(types.SourceNVD, "b", "https://example.org/b", 0.9),
		mkResult(types.SourceWikipedia, "c", "https://example.org/c", 0.5),
	}
	got := Rank(in, types.QueryIntent{Type: types.IntentGeneral, Confidence: 0.5})
	if len(got) != len(in) {
		t.Fatalf("ranked length = %d, want %d", len(got), len(in))
	}
	seen := make(map[string]bool)
	for _, r := range got {
		seen[r.URL] = true
	}
	for _, r := range in {
		if !seen[r.URL] {
			t.Errorf("input result %s missing from ranked output", r.URL)
		}
	}
}

func TestRankSortedDescendingWithinBounds(t *testing.T) {
	in := []types.Result{
		mkResult(types.SourceReddit, "a", "https://example.org/a", 0.1),
		mkResult(types.SourceNVD, "b", "https://example.org/b", 1.0),
		mkResult(types.SourceGitHub, "c", "https://example.org/c", 0.6),
	}
	in[1].Timestamp = time.Now()

	got := Rank(in, types.QueryIntent{Type: types.IntentSecurity, Confidence: 0.98})
	for i := range got {
		s := got[i].ScoreOrDefault(-1)
		if s < 0 || s > 1.0 {
			t.Errorf("score %v out of [0,1]", s)
		}
		if i > 0 && s > got[i-1].ScoreOrDefault(-1) {
			t.Errorf("scores not descending at position %d", i)
		}
	}
}

func TestRankAffinityPullsMatchingSourceUp(t *testing.T) {
	so := mkResult(types.SourceStackOverflow, "goroutine leak", "https://stackoverflow.com/q/1", 0.5)
	ddg := mkResult(types.SourceDuckDuckGo, "goroutine leak", "https://example.org/blog", 0.5)

	got := Rank([]types.Result{ddg, so}, types.QueryIntent{Type: types.IntentTech, Confidence: 0.8})
	if got[0].Source != types.SourceStackOverflow {
		t.Errorf("top source = %s, want stackoverflow for a tech intent at equal base score", got[0].Source)
	}
}

func TestRankRecencyBonus(t *testing.T) {
	now := time.Now()
	fresh := mkResult(types.SourceHackerNews, "fresh", "https://example.org/fresh", 0.5)
	fresh.Timestamp = now.Add(-1 * time.Hour)
	stale := mkResult(types.SourceHackerNews, "stale", "https://example.org/stale", 0.5)
	stale.Timestamp = now.Add(-90 * 24 * time.Hour)

	got := Rank([]types.Result{stale, fresh}, types.QueryIntent{Type: types.IntentGeneral, Confidence: 0.5})
	if got[0].URL != fresh.URL {
		t.Errorf("top result = %s, want the fresh one", got[0].URL)
	}
	gap := got[0].ScoreOrDefault(0) - got[1].ScoreOrDefault(0)
	if diff := gap - bonusDay; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score gap = %v, want exactly the day bonus %v", gap, bonusDay)
	}
}

func TestRankMissingScoreUsesDefaultSignal(t *testing.T) {
	unscored := types.Result{ID: types.NewResultID(), Title: "x", URL: "https://example.org/x", Source: types.SourceWikipedia}
	scored := mkResult(types.SourceWikipedia, "y", "https://example.org/y", 0.5)

	got := Rank([]types.Result{unscored, scored}, types.QueryIntent{Type: types.IntentGeneral, Confidence: 0.5})
	if got[0].ScoreOrDefault(-1) != got[1].ScoreOrDefault(-2) {
		t.Errorf("nil score did not rank like an explicit 0.5: %v vs %v",
			got[0].ScoreOrDefault(-1), got[1].ScoreOrDefault(-2))
	}
}

func TestAffinityFallbacks(t *testing.T) {
	if a := affinityOf(types.IntentSecurity, types.SourceNVD); a != 1.0 {
		t.Errorf("security/nvd affinity = %v, want 1.0", a)
	}
	// Intent listed but source missing from its map: per-source default.
	if a := affinityOf(types.IntentSecurity, types.SourceArxiv); a != defaultSourceRelevance[types.SourceArxiv] {
		t.Errorf("security/arxiv affinity = %v, want per-source default %v", a, defaultSourceRelevance[types.SourceArxiv])
	}
	// Unknown source everywhere: global default.
	if a := affinityOf(types.IntentGeneral, types.SourceID("unknown")); a != defaultSignal {
		t.Errorf("unknown source affinity = %v, want %v", a, defaultSignal)
	}
	if tr := trustOf(types.SourceID("unknown")); tr != defaultSignal {
		t.Errorf("unknown source trust = %v, want %v", tr, defaultSignal)
	}
}
