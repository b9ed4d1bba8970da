// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Q2x38b/indexio/internal/history"
	"github.com/Q2x38b/indexio/internal/intent"
	"github.com/Q2x38b/indexio/pkg/types"
)

type fakeTrender struct {
	queries []history.TrendingQuery
	err     error
}

func (f *fakeTrender) Trending(ctx context.Context, window time.Duration, limit int) ([]history.TrendingQuery, error) {
	return f.queries, f.err
}

func newTestEngine(trender Trender) *Engine {
	return NewEngine(intent.Local{}, trender, types.SuggestConfig{MaxSuggestions: 8, TrendingWindow: 7 * 24 * time.Hour})
}

func TestSuggestEmptyQueryReturnsTrending(t *testing.T) {
	e := newTestEngine(&fakeTrender{queries: []history.TrendingQuery{
		{Query: "kubernetes networking", Count: 5},
		{Query: "rust async", Count: 3},
	}})

	got := e.Suggest(context.Background(), "", 8)
	if len(got) == 0 {
		t.Fatal("no suggestions for empty query")
	}
	if got[0].Kind != types.SuggestionTrending || got[0].Text != "kubernetes networking" {
		t.Errorf("top suggestion = %+v, want the most frequent trending query", got[0])
	}
	hasOperator := false
	for _, s := range got {
		if s.Kind == types.SuggestionOperator {
			hasOperator = true
		}
	}
	if !hasOperator {
		t.Error("empty query should include operator hints")
	}
}

func TestSuggestEmptyQueryNoTrender(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "", 8)
	for _, s := range got {
		if s.Kind == types.SuggestionTrending {
			t.Errorf("unexpected trending suggestion without a history store: %+v", s)
		}
	}
}

func TestSuggestCompletions(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "how goroutines", 8)

	found := false
	for _, s := range got {
		if s.Kind == types.SuggestionCompletion && strings.Contains(s.Text, "goroutines") {
			found = true
		}
	}
	if !found {
		t.Errorf("no completion produced for interrogative prefix, got %+v", got)
	}
}

func TestSuggestSecurityRefinements(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "CVE-2024-12345", 8)

	found := false
	for _, s := range got {
		if s.Kind == types.SuggestionRefinement && strings.HasSuffix(s.Text, " patch") {
			found = true
		}
	}
	if !found {
		t.Errorf("security query missing security refinements, got %+v", got)
	}
}

func TestSuggestRelatedUsesSynonyms(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "js frameworks", 8)

	found := false
	for _, s := range got {
		if s.Kind == types.SuggestionRelated && strings.Contains(s.Text, "javascript") {
			found = true
		}
	}
	if !found {
		t.Errorf("synonym expansion missing, got %+v", got)
	}
}

func TestSuggestRespectsLimitAndOrder(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "how does kubernetes networking", 3)
	if len(got) > 3 {
		t.Fatalf("limit not respected: %d suggestions", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Confidence > got[i-1].Confidence {
			t.Errorf("suggestions not ordered by confidence at %d", i)
		}
	}
}

func TestSuggestDedupes(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "how does docker work", 8)
	seen := make(map[string]bool)
	for _, s := range got {
		key := strings.ToLower(s.Text)
		if seen[key] {
			t.Errorf("duplicate suggestion %q", s.Text)
		}
		seen[key] = true
	}
}

func TestOperatorHintsSkippedWhenPresent(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Suggest(context.Background(), "source:github golang", 8)
	for _, s := range got {
		if s.Kind == types.SuggestionOperator {
			t.Errorf("operator hint emitted for a query that already filters: %+v", s)
		}
	}
}

func TestParseRemoteReply(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"plain json", `{"suggestions": ["a", "b"]}`, 2, false},
		{"fenced", "```json\n{\"suggestions\": [\"a\"]}\n```", 1, false},
		{"garbage", "not json", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRemoteReply(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got.Suggestions) != tt.want {
				t.Errorf("suggestions = %d, want %d", len(got.Suggestions), tt.want)
			}
		})
	}
}
