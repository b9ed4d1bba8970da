// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suggest generates query completions, refinements and related
// queries for partial input, plus trending queries when the input is empty.
package suggest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/internal/history"
	"github.com/Q2x38b/indexio/internal/intent"
	"github.com/Q2x38b/indexio/pkg/types"
)

// Trender supplies trending queries. Satisfied by *history.Store; nil
// disables trending suggestions.
type Trender interface {
	Trending(ctx context.Context, window time.Duration, limit int) ([]history.TrendingQuery, error)
}

// Static per-rule confidences. Ordering is what matters, not the values.
const (
	confTrending   = 0.9
	confCompletion = 0.8
	confRefinement = 0.7
	confRelated    = 0.6
	confOperator   = 0.4
)

// Engine produces suggestions for a (possibly empty) partial query.
type Engine struct {
	classifier intent.Classifier
	trender    Trender
	cfg        types.SuggestConfig
}

// NewEngine builds a suggestion engine. trender may be nil when no history
// store is configured.
func NewEngine(classifier intent.Classifier, trender Trender, cfg types.SuggestConfig) *Engine {
	if classifier == nil {
		classifier = intent.Local{}
	}
	return &Engine{classifier: classifier, trender: trender, cfg: cfg}
}

// Suggest returns at most limit suggestions for the partial query, ordered
// by confidence descending. An empty query yields trending queries and
// operator hints; a non-empty one yields completions, intent-driven
// refinements and synonym-expanded related queries.
func (e *Engine) Suggest(ctx context.Context, query string, limit int) []types.Suggestion {
	if limit <= 0 {
		limit = e.cfg.MaxSuggestions
	}
	if limit <= 0 {
		limit = 8
	}

	query = strings.TrimSpace(query)
	var out []types.Suggestion
	if query == "" {
		out = append(out, e.trending(ctx)...)
		out = append(out, operatorHints("")...)
	} else {
		out = append(out, completions(query)...)
		qi := e.classifier.Classify(ctx, query)
		out = append(out, refinements(query, qi.Type)...)
		out = append(out, related(query)...)
		out = append(out, operatorHints(query)...)
	}

	out = dedupe(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (e *Engine) trending(ctx context.Context) []types.Suggestion {
	if e.trender == nil {
		return nil
	}
	window := e.cfg.TrendingWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	tqs, err := e.trender.Trending(ctx, window, e.cfg.MaxSuggestions)
	if err != nil {
		return nil
	}
	out := make([]types.Suggestion, 0, len(tqs))
	for i, tq := range tqs {
		// Small rank-based decay keeps the history ordering.
		conf := confTrending - float64(i)*0.01
		out = append(out, types.Suggestion{Text: tq.Query, Kind: types.SuggestionTrending, Confidence: conf})
	}
	return out
}

// completionTemplates map a leading word to full query skeletons.
var completionTemplates = map[string][]string{
	"how":     {"how to %s", "how does %s work"},
	"what":    {"what is %s", "what does %s do"},
	"why":     {"why is %s", "why does %s"},
	"compare": {"compare %s alternatives"},
}

func completions(query string) []types.Suggestion {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) < 2 {
		return nil
	}
	templates, ok := completionTemplates[tokens[0]]
	if !ok {
		return nil
	}
	rest := strings.Join(tokens[1:], " ")
	// Drop interrogative scaffolding the user already typed.
	for _, filler := range []string{"to", "is", "does", "do"} {
		rest = strings.TrimPrefix(rest, filler+" ")
	}
	if rest == "" {
		return nil
	}
	var out []types.Suggestion
	for _, tmpl := range templates {
		text := strings.Replace(tmpl, "%s", rest, 1)
		if strings.EqualFold(text, query) {
			continue
		}
		out = append(out, types.Suggestion{Text: text, Kind: types.SuggestionCompletion, Confidence: confCompletion})
	}
	return out
}

// refinementSuffixes are intent-specific narrowing terms appended to the
// query.
var refinementSuffixes = map[types.IntentType][]string{
	types.IntentSecurity: {"exploit", "patch", "mitigation"},
	types.IntentTech:     {"example", "tutorial", "documentation"},
	types.IntentResearch: {"survey", "benchmark"},
	types.IntentPerson:   {"biography"},
	types.IntentCompany:  {"funding", "careers"},
	types.IntentDomain:   {"whois", "certificates"},
	types.IntentIP:       {"geolocation", "abuse reports"},
	types.IntentGeneral:  {"overview"},
}

func refinements(query string, t types.IntentType) []types.Suggestion {
	suffixes := refinementSuffixes[t]
	lower := strings.ToLower(query)
	var out []types.Suggestion
	for _, sfx := range suffixes {
		if strings.Contains(lower, sfx) {
			continue
		}
		out = append(out, types.Suggestion{
			Text:       query + " " + sfx,
			Kind:       types.SuggestionRefinement,
			Confidence: confRefinement,
		})
	}
	return out
}

// related rewrites the query through the synonym table; the original
// spelling is skipped.
func related(query string) []types.Suggestion {
	var out []types.Suggestion
	for i, variant := range intent.Expand(query) {
		if i == 0 {
			continue
		}
		out = append(out, types.Suggestion{Text: variant, Kind: types.SuggestionRelated, Confidence: confRelated})
	}
	return out
}

// operatorHints teach the source: and category: filters. For a non-empty
// query only source hints relevant to its recommended sources are emitted.
func operatorHints(query string) []types.Suggestion {
	if query == "" {
		return []types.Suggestion{
			{Text: "source:github <query>", Kind: types.SuggestionOperator, Confidence: confOperator},
			{Text: "category:code <query>", Kind: types.SuggestionOperator, Confidence: confOperator},
		}
	}
	if strings.Contains(query, "source:") || strings.Contains(query, "category:") {
		return nil
	}
	return []types.Suggestion{
		{Text: "source:wikipedia " + query, Kind: types.SuggestionOperator, Confidence: confOperator},
	}
}

func dedupe(in []types.Suggestion) []types.Suggestion {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		key := strings.ToLower(s.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
