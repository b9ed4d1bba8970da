// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SuggestionKind tags how a suggestion was derived.
type SuggestionKind string

const (
	SuggestionCompletion SuggestionKind = "completion"
	SuggestionRelated    SuggestionKind = "related"
	SuggestionRefinement SuggestionKind = "refinement"
	SuggestionOperator   SuggestionKind = "operator"
	SuggestionTrending   SuggestionKind = "trending"
)

// Suggestion is one autocomplete or refinement candidate for a partial query.
type Suggestion struct {
	// Text is the suggested query text.
	Text string `json:"text" yaml:"text"`

	// Kind tags the derivation of the suggestion.
	Kind SuggestionKind `json:"kind" yaml:"kind"`

	// Confidence orders suggestions; it is a static per-rule value, not a
	// learned probability.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}
