// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the indexio search pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Category groups sources by the kind of content they return.
type Category string

const (
	CategoryWeb      Category = "web"
	CategoryCode     Category = "code"
	CategoryOSINT    Category = "osint"
	CategoryResearch Category = "research"
	CategoryNews     Category = "news"
	CategoryAll      Category = "all"
)

// Categories lists every concrete category (excluding the "all" wildcard).
var Categories = []Category{CategoryWeb, CategoryCode, CategoryOSINT, CategoryResearch, CategoryNews}

// SourceID identifies one registered source adapter.
type SourceID string

const (
	SourceWikipedia     SourceID = "wikipedia"
	SourceDuckDuckGo    SourceID = "duckduckgo"
	SourceGitHub        SourceID = "github"
	SourceStackOverflow SourceID = "stackoverflow"
	SourceNPM           SourceID = "npm"
	SourceCrates        SourceID = "crates"
	SourceHackerNews    SourceID = "hackernews"
	SourceReddit        SourceID = "reddit"
	SourceNVD           SourceID = "nvd"
	SourceCrtSh         SourceID = "crtsh"
	SourceURLScan       SourceID = "urlscan"
	SourceIPAPI         SourceID = "ipapi"
	SourceArxiv         SourceID = "arxiv"
	SourceOpenAlex      SourceID = "openalex"
	SourceCrossref      SourceID = "crossref"
)

// MaxDescriptionLen bounds the description carried on a Result. Adapters
// truncate before handing results to the pipeline.
const MaxDescriptionLen = 300

// Result is the canonical search-result record produced by a source adapter
// and carried through merge, rank and diversify. Only Score is mutated after
// construction; every other field is set once by the adapter.
type Result struct {
	// ID is an opaque identifier generated per assembly. It is not stable
	// across requests.
	ID string `json:"id" yaml:"id"`

	// Title is the result title as reported by the source.
	Title string `json:"title" yaml:"title"`

	// Description is a summary or snippet, truncated to MaxDescriptionLen.
	Description string `json:"description" yaml:"description"`

	// URL is the absolute link to the result.
	URL string `json:"url" yaml:"url"`

	// Source identifies the adapter that produced this result.
	Source SourceID `json:"source" yaml:"source"`

	// Category is the content category, consistent with the source's config.
	Category Category `json:"category" yaml:"category"`

	// Timestamp is the source-reported publication or modification time.
	// Zero means the source reported none.
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Score starts as the source-reported relevance in [0,1] and ends as the
	// composite rank score. Nil means the source reported no relevance.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Metadata holds source-specific extras (stars, severity, points, tags).
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Favicon is an optional icon URL for presentation layers.
	Favicon string `json:"favicon,omitempty" yaml:"favicon,omitempty"`
}

// NewResultID returns a fresh opaque result identifier.
func NewResultID() string {
	return uuid.NewString()
}

// ScoreOrDefault returns the result's score, or def when the source
// reported none.
func (r *Result) ScoreOrDefault(def float64) float64 {
	if r.Score == nil {
		return def
	}
	return *r.Score
}

// SetScore replaces the result's score.
func (r *Result) SetScore(s float64) {
	r.Score = &s
}

// Truncate shortens s to at most max bytes, appending an ellipsis when it cuts.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
