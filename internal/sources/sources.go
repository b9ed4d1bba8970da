// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources wraps every external data provider behind the uniform
// Adapter contract and registers them in a static registry built at startup.
// Adapters are pure I/O glue: they translate one vendor's response shape into
// the common Result record, tag it with their own source and category, and
// never treat "no results" as an error.
package sources

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Adapter searches a single external provider. Implementations must return
// an empty list (not an error) for ordinary no-result queries, but may
// return an error on hard transport failure; the orchestrator treats errors
// and timeouts identically.
type Adapter interface {
	Config() types.SourceConfig
	Search(ctx context.Context, query string, limit int) ([]types.Result, error)
}

const defaultAdapterTimeout = 5 * time.Second

// newResult assembles a Result with a fresh opaque ID, bounded description
// and the adapter's source/category tags.
func newResult(cfg types.SourceConfig, title, description, resultURL string) types.Result {
	return types.Result{
		ID:          types.NewResultID(),
		Title:       strings.TrimSpace(title),
		Description: types.Truncate(strings.TrimSpace(description), types.MaxDescriptionLen),
		URL:         resultURL,
		Source:      cfg.ID,
		Category:    cfg.Category,
	}
}

// positionScore derives a relevance score in [0.1, 1.0] from a result's rank
// within the provider's own ordering, for providers that report no score.
func positionScore(i, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(i)/float64(total-1)*0.9
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// stripTags removes HTML markup from snippet fields some providers return.
func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&#39;", "'")
	return s
}

// clampLimit bounds a caller-supplied limit to [1, max].
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}
