// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// cratesAPIBase is the crates.io search endpoint. Declared as a var so tests
// can substitute an httptest server.
var cratesAPIBase = "https://crates.io/api/v1/crates"

// Crates searches the Rust crates.io registry.
type Crates struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (c *Crates) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceCrates,
		Name:     "crates.io",
		Category: types.CategoryCode,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
		// crates.io asks for at most 1 req/s from unauthenticated crawlers.
		RateLimit: 1,
	}
}

// Search queries the crates.io search API.
func (c *Crates) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":        {query},
		"per_page": {fmt.Sprintf("%d", limit)},
	}

	var cr cratesSearchResponse
	if err := getJSON(ctx, c.Client, cratesAPIBase+"?"+params.Encode(), nil, &cr); err != nil {
		return nil, fmt.Errorf("crates search: %w", err)
	}

	cfg := c.Config()
	total := len(cr.Crates)
	var results []types.Result
	for i, crate := range cr.Crates {
		r := newResult(cfg, crate.Name, crate.Description,
			"https://crates.io/crates/"+url.PathEscape(crate.Name))
		if t, err := time.Parse(time.RFC3339, crate.UpdatedAt); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"downloads": crate.Downloads,
			"version":   crate.MaxVersion,
		}
		results = append(results, r)
	}
	return results, nil
}

type cratesSearchResponse struct {
	Crates []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Downloads   int64  `json:"downloads"`
		MaxVersion  string `json:"max_version"`
		UpdatedAt   string `json:"updated_at"`
	} `json:"crates"`
}
