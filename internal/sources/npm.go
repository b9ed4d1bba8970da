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

// npmAPIBase is the npm registry search endpoint. Declared as a var so tests
// can substitute an httptest server.
var npmAPIBase = "https://registry.npmjs.org/-/v1/search"

// NPM searches the npm package registry. The registry reports a real
// relevance score in [0,1], which is carried through as the base score.
type NPM struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (n *NPM) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceNPM,
		Name:     "npm",
		Category: types.CategoryCode,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the registry search API.
func (n *NPM) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 250)

	params := url.Values{
		"text": {query},
		"size": {fmt.Sprintf("%d", limit)},
	}

	var nr npmSearchResponse
	if err := getJSON(ctx, n.Client, npmAPIBase+"?"+params.Encode(), nil, &nr); err != nil {
		return nil, fmt.Errorf("npm search: %w", err)
	}

	cfg := n.Config()
	var results []types.Result
	for _, obj := range nr.Objects {
		pkg := obj.Package
		link := pkg.Links.NPM
		if link == "" {
			link = "https://www.npmjs.com/package/" + url.PathEscape(pkg.Name)
		}
		r := newResult(cfg, pkg.Name, pkg.Description, link)
		if t, err := time.Parse(time.RFC3339, pkg.Date); err == nil {
			r.Timestamp = t
		}
		score := obj.Score.Final
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		r.SetScore(score)
		r.Metadata = map[string]any{
			"version":  pkg.Version,
			"keywords": pkg.Keywords,
		}
		results = append(results, r)
	}
	return results, nil
}

type npmSearchResponse struct {
	Objects []struct {
		Package struct {
			Name        string   `json:"name"`
			Version     string   `json:"version"`
			Description string   `json:"description"`
			Keywords    []string `json:"keywords"`
			Date        string   `json:"date"`
			Links       struct {
				NPM string `json:"npm"`
			} `json:"links"`
		} `json:"package"`
		Score struct {
			Final float64 `json:"final"`
		} `json:"score"`
	} `json:"objects"`
}
