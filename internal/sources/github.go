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

// githubAPIBase is the GitHub search endpoint. Declared as a var so tests
// can substitute an httptest server.
var githubAPIBase = "https://api.github.com/search/repositories"

// GitHub searches public repositories. An optional token raises the rate
// limit from 10 to 30 searches per minute.
type GitHub struct {
	Client *http.Client
	Token  string
}

// Config returns the static descriptor for this source.
func (g *GitHub) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:        types.SourceGitHub,
		Name:      "GitHub",
		Category:  types.CategoryCode,
		Enabled:   true,
		Timeout:   defaultAdapterTimeout,
		RateLimit: 0.15,
	}
}

// Search queries the repository search API.
func (g *GitHub) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":        {query},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {fmt.Sprintf("%d", limit)},
	}

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if g.Token != "" {
		headers["Authorization"] = "Bearer " + g.Token
	}

	var gr githubSearchResponse
	if err := getJSON(ctx, g.Client, githubAPIBase+"?"+params.Encode(), headers, &gr); err != nil {
		return nil, fmt.Errorf("github search: %w", err)
	}

	cfg := g.Config()
	total := len(gr.Items)
	var results []types.Result
	for i, repo := range gr.Items {
		r := newResult(cfg, repo.FullName, repo.Description, repo.HTMLURL)
		if t, err := time.Parse(time.RFC3339, repo.UpdatedAt); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"stars":    repo.Stars,
			"forks":    repo.Forks,
			"language": repo.Language,
		}
		r.Favicon = "https://github.com/favicon.ico"
		results = append(results, r)
	}
	return results, nil
}

type githubSearchResponse struct {
	Items []struct {
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		HTMLURL     string `json:"html_url"`
		Stars       int    `json:"stargazers_count"`
		Forks       int    `json:"forks_count"`
		Language    string `json:"language"`
		UpdatedAt   string `json:"updated_at"`
	} `json:"items"`
}
