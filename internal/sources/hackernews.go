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

// hnAPIBase is the Algolia Hacker News search endpoint. Declared as a var so
// tests can substitute an httptest server.
var hnAPIBase = "https://hn.algolia.com/api/v1/search"

// HackerNews searches Hacker News stories via the Algolia API.
type HackerNews struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (h *HackerNews) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceHackerNews,
		Name:     "Hacker News",
		Category: types.CategoryNews,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the Algolia index, relevance-ordered.
func (h *HackerNews) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"query":       {query},
		"tags":        {"story"},
		"hitsPerPage": {fmt.Sprintf("%d", limit)},
	}

	var hr hnSearchResponse
	if err := getJSON(ctx, h.Client, hnAPIBase+"?"+params.Encode(), nil, &hr); err != nil {
		return nil, fmt.Errorf("hackernews search: %w", err)
	}

	cfg := h.Config()
	total := len(hr.Hits)
	var results []types.Result
	for i, hit := range hr.Hits {
		link := hit.URL
		if link == "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}
		r := newResult(cfg, hit.Title, hit.StoryText, link)
		if t, err := time.Parse(time.RFC3339, hit.CreatedAt); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"points":   hit.Points,
			"comments": hit.NumComments,
			"hn_url":   "https://news.ycombinator.com/item?id=" + hit.ObjectID,
		}
		r.Favicon = "https://news.ycombinator.com/favicon.ico"
		results = append(results, r)
	}
	return results, nil
}

type hnSearchResponse struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		StoryText   string `json:"story_text"`
		Points      int    `json:"points"`
		NumComments int    `json:"num_comments"`
		CreatedAt   string `json:"created_at"`
	} `json:"hits"`
}
