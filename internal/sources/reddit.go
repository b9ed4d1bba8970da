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

// redditAPIBase is the Reddit search endpoint. Declared as a var so tests
// can substitute an httptest server.
var redditAPIBase = "https://www.reddit.com/search.json"

// Reddit searches Reddit posts via the public JSON listing.
type Reddit struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (rd *Reddit) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceReddit,
		Name:     "Reddit",
		Category: types.CategoryNews,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
		// Unauthenticated JSON listings are limited to ~1 req/s.
		RateLimit: 1,
	}
}

// Search queries the public search listing, relevance-sorted.
func (rd *Reddit) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":     {query},
		"sort":  {"relevance"},
		"limit": {fmt.Sprintf("%d", limit)},
	}

	var rr redditListing
	if err := getJSON(ctx, rd.Client, redditAPIBase+"?"+params.Encode(), nil, &rr); err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}

	cfg := rd.Config()
	total := len(rr.Data.Children)
	var results []types.Result
	for i, child := range rr.Data.Children {
		post := child.Data
		r := newResult(cfg, post.Title, post.Selftext, "https://www.reddit.com"+post.Permalink)
		if post.CreatedUTC > 0 {
			r.Timestamp = time.Unix(int64(post.CreatedUTC), 0).UTC()
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"subreddit": post.Subreddit,
			"score":     post.Score,
			"comments":  post.NumComments,
		}
		r.Favicon = "https://www.reddit.com/favicon.ico"
		results = append(results, r)
	}
	return results, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				Subreddit   string  `json:"subreddit"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}
