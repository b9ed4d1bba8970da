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

// wikipediaAPIBase is the MediaWiki action API endpoint. Declared as a var
// so tests can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

// Wikipedia searches English Wikipedia articles.
type Wikipedia struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (w *Wikipedia) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceWikipedia,
		Name:     "Wikipedia",
		Category: types.CategoryWeb,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the MediaWiki search API.
func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 50)

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprintf("%d", limit)},
		"srprop":   {"snippet|timestamp"},
		"format":   {"json"},
	}

	var wr wikipediaResponse
	if err := getJSON(ctx, w.Client, wikipediaAPIBase+"?"+params.Encode(), nil, &wr); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	cfg := w.Config()
	total := len(wr.Query.Search)
	var results []types.Result
	for i, page := range wr.Query.Search {
		r := newResult(cfg, page.Title, stripTags(page.Snippet),
			"https://en.wikipedia.org/wiki/"+url.PathEscape(page.Title))
		if t, err := time.Parse(time.RFC3339, page.Timestamp); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Favicon = "https://en.wikipedia.org/favicon.ico"
		results = append(results, r)
	}
	return results, nil
}

type wikipediaResponse struct {
	Query struct {
		Search []struct {
			Title     string `json:"title"`
			Snippet   string `json:"snippet"`
			Timestamp string `json:"timestamp"`
		} `json:"search"`
	} `json:"query"`
}
