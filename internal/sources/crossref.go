// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref searches DOI-registered works. A query that is itself a DOI
// resolves to the single matching record.
type Crossref struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (c *Crossref) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceCrossref,
		Name:     "Crossref",
		Category: types.CategoryResearch,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the works endpoint.
func (c *Crossref) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", limit)},
	}

	var cr crossrefResponse
	if err := getJSON(ctx, c.Client, crossrefAPIBase+"?"+params.Encode(), nil, &cr); err != nil {
		return nil, fmt.Errorf("crossref search: %w", err)
	}

	cfg := c.Config()
	total := len(cr.Message.Items)
	var results []types.Result
	for i, item := range cr.Message.Items {
		title := ""
		if len(item.Title) > 0 {
			title = item.Title[0]
		}
		if title == "" {
			continue
		}
		link := item.URL
		if link == "" && item.DOI != "" {
			link = "https://doi.org/" + item.DOI
		}
		r := newResult(cfg, title, strings.TrimSpace(stripTags(item.Abstract)), link)
		if t, ok := crossrefDate(item.Issued.DateParts); ok {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"doi":       item.DOI,
			"type":      item.Type,
			"publisher": item.Publisher,
		}
		results = append(results, r)
	}
	return results, nil
}

// crossrefDate converts Crossref's date-parts array ([year, month, day],
// possibly truncated) to a time.
func crossrefDate(parts [][]int) (time.Time, bool) {
	if len(parts) == 0 || len(parts[0]) == 0 {
		return time.Time{}, false
	}
	p := parts[0]
	year, month, day := p[0], 1, 1
	if len(p) > 1 {
		month = p[1]
	}
	if len(p) > 2 {
		day = p[2]
	}
	if year <= 0 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

type crossrefResponse struct {
	Message struct {
		Items []struct {
			DOI       string   `json:"DOI"`
			Title     []string `json:"title"`
			Abstract  string   `json:"abstract"`
			URL       string   `json:"URL"`
			Type      string   `json:"type"`
			Publisher string   `json:"publisher"`
			Issued    struct {
				DateParts [][]int `json:"date-parts"`
			} `json:"issued"`
		} `json:"items"`
	} `json:"message"`
}
