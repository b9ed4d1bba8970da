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

// urlscanAPIBase is the urlscan.io search endpoint. Declared as a var so
// tests can substitute an httptest server.
var urlscanAPIBase = "https://urlscan.io/api/v1/search/"

// URLScan searches public urlscan.io scan results. An API key raises quota
// but is not required for search.
type URLScan struct {
	Client *http.Client
	APIKey string
}

// Config returns the static descriptor for this source.
func (u *URLScan) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:        types.SourceURLScan,
		Name:      "urlscan.io",
		Category:  types.CategoryOSINT,
		Enabled:   true,
		Timeout:   defaultAdapterTimeout,
		RateLimit: 1,
	}
}

// Search queries the scan search API.
func (u *URLScan) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":    {query},
		"size": {fmt.Sprintf("%d", limit)},
	}

	var headers map[string]string
	if u.APIKey != "" {
		headers = map[string]string{"API-Key": u.APIKey}
	}

	var ur urlscanResponse
	if err := getJSON(ctx, u.Client, urlscanAPIBase+"?"+params.Encode(), headers, &ur); err != nil {
		return nil, fmt.Errorf("urlscan search: %w", err)
	}

	cfg := u.Config()
	total := len(ur.Results)
	var results []types.Result
	for i, hit := range ur.Results {
		title := hit.Page.Domain
		if title == "" {
			title = hit.Page.URL
		}
		desc := fmt.Sprintf("Scanned page %s", hit.Page.URL)
		if hit.Page.Server != "" {
			desc += " served by " + hit.Page.Server
		}
		r := newResult(cfg, title, desc, hit.Result)
		if t, err := time.Parse(time.RFC3339, hit.Task.Time); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"page_url": hit.Page.URL,
			"ip":       hit.Page.IP,
			"country":  hit.Page.Country,
		}
		results = append(results, r)
	}
	return results, nil
}

type urlscanResponse struct {
	Results []struct {
		Result string `json:"result"`
		Page   struct {
			URL     string `json:"url"`
			Domain  string `json:"domain"`
			IP      string `json:"ip"`
			Country string `json:"country"`
			Server  string `json:"server"`
		} `json:"page"`
		Task struct {
			Time string `json:"time"`
		} `json:"task"`
	} `json:"results"`
}
