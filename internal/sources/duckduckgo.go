// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/Q2x38b/indexio/pkg/types"
)

// DuckDuckGo endpoints. Vars so tests can substitute httptest servers.
var (
	ddgInstantBase = "https://api.duckduckgo.com/"
	ddgHTMLBase    = "https://html.duckduckgo.com/html/"
)

// DuckDuckGo searches the DuckDuckGo instant-answer API, falling back to a
// best-effort scrape of the HTML results page when the API returns nothing.
// The scrape is a degraded mode: it is brittle by nature, so any parse
// shortfall yields fewer results, never an error.
type DuckDuckGo struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (d *DuckDuckGo) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceDuckDuckGo,
		Name:     "DuckDuckGo",
		Category: types.CategoryWeb,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
		// The HTML endpoint throttles aggressive clients.
		RateLimit: 1,
	}
}

// Search queries the instant-answer API and falls back to the HTML page.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 25)

	results, err := d.instant(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}
	return d.scrape(ctx, query, limit)
}

func (d *DuckDuckGo) instant(ctx context.Context, query string, limit int) ([]types.Result, error) {
	params := url.Values{
		"q":           {query},
		"format":      {"json"},
		"no_redirect": {"1"},
		"no_html":     {"1"},
	}

	var ir ddgInstantResponse
	if err := getJSON(ctx, d.Client, ddgInstantBase+"?"+params.Encode(), nil, &ir); err != nil {
		return nil, fmt.Errorf("duckduckgo instant answer: %w", err)
	}

	cfg := d.Config()
	var results []types.Result
	if ir.AbstractURL != "" && ir.Heading != "" {
		r := newResult(cfg, ir.Heading, ir.AbstractText, ir.AbstractURL)
		r.SetScore(0.9)
		results = append(results, r)
	}
	for _, topic := range ir.RelatedTopics {
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		title := topic.Text
		if idx := strings.Index(title, " - "); idx > 0 {
			title = title[:idx]
		}
		r := newResult(cfg, title, topic.Text, topic.FirstURL)
		r.SetScore(positionScore(len(results), limit))
		results = append(results, r)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// ddgAnchorRe matches result links on the HTML results page.
var ddgAnchorRe = regexp.MustCompile(`<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)

func (d *DuckDuckGo) scrape(ctx context.Context, query string, limit int) ([]types.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ddgHTMLBase+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo html returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading duckduckgo html: %w", err)
	}

	cfg := d.Config()
	matches := ddgAnchorRe.FindAllStringSubmatch(string(body), limit)
	var results []types.Result
	for i, m := range matches {
		link := decodeDDGRedirect(m[1])
		title := stripTags(m[2])
		if link == "" || title == "" {
			continue
		}
		r := newResult(cfg, title, "", link)
		r.SetScore(positionScore(i, len(matches)))
		results = append(results, r)
	}
	return results, nil
}

// decodeDDGRedirect unwraps the uddg redirect parameter the HTML page wraps
// result links in.
func decodeDDGRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + link
	}
	return link
}

type ddgInstantResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		FirstURL string `json:"FirstURL"`
		Text     string `json:"Text"`
	} `json:"RelatedTopics"`
}
