// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv searches arXiv preprints via the Atom API.
type Arxiv struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (a *Arxiv) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceArxiv,
		Name:     "arXiv",
		Category: types.CategoryResearch,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
		// arXiv asks for no more than one request every three seconds.
		RateLimit: 0.3,
	}
}

// Search queries the arXiv API, relevance-sorted.
func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 50)

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arxiv response: %w", err)
	}

	cfg := a.Config()
	total := len(feed.Entries)
	var results []types.Result
	for i, entry := range feed.Entries {
		r := newResult(cfg, entry.Title, entry.Summary, strings.TrimSpace(entry.ID))
		if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
			r.Timestamp = t
		}
		r.SetScore(positionScore(i, total))
		var authors []string
		for _, au := range entry.Authors {
			authors = append(authors, strings.TrimSpace(au.Name))
		}
		r.Metadata = map[string]any{"authors": authors}
		results = append(results, r)
	}
	return results, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
