// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// openAlexAPIBase is the OpenAlex Works search endpoint. Declared as a var
// so tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlex searches scholarly works. Email, when set, is sent as the mailto
// parameter for polite-pool access.
type OpenAlex struct {
	Client *http.Client
	Email  string
}

// Config returns the static descriptor for this source.
func (o *OpenAlex) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceOpenAlex,
		Name:     "OpenAlex",
		Category: types.CategoryResearch,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the Works endpoint.
func (o *OpenAlex) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 200)

	params := url.Values{
		"search":   {query},
		"per_page": {fmt.Sprintf("%d", limit)},
		"page":     {"1"},
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	var oar openAlexResponse
	if err := getJSON(ctx, o.Client, openAlexAPIBase+"?"+params.Encode(), nil, &oar); err != nil {
		return nil, fmt.Errorf("openalex search: %w", err)
	}

	cfg := o.Config()
	total := len(oar.Results)
	var results []types.Result
	for i, work := range oar.Results {
		link := work.DOI
		if link == "" {
			link = work.ID
		}
		r := newResult(cfg, work.Title, reconstructAbstract(work.AbstractInvertedIndex), link)
		if work.PublicationDate != "" {
			if t, err := time.Parse("2006-01-02", work.PublicationDate); err == nil {
				r.Timestamp = t
			}
		}
		r.SetScore(positionScore(i, total))
		meta := map[string]any{"citations": work.CitedByCount}
		if work.DOI != "" {
			meta["doi"] = strings.TrimPrefix(work.DOI, "https://doi.org/")
		}
		r.Metadata = meta
		results = append(results, r)
	}
	return results, nil
}

// reconstructAbstract rebuilds abstract text from OpenAlex's inverted index
// (word → list of positions).
func reconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}
	type posWord struct {
		pos  int
		word string
	}
	var words []posWord
	for word, positions := range index {
		for _, p := range positions {
			words = append(words, posWord{pos: p, word: word})
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].pos < words[j].pos })

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.word
	}
	return strings.Join(parts, " ")
}

type openAlexResponse struct {
	Results []struct {
		ID                    string           `json:"id"`
		Title                 string           `json:"title"`
		DOI                   string           `json:"doi"`
		PublicationDate       string           `json:"publication_date"`
		CitedByCount          int              `json:"cited_by_count"`
		AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	} `json:"results"`
}
