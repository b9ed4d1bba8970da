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

// stackExchangeAPIBase is the Stack Exchange search endpoint. Declared as a
// var so tests can substitute an httptest server.
var stackExchangeAPIBase = "https://api.stackexchange.com/2.3/search/advanced"

// StackOverflow searches Stack Overflow questions.
type StackOverflow struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (s *StackOverflow) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceStackOverflow,
		Name:     "Stack Overflow",
		Category: types.CategoryCode,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
	}
}

// Search queries the Stack Exchange advanced-search API.
func (s *StackOverflow) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":        {query},
		"site":     {"stackoverflow"},
		"order":    {"desc"},
		"sort":     {"relevance"},
		"pagesize": {fmt.Sprintf("%d", limit)},
		"filter":   {"default"},
	}

	var sr stackExchangeResponse
	if err := getJSON(ctx, s.Client, stackExchangeAPIBase+"?"+params.Encode(), nil, &sr); err != nil {
		return nil, fmt.Errorf("stackoverflow search: %w", err)
	}

	cfg := s.Config()
	total := len(sr.Items)
	var results []types.Result
	for i, q := range sr.Items {
		r := newResult(cfg, stripTags(q.Title), "", q.Link)
		if q.CreationDate > 0 {
			r.Timestamp = time.Unix(q.CreationDate, 0).UTC()
		}
		r.SetScore(positionScore(i, total))
		r.Metadata = map[string]any{
			"score":       q.Score,
			"answers":     q.AnswerCount,
			"is_answered": q.IsAnswered,
			"tags":        q.Tags,
		}
		r.Favicon = "https://stackoverflow.com/favicon.ico"
		results = append(results, r)
	}
	return results, nil
}

type stackExchangeResponse struct {
	Items []struct {
		Title        string   `json:"title"`
		Link         string   `json:"link"`
		Score        int      `json:"score"`
		AnswerCount  int      `json:"answer_count"`
		IsAnswered   bool     `json:"is_answered"`
		Tags         []string `json:"tags"`
		CreationDate int64    `json:"creation_date"`
	} `json:"items"`
}
