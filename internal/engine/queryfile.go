// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Q2x38b/indexio/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. A
// saved search can be reloaded and re-displayed later without re-querying
// providers.
type QueryFile struct {
	Query   QueryParams       `yaml:"query"`
	Intent  types.QueryIntent `yaml:"intent"`
	Results []types.Result    `yaml:"results"`
	Summary QuerySummary      `yaml:"summary"`
}

// QueryParams stores the request shape in a serializable form.
type QueryParams struct {
	Text       string           `yaml:"text"`
	Sources    []types.SourceID `yaml:"sources,omitempty"`
	Categories []types.Category `yaml:"categories,omitempty"`
	Limit      int              `yaml:"limit"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total            int       `yaml:"total"`
	SourcesQueried   int       `yaml:"sources_queried"`
	SourcesSucceeded int       `yaml:"sources_succeeded"`
	Timestamp        time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search and its results to a YAML file.
func WriteQueryFile(path string, opts SearchOptions, resp *SearchResponse) error {
	qf := QueryFile{
		Query: QueryParams{
			Text:       resp.Query,
			Sources:    opts.Sources,
			Categories: opts.Categories,
			Limit:      opts.Limit,
		},
		Intent:  resp.Intent,
		Results: resp.Results,
		Summary: QuerySummary{
			Total:            len(resp.Results),
			SourcesQueried:   resp.SourcesQueried,
			SourcesSucceeded: resp.SourcesSucceeded,
			Timestamp:        time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Response reconstructs a SearchResponse from the saved file.
func (qf *QueryFile) Response() *SearchResponse {
	return &SearchResponse{
		Query:            qf.Query.Text,
		Intent:           qf.Intent,
		Results:          qf.Results,
		SourcesQueried:   qf.Summary.SourcesQueried,
		SourcesSucceeded: qf.Summary.SourcesSucceeded,
		Cached:           true,
	}
}
