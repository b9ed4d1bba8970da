// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Q2x38b/indexio/internal/sources"
	"github.com/Q2x38b/indexio/pkg/types"
)

type fakeAdapter struct {
	id      types.SourceID
	results []types.Result
	err     error
	panics  bool
	delay   time.Duration
}

func (f *fakeAdapter) Config() types.SourceConfig {
	return types.SourceConfig{ID: f.id, Name: string(f.id), Category: types.CategoryWeb, Enabled: true}
}

func (f *fakeAdapter) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

func mkResult(source types.SourceID, title, url string, score float64) types.Result {
	r := types.Result{
		ID:     types.NewResultID(),
		Title:  title,
		URL:    url,
		Source: source,
	}
	r.SetScore(score)
	return r
}

func TestSearchAllPartialFailure(t *testing.T) {
	adapters := []sources.Adapter{
		&fakeAdapter{id: types.SourceWikipedia, results: []types.Result{
			mkResult(types.SourceWikipedia, "Go language", "https://en.wikipedia.org/wiki/Go", 0.9),
		}},
		&fakeAdapter{id: types.SourceGitHub, err: errors.New("rate limited")},
		&fakeAdapter{id: types.SourceReddit, panics: true},
	}

	got := SearchAll(context.Background(), adapters, "go", time.Second, 10, 3)
	if got.SourcesQueried != 3 {
		t.Errorf("SourcesQueried = %d, want 3", got.SourcesQueried)
	}
	if got.SourcesSucceeded != 1 {
		t.Errorf("SourcesSucceeded = %d, want 1", got.SourcesSucceeded)
	}
	if len(got.Results) != 1 {
		t.Fatalf("Results = %d, want 1", len(got.Results))
	}
	if got.Results[0].Source != types.SourceWikipedia {
		t.Errorf("surviving source = %s, want wikipedia", got.Results[0].Source)
	}
}

func TestSearchAllTotalFailure(t *testing.T) {
	adapters := []sources.Adapter{
		&fakeAdapter{id: types.SourceWikipedia, err: errors.New("down")},
		&fakeAdapter{id: types.SourceGitHub, err: errors.New("down")},
	}

	got := SearchAll(context.Background(), adapters, "anything", time.Second, 10, 3)
	if got.SourcesSucceeded != 0 {
		t.Errorf("SourcesSucceeded = %d, want 0", got.SourcesSucceeded)
	}
	if len(got.Results) != 0 {
		t.Errorf("Results = %d, want 0", len(got.Results))
	}
}

func TestSearchAllSlowAdapterTimesOut(t *testing.T) {
	adapters := []sources.Adapter{
		&fakeAdapter{id: types.SourceWikipedia, delay: 500 * time.Millisecond, results: []types.Result{
			mkResult(types.SourceWikipedia, "never arrives", "https://example.org/slow", 0.9),
		}},
		&fakeAdapter{id: types.SourceGitHub, results: []types.Result{
			mkResult(types.SourceGitHub, "fast", "https://github.com/fast", 0.8),
		}},
	}

	got := SearchAll(context.Background(), adapters, "q", 50*time.Millisecond, 10, 3)
	if got.SourcesSucceeded != 1 {
		t.Errorf("SourcesSucceeded = %d, want 1", got.SourcesSucceeded)
	}
	if len(got.Results) != 1 || got.Results[0].Source != types.SourceGitHub {
		t.Errorf("expected only the fast adapter's result, got %+v", got.Results)
	}
}

func TestSearchAllOverfetchCap(t *testing.T) {
	var rs []types.Result
	for i := 0; i < 20; i++ {
		rs = append(rs, mkResult(types.SourceHackerNews, "item "+string(rune('a'+i)), "https://news.ycombinator.com/item?id="+string(rune('a'+i)), 0.5))
	}
	adapters := []sources.Adapter{&fakeAdapter{id: types.SourceHackerNews, results: rs}}

	got := SearchAll(context.Background(), adapters, "q", time.Second, 3, 2)
	if len(got.Results) != 6 {
		t.Errorf("Results = %d, want limit*overfetch = 6", len(got.Results))
	}
}

func TestSearchAllEmptyResultsNotCountedAsSuccess(t *testing.T) {
	adapters := []sources.Adapter{
		&fakeAdapter{id: types.SourceIPAPI},
		&fakeAdapter{id: types.SourceNVD, results: []types.Result{
			mkResult(types.SourceNVD, "CVE-2024-12345", "https://nvd.nist.gov/vuln/detail/CVE-2024-12345", 0.9),
		}},
	}

	got := SearchAll(context.Background(), adapters, "q", time.Second, 10, 3)
	if got.SourcesSucceeded != 1 {
		t.Errorf("SourcesSucceeded = %d, want 1 (empty result set is not a success)", got.SourcesSucceeded)
	}
}
