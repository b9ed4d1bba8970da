// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Q2x38b/indexio/internal/cache"
	"github.com/Q2x38b/indexio/internal/intent"
	"github.com/Q2x38b/indexio/internal/sources"
	"github.com/Q2x38b/indexio/internal/suggest"
	"github.com/Q2x38b/indexio/pkg/types"
)

type fakeAdapter struct {
	cfg     types.SourceConfig
	results []types.Result
	err     error
	calls   atomic.Int64
}

func (f *fakeAdapter) Config() types.SourceConfig { return f.cfg }

func (f *fakeAdapter) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	f.calls.Add(1)
	return f.results, f.err
}

type fakeRegistry struct {
	adapters map[types.SourceID]sources.Adapter
	order    []types.SourceID
}

func (r *fakeRegistry) Get(id types.SourceID) (sources.Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, errors.New("unknown or disabled source")
	}
	return a, nil
}

func (r *fakeRegistry) Enabled() []sources.Adapter {
	var out []sources.Adapter
	for _, id := range r.order {
		out = append(out, r.adapters[id])
	}
	return out
}

func (r *fakeRegistry) ByCategory(cats ...types.Category) []sources.Adapter {
	want := make(map[types.Category]bool)
	all := len(cats) == 0
	for _, c := range cats {
		if c == types.CategoryAll {
			all = true
		}
		want[c] = true
	}
	var out []sources.Adapter
	for _, id := range r.order {
		a := r.adapters[id]
		if all || want[a.Config().Category] {
			out = append(out, a)
		}
	}
	return out
}

func (r *fakeRegistry) List(category types.Category) []types.SourceConfig {
	var out []types.SourceConfig
	for _, id := range r.order {
		c := r.adapters[id].Config()
		if category == "" || category == types.CategoryAll || c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

func newFakeRegistry(adapters ...*fakeAdapter) *fakeRegistry {
	r := &fakeRegistry{adapters: make(map[types.SourceID]sources.Adapter)}
	for _, a := range adapters {
		r.adapters[a.cfg.ID] = a
		r.order = append(r.order, a.cfg.ID)
	}
	return r
}

func fakeSource(id types.SourceID, cat types.Category, results ...types.Result) *fakeAdapter {
	return &fakeAdapter{
		cfg:     types.SourceConfig{ID: id, Name: string(id), Category: cat, Enabled: true},
		results: results,
	}
}

func mkResult(source types.SourceID, title, url string, score float64) types.Result {
	r := types.Result{ID: types.NewResultID(), Title: title, URL: url, Source: source}
	r.SetScore(score)
	return r
}

func newTestEngine(reg registry) *Engine {
	cfg := types.EngineConfig{}.Defaults()
	e := &Engine{
		cfg:      cfg,
		registry: reg,
		local:    intent.Local{},
		cache:    cache.New(cfg.Search.CacheSize, cfg.Search.CacheTTL),
		logger:   slog.Default().With("component", "engine"),
	}
	e.suggester = suggest.NewEngine(e.local, nil, cfg.Suggest)
	return e
}

func TestSearchEmptyQueryIsCallerError(t *testing.T) {
	e := newTestEngine(newFakeRegistry())
	if _, err := e.Search(context.Background(), SearchOptions{Query: "   "}); err == nil {
		t.Error("expected an error for a blank query")
	}
}

func TestSearchUnknownSourceRejectedBeforeFanOut(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "a", "https://en.wikipedia.org/wiki/A", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))

	_, err := e.Search(context.Background(), SearchOptions{
		Query:   "anything",
		Sources: []types.SourceID{"bogus"},
	})
	if err == nil {
		t.Fatal("expected an error for an unknown source")
	}
	if wiki.calls.Load() != 0 {
		t.Error("adapters were invoked despite a caller error")
	}
}

func TestSearchUnknownCategoryRejected(t *testing.T) {
	e := newTestEngine(newFakeRegistry())
	_, err := e.Search(context.Background(), SearchOptions{
		Query:      "anything",
		Categories: []types.Category{"bogus"},
	})
	if err == nil {
		t.Error("expected an error for an unknown category")
	}
}

func TestSearchCVEQueryPrefersVulnerabilityDatabase(t *testing.T) {
	nvd := fakeSource(types.SourceNVD, types.CategoryOSINT,
		mkResult(types.SourceNVD, "CVE-2024-12345 detail", "https://nvd.nist.gov/vuln/detail/CVE-2024-12345", 0.9))
	hn := fakeSource(types.SourceHackerNews, types.CategoryNews,
		mkResult(types.SourceHackerNews, "CVE-2024-12345 discussed", "https://news.ycombinator.com/item?id=1", 0.9))
	e := newTestEngine(newFakeRegistry(nvd, hn))

	resp, err := e.Search(context.Background(), SearchOptions{Query: "CVE-2024-12345"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Intent.Type != types.IntentSecurity {
		t.Errorf("intent = %s, want security", resp.Intent.Type)
	}
	if len(resp.Results) == 0 {
		t.Fatal("no results")
	}
	if resp.Results[0].Source != types.SourceNVD {
		t.Errorf("top source = %s, want nvd for a security query", resp.Results[0].Source)
	}
}

func TestSearchIPQueryRoutesToGeolocation(t *testing.T) {
	ipapi := fakeSource(types.SourceIPAPI, types.CategoryOSINT,
		mkResult(types.SourceIPAPI, "203.0.113.5", "https://ip-api.com/203.0.113.5", 0.9))
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "IP address", "https://en.wikipedia.org/wiki/IP_address", 0.9))
	e := newTestEngine(newFakeRegistry(ipapi, wiki))

	resp, err := e.Search(context.Background(), SearchOptions{Query: "203.0.113.5"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Intent.Type != types.IntentIP {
		t.Errorf("intent = %s, want ip", resp.Intent.Type)
	}
	// Recommended sources for ip do not include wikipedia.
	if wiki.calls.Load() != 0 {
		t.Error("non-recommended source queried for an ip intent")
	}
	if ipapi.calls.Load() != 1 {
		t.Errorf("ipapi calls = %d, want 1", ipapi.calls.Load())
	}
}

func TestSearchExplicitSourcesOverrideIntentRouting(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "article", "https://en.wikipedia.org/wiki/A", 0.9))
	nvd := fakeSource(types.SourceNVD, types.CategoryOSINT,
		mkResult(types.SourceNVD, "cve", "https://nvd.nist.gov/v/1", 0.9))
	e := newTestEngine(newFakeRegistry(wiki, nvd))

	resp, err := e.Search(context.Background(), SearchOptions{
		Query:   "CVE-2024-12345",
		Sources: []types.SourceID{types.SourceWikipedia},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if nvd.calls.Load() != 0 {
		t.Error("source outside the explicit filter was queried")
	}
	if resp.SourcesQueried != 1 {
		t.Errorf("SourcesQueried = %d, want 1", resp.SourcesQueried)
	}
}

func TestSearchCacheHit(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "golang", "https://en.wikipedia.org/wiki/Go", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))
	ctx := context.Background()

	first, err := e.Search(ctx, SearchOptions{Query: "golang"})
	if err != nil {
		t.Fatalf("first Search: %v", err)
	}
	if first.Cached {
		t.Error("first response marked cached")
	}

	second, err := e.Search(ctx, SearchOptions{Query: "  GOLANG "})
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}
	if !second.Cached {
		t.Error("second identical search missed the cache")
	}
	if wiki.calls.Load() != 1 {
		t.Errorf("adapter calls = %d, want 1 (second search served from cache)", wiki.calls.Load())
	}
}

func TestSearchSemanticFlagMissesPlainCacheEntry(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "golang", "https://en.wikipedia.org/wiki/Go", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))
	ctx := context.Background()

	if _, err := e.Search(ctx, SearchOptions{Query: "golang"}); err != nil {
		t.Fatal(err)
	}
	resp, err := e.Search(ctx, SearchOptions{Query: "golang", Semantic: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("semantic search served from the non-semantic cache entry")
	}
	if wiki.calls.Load() != 2 {
		t.Errorf("adapter calls = %d, want 2 (re-ranked search must not alias the plain one)", wiki.calls.Load())
	}

	second, err := e.Search(ctx, SearchOptions{Query: "golang", Semantic: true})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("repeated semantic search missed its own cache entry")
	}
}

func TestSearchRemoteFlagMissesLocalCacheEntry(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "golang", "https://en.wikipedia.org/wiki/Go", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))
	ctx := context.Background()

	if _, err := e.Search(ctx, SearchOptions{Query: "golang"}); err != nil {
		t.Fatal(err)
	}
	resp, err := e.Search(ctx, SearchOptions{Query: "golang", UseRemote: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("remote-classified search served from the locally classified cache entry")
	}
}

func TestSearchNoCacheBypasses(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "golang", "https://en.wikipedia.org/wiki/Go", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))
	ctx := context.Background()

	if _, err := e.Search(ctx, SearchOptions{Query: "golang"}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Search(ctx, SearchOptions{Query: "golang", NoCache: true}); err != nil {
		t.Fatal(err)
	}
	if wiki.calls.Load() != 2 {
		t.Errorf("adapter calls = %d, want 2 with NoCache", wiki.calls.Load())
	}
}

func TestSearchLimitTruncates(t *testing.T) {
	var rs []types.Result
	for i := 0; i < 20; i++ {
		rs = append(rs, mkResult(types.SourceDuckDuckGo,
			fmt.Sprintf("hit %d", i), fmt.Sprintf("https://example.org/%d", i), 0.5))
	}
	// MaxPerSource defaults to 5, so spread across sources to exceed the limit.
	ddg := fakeSource(types.SourceDuckDuckGo, types.CategoryWeb, rs[:5]...)
	var rs2 []types.Result
	for i := 0; i < 5; i++ {
		rs2 = append(rs2, mkResult(types.SourceWikipedia,
			fmt.Sprintf("wiki %d", i), fmt.Sprintf("https://en.wikipedia.org/wiki/%d", i), 0.5))
	}
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb, rs2...)
	e := newTestEngine(newFakeRegistry(ddg, wiki))

	resp, err := e.Search(context.Background(), SearchOptions{
		Query:   "some general topic query",
		Sources: []types.SourceID{types.SourceDuckDuckGo, types.SourceWikipedia},
		Limit:   4,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 4 {
		t.Errorf("results = %d, want limit 4", len(resp.Results))
	}
}

func TestSearchTotalSourceFailureIsNotAnError(t *testing.T) {
	broken := fakeSource(types.SourceWikipedia, types.CategoryWeb)
	broken.err = errors.New("upstream down")
	e := newTestEngine(newFakeRegistry(broken))

	resp, err := e.Search(context.Background(), SearchOptions{
		Query:   "anything at all",
		Sources: []types.SourceID{types.SourceWikipedia},
	})
	if err != nil {
		t.Fatalf("Search returned an error for source failure: %v", err)
	}
	if len(resp.Results) != 0 || resp.SourcesSucceeded != 0 {
		t.Errorf("resp = %+v, want empty results and zero successes", resp)
	}
}

func TestClassifyIntent(t *testing.T) {
	e := newTestEngine(newFakeRegistry())
	qi, err := e.ClassifyIntent(context.Background(), "10.1000/xyz123", false)
	if err != nil {
		t.Fatalf("ClassifyIntent: %v", err)
	}
	if qi.Type != types.IntentDOI {
		t.Errorf("intent = %s, want doi", qi.Type)
	}
	if _, err := e.ClassifyIntent(context.Background(), "", false); err == nil {
		t.Error("expected an error for an empty query")
	}
}

func TestSearchOneSource(t *testing.T) {
	wiki := fakeSource(types.SourceWikipedia, types.CategoryWeb,
		mkResult(types.SourceWikipedia, "article", "https://en.wikipedia.org/wiki/A", 0.9))
	e := newTestEngine(newFakeRegistry(wiki))

	got, err := e.SearchOneSource(context.Background(), types.SourceWikipedia, "a", 5)
	if err != nil {
		t.Fatalf("SearchOneSource: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("results = %d, want 1", len(got))
	}
	if _, err := e.SearchOneSource(context.Background(), "bogus", "a", 5); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

type fakeSuggester struct {
	label string
	calls atomic.Int64
}

func (f *fakeSuggester) Suggest(ctx context.Context, query string, limit int) []types.Suggestion {
	f.calls.Add(1)
	return []types.Suggestion{{Text: f.label, Kind: types.SuggestionCompletion, Confidence: 1}}
}

func TestSuggestRemoteFlagSelectsPerCall(t *testing.T) {
	local := &fakeSuggester{label: "local"}
	remote := &fakeSuggester{label: "remote"}
	e := newTestEngine(newFakeRegistry())
	e.suggester = local
	e.remoteSuggester = remote

	got := e.Suggest(context.Background(), "golang", 5, false)
	if len(got) != 1 || got[0].Text != "local" {
		t.Errorf("suggestions without remote flag = %+v, want the rule-based engine's", got)
	}
	got = e.Suggest(context.Background(), "golang", 5, true)
	if len(got) != 1 || got[0].Text != "remote" {
		t.Errorf("suggestions with remote flag = %+v, want the model-augmented engine's", got)
	}
	if local.calls.Load() != 1 || remote.calls.Load() != 1 {
		t.Errorf("calls = local %d, remote %d, want one each", local.calls.Load(), remote.calls.Load())
	}
}

func TestSuggestRemoteFlagFallsBackWithoutRemoteSuggester(t *testing.T) {
	local := &fakeSuggester{label: "local"}
	e := newTestEngine(newFakeRegistry())
	e.suggester = local

	got := e.Suggest(context.Background(), "golang", 5, true)
	if len(got) != 1 || got[0].Text != "local" {
		t.Errorf("suggestions = %+v, want the rule-based engine's", got)
	}
}

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	opts := SearchOptions{Query: "golang", Sources: []types.SourceID{types.SourceWikipedia}, Limit: 5}
	resp := &SearchResponse{
		Query:            "golang",
		Intent:           types.QueryIntent{Type: types.IntentTech, Confidence: 0.8},
		Results:          []types.Result{mkResult(types.SourceWikipedia, "Go", "https://en.wikipedia.org/wiki/Go", 0.9)},
		SourcesQueried:   1,
		SourcesSucceeded: 1,
	}

	if err := WriteQueryFile(path, opts, resp); err != nil {
		t.Fatalf("WriteQueryFile: %v", err)
	}
	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatalf("ReadQueryFile: %v", err)
	}
	got := qf.Response()
	if got.Query != "golang" || !got.Cached {
		t.Errorf("reloaded response = %+v", got)
	}
	if len(got.Results) != 1 || got.Results[0].Title != "Go" {
		t.Errorf("reloaded results = %+v", got.Results)
	}
	if got.Intent.Type != types.IntentTech {
		t.Errorf("reloaded intent = %s, want tech", got.Intent.Type)
	}
}
