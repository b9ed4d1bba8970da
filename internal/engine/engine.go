// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine wires the classifier, source registry, fan-out pipeline,
// cache, history and suggestion engine into the search API the CLI calls.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/internal/cache"
	"github.com/Q2x38b/indexio/internal/history"
	"github.com/Q2x38b/indexio/internal/intent"
	"github.com/Q2x38b/indexio/internal/pipeline"
	"github.com/Q2x38b/indexio/internal/sources"
	"github.com/Q2x38b/indexio/internal/suggest"
	"github.com/Q2x38b/indexio/pkg/types"
)

// SearchOptions selects what one Search call queries and how.
type SearchOptions struct {
	// Query is the raw user query. Required.
	Query string

	// Sources restricts the fan-out to these source IDs. Takes precedence
	// over Categories.
	Sources []types.SourceID

	// Categories restricts the fan-out to sources in these categories.
	Categories []types.Category

	// Limit caps the returned results. Zero means the configured default.
	Limit int

	// UseRemote routes intent classification through the remote model when
	// one is configured.
	UseRemote bool

	// Semantic enables embedding-based re-ranking, falling back to lexical
	// re-ranking when no embedder is configured.
	Semantic bool

	// NoCache bypasses the response cache for this call.
	NoCache bool
}

// SearchResponse is the outcome of one Search call.
type SearchResponse struct {
	Query            string            `json:"query" yaml:"query"`
	Intent           types.QueryIntent `json:"intent" yaml:"intent"`
	Results          []types.Result    `json:"results" yaml:"results"`
	SourcesQueried   int               `json:"sources_queried" yaml:"sources_queried"`
	SourcesSucceeded int               `json:"sources_succeeded" yaml:"sources_succeeded"`
	Elapsed          time.Duration     `json:"elapsed" yaml:"elapsed"`
	Cached           bool              `json:"cached" yaml:"cached"`
}

// registry is the slice of sources.Registry the engine depends on.
type registry interface {
	Get(id types.SourceID) (sources.Adapter, error)
	Enabled() []sources.Adapter
	ByCategory(cats ...types.Category) []sources.Adapter
	List(category types.Category) []types.SourceConfig
}

// Suggester produces query suggestions. Satisfied by both the rule-based
// and the model-augmented engines.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) []types.Suggestion
}

// Engine is the top-level search orchestrator.
type Engine struct {
	cfg             types.EngineConfig
	registry        registry
	local           intent.Classifier
	remote          intent.Classifier
	embedder        pipeline.Embedder
	cache           *cache.Cache
	history         *history.Store
	suggester       Suggester
	remoteSuggester Suggester
	logger          *slog.Logger
}

// New builds an Engine from config and provider credentials. The remote
// classifier, embedder and history store are all optional; construction
// failures of optional parts degrade to the local path with a warning
// instead of failing the engine.
func New(cfg types.EngineConfig, keys sources.Keys, aiAPIKey string) (*Engine, error) {
	cfg = cfg.Defaults()
	if aiAPIKey != "" {
		cfg.AI.APIKey = aiAPIKey
	}
	logger := slog.Default().With("component", "engine")

	e := &Engine{
		cfg:      cfg,
		registry: sources.NewRegistry(cfg.Search, keys),
		local:    intent.Local{},
		cache:    cache.New(cfg.Search.CacheSize, cfg.Search.CacheTTL),
		logger:   logger,
	}

	if cfg.AI.ClassifierHost != "" {
		remote, err := intent.NewRemote(cfg.AI, e.local)
		if err != nil {
			logger.Warn("remote classifier unavailable, using local only", "err", err)
		} else {
			e.remote = remote
		}
	}
	if cfg.AI.EmbeddingHost != "" {
		emb, err := pipeline.NewOpenAIEmbedder(cfg.AI)
		if err != nil {
			logger.Warn("embedder unavailable, semantic re-ranking disabled", "err", err)
		} else {
			e.embedder = emb
		}
	}
	if cfg.History.Path != "" {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			logger.Warn("history store unavailable, trending disabled", "err", err)
		} else {
			e.history = store
		}
	}

	base := suggest.NewEngine(e.local, trenderOrNil(e.history), cfg.Suggest)
	e.suggester = base
	if cfg.AI.ClassifierHost != "" {
		remote, err := suggest.NewRemote(cfg.AI, base)
		if err != nil {
			logger.Warn("remote suggester unavailable, using rule-based only", "err", err)
		} else {
			e.remoteSuggester = remote
		}
	}

	return e, nil
}

// trenderOrNil avoids storing a typed-nil *history.Store in the interface.
func trenderOrNil(s *history.Store) suggest.Trender {
	if s == nil {
		return nil
	}
	return s
}

// Close releases held resources.
func (e *Engine) Close() error {
	if e.history != nil {
		return e.history.Close()
	}
	return nil
}

// Search runs the full pipeline: classify, fan out, merge, rank, diversify,
// truncate. Caller errors (empty query, unknown source) are reported before
// any adapter is invoked; source failures never surface as errors.
func (e *Engine) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	start := time.Now()

	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.Search.MaxResults
	}

	adapters, err := e.selectAdapters(opts)
	if err != nil {
		return nil, err
	}

	qi := e.classify(ctx, query, opts.UseRemote)

	key := cache.Key(query, opts.Sources, opts.Categories, limit, opts.Semantic, opts.UseRemote)
	if !opts.NoCache {
		if hit, ok := e.cache.Get(key); ok {
			e.logger.Debug("cache hit", "query", query)
			return &SearchResponse{
				Query:            query,
				Intent:           hit.Intent,
				Results:          truncate(hit.Results, limit),
				SourcesQueried:   hit.SourcesQueried,
				SourcesSucceeded: hit.SourcesSucceeded,
				Elapsed:          time.Since(start),
				Cached:           true,
			}, nil
		}
	}

	// No explicit source or category filter: fan out to the sources the
	// intent recommends, falling back to everything enabled.
	if len(opts.Sources) == 0 && len(opts.Categories) == 0 {
		if rec := e.recommended(qi); len(rec) > 0 {
			adapters = rec
		}
	}

	fan := pipeline.SearchAll(ctx, adapters, query,
		e.cfg.Search.PerSourceTimeout, limit, e.cfg.Search.OverfetchFactor)

	ranked := pipeline.Rank(fan.Results, qi)
	if opts.Semantic {
		if e.embedder != nil {
			ranked = pipeline.SemanticRerank(ctx, e.embedder, query, ranked, e.cfg.AI.RerankDepth, e.cfg.AI.Timeout)
		} else {
			ranked = pipeline.LexicalRerank(query, ranked)
		}
	}
	final := pipeline.Diversify(ranked, e.cfg.Search.MaxPerSource)

	if !opts.NoCache {
		e.cache.Put(key, cache.Entry{
			Results:          final,
			Intent:           qi,
			SourcesQueried:   fan.SourcesQueried,
			SourcesSucceeded: fan.SourcesSucceeded,
		})
	}
	e.record(ctx, query, qi.Type, len(final))

	return &SearchResponse{
		Query:            query,
		Intent:           qi,
		Results:          truncate(final, limit),
		SourcesQueried:   fan.SourcesQueried,
		SourcesSucceeded: fan.SourcesSucceeded,
		Elapsed:          time.Since(start),
	}, nil
}

// ClassifyIntent exposes classification on its own.
func (e *Engine) ClassifyIntent(ctx context.Context, query string, useRemote bool) (types.QueryIntent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.QueryIntent{}, fmt.Errorf("query is empty")
	}
	return e.classify(ctx, query, useRemote), nil
}

// Suggest returns suggestions for a partial (possibly empty) query. With
// useRemote set it routes through the model-augmented suggester when one is
// configured, falling back to the rule-based engine otherwise.
func (e *Engine) Suggest(ctx context.Context, query string, limit int, useRemote bool) []types.Suggestion {
	if useRemote && e.remoteSuggester != nil {
		return e.remoteSuggester.Suggest(ctx, query, limit)
	}
	return e.suggester.Suggest(ctx, query, limit)
}

// ListSources returns source descriptors, optionally filtered by category.
func (e *Engine) ListSources(category types.Category) []types.SourceConfig {
	return e.registry.List(category)
}

// SearchOneSource queries a single source directly, skipping merge and rank.
func (e *Engine) SearchOneSource(ctx context.Context, id types.SourceID, query string, limit int) ([]types.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	a, err := e.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = e.cfg.Search.MaxResults
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Search.PerSourceTimeout)
	defer cancel()
	return a.Search(ctx, query, limit)
}

// Trending surfaces the most frequent recent queries, empty without a
// history store.
func (e *Engine) Trending(ctx context.Context, limit int) ([]history.TrendingQuery, error) {
	if e.history == nil {
		return nil, nil
	}
	return e.history.Trending(ctx, e.cfg.Suggest.TrendingWindow, limit)
}

func (e *Engine) classify(ctx context.Context, query string, useRemote bool) types.QueryIntent {
	if useRemote && e.remote != nil {
		return e.remote.Classify(ctx, query)
	}
	return e.local.Classify(ctx, query)
}

// selectAdapters validates explicit source and category filters. Unknown
// names are caller errors.
func (e *Engine) selectAdapters(opts SearchOptions) ([]sources.Adapter, error) {
	if len(opts.Sources) > 0 {
		var out []sources.Adapter
		for _, id := range opts.Sources {
			a, err := e.registry.Get(id)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
		return out, nil
	}
	if len(opts.Categories) > 0 {
		valid := make(map[types.Category]bool, len(types.Categories)+1)
		valid[types.CategoryAll] = true
		for _, c := range types.Categories {
			valid[c] = true
		}
		for _, c := range opts.Categories {
			if !valid[c] {
				return nil, fmt.Errorf("unknown category %q", c)
			}
		}
		return e.registry.ByCategory(opts.Categories...), nil
	}
	return e.registry.Enabled(), nil
}

// recommended maps the intent's recommended source list onto enabled
// adapters, silently skipping any that are disabled.
func (e *Engine) recommended(qi types.QueryIntent) []sources.Adapter {
	var out []sources.Adapter
	for _, id := range qi.Sources {
		if a, err := e.registry.Get(id); err == nil {
			out = append(out, a)
		}
	}
	return out
}

// record logs the search to history, best effort.
func (e *Engine) record(ctx context.Context, query string, t types.IntentType, n int) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, query, t, n); err != nil {
		e.logger.Debug("history record failed", "err", err)
	}
}

func truncate(rs []types.Result, limit int) []types.Result {
	if limit > 0 && len(rs) > limit {
		return rs[:limit]
	}
	return rs
}
