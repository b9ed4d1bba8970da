package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "indexio/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig is the static per-adapter descriptor. It is set at process
// start and never mutated afterwards.
type SourceConfig struct {
	// ID is the source identifier the adapter tags its results with.
	ID SourceID `json:"id" yaml:"id"`

	// Name is the human-readable source name.
	Name string `json:"name" yaml:"name"`

	// Category is the content category of everything this source returns.
	Category Category `json:"category" yaml:"category"`

	// Enabled controls whether the orchestrator may invoke this adapter.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Timeout is the per-invocation budget for this adapter. Zero means the
	// orchestrator default applies.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RateLimit is the maximum request rate in requests per second.
	// Zero means unlimited.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// SearchConfig holds settings for the fan-out and ranking stages.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results returned at the boundary
	// (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PerSourceTimeout bounds each adapter invocation (default 5s).
	PerSourceTimeout time.Duration `json:"per_source_timeout" yaml:"per_source_timeout"`

	// OverfetchFactor is the multiple of MaxResults the orchestrator keeps
	// before diversification (default 3).
	OverfetchFactor int `json:"overfetch_factor" yaml:"overfetch_factor"`

	// MaxPerSource caps how many results one source may contribute to the
	// final output (default 5).
	MaxPerSource int `json:"max_per_source" yaml:"max_per_source"`

	// CacheTTL is the lifetime of a cached search response (default 5m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// CacheSize is the maximum number of cached responses (default 256).
	CacheSize int `json:"cache_size" yaml:"cache_size"`

	// Disabled lists source IDs to exclude from the registry.
	Disabled []SourceID `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// AIConfig holds settings for the optional remote classification and
// embedding paths. Both point at OpenAI-compatible endpoints.
type AIConfig struct {
	// ClassifierHost is the base URL of the chat API used for remote intent
	// classification. Empty disables the remote path.
	ClassifierHost string `json:"classifier_host,omitempty" yaml:"classifier_host,omitempty"`

	// ClassifierModel is the chat model identifier.
	ClassifierModel string `json:"classifier_model,omitempty" yaml:"classifier_model,omitempty"`

	// EmbeddingHost is the base URL of the embeddings API used for semantic
	// re-ranking. Empty disables semantic re-ranking.
	EmbeddingHost string `json:"embedding_host,omitempty" yaml:"embedding_host,omitempty"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`

	// APIKey authenticates against both endpoints. Local services may not
	// require one.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds every remote AI call (default 3s). Expiry falls back
	// to the local path.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RerankDepth is how many head results semantic re-ranking rescores
	// (default 30).
	RerankDepth int `json:"rerank_depth" yaml:"rerank_depth"`
}

// SuggestConfig holds settings for the suggestion engine.
type SuggestConfig struct {
	// MaxSuggestions is the default suggestion limit (default 8).
	MaxSuggestions int `json:"max_suggestions" yaml:"max_suggestions"`

	// TrendingWindow is how far back the history store looks when computing
	// trending queries (default 7 days).
	TrendingWindow time.Duration `json:"trending_window" yaml:"trending_window"`
}

// HistoryConfig holds settings for the query-history store.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history (and with it
	// trending suggestions).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Suggest SuggestConfig `json:"suggest" yaml:"suggest"`
	History HistoryConfig `json:"history" yaml:"history"`
}

// Defaults fills zero fields with their documented default values and
// returns the config.
func (c EngineConfig) Defaults() EngineConfig {
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 10 * time.Second
	}
	if c.Search.UserAgent == "" {
		c.Search.UserAgent = "indexio/0.1"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 10
	}
	if c.Search.PerSourceTimeout <= 0 {
		c.Search.PerSourceTimeout = 5 * time.Second
	}
	if c.Search.OverfetchFactor <= 0 {
		c.Search.OverfetchFactor = 3
	}
	if c.Search.MaxPerSource <= 0 {
		c.Search.MaxPerSource = 5
	}
	if c.Search.CacheTTL <= 0 {
		c.Search.CacheTTL = 5 * time.Minute
	}
	if c.Search.CacheSize <= 0 {
		c.Search.CacheSize = 256
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 3 * time.Second
	}
	if c.AI.RerankDepth <= 0 {
		c.AI.RerankDepth = 30
	}
	if c.Suggest.MaxSuggestions <= 0 {
		c.Suggest.MaxSuggestions = 8
	}
	if c.Suggest.TrendingWindow <= 0 {
		c.Suggest.TrendingWindow = 7 * 24 * time.Hour
	}
	return c
}
