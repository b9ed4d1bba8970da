// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/time/rate"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Keys holds the optional provider credentials the registry wires into
// adapters. Names match the secrets directory file names.
type Keys struct {
	GitHubToken   string
	NVDAPIKey     string
	URLScanAPIKey string
	OpenAlexEmail string
}

// Registry is the static adapter set, keyed by source identifier and built
// once at startup. It is read-only after construction and safe for
// concurrent use.
type Registry struct {
	adapters map[types.SourceID]Adapter
	order    []types.SourceID
}

// NewRegistry builds all adapters against the shared HTTP client, applies
// the disabled list from cfg, and wraps rate-limited sources in a proactive
// limiter.
func NewRegistry(cfg types.SearchConfig, keys Keys) *Registry {
	client := newHTTPClient(httpClientConfig{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
	})

	disabled := make(map[types.SourceID]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		disabled[id] = true
	}

	all := []Adapter{
		&Wikipedia{Client: client},
		&DuckDuckGo{Client: client},
		&GitHub{Client: client, Token: keys.GitHubToken},
		&StackOverflow{Client: client},
		&NPM{Client: client},
		&Crates{Client: client},
		&HackerNews{Client: client},
		&Reddit{Client: client},
		&NVD{Client: client, APIKey: keys.NVDAPIKey},
		&CrtSh{Client: client},
		&URLScan{Client: client, APIKey: keys.URLScanAPIKey},
		&IPAPI{Client: client},
		&Arxiv{Client: client},
		&OpenAlex{Client: client, Email: keys.OpenAlexEmail},
		&Crossref{Client: client},
	}

	r := &Registry{adapters: make(map[types.SourceID]Adapter, len(all))}
	for _, a := range all {
		c := a.Config()
		if disabled[c.ID] {
			continue
		}
		if c.RateLimit > 0 {
			a = &throttled{Adapter: a, limiter: rate.NewLimiter(rate.Limit(c.RateLimit), 1)}
		}
		r.adapters[c.ID] = a
		r.order = append(r.order, c.ID)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return r
}

// Get returns the adapter for id. Requesting an unknown or disabled source
// is a caller error.
func (r *Registry) Get(id types.SourceID) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown or disabled source %q", id)
	}
	if !a.Config().Enabled {
		return nil, fmt.Errorf("source %q is disabled", id)
	}
	return a, nil
}

// Enabled returns every adapter whose enabled flag is set, in stable
// identifier order.
func (r *Registry) Enabled() []Adapter {
	var out []Adapter
	for _, id := range r.order {
		if a := r.adapters[id]; a.Config().Enabled {
			out = append(out, a)
		}
	}
	return out
}

// ByCategory returns enabled adapters in the given categories. CategoryAll
// (or an empty set) selects everything.
func (r *Registry) ByCategory(cats ...types.Category) []Adapter {
	want := make(map[types.Category]bool, len(cats))
	all := len(cats) == 0
	for _, c := range cats {
		if c == types.CategoryAll {
			all = true
		}
		want[c] = true
	}
	if all {
		return r.Enabled()
	}
	var out []Adapter
	for _, a := range r.Enabled() {
		if want[a.Config().Category] {
			out = append(out, a)
		}
	}
	return out
}

// List returns the source descriptors, optionally filtered by category, in
// stable identifier order.
func (r *Registry) List(category types.Category) []types.SourceConfig {
	var out []types.SourceConfig
	for _, id := range r.order {
		c := r.adapters[id].Config()
		if category == "" || category == types.CategoryAll || c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// throttled wraps an adapter with a proactive token-bucket limiter so the
// orchestrator's fan-out cannot exceed the provider's request budget.
type throttled struct {
	Adapter
	limiter *rate.Limiter
}

func (t *throttled) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.Adapter.Search(ctx, query, limit)
}
