// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the result-fusion core: concurrent fan-out
// across source adapters, cross-source deduplication, multi-signal ranking
// and per-source diversification.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Q2x38b/indexio/internal/sources"
	"github.com/Q2x38b/indexio/pkg/types"
)

// Outcome is the ephemeral per-adapter record produced by one fan-out
// invocation. It exists only to compute success and failure counts.
type Outcome struct {
	Source  types.SourceID
	Results []types.Result
	Err     error
	Elapsed time.Duration
}

// FanOutResult aggregates one fan-out batch.
type FanOutResult struct {
	// Results is the merged, deduplicated candidate list, capped at the
	// over-fetch budget.
	Results []types.Result

	// SourcesQueried is the number of adapters actually invoked.
	SourcesQueried int

	// SourcesSucceeded is the number of adapters that returned at least one
	// result.
	SourcesSucceeded int

	// Elapsed is the wall time of the whole batch.
	Elapsed time.Duration
}

// SearchAll invokes every adapter concurrently, each bounded by its own
// timeout, and merges the survivors. A failing or timed-out adapter
// contributes an empty outcome and never aborts its siblings; total failure
// of all adapters is not an error and yields zero results with
// SourcesSucceeded 0.
//
// The returned list is capped at limit*overfetch so diversification
// downstream has surplus to discard.
func SearchAll(ctx context.Context, adapters []sources.Adapter, query string, perSourceTimeout time.Duration, limit, overfetch int) FanOutResult {
	start := time.Now()
	logger := slog.Default().With("component", "fanout")

	if perSourceTimeout <= 0 {
		perSourceTimeout = 5 * time.Second
	}
	if overfetch <= 0 {
		overfetch = 3
	}

	ch := make(chan Outcome, len(adapters))
	var wg sync.WaitGroup
	for _, a := range adapters {
		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			ch <- invoke(ctx, a, query, perSourceTimeout, limit)
		}(a)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	var lists [][]types.Result
	succeeded := 0
	for out := range ch {
		if out.Err != nil {
			logger.Debug("source failed", "source", out.Source, "elapsed", out.Elapsed, "err", out.Err)
			continue
		}
		if len(out.Results) == 0 {
			continue
		}
		succeeded++
		lists = append(lists, out.Results)
	}

	merged := Merge(lists)
	if budget := limit * overfetch; limit > 0 && len(merged) > budget {
		merged = merged[:budget]
	}

	return FanOutResult{
		Results:          merged,
		SourcesQueried:   len(adapters),
		SourcesSucceeded: succeeded,
		Elapsed:          time.Since(start),
	}
}

// invoke runs one adapter call under its own timeout, converting panics into
// failed outcomes so a buggy adapter cannot take down the batch.
func invoke(ctx context.Context, a sources.Adapter, query string, defaultTimeout time.Duration, limit int) (out Outcome) {
	cfg := a.Config()
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out.Source = cfg.ID
	defer func() {
		out.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			out.Results = nil
			out.Err = fmtPanic(cfg.ID, r)
		}
	}()

	out.Results, out.Err = a.Search(callCtx, query, limit)
	return out
}

func fmtPanic(id types.SourceID, v any) error {
	return fmt.Errorf("adapter %s panicked: %v", id, v)
}
