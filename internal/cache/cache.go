// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache holds a TTL-bounded LRU of search responses keyed by the
// normalized request shape.
package cache

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Entry is one cached search outcome.
type Entry struct {
	Results          []types.Result
	Intent           types.QueryIntent
	SourcesQueried   int
	SourcesSucceeded int
	CachedAt         time.Time
}

// Cache is a fixed-size TTL LRU. The zero value is not usable; construct
// with New.
type Cache struct {
	lru *expirable.LRU[string, Entry]
}

// New builds a cache holding at most size entries, each expiring after ttl.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

// Key derives the cache key from the request shape. Queries differing only
// in case or whitespace, or source/category order, share a key. The
// re-ranking and remote-classification flags are part of the shape: both
// change the computed result list, so they must never alias.
func Key(query string, srcs []types.SourceID, cats []types.Category, limit int, semantic, remote bool) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")

	ss := make([]string, len(srcs))
	for i, s := range srcs {
		ss[i] = string(s)
	}
	sort.Strings(ss)

	cs := make([]string, len(cats))
	for i, c := range cats {
		cs[i] = string(c)
	}
	sort.Strings(cs)

	return q + "|" + strings.Join(ss, ",") + "|" + strings.Join(cs, ",") + "|" + strconv.Itoa(limit) +
		"|" + strconv.FormatBool(semantic) + "|" + strconv.FormatBool(remote)
}

// Get returns the cached entry for key, if present and unexpired.
func (c *Cache) Get(key string) (Entry, bool) {
	return c.lru.Get(key)
}

// Put stores an entry under key, stamping the cache time.
func (c *Cache) Put(key string, e Entry) {
	e.CachedAt = time.Now()
	c.lru.Add(key, e)
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
