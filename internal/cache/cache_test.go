// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"testing"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

func TestKeyNormalization(t *testing.T) {
	base := Key("Go  Modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 10, false, false)

	tests := []struct {
		name string
		key  string
		same bool
	}{
		{"case folded", Key("go modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 10, false, false), true},
		{"source order ignored", Key("go modules", []types.SourceID{types.SourceNPM, types.SourceGitHub}, []types.Category{types.CategoryCode}, 10, false, false), true},
		{"different limit differs", Key("go modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 20, false, false), false},
		{"different query differs", Key("rust modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 10, false, false), false},
		{"semantic flag differs", Key("go modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 10, true, false), false},
		{"remote flag differs", Key("go modules", []types.SourceID{types.SourceGitHub, types.SourceNPM}, []types.Category{types.CategoryCode}, 10, false, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.key == base) != tt.same {
				t.Errorf("key equality = %v, want %v\nbase: %s\n got: %s", tt.key == base, tt.same, base, tt.key)
			}
		})
	}
}

func TestGetPut(t *testing.T) {
	c := New(4, time.Minute)
	key := Key("golang", nil, nil, 10, false, false)

	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Put(key, Entry{SourcesQueried: 3, SourcesSucceeded: 2})
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if got.SourcesQueried != 3 || got.SourcesSucceeded != 2 {
		t.Errorf("entry = %+v", got)
	}
	if got.CachedAt.IsZero() {
		t.Error("CachedAt not stamped")
	}
}

func TestExpiry(t *testing.T) {
	c := New(4, 20*time.Millisecond)
	key := Key("ephemeral", nil, nil, 10, false, false)
	c.Put(key, Entry{})

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestEviction(t *testing.T) {
	c := New(2, time.Minute)
	c.Put("a", Entry{})
	c.Put("b", Entry{})
	c.Put("c", Entry{})
	if c.Len() > 2 {
		t.Errorf("cache grew past its size bound: %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry not evicted")
	}
}
