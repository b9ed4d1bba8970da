// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserAgentStampedByClient(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := newHTTPClient(httpClientConfig{UserAgent: "indexio-test/1.0"})
	var v map[string]any
	if err := getJSON(context.Background(), client, ts.URL, nil, &v); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if got != "indexio-test/1.0" {
		t.Errorf("User-Agent = %q, want the configured agent", got)
	}
}

func TestUserAgentIsPerClient(t *testing.T) {
	var agents []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	first := newHTTPClient(httpClientConfig{UserAgent: "agent-one/1.0"})
	second := newHTTPClient(httpClientConfig{UserAgent: "agent-two/1.0"})

	var v map[string]any
	if err := getJSON(context.Background(), first, ts.URL, nil, &v); err != nil {
		t.Fatal(err)
	}
	if err := getJSON(context.Background(), second, ts.URL, nil, &v); err != nil {
		t.Fatal(err)
	}
	if len(agents) != 2 || agents[0] != "agent-one/1.0" || agents[1] != "agent-two/1.0" {
		t.Errorf("agents = %v, want one per client configuration", agents)
	}
}

func TestUserAgentDefault(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := newHTTPClient(httpClientConfig{})
	var v map[string]any
	if err := getJSON(context.Background(), client, ts.URL, nil, &v); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if got != "indexio/0.1" {
		t.Errorf("User-Agent = %q, want the default agent", got)
	}
}
