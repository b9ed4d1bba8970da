// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Q2x38b/indexio/internal/httputil"
)

// uaTransport stamps every outgoing request with the configured User-Agent.
// Carrying the agent on the client keeps the registry free of mutable
// package state; two registries with different agents can coexist.
type uaTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient builds the shared adapter client with the given timeout and
// User-Agent.
func newHTTPClient(cfg httpClientConfig) *http.Client {
	agent := cfg.UserAgent
	if agent == "" {
		agent = "indexio/0.1"
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &uaTransport{base: base, agent: agent},
	}
}

// httpClientConfig carries the knobs for newHTTPClient.
type httpClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
}

// getJSON issues a GET against reqURL and decodes the JSON body into v.
// Responses with non-2xx status are errors; 429s are retried with backoff.
// The User-Agent comes from the client's transport.
func getJSON(ctx context.Context, client *http.Client, reqURL string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 2)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing %s response: %w", req.URL.Host, err)
	}
	return nil
}
