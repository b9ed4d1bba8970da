// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// crtshAPIBase is the crt.sh query endpoint. Declared as a var so tests can
// substitute an httptest server.
var crtshAPIBase = "https://crt.sh/"

// CrtSh queries certificate-transparency logs for certificates matching a
// domain. Useful for subdomain discovery; non-domain queries typically
// return nothing, which is not an error.
type CrtSh struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (c *CrtSh) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:        types.SourceCrtSh,
		Name:      "crt.sh",
		Category:  types.CategoryOSINT,
		Enabled:   true,
		Timeout:   10 * time.Second,
		RateLimit: 0.5,
	}
}

// Search queries the JSON output of crt.sh, collapsing duplicate hostnames.
func (c *CrtSh) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 100)

	params := url.Values{
		"q":      {query},
		"output": {"json"},
	}

	var entries []crtshEntry
	if err := getJSON(ctx, c.Client, crtshAPIBase+"?"+params.Encode(), nil, &entries); err != nil {
		return nil, fmt.Errorf("crtsh search: %w", err)
	}

	cfg := c.Config()
	seen := make(map[string]bool)
	var results []types.Result
	for _, e := range entries {
		for _, host := range strings.Split(e.NameValue, "\n") {
			host = strings.TrimSpace(host)
			if host == "" || seen[host] {
				continue
			}
			seen[host] = true

			r := newResult(cfg, host,
				fmt.Sprintf("Certificate issued by %s", e.IssuerName),
				"https://crt.sh/?id="+fmt.Sprintf("%d", e.ID))
			if t, err := time.Parse("2006-01-02T15:04:05", e.NotBefore); err == nil {
				r.Timestamp = t.UTC()
			}
			r.SetScore(positionScore(len(results), limit))
			r.Metadata = map[string]any{
				"issuer":     e.IssuerName,
				"not_after":  e.NotAfter,
				"serial":     e.SerialNumber,
				"cert_count": len(entries),
			}
			results = append(results, r)
			if len(results) >= limit {
				return results, nil
			}
		}
	}
	return results, nil
}

type crtshEntry struct {
	ID           int64  `json:"id"`
	NameValue    string `json:"name_value"`
	IssuerName   string `json:"issuer_name"`
	NotBefore    string `json:"not_before"`
	NotAfter     string `json:"not_after"`
	SerialNumber string `json:"serial_number"`
}
