// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/Q2x38b/indexio/pkg/types"
)

// ipapiBase is the ip-api.com lookup endpoint. Declared as a var so tests
// can substitute an httptest server.
var ipapiBase = "http://ip-api.com/json/"

// IPAPI looks up geolocation and network ownership for an IP-address query.
// It is a point-lookup source: queries that are not IP literals return an
// empty list rather than an error.
type IPAPI struct {
	Client *http.Client
}

// Config returns the static descriptor for this source.
func (p *IPAPI) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:       types.SourceIPAPI,
		Name:     "IP Lookup",
		Category: types.CategoryOSINT,
		Enabled:  true,
		Timeout:  defaultAdapterTimeout,
		// Free tier allows 45 req/min.
		RateLimit: 0.7,
	}
}

// Search performs a single IP lookup when the query is an IP literal.
func (p *IPAPI) Search(ctx context.Context, query string, _ int) ([]types.Result, error) {
	q := strings.TrimSpace(query)
	if net.ParseIP(q) == nil {
		return nil, nil
	}

	params := url.Values{
		"fields": {"status,message,country,regionName,city,isp,org,as,query"},
	}

	var ir ipapiResponse
	if err := getJSON(ctx, p.Client, ipapiBase+url.PathEscape(q)+"?"+params.Encode(), nil, &ir); err != nil {
		return nil, fmt.Errorf("ip lookup: %w", err)
	}
	if ir.Status != "success" {
		// Reserved ranges and bogons come back as status "fail".
		return nil, nil
	}

	cfg := p.Config()
	desc := fmt.Sprintf("%s, %s, %s. ISP: %s. Org: %s. AS: %s.",
		ir.City, ir.RegionName, ir.Country, ir.ISP, ir.Org, ir.AS)
	r := newResult(cfg, ir.Query, desc, "https://ip-api.com/#"+url.PathEscape(q))
	r.SetScore(0.95)
	r.Metadata = map[string]any{
		"country": ir.Country,
		"city":    ir.City,
		"isp":     ir.ISP,
		"org":     ir.Org,
		"as":      ir.AS,
	}
	return []types.Result{r}, nil
}

type ipapiResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	ISP        string `json:"isp"`
	Org        string `json:"org"`
	AS         string `json:"as"`
	Query      string `json:"query"`
}
