// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Q2x38b/indexio/pkg/types"
)

// nvdAPIBase is the NVD CVE API endpoint. Declared as a var so tests can
// substitute an httptest server.
var nvdAPIBase = "https://services.nvd.nist.gov/rest/json/cves/2.0"

var nvdCVERe = regexp.MustCompile(`(?i)\bcve-\d{4}-\d{4,}\b`)

// NVD searches the National Vulnerability Database. A query containing a CVE
// identifier is looked up directly; anything else is a keyword search. An
// optional API key raises the rate limit from 5 to 50 requests per 30s.
type NVD struct {
	Client *http.Client
	APIKey string
}

// Config returns the static descriptor for this source.
func (n *NVD) Config() types.SourceConfig {
	return types.SourceConfig{
		ID:        types.SourceNVD,
		Name:      "NVD",
		Category:  types.CategoryOSINT,
		Enabled:   true,
		Timeout:   8 * time.Second,
		RateLimit: 0.15,
	}
}

// Search queries the CVE API.
func (n *NVD) Search(ctx context.Context, query string, limit int) ([]types.Result, error) {
	limit = clampLimit(limit, 10, 50)

	params := url.Values{"resultsPerPage": {fmt.Sprintf("%d", limit)}}
	if cve := nvdCVERe.FindString(query); cve != "" {
		params.Set("cveId", strings.ToUpper(cve))
	} else {
		params.Set("keywordSearch", query)
	}

	var headers map[string]string
	if n.APIKey != "" {
		headers = map[string]string{"apiKey": n.APIKey}
	}

	var nr nvdResponse
	if err := getJSON(ctx, n.Client, nvdAPIBase+"?"+params.Encode(), headers, &nr); err != nil {
		return nil, fmt.Errorf("nvd search: %w", err)
	}

	cfg := n.Config()
	total := len(nr.Vulnerabilities)
	var results []types.Result
	for i, v := range nr.Vulnerabilities {
		cve := v.CVE
		r := newResult(cfg, cve.ID, englishDescription(cve.Descriptions),
			"https://nvd.nist.gov/vuln/detail/"+url.PathEscape(cve.ID))
		if t, err := time.Parse("2006-01-02T15:04:05.000", cve.Published); err == nil {
			r.Timestamp = t.UTC()
		}
		r.SetScore(positionScore(i, total))
		meta := map[string]any{"status": cve.VulnStatus}
		if sev, score := cvssSeverity(cve.Metrics); sev != "" {
			meta["severity"] = sev
			meta["cvss"] = score
		}
		r.Metadata = meta
		results = append(results, r)
	}
	return results, nil
}

func englishDescription(descs []nvdDescription) string {
	for _, d := range descs {
		if d.Lang == "en" {
			return d.Value
		}
	}
	if len(descs) > 0 {
		return descs[0].Value
	}
	return ""
}

// cvssSeverity picks the newest CVSS metric present on the record.
func cvssSeverity(m nvdMetrics) (string, float64) {
	if len(m.CvssMetricV31) > 0 {
		d := m.CvssMetricV31[0].CvssData
		return d.BaseSeverity, d.BaseScore
	}
	if len(m.CvssMetricV2) > 0 {
		d := m.CvssMetricV2[0]
		return d.BaseSeverity, d.CvssData.BaseScore
	}
	return "", 0
}

type nvdResponse struct {
	Vulnerabilities []struct {
		CVE struct {
			ID           string           `json:"id"`
			Published    string           `json:"published"`
			VulnStatus   string           `json:"vulnStatus"`
			Descriptions []nvdDescription `json:"descriptions"`
			Metrics      nvdMetrics       `json:"metrics"`
		} `json:"cve"`
	} `json:"vulnerabilities"`
}

type nvdDescription struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type nvdMetrics struct {
	CvssMetricV31 []struct {
		CvssData struct {
			BaseScore    float64 `json:"baseScore"`
			BaseSeverity string  `json:"baseSeverity"`
		} `json:"cvssData"`
	} `json:"cvssMetricV31"`
	CvssMetricV2 []struct {
		BaseSeverity string `json:"baseSeverity"`
		CvssData     struct {
			BaseScore float64 `json:"baseScore"`
		} `json:"cvssData"`
	} `json:"cvssMetricV2"`
}
