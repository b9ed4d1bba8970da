// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent classifies free-text queries into typed intents that bias
// source selection and ranking. The local path is deterministic and free of
// I/O; an optional remote strategy wraps it with an LLM call that falls back
// to the local path on any failure.
package intent

import (
	"context"
	"net"
	"regexp"
	"strings"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Classifier resolves a query into a QueryIntent. Implementations must never
// return an error: classification degrades to the general intent instead.
type Classifier interface {
	Classify(ctx context.Context, query string) types.QueryIntent
}

// Confidence values fixed by the priority rules. A rule match short-circuits
// with its fixed confidence; it is not recomputed.
const (
	confIP       = 0.98
	confDomain   = 0.95
	confCVE      = 0.98
	confDOI      = 0.98
	confUsername = 0.95
	confGeneral  = 0.5

	// signatureThreshold is the minimum normalized signature score required
	// to resolve a non-general intent.
	signatureThreshold = 0.2

	// signatureBoost is added to the signature score to form the confidence,
	// capped at signatureCeiling.
	signatureBoost   = 0.3
	signatureCeiling = 0.9
)

var (
	domainRe = regexp.MustCompile(`(?i)^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)
	cveRe    = regexp.MustCompile(`(?i)\bcve-\d{4}-\d{4,}\b`)
	doiRe    = regexp.MustCompile(`\b10\.\d{4,9}/[^\s"<>]+`)
	doiURLRe = regexp.MustCompile(`(?i)doi\.org/(10\.\d{4,9}/[^\s"<>]+)`)
	handleRe = regexp.MustCompile(`^@(\w{2,30})$`)
)

// Local is the pure, pattern-based classifier.
type Local struct{}

// Classify maps raw query text to a typed intent. Priority rules (IP, domain,
// CVE, DOI, handle) are checked in order and short-circuit; otherwise every
// signature category is scored and the best one wins if it clears the
// threshold.
func (Local) Classify(_ context.Context, query string) types.QueryIntent {
	q := strings.TrimSpace(query)
	if q == "" {
		return generalIntent()
	}

	if ip := net.ParseIP(q); ip != nil {
		return resolved(types.IntentIP, confIP, q)
	}
	if domainRe.MatchString(q) {
		return resolved(types.IntentDomain, confDomain, q)
	}
	if m := cveRe.FindString(q); m != "" {
		return resolved(types.IntentSecurity, confCVE, strings.ToUpper(m))
	}
	if m := doiURLRe.FindStringSubmatch(q); m != nil {
		return resolved(types.IntentDOI, confDOI, m[1])
	}
	if m := doiRe.FindString(q); m != "" {
		return resolved(types.IntentDOI, confDOI, m)
	}
	if m := handleRe.FindStringSubmatch(q); m != nil {
		return resolved(types.IntentUsername, confUsername, m[1])
	}

	best, score := scoreSignatures(q)
	if score > signatureThreshold {
		conf := score + signatureBoost
		if conf > signatureCeiling {
			conf = signatureCeiling
		}
		return types.QueryIntent{
			Type:       best,
			Confidence: conf,
			Sources:    RecommendedSources(best),
		}
	}
	return generalIntent()
}

// scoreSignatures scores every signature category by the fraction of its
// patterns that match, and returns the best category with its score.
func scoreSignatures(query string) (types.IntentType, float64) {
	best := types.IntentGeneral
	bestScore := 0.0
	for _, sig := range signatures {
		matches := 0
		for _, re := range sig.patterns {
			if re.MatchString(query) {
				matches++
			}
		}
		score := float64(matches) / float64(len(sig.patterns))
		if score > bestScore {
			best = sig.intent
			bestScore = score
		}
	}
	return best, bestScore
}

func resolved(t types.IntentType, conf float64, entity string) types.QueryIntent {
	return types.QueryIntent{
		Type:       t,
		Confidence: conf,
		Entities:   []string{entity},
		Sources:    RecommendedSources(t),
	}
}

func generalIntent() types.QueryIntent {
	return types.QueryIntent{
		Type:       types.IntentGeneral,
		Confidence: confGeneral,
		Sources:    RecommendedSources(types.IntentGeneral),
	}
}
