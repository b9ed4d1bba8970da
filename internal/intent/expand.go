// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import "strings"

// synonyms maps abbreviations to their full forms. Expansion substitutes in
// both directions when the token appears in the query.
var synonyms = map[string]string{
	"js":    "javascript",
	"ts":    "typescript",
	"py":    "python",
	"k8s":   "kubernetes",
	"ml":    "machine learning",
	"ai":    "artificial intelligence",
	"db":    "database",
	"vuln":  "vulnerability",
	"repo":  "repository",
	"auth":  "authentication",
	"regex": "regular expression",
}

// Expand returns the deduplicated set of lexical variants of query, produced
// by substituting known abbreviation/full-form pairs where the abbreviation
// appears as a whole token. The original query is always first. Expansion is
// independent of intent and feeds only suggestion features, never ranking.
func Expand(query string) []string {
	variants := []string{query}
	seen := map[string]bool{strings.ToLower(query): true}

	tokens := strings.Fields(query)
	add := func(v string) {
		key := strings.ToLower(v)
		if !seen[key] {
			seen[key] = true
			variants = append(variants, v)
		}
	}

	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if full, ok := synonyms[lower]; ok {
			add(substituteToken(tokens, i, full))
		}
		for abbr, full := range synonyms {
			if lower == strings.ToLower(full) {
				add(substituteToken(tokens, i, abbr))
			}
		}
	}
	// Multi-word full forms can't match a single token; check the whole query.
	lowerQuery := strings.ToLower(query)
	for abbr, full := range synonyms {
		if strings.Contains(full, " ") && strings.Contains(lowerQuery, full) {
			add(strings.Replace(lowerQuery, full, abbr, 1))
		}
	}
	return variants
}

func substituteToken(tokens []string, i int, replacement string) string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	out[i] = replacement
	return strings.Join(out, " ")
}
