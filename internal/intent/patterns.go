// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"regexp"

	"github.com/Q2x38b/indexio/pkg/types"
)

// signature is a set of regex patterns whose match fraction scores one
// intent category.
type signature struct {
	intent   types.IntentType
	patterns []*regexp.Regexp
}

// signatures holds the scored intent categories. The priority-rule intents
// (ip, domain, doi, username) are resolved before scoring and do not appear
// here. Pattern sets are deliberately small: the score is matches divided by
// set size, so padding a set dilutes its own signal.
var signatures = []signature{
	{
		intent: types.IntentPerson,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(who is|who was|biography|born|net worth|age of)\b`),
			regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z]\.?)? [A-Z][a-z]+$`),
			regexp.MustCompile(`(?i)\b(founder|inventor|author|politician|actor|scientist)\b`),
		},
	},
	{
		intent: types.IntentCompany,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(inc|corp|llc|ltd|gmbh)\b\.?`),
			regexp.MustCompile(`(?i)\b(company|startup|enterprise|acquisition|ipo|revenue)\b`),
			regexp.MustCompile(`(?i)\b(ceo|cto|cfo|headquarters|founded)\b`),
		},
	},
	{
		intent: types.IntentTech,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(javascript|typescript|python|golang|rust|java|kotlin|swift|c\+\+)\b`),
			regexp.MustCompile(`(?i)\b(framework|library|package|module|api|sdk|cli)\b`),
			regexp.MustCompile(`(?i)\b(install|error|exception|tutorial|docs|documentation|example)\b`),
			regexp.MustCompile(`(?i)\b(react|vue|django|kubernetes|docker|postgres|redis)\b`),
		},
	},
	{
		intent: types.IntentSecurity,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(vulnerability|exploit|cve|zero[- ]day|rce|xss|sqli)\b`),
			regexp.MustCompile(`(?i)\b(malware|ransomware|phishing|botnet|breach|leak)\b`),
			regexp.MustCompile(`(?i)\b(pentest|threat|advisory|patch|mitigation|cvss)\b`),
		},
	},
	{
		intent: types.IntentResearch,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(paper|study|journal|preprint|peer[- ]review)\b`),
			regexp.MustCompile(`(?i)\b(arxiv|doi|citation|dataset|benchmark)\b`),
			regexp.MustCompile(`(?i)\b(research|survey|meta[- ]analysis|hypothesis|empirical)\b`),
		},
	},
}

// recommendedSources maps each intent type to a hand-curated, ordered list of
// source identifiers. The list is advisory: execution may query beyond it.
var recommendedSources = map[types.IntentType][]types.SourceID{
	types.IntentGeneral: {
		types.SourceDuckDuckGo, types.SourceWikipedia, types.SourceHackerNews, types.SourceReddit,
	},
	types.IntentPerson: {
		types.SourceWikipedia, types.SourceDuckDuckGo, types.SourceReddit,
	},
	types.IntentCompany: {
		types.SourceWikipedia, types.SourceDuckDuckGo, types.SourceHackerNews, types.SourceGitHub,
	},
	types.IntentDomain: {
		types.SourceCrtSh, types.SourceURLScan, types.SourceIPAPI, types.SourceDuckDuckGo,
	},
	types.IntentTech: {
		types.SourceStackOverflow, types.SourceGitHub, types.SourceNPM, types.SourceCrates, types.SourceHackerNews,
	},
	types.IntentSecurity: {
		types.SourceNVD, types.SourceGitHub, types.SourceHackerNews, types.SourceDuckDuckGo,
	},
	types.IntentResearch: {
		types.SourceArxiv, types.SourceOpenAlex, types.SourceCrossref, types.SourceWikipedia,
	},
	types.IntentIP: {
		types.SourceIPAPI, types.SourceURLScan, types.SourceDuckDuckGo,
	},
	types.IntentUsername: {
		types.SourceGitHub, types.SourceReddit, types.SourceHackerNews,
	},
	types.IntentDOI: {
		types.SourceCrossref, types.SourceOpenAlex, types.SourceArxiv,
	},
}

// RecommendedSources returns a copy of the curated source list for t.
// Unknown types fall back to the general list.
func RecommendedSources(t types.IntentType) []types.SourceID {
	ids, ok := recommendedSources[t]
	if !ok {
		ids = recommendedSources[types.IntentGeneral]
	}
	out := make([]types.SourceID, len(ids))
	copy(out, ids)
	return out
}
