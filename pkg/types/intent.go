// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IntentType is the inferred purpose of a query. It biases source selection
// and ranking affinity.
type IntentType string

const (
	IntentGeneral  IntentType = "general"
	IntentPerson   IntentType = "person"
	IntentCompany  IntentType = "company"
	IntentDomain   IntentType = "domain"
	IntentTech     IntentType = "tech"
	IntentSecurity IntentType = "security"
	IntentResearch IntentType = "research"
	IntentIP       IntentType = "ip"
	IntentUsername IntentType = "username"
	IntentDOI      IntentType = "doi"
)

// IntentTypes lists every intent type the classifier can resolve.
var IntentTypes = []IntentType{
	IntentGeneral, IntentPerson, IntentCompany, IntentDomain, IntentTech,
	IntentSecurity, IntentResearch, IntentIP, IntentUsername, IntentDOI,
}

// ValidIntentType reports whether t is a known intent type. Used to reject
// malformed labels from the remote classifier.
func ValidIntentType(t IntentType) bool {
	for _, known := range IntentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// QueryIntent is an immutable snapshot of query classification. It is created
// once per incoming query and consumed read-only by the ranker and the
// suggestion engine.
type QueryIntent struct {
	// Type is the resolved intent category.
	Type IntentType `json:"type" yaml:"type"`

	// Confidence is the classifier's confidence in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Entities lists strings extracted from the query (an IP literal, a CVE
	// id, a handle). Empty for general queries.
	Entities []string `json:"entities,omitempty" yaml:"entities,omitempty"`

	// Sources is the hand-curated, ordered list of recommended source
	// identifiers for this intent. Advisory only: execution is not obligated
	// to restrict to it.
	Sources []SourceID `json:"sources,omitempty" yaml:"sources,omitempty"`
}
