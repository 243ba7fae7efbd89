package registry

import (
	"strings"

	"apitier-generator/internal/common"
	"apitier-generator/internal/match"
)

// Tier is the stability tier of an exported symbol.
type Tier int

const (
	_ Tier = iota // zero value is not a tier

	TierStable
	TierDraft
	TierInternal
	TierDeprecated
	TierObsolete
)

// maxSuggestDistance bounds how far a misspelled tier may be from a real one
// before no suggestion is offered.
const maxSuggestDistance = 3

var tierNames = map[Tier]string{
	TierStable:     "stable",
	TierDraft:      "draft",
	TierInternal:   "internal",
	TierDeprecated: "deprecated",
	TierObsolete:   "obsolete",
}

// AllTiers returns every valid tier in declaration order.
func AllTiers() []Tier {
	return []Tier{TierStable, TierDraft, TierInternal, TierDeprecated, TierObsolete}
}

// TierNames returns the lowercase names of all tiers in declaration order.
func TierNames() []string {
	names := make([]string, 0, len(tierNames))
	for _, t := range AllTiers() {
		names = append(names, tierNames[t])
	}

	return names
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}

	return common.UnknownStr
}

// IsValid reports whether t is one of the declared tiers.
func (t Tier) IsValid() bool {
	_, ok := tierNames[t]
	return ok
}

// ParseTier parses a tier name case-insensitively. Unknown names yield an
// *UnknownTierError with a suggestion when a tier name is close enough.
func ParseTier(s string) (Tier, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTiers() {
		if tierNames[t] == v {
			return t, nil
		}
	}

	err := &UnknownTierError{Value: s}
	if suggestion, ok := match.Closest(s, TierNames(), maxSuggestDistance); ok {
		err.Suggestion = suggestion
	}

	return 0, err
}
