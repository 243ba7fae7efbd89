package plan

import (
	"apitier-generator/internal/diagnostic"
	"apitier-generator/internal/registry"
)

// RenamePlan is the final output of resolution, consumed by header generation.
type RenamePlan struct {
	// Blocks holds one entry per hidden tier, in tier order.
	Blocks []TierBlock
	// Diagnostics contains the warnings raised during resolution.
	Diagnostics diagnostic.Diagnostics
}

// TierBlock is the rule sets of one tier, gated on the tier's hide macro.
type TierBlock struct {
	Tier   registry.Tier
	Policy TierPolicy
	// Branches holds one rule set per DISABLE_RENAMING value, in
	// renamingPolicy order (disabled first).
	Branches []Branch
}

// Branch is the rule set active for one DISABLE_RENAMING value.
type Branch struct {
	DisableRenaming bool
	Rules           []Rule
}

// Rule redirects From to To. Symbol is the registry name it was derived from.
type Rule struct {
	Symbol string
	From   string
	To     string
}

// Block returns the block for tier t.
func (p *RenamePlan) Block(t registry.Tier) (TierBlock, bool) {
	for _, b := range p.Blocks {
		if b.Tier == t {
			return b, true
		}
	}

	return TierBlock{}, false
}

// Branch returns the rule set for one DISABLE_RENAMING value.
func (b TierBlock) Branch(disableRenaming bool) Branch {
	for _, br := range b.Branches {
		if br.DisableRenaming == disableRenaming {
			return br
		}
	}

	return Branch{DisableRenaming: disableRenaming}
}

// RuleCount returns the number of rules across all blocks and branches.
func (p *RenamePlan) RuleCount() int {
	n := 0
	for _, b := range p.Blocks {
		for _, br := range b.Branches {
			n += len(br.Rules)
		}
	}

	return n
}
