package plan

import (
	"slices"

	"apitier-generator/internal/registry"
)

// Flags is one build configuration as the preprocessor sees it.
type Flags struct {
	// Hidden holds the tiers whose hide macro is defined.
	Hidden []registry.Tier
	// DisableRenaming reports whether DISABLE_RENAMING is true.
	DisableRenaming bool
}

// DraftFlags is the configuration with only the draft gate considered.
func DraftFlags(hideDraftAPI, disableRenaming bool) Flags {
	f := Flags{DisableRenaming: disableRenaming}
	if hideDraftAPI {
		f.Hidden = []registry.Tier{registry.TierDraft}
	}

	return f
}

// Hides reports whether the hide macro of tier t is defined.
func (f Flags) Hides(t registry.Tier) bool {
	return slices.Contains(f.Hidden, t)
}

// Active returns the rules a preprocessor sees under f: for each hidden tier,
// the branch matching f.DisableRenaming, and nothing for tiers left visible.
func (p *RenamePlan) Active(f Flags) []Rule {
	var out []Rule

	for _, b := range p.Blocks {
		if !f.Hides(b.Tier) {
			continue
		}

		out = append(out, b.Branch(f.DisableRenaming).Rules...)
	}

	return out
}
