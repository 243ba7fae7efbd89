package plan

import (
	"apitier-generator/internal/common"
	"apitier-generator/internal/registry"
)

// TierPolicy names the macros of one hidden tier.
type TierPolicy struct {
	// Gate is the macro that hides the tier, without any project prefix.
	Gate string
	// TargetSuffix turns a symbol name into its unusable replacement.
	TargetSuffix string
}

// tierPolicies lists the tiers that can be hidden. Stable is absent on purpose:
// hiding stable API is not a build option.
var tierPolicies = map[registry.Tier]TierPolicy{
	registry.TierDraft:      {Gate: "HIDE_DRAFT_API", TargetSuffix: "_DRAFT_API_DO_NOT_USE"},
	registry.TierDeprecated: {Gate: "HIDE_DEPRECATED_API", TargetSuffix: "_DEPRECATED_API_DO_NOT_USE"},
	registry.TierInternal:   {Gate: "HIDE_INTERNAL_API", TargetSuffix: "_INTERNAL_API_DO_NOT_USE"},
	registry.TierObsolete:   {Gate: "HIDE_OBSOLETE_API", TargetSuffix: "_OBSOLETE_API_DO_NOT_USE"},
}

// RenamingSwitch is the macro that disables version-suffix renaming,
// without any project prefix.
const RenamingSwitch = "DISABLE_RENAMING"

// PolicyFor returns the policy of a hideable tier.
func PolicyFor(t registry.Tier) (TierPolicy, bool) {
	p, ok := tierPolicies[t]
	return p, ok
}

// HideableTiers returns the tiers that have a policy, in tier order.
func HideableTiers() []registry.Tier {
	var out []registry.Tier

	for _, t := range registry.AllTiers() {
		if _, ok := tierPolicies[t]; ok {
			out = append(out, t)
		}
	}

	return out
}

// renamingPolicy is the redirect table. Each row names, for one value of
// DISABLE_RENAMING, the identifier callers actually resolve; that identifier
// is the one redirected to the unusable name.
var renamingPolicy = []struct {
	disableRenaming bool
	from            func(rec registry.SymbolRecord) string
}{
	{disableRenaming: true, from: func(rec registry.SymbolRecord) string {
		return rec.Name
	}},
	{disableRenaming: false, from: func(rec registry.SymbolRecord) string {
		return SuffixedName(rec.Name, rec.IntroducedVersion)
	}},
}

// VersionSuffix renders a version as an identifier fragment: every separator
// becomes an underscore ("3.5" -> "3_5").
func VersionSuffix(version string) string {
	return common.IdentFragment(version)
}

// SuffixedName is the name a symbol is linked under while renaming is active.
func SuffixedName(name, version string) string {
	return name + "_" + VersionSuffix(version)
}

// TargetName is the unusable name a hidden symbol is redirected to.
func (p TierPolicy) TargetName(name string) string {
	return name + p.TargetSuffix
}
