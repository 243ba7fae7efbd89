package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"apitier-generator/internal/diagnostic"
	"apitier-generator/internal/registry"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// Tiers lists the tiers to hide. Order and duplicates do not matter.
	Tiers []registry.Tier
}

// DefaultConfig returns the default resolution configuration: draft API only.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{Tiers: []registry.Tier{registry.TierDraft}}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	registry *registry.Registry
	config   ResolutionConfig
}

// NewResolver creates a new Resolver.
func NewResolver(reg *registry.Registry, config ResolutionConfig) *Resolver {
	return &Resolver{registry: reg, config: config}
}

// Resolve computes the redirect rules of every configured tier. It reports
// every missing version and collision it finds and returns them joined; a
// plan is only returned when there are none.
func (r *Resolver) Resolve() (*RenamePlan, error) {
	if r.registry == nil {
		return nil, errors.New("registry is required")
	}

	tiers, err := normalizeTiers(r.config.Tiers)
	if err != nil {
		return nil, err
	}

	p := &RenamePlan{}

	for _, tier := range tiers {
		p.Blocks = append(p.Blocks, r.resolveTier(tier, &p.Diagnostics))
	}

	checkCollisions(p, r.registry, &p.Diagnostics)

	if err := p.Diagnostics.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

func (r *Resolver) resolveTier(tier registry.Tier, diags *diagnostic.Diagnostics) TierBlock {
	policy := tierPolicies[tier]
	block := TierBlock{Tier: tier, Policy: policy}

	records := r.registry.ByTier(tier)
	if len(records) == 0 {
		diags.AddInfo(CodeEmptyTier, fmt.Sprintf("registry has no %s symbols", tier), "", "")
	}

	var usable []registry.SymbolRecord

	for _, rec := range records {
		if strings.TrimSpace(rec.IntroducedVersion) == "" {
			diags.AddError(CodeMissingVersion,
				&MissingVersionError{Symbol: rec.Name, Tier: tier.String()},
				rec.Name, rec.Source)

			continue
		}

		usable = append(usable, rec)
	}

	for _, row := range renamingPolicy {
		br := Branch{DisableRenaming: row.disableRenaming}
		for _, rec := range usable {
			br.Rules = append(br.Rules, Rule{
				Symbol: rec.Name,
				From:   row.from(rec),
				To:     policy.TargetName(rec.Name),
			})
		}

		block.Branches = append(block.Branches, br)
	}

	return block
}

// normalizeTiers de-duplicates tiers, sorts them in tier order and rejects
// tiers that cannot be hidden.
func normalizeTiers(tiers []registry.Tier) ([]registry.Tier, error) {
	if len(tiers) == 0 {
		return nil, errors.New("no tiers to hide")
	}

	var out []registry.Tier

	for _, t := range tiers {
		if _, ok := tierPolicies[t]; !ok {
			return nil, fmt.Errorf("tier %s cannot be hidden", t)
		}

		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}

	slices.Sort(out)

	return out, nil
}

// checkCollisions rejects redirects that would redefine a macro or capture a
// name some other code relies on. Both branches of every block count: the
// hide macros of several tiers can be defined at the same time.
func checkCollisions(p *RenamePlan, reg *registry.Registry, diags *diagnostic.Diagnostics) {
	type owner struct{ symbol string }

	targets := make(map[string]owner)
	sources := map[bool]map[string]owner{true: {}, false: {}}
	allSources := make(map[string]owner)
	reported := make(map[string]bool)

	report := func(rule Rule, name, conflict string) {
		key := rule.Symbol + "\x00" + name
		if reported[key] {
			return
		}

		reported[key] = true

		rec, _ := reg.Lookup(rule.Symbol)
		diags.AddError(CodeRedirectCollision,
			&RedirectCollisionError{Symbol: rule.Symbol, Name: name, Conflict: conflict},
			rule.Symbol, rec.Source)
	}

	for _, block := range p.Blocks {
		for _, br := range block.Branches {
			for _, rule := range br.Rules {
				if prev, ok := sources[br.DisableRenaming][rule.From]; ok && prev.symbol != rule.Symbol {
					report(rule, rule.From, fmt.Sprintf("redirect source of %q", prev.symbol))
				} else {
					sources[br.DisableRenaming][rule.From] = owner{rule.Symbol}
				}

				if rule.From != rule.Symbol && reg.Contains(rule.From) {
					report(rule, rule.From, fmt.Sprintf("registry symbol %q", rule.From))
				}

				if _, ok := allSources[rule.From]; !ok {
					allSources[rule.From] = owner{rule.Symbol}
				}
			}
		}
	}

	for _, block := range p.Blocks {
		for _, br := range block.Branches {
			for _, rule := range br.Rules {
				switch prev, ok := targets[rule.To]; {
				case ok && prev.symbol != rule.Symbol:
					report(rule, rule.To, fmt.Sprintf("redirect target of %q", prev.symbol))
				case !ok:
					targets[rule.To] = owner{rule.Symbol}
				}

				if reg.Contains(rule.To) {
					report(rule, rule.To, fmt.Sprintf("registry symbol %q", rule.To))
				}

				if src, ok := allSources[rule.To]; ok {
					report(rule, rule.To, fmt.Sprintf("redirect source of %q", src.symbol))
				}
			}
		}
	}
}
