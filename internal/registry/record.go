package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"apitier-generator/internal/common"
	"apitier-generator/internal/diagnostic"
)

// SymbolRecord is one exported API entry point.
type SymbolRecord struct {
	// Name is the canonical exported identifier, unique within a registry.
	Name string
	// Tier is the stability tier.
	Tier Tier
	// IntroducedVersion is the version in which the symbol entered its tier, e.g. "3.5".
	IntroducedVersion string
	// Source is the declaration site ("file:line") for diagnostics. It is not
	// part of the record's identity and never reaches generated output.
	Source string
}

// Declaration is an unvalidated symbol record as read from a manifest or a
// header annotation. Tier is kept as written so that errors can quote it.
type Declaration struct {
	Name              string
	Tier              string
	IntroducedVersion string
	Source            string
}

// Registry is an immutable, ordered table of symbol records.
type Registry struct {
	records []SymbolRecord
	index   map[string]int
}

// Build validates declarations and returns the registry they describe.
// Every invalid declaration is reported; on any error the returned registry is
// nil and the diagnostics hold the details.
func Build(decls []Declaration) (*Registry, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	records := make([]SymbolRecord, 0, len(decls))

	for _, d := range decls {
		name := strings.TrimSpace(d.Name)

		tier, err := ParseTier(d.Tier)
		if err != nil {
			var ute *UnknownTierError
			if errors.As(err, &ute) {
				ute.Symbol = name
			}

			diags.AddError(CodeUnknownTier, err, name, d.Source)

			continue
		}

		records = append(records, SymbolRecord{
			Name:              name,
			Tier:              tier,
			IntroducedVersion: strings.TrimSpace(d.IntroducedVersion),
			Source:            d.Source,
		})
	}

	reg, more := build(records)
	diags.Merge(more)

	if diags.HasErrors() {
		return nil, diags
	}

	return reg, diags
}

// New builds a registry from in-memory records. It applies the same checks as
// Build and returns the joined error on failure.
func New(records []SymbolRecord) (*Registry, error) {
	diags := &diagnostic.Diagnostics{}

	valid := make([]SymbolRecord, 0, len(records))
	for _, r := range records {
		if !r.Tier.IsValid() {
			diags.AddError(CodeUnknownTier,
				&UnknownTierError{Symbol: r.Name, Value: fmt.Sprintf("Tier(%d)", int(r.Tier))},
				r.Name, r.Source)

			continue
		}

		valid = append(valid, r)
	}

	reg, more := build(valid)
	diags.Merge(more)

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return reg, nil
}

func build(records []SymbolRecord) (*Registry, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	reg := &Registry{
		records: make([]SymbolRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	for _, r := range records {
		r.Name = strings.TrimSpace(r.Name)
		r.IntroducedVersion = strings.TrimSpace(r.IntroducedVersion)

		if !common.IsCIdent(r.Name) {
			diags.AddError(CodeInvalidName, &InvalidNameError{Name: r.Name}, r.Name, r.Source)
			continue
		}

		if i, ok := reg.index[r.Name]; ok {
			diags.AddError(CodeDuplicateSymbol, &DuplicateSymbolError{
				Name:        r.Name,
				FirstSource: reg.records[i].Source,
				Source:      r.Source,
			}, r.Name, r.Source)

			continue
		}

		reg.index[r.Name] = len(reg.records)
		reg.records = append(reg.records, r)
	}

	return reg, diags
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns the records in load order.
func (r *Registry) Records() []SymbolRecord {
	return slices.Clone(r.records)
}

// Lookup returns the record with the given name.
func (r *Registry) Lookup(name string) (SymbolRecord, bool) {
	i, ok := r.index[name]
	if !ok {
		return SymbolRecord{}, false
	}

	return r.records[i], true
}

// Contains reports whether a record with the given name exists.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Sorted returns the records ordered by name (byte-wise), independent of
// load order.
func (r *Registry) Sorted() []SymbolRecord {
	out := slices.Clone(r.records)
	slices.SortFunc(out, func(a, b SymbolRecord) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}

// ByTier returns the records of one tier ordered by name.
func (r *Registry) ByTier(t Tier) []SymbolRecord {
	var out []SymbolRecord

	for _, rec := range r.Sorted() {
		if rec.Tier == t {
			out = append(out, rec)
		}
	}

	return out
}

// CountByTier returns the number of records per tier.
func (r *Registry) CountByTier() map[Tier]int {
	counts := make(map[Tier]int)
	for _, rec := range r.records {
		counts[rec.Tier]++
	}

	return counts
}
