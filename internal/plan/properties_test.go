package plan

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"apitier-generator/internal/registry"
)

// drawDraftRecords draws draft records with distinct, collision-free names:
// names never contain digits, so no name can equal another's suffixed form.
func drawDraftRecords(t *rapid.T) []registry.SymbolRecord {
	names := rapid.SliceOfNDistinct(
		rapid.StringMatching(`[a-z]{1,6}(_[a-z]{1,6}){0,2}`), 1, 25, rapid.ID[string],
	).Draw(t, "names")

	records := make([]registry.SymbolRecord, 0, len(names))
	for i, name := range names {
		version := rapid.StringMatching(`[1-9][0-9]?\.[0-9]`).Draw(t, fmt.Sprintf("version%d", i))
		records = append(records, draft(name, version))
	}

	return records
}

func resolveRecords(t *rapid.T, records []registry.SymbolRecord) *RenamePlan {
	reg, err := registry.New(records)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	p, err := NewResolver(reg, DefaultConfig()).Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return p
}

func TestProperty_NothingActiveWhenDraftVisible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := resolveRecords(t, drawDraftRecords(t))

		for _, disable := range []bool{true, false} {
			if rules := p.Active(DraftFlags(false, disable)); len(rules) != 0 {
				t.Fatalf("disableRenaming=%v: %d rules active with draft API visible", disable, len(rules))
			}
		}
	})
}

func TestProperty_RenamingDisabledRedirectsBareName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := drawDraftRecords(t)
		rules := resolveRecords(t, records).Active(DraftFlags(true, true))

		if len(rules) != len(records) {
			t.Fatalf("got %d rules for %d symbols", len(rules), len(records))
		}

		for _, rec := range records {
			n := 0
			for _, r := range rules {
				if r.From == rec.Name {
					n++
					if r.To != rec.Name+"_DRAFT_API_DO_NOT_USE" {
						t.Fatalf("%s redirected to %s", rec.Name, r.To)
					}
				}
			}

			if n != 1 {
				t.Fatalf("%s: %d rules, want exactly 1", rec.Name, n)
			}
		}
	})
}

func TestProperty_RenamingActiveRedirectsSuffixedName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := drawDraftRecords(t)
		rules := resolveRecords(t, records).Active(DraftFlags(true, false))

		if len(rules) != len(records) {
			t.Fatalf("got %d rules for %d symbols", len(rules), len(records))
		}

		for _, rec := range records {
			suffixed := SuffixedName(rec.Name, rec.IntroducedVersion)

			n := 0
			for _, r := range rules {
				if r.From == rec.Name {
					t.Fatalf("bare name %s redirected while renaming is active", rec.Name)
				}

				if r.From == suffixed {
					n++
					if r.To != rec.Name+"_DRAFT_API_DO_NOT_USE" {
						t.Fatalf("%s redirected to %s", suffixed, r.To)
					}
				}
			}

			if n != 1 {
				t.Fatalf("%s: %d rules, want exactly 1", suffixed, n)
			}
		}
	})
}

func TestProperty_LoadOrderDoesNotMatter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := drawDraftRecords(t)
		shuffled := rapid.Permutation(records).Draw(t, "shuffled")

		want := resolveRecords(t, records)
		got := resolveRecords(t, shuffled)

		if diff := cmp.Diff(want.Blocks, got.Blocks); diff != "" {
			t.Fatalf("plan depends on load order (-want +got):\n%s", diff)
		}
	})
}
