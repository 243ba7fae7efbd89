// Package registry loads the API symbol inventory that drives header
// generation.
//
// A registry is an ordered, immutable table of SymbolRecord values, one per
// exported entry point, each carrying a stability tier and the version in
// which the symbol entered that tier. Records come from one of three sources:
//
//   - a YAML manifest (ParseManifest, LoadManifest)
//   - doc-comment annotations in C headers (ScanHeaders)
//   - in-memory records (New)
//
// # Manifest
//
//	version: "1"
//	defaults:
//	  tier: draft
//	  introduced: "3.5"
//	symbols:
//	  - name: ucsdet_open
//	  - name: utext_clone
//	    introduced: "3.4"
//	  - name: u_init
//	    tier: stable
//	    introduced: "2.6"
//
// Entries inherit tier and introduced from defaults when they omit them.
//
// # Validation
//
// Build rejects duplicate names (DuplicateSymbolError), tier strings outside
// stable, draft, internal, deprecated and obsolete (UnknownTierError) and
// names that are not C identifiers (InvalidNameError). All problems in one
// input are reported together.
package registry
