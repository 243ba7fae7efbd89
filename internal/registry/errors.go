package registry

import "fmt"

// Diagnostic codes reported by Build.
const (
	CodeDuplicateSymbol = "duplicate_symbol"
	CodeUnknownTier     = "unknown_tier"
	CodeInvalidName     = "invalid_name"
)

// DuplicateSymbolError reports two records sharing one name.
type DuplicateSymbolError struct {
	Name        string // Symbol declared twice
	FirstSource string // Declaration site of the record kept, if known
	Source      string // Declaration site of the rejected record, if known
}

// Error implements the error interface.
func (e *DuplicateSymbolError) Error() string {
	if e.FirstSource != "" {
		return fmt.Sprintf("duplicate symbol %q: already declared at %s", e.Name, e.FirstSource)
	}

	return fmt.Sprintf("duplicate symbol %q", e.Name)
}

// UnknownTierError reports a tier string outside the known tiers.
type UnknownTierError struct {
	Symbol     string // Symbol carrying the tier, empty when parsing a bare tier
	Value      string // Tier string as written
	Suggestion string // Closest valid tier, if any
}

// Error implements the error interface.
func (e *UnknownTierError) Error() string {
	msg := fmt.Sprintf("unknown tier %q", e.Value)
	if e.Symbol != "" {
		msg = fmt.Sprintf("symbol %q: %s", e.Symbol, msg)
	}

	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

// InvalidNameError reports a symbol name that is not a C identifier.
type InvalidNameError struct {
	Name string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid symbol name %q: not a C identifier", e.Name)
}
