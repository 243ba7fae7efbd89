package plan

import "fmt"

// Diagnostic codes reported by Resolve.
const (
	CodeMissingVersion    = "missing_version"
	CodeRedirectCollision = "redirect_collision"
	CodeEmptyTier         = "empty_tier"
)

// MissingVersionError reports a hidden-tier record without an introducing
// version; its suffixed name cannot be computed.
type MissingVersionError struct {
	Symbol string
	Tier   string
}

// Error implements the error interface.
func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("%s symbol %q has no introduced version", e.Tier, e.Symbol)
}

// RedirectCollisionError reports a redirect whose source or target name is
// already taken.
type RedirectCollisionError struct {
	Symbol   string // Symbol whose redirect collides
	Name     string // Colliding macro name
	Conflict string // What already owns Name
}

// Error implements the error interface.
func (e *RedirectCollisionError) Error() string {
	return fmt.Sprintf("redirect for %q: %q collides with %s", e.Symbol, e.Name, e.Conflict)
}
