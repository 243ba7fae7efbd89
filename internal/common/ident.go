package common

import "strings"

// UnknownStr is the String() value of out-of-range enum values.
const UnknownStr = "unknown"

// IsCIdent reports whether s is a valid C identifier: [A-Za-z_][A-Za-z0-9_]*.
func IsCIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

// IdentFragment maps every rune of s that is not an ASCII letter or digit to
// an underscore, so that the result can be appended to an identifier.
func IdentFragment(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}
