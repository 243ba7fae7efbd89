package match

import "strings"

// Closest returns the candidate nearest to word, compared case-insensitively.
// Candidates further than maxDistance edits away are never returned. Ties go
// to the candidate listed first, so callers control the result through
// candidate order.
func Closest(word string, candidates []string, maxDistance int) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", false
	}

	best := ""
	bestDist := maxDistance + 1

	for _, c := range candidates {
		d := Levenshtein(word, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}

	if bestDist > maxDistance {
		return "", false
	}

	return best, true
}
