// Package match provides edit-distance helpers used to turn a misspelled
// tier or configuration value into a "did you mean" suggestion.
//
// Key functions:
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the nearest candidate within a distance budget
package match
