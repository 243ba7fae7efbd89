// Package diagnostic provides structured warnings and errors collected
// while loading a symbol registry and planning its redirects.
//
// Generation never stops at the first problem: every loader and planner
// error in a run is recorded, and the run then fails with all of them at once.
//
// Key capabilities:
//   - Coded errors carrying the offending symbol and its declaration site
//   - Warnings for inputs that are skipped rather than rejected
//   - Folding all errors into one error value that errors.As can unpack
package diagnostic
