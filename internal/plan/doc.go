// Package plan turns a symbol registry into redirect rules.
//
// A redirect is a macro that makes one identifier expand to another. For each
// hidden tier the plan holds two rule sets, one per value of the library's
// DISABLE_RENAMING switch, and exactly one of them is active for a given
// build. The policy that chooses the redirected name lives in one table
// (renamingPolicy):
//
//	DISABLE_RENAMING  redirect
//	true              name       -> name_DRAFT_API_DO_NOT_USE
//	false             name_3_5   -> name_DRAFT_API_DO_NOT_USE
//
// With renaming disabled, callers reference the bare name, so that is what
// must be redirected. With renaming enabled, callers resolve the
// version-suffixed name at link time, and redirecting the bare name would be
// a no-op.
//
// Resolution pipeline:
//  1. Select the records of each hidden tier, sorted by name
//  2. Reject records without an introducing version
//  3. Apply the policy table per DISABLE_RENAMING value
//  4. Reject redirects whose names collide with each other or the registry
package plan
