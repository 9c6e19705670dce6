// Package diagnostic provides structured errors, warnings and infos
// collected while compiling schema documents.
//
// Key capabilities:
//   - Report mode: every problem in a document set is collected instead of
//     aborting on the first one
//   - Stable diagnostic codes (see codes.go)
//   - "did you mean" suggestions attached to unknown-name problems
package diagnostic
