// Package match turns free-text line-item descriptions into scored matches
// against the concept table. The scoring is pure computation: deterministic,
// explainable, no I/O.
package match

import "strings"

// Normalize upper-cases a description and strips leading/trailing
// whitespace for case- and whitespace-insensitive comparison. Internal
// whitespace is left alone. Pure, total.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Tokens splits a normalized description on whitespace.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
