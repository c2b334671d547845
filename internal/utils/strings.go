package utils

import "strings"

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLocation canonicalizes a free-form location name for comparisons.
// "port harcourt " and "Port Harcourt" refer to the same terminal.
func NormalizeLocation(s string) string {
	return strings.ToLower(NormalizeSpace(s))
}
