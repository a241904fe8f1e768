package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	// Matches the pre-workout category qualifier in its spelling variants:
	// "pre-workout", "pre workout", "preworkout", any casing.
	qualifierRegex = regexp.MustCompile(`(?i)pre[\s-]?workout`)

	// Multiple spaces cleanup
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// Normalize produces the canonical form of a product name: lowercased,
// marketing qualifiers stripped, whitespace collapsed and trimmed.
// Stripping runs to a fixed point so removal cannot reintroduce a
// qualifier form, which keeps Normalize idempotent. Always succeeds;
// empty input yields an empty string.
func Normalize(raw string) string {
	name := strings.ToLower(raw)
	for {
		next := qualifierRegex.ReplaceAllString(name, " ")
		next = multiSpaceRegex.ReplaceAllString(next, " ")
		next = strings.TrimSpace(next)
		if next == name {
			return next
		}
		name = next
	}
}
