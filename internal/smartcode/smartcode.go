// Package smartcode validates HERA Smart Codes, the dot-delimited,
// versioned identifiers that tag every contract document and
// transaction line.
//
// A Smart Code has the shape HERA.SEGMENT...SEGMENT.vN: the literal
// HERA prefix, three to eight additional segments of 2-30 characters
// from [A-Z0-9_], and a version suffix of v followed by a decimal
// integer without a leading zero (v0 is allowed).
package smartcode

import "regexp"

// Pattern is the single source of truth for Smart Code shape. Every
// contract schema embeds the same pattern, so changing it is a
// breaking change across all document kinds at once.
const Pattern = `^HERA(\.[A-Z0-9_]{2,30}){3,8}\.v(0|[1-9][0-9]*)$`

var pattern = regexp.MustCompile(Pattern)

// IsValid reports whether code is a well-formed Smart Code. It never
// returns an error: empty and malformed input simply yield false.
// Comparison is case-sensitive; lowercase codes are rejected.
func IsValid(code string) bool {
	if code == "" {
		return false
	}
	return pattern.MatchString(code)
}
