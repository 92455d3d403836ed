// Package compat rewrites legacy transaction field names to their
// canonical equivalents before validation. Rewriting is purely
// additive aliasing: a canonical field that is already present always
// wins and is never overwritten, so normalizing twice is a no-op.
package compat

import (
	"fmt"
	"sort"
)

// aliasRule maps one legacy field name to its canonical name.
type aliasRule struct {
	legacy    string
	canonical string
}

// headerAliases are the known legacy header fields.
var headerAliases = []aliasRule{
	{legacy: "occurred_at", canonical: "transaction_date"},
	{legacy: "amount", canonical: "total_amount"},
	{legacy: "status_code", canonical: "status"},
}

// lineAliases are the known legacy line fields.
var lineAliases = []aliasRule{
	{legacy: "position", canonical: "line_number"},
	{legacy: "amount", canonical: "line_amount"},
	{legacy: "uom", canonical: "unit_of_measure"},
	{legacy: "line_type_id", canonical: "line_type"},
}

// applyAliases copies obj and fills each absent canonical field from
// its legacy alias. The input is never mutated.
func applyAliases(obj map[string]any, rules []aliasRule, context string) (map[string]any, []string) {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}

	var notes []string
	for _, rule := range rules {
		legacyVal, hasLegacy := out[rule.legacy]
		if !hasLegacy {
			continue
		}
		if _, hasCanonical := out[rule.canonical]; hasCanonical {
			continue
		}
		out[rule.canonical] = legacyVal
		notes = append(notes, fmt.Sprintf("%s: aliased legacy field %s -> %s", context, rule.legacy, rule.canonical))
	}
	return out, notes
}

// NormalizeHeader returns a copy of header with canonical field names
// filled from legacy aliases, plus a note per rewrite performed.
func NormalizeHeader(header map[string]any) (map[string]any, []string) {
	return applyAliases(header, headerAliases, "header")
}

// NormalizeLine returns a copy of line with canonical field names
// filled from legacy aliases, plus a note per rewrite performed.
func NormalizeLine(line map[string]any) (map[string]any, []string) {
	return applyAliases(line, lineAliases, "line")
}

// NormalizeLines normalizes each element of a line-like slice,
// labelling notes with the array key and element index.
func NormalizeLines(lines []any, key string) ([]any, []string) {
	out := make([]any, len(lines))
	var notes []string
	for i, raw := range lines {
		line, ok := raw.(map[string]any)
		if !ok {
			out[i] = raw
			continue
		}
		normalized, lineNotes := applyAliases(line, lineAliases, fmt.Sprintf("%s[%d]", key, i))
		out[i] = normalized
		notes = append(notes, lineNotes...)
	}
	return out, notes
}

// DocumentRewrite is the outcome of normalizing one contract document.
type DocumentRewrite struct {
	Doc       map[string]any
	Notes     []string // rewrites in the well-known header/lines shape
	ScanNotes []string // rewrites found by the line-like-array heuristic
}

// Changed reports whether any rewrite was performed.
func (r *DocumentRewrite) Changed() bool {
	return len(r.Notes)+len(r.ScanNotes) > 0
}

// NormalizeDocument applies header/line aliasing to a decoded contract
// document. The well-known {header, lines} shape is normalized
// directly. Every other top-level array whose first element carries a
// quantity key is treated as line-like and normalized too. This
// heuristic can rewrite unrelated arrays that happen to use a
// quantity field. The input document is never mutated.
func NormalizeDocument(doc map[string]any) *DocumentRewrite {
	result := &DocumentRewrite{Doc: make(map[string]any, len(doc))}
	for k, v := range doc {
		result.Doc[k] = v
	}

	if header, ok := result.Doc["header"].(map[string]any); ok {
		normalized, notes := NormalizeHeader(header)
		result.Doc["header"] = normalized
		result.Notes = append(result.Notes, notes...)
	}
	if lines, ok := result.Doc["lines"].([]any); ok {
		normalized, notes := NormalizeLines(lines, "lines")
		result.Doc["lines"] = normalized
		result.Notes = append(result.Notes, notes...)
	}

	// Deterministic note order regardless of map iteration.
	keys := make([]string, 0, len(result.Doc))
	for k := range result.Doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "header" || key == "lines" {
			continue
		}
		arr, ok := result.Doc[key].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		first, ok := arr[0].(map[string]any)
		if !ok {
			continue
		}
		if _, hasQuantity := first["quantity"]; !hasQuantity {
			continue
		}
		normalized, notes := NormalizeLines(arr, key)
		if len(notes) > 0 {
			result.Doc[key] = normalized
			result.ScanNotes = append(result.ScanNotes, notes...)
		}
	}

	return result
}
