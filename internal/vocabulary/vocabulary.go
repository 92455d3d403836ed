// Package vocabulary loads the controlled-vocabulary synonym map and
// flags non-canonical terms in contract documents. Enforcement is
// best-effort: a missing or unreadable vocabulary file yields an empty
// map, never an error, so basic validation keeps working without it.
package vocabulary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the vocabulary file location, relative to the process
// working directory.
const DefaultPath = "playbooks/registry/vocabulary/relationships.vocab.yml"

// bundleSegment marks contract paths that live inside the vocabulary
// bundle itself; such files are exempt from enforcement so that the
// dictionary may define the synonyms it deprecates.
const bundleSegment = "playbooks/registry/vocabulary/"

// synonymRelType is the only relationship_type consulted when building
// the alias map.
const synonymRelType = "TERM_SYNONYM_OF"

// Canonical is the replacement for a deprecated alias.
type Canonical struct {
	Kind string // vocabulary kind, e.g. ENTITY_TYPE
	Canon string // canonical term
}

// String renders the canonical replacement as KIND::term.
func (c Canonical) String() string {
	return c.Kind + "::" + c.Canon
}

// AliasMap maps lower-cased alias strings to their canonical terms.
type AliasMap map[string]Canonical

// vocabRow is one row of the vocabulary file.
type vocabRow struct {
	RelationshipType string `yaml:"relationship_type"`
	FromSlug         string `yaml:"from_slug"`
	ToSlug           string `yaml:"to_slug"`
}

type vocabFile struct {
	Rows []vocabRow `yaml:"rows"`
}

// LoadAliases builds the alias map from the vocabulary file at path.
// Rows are filtered to TERM_SYNONYM_OF relationships; from_slug is
// "<alias>" or "<namespace>:<alias>", to_slug is "<kind>:<canon>".
// Read or parse failure returns an empty map and no error.
func LoadAliases(path string) AliasMap {
	aliases := AliasMap{}

	data, err := os.ReadFile(path)
	if err != nil {
		return aliases
	}

	var doc vocabFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return aliases
	}

	for _, row := range doc.Rows {
		if row.RelationshipType != synonymRelType {
			continue
		}
		alias := row.FromSlug
		if idx := strings.Index(alias, ":"); idx >= 0 {
			alias = alias[idx+1:]
		}
		kind, canon, found := strings.Cut(row.ToSlug, ":")
		if !found || alias == "" || kind == "" || canon == "" {
			continue
		}
		aliases[strings.ToLower(alias)] = Canonical{Kind: kind, Canon: canon}
	}

	return aliases
}

// Finding reports one non-canonical term usage.
type Finding struct {
	Term        string // the offending term as written
	Field       string // field holding the term, e.g. "entity_type"
	Location    string // where in the document, e.g. "items[2]"
	Replacement Canonical
}

// Message renders the finding for report embedding.
func (f Finding) Message() string {
	return fmt.Sprintf("non-canonical term '%s' in %s at %s; use %s", f.Term, f.Field, f.Location, f.Replacement)
}

// CheckTerm looks term up case-insensitively in the alias map and
// reports a finding when it names a deprecated synonym.
func CheckTerm(aliases AliasMap, term, field, location string) (Finding, bool) {
	if term == "" {
		return Finding{}, false
	}
	canon, ok := aliases[strings.ToLower(term)]
	if !ok {
		return Finding{}, false
	}
	return Finding{Term: term, Field: field, Location: location, Replacement: canon}, true
}

// Exempt reports whether a contract file path lives inside the
// vocabulary bundle directory and is therefore exempt from term
// enforcement. The check tolerates OS path separators.
func Exempt(path string) bool {
	normalized := filepath.ToSlash(path)
	return strings.Contains(normalized, bundleSegment)
}
