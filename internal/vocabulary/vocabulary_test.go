package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVocab = `
smart_code: HERA.SYSTEM.VOCAB.REL.v1
rows:
  - from_slug: cust
    to_slug: "ENTITY_TYPE:customer"
    relationship_type: TERM_SYNONYM_OF
  - from_slug: "legacy:ord"
    to_slug: "TRANSACTION_TYPE:order"
    relationship_type: TERM_SYNONYM_OF
  - from_slug: parent
    to_slug: "REL_TYPE:parent_of"
    relationship_type: OTHER_REL
  - from_slug: broken
    to_slug: "no-kind-separator-here"
    relationship_type: TERM_SYNONYM_OF
`

func writeVocab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relationships.vocab.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	t.Run("filters to TERM_SYNONYM_OF rows", func(t *testing.T) {
		t.Parallel()
		aliases := LoadAliases(writeVocab(t, sampleVocab))

		require.Len(t, aliases, 2)
		assert.Equal(t, Canonical{Kind: "ENTITY_TYPE", Canon: "customer"}, aliases["cust"])
		assert.Equal(t, Canonical{Kind: "TRANSACTION_TYPE", Canon: "order"}, aliases["ord"],
			"namespaced from_slug should be keyed by the bare alias")
	})

	t.Run("missing file yields empty map", func(t *testing.T) {
		t.Parallel()
		aliases := LoadAliases(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Empty(t, aliases)
	})

	t.Run("unparseable file yields empty map", func(t *testing.T) {
		t.Parallel()
		aliases := LoadAliases(writeVocab(t, "rows: [unclosed"))
		assert.Empty(t, aliases)
	})
}

func TestCheckTerm(t *testing.T) {
	t.Parallel()

	aliases := AliasMap{
		"cust": {Kind: "ENTITY_TYPE", Canon: "customer"},
	}

	tests := map[string]struct {
		term     string
		wantHit  bool
		wantMsg  string
	}{
		"exact alias":          {term: "cust", wantHit: true, wantMsg: "ENTITY_TYPE::customer"},
		"case insensitive hit": {term: "CUST", wantHit: true, wantMsg: "non-canonical term 'CUST'"},
		"canonical term":       {term: "customer", wantHit: false},
		"empty term":           {term: "", wantHit: false},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			finding, hit := CheckTerm(aliases, tt.term, "entity_type", "items[0]")
			assert.Equal(t, tt.wantHit, hit)
			if hit {
				assert.Contains(t, finding.Message(), tt.wantMsg)
				assert.Contains(t, finding.Message(), "items[0]")
			}
		})
	}
}

func TestExempt(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path string
		want bool
	}{
		"inside vocabulary bundle":   {path: "playbooks/registry/vocabulary/relationships.vocab.yml", want: true},
		"nested under bundle":        {path: "/srv/playbooks/registry/vocabulary/extra/terms.yml", want: true},
		"windows separators":         {path: `playbooks\registry\vocabulary\relationships.vocab.yml`, want: filepath.Separator == '\\'},
		"ordinary contract":          {path: "bundles/demo/entities.yaml", want: false},
		"similar but different path": {path: "playbooks/registry/vocab/terms.yml", want: false},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Exempt(tt.path))
		})
	}
}

func TestExtractTypedTokens(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text string
		want []TypedToken
	}{
		"single token": {
			text: "ENTITY_TYPE::customer must exist",
			want: []TypedToken{{Kind: "ENTITY_TYPE", Term: "customer"}},
		},
		"multiple tokens in order": {
			text: "link REL_TYPE::parent_of after TRANSACTION_TYPE::order",
			want: []TypedToken{
				{Kind: "REL_TYPE", Term: "parent_of"},
				{Kind: "TRANSACTION_TYPE", Term: "order"},
			},
		},
		"unknown kind ignored": {
			text: "WIDGET_TYPE::sprocket is not a vocabulary kind",
			want: nil,
		},
		"plain prose": {
			text: "nothing typed here",
			want: nil,
		},
		"hyphenated term": {
			text: "LINE_TYPE::gift-card applies",
			want: []TypedToken{{Kind: "LINE_TYPE", Term: "gift-card"}},
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractTypedTokens(tt.text))
		})
	}
}
