package vocabulary

import "regexp"

// TypedToken is a KIND::term reference extracted from free text.
type TypedToken struct {
	Kind string
	Term string
}

// Typed tokens in precondition prose look like ENTITY_TYPE::customer.
// Only the four vocabulary kinds are recognized; anything else stays
// plain text. This is deliberately narrow free-text parsing: if the
// precondition mini-language grows, only this pattern changes.
var typedTokenPattern = regexp.MustCompile(`\b(ENTITY_TYPE|TRANSACTION_TYPE|LINE_TYPE|REL_TYPE)::([A-Za-z0-9_\-]+)`)

// ExtractTypedTokens returns every KIND::term token found in text, in
// order of appearance.
func ExtractTypedTokens(text string) []TypedToken {
	matches := typedTokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]TypedToken, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, TypedToken{Kind: m[1], Term: m[2]})
	}
	return tokens
}
