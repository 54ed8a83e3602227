package query

import "strings"

const (
	// tokenDelimiter is the only separator recognised by Tokenize.
	tokenDelimiter = " "
	// entityMarker prefixes a token that stands for an entity placeholder.
	entityMarker = '#'
)

// Token is a single whitespace-delimited piece of a raw query.
type Token struct {
	Text   string
	Entity bool
}

// Term creates a plain term token.
func Term(text string) Token { return Token{Text: text} }

// Entity creates an entity marker token (text without the leading '#').
func Entity(text string) Token { return Token{Text: text, Entity: true} }

// Tokenize splits raw on single spaces. A leading '#' marks an entity and is
// stripped. Consecutive spaces produce empty term tokens and a bare "#"
// produces an empty entity token; both are kept. Trailing empty pieces are
// dropped, so an empty or all-space query yields nil.
func Tokenize(raw string) []Token {
	parts := strings.Split(raw, tokenDelimiter)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(parts))
	for _, p := range parts {
		if p != "" && p[0] == entityMarker {
			tokens = append(tokens, Entity(p[1:]))
			continue
		}
		tokens = append(tokens, Term(p))
	}
	return tokens
}
