// Package token defines the lexical vocabulary of SpelunkPath: token
// kinds, their literal spellings, and the Token value type the lexer
// produces and the parser consumes.
package token

import "fmt"

// Token is an immutable value object: a Kind, the byte span it
// occupies in the source query, and its literal text (the pattern
// name for an IDENT-ish Pattern token, the unquoted contents of a
// String token, the digit sequence of a Number token, and so on).
type Token struct {
	Kind    Kind
	Span    Span
	Literal string
}

// String renders the token for debugging and test failure messages.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q @%s}", t.Kind.Name(), t.Literal, t.Span.String())
}

// New builds a token whose literal is the kind's fixed spelling
// (operators, punctuation, bracket-scoped keywords).
func New(kind Kind, span Span) Token {
	return Token{Kind: kind, Span: span, Literal: kind.Literal()}
}

// NewLiteral builds a token whose literal is caller-supplied content
// that differs from the kind's fixed spelling: Pattern, Number,
// String.
func NewLiteral(kind Kind, literal string, span Span) Token {
	return Token{Kind: kind, Span: span, Literal: literal}
}

// NewEOF builds the sentinel token the lexer returns once the input is
// exhausted. Its span covers no text, so it reports the offset where
// scanning stopped as both Start and End.
func NewEOF(offset int) Token {
	return Token{Kind: Eof, Span: Span{Start: offset, End: offset}}
}

// IsPatternText reports whether lit is the bare wildcard "*", which
// the parser treats as an Any node test rather than a name glob.
func IsPatternText(lit string) bool {
	return lit == "*"
}
