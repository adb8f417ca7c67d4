package token

import "strconv"

// Kind identifies the lexical category of a Token. The set is closed:
// SpelunkPath is a small, fixed grammar and nothing in the lexer or
// parser should ever need to invent a new Kind at runtime.
type Kind int

const (
	kindBegin Kind = iota // boundary marker, not a valid token

	Slash       // /
	DoubleSlash // //
	Dot         // .
	DoubleDot   // ..
	ColonColon  // ::
	LBracket    // [
	RBracket    // ]
	LParen      // (
	RParen      // )
	Comma       // ,
	At          // @
	Equals      // =
	NotEquals   // !=
	Contains    // ~=
	Lt          // <
	Le          // <=
	Gt          // >
	Ge          // >=
	Minus       // -
	Pattern     // identifier, optionally fused with * and/or ?
	Number      // integer or decimal literal
	String      // quoted literal, unquoted value carried in Literal
	KwAnd       // and (keyword only inside [ ])
	KwOr        // or  (keyword only inside [ ])
	KwNot       // not (keyword only inside [ ])
	Eof         // end of input

	kindEnd // boundary marker, not a valid token
)

var kindNames = [...]string{
	kindBegin:   "",
	Slash:       "Slash",
	DoubleSlash: "DoubleSlash",
	Dot:         "Dot",
	DoubleDot:   "DoubleDot",
	ColonColon:  "ColonColon",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	LParen:      "LParen",
	RParen:      "RParen",
	Comma:       "Comma",
	At:          "At",
	Equals:      "Equals",
	NotEquals:   "NotEquals",
	Contains:    "Contains",
	Lt:          "Lt",
	Le:          "Le",
	Gt:          "Gt",
	Ge:          "Ge",
	Minus:       "Minus",
	Pattern:     "Pattern",
	Number:      "Number",
	String:      "String",
	KwAnd:       "KwAnd",
	KwOr:        "KwOr",
	KwNot:       "KwNot",
	Eof:         "Eof",
	kindEnd:     "",
}

// kindLiterals holds the fixed spelling for kinds whose text never
// varies. Kinds with caller-supplied content (Pattern, Number, String)
// are left blank here; their Literal field on Token carries the text.
var kindLiterals = [...]string{
	Slash:       "/",
	DoubleSlash: "//",
	Dot:         ".",
	DoubleDot:   "..",
	ColonColon:  "::",
	LBracket:    "[",
	RBracket:    "]",
	LParen:      "(",
	RParen:      ")",
	Comma:       ",",
	At:          "@",
	Equals:      "=",
	NotEquals:   "!=",
	Contains:    "~=",
	Lt:          "<",
	Le:          "<=",
	Gt:          ">",
	Ge:          ">=",
	Minus:       "-",
	KwAnd:       "and",
	KwOr:        "or",
	KwNot:       "not",
	Eof:         "",
}

// predicateKeywords maps the lowercase spelling of a bracket-scoped
// keyword to its Kind. The lexer only consults this table while
// bracketDepth > 0; outside a predicate "and"/"or"/"not" lex as
// ordinary Pattern identifiers.
var predicateKeywords = map[string]Kind{
	"and": KwAnd,
	"or":  KwOr,
	"not": KwNot,
}

// IsValid reports whether k falls within the declared enumeration.
func (k Kind) IsValid() bool {
	return k > kindBegin && k < kindEnd
}

func (k Kind) ensureValid() {
	if !k.IsValid() {
		panic("token: invalid Kind " + strconv.Itoa(int(k)))
	}
}

// Name returns the identifier used for this Kind in diagnostics.
func (k Kind) Name() string {
	k.ensureValid()
	return kindNames[k]
}

// Literal returns the fixed spelling for kinds that have one; returns
// "" for Pattern/Number/String/Eof, whose text is caller-supplied.
func (k Kind) Literal() string {
	k.ensureValid()
	return kindLiterals[k]
}

// Is reports whether k equals other; a slightly more readable spelling
// than k == other at call sites that chain several checks.
func (k Kind) Is(other Kind) bool {
	return k == other
}

// KeywordKindInPredicate resolves ident to KwAnd/KwOr/KwNot when the
// lexer is scanning inside a bracketed predicate (bracketDepth > 0);
// the second return value is false when ident is not one of those
// three reserved words, in which case the caller should emit Pattern.
func KeywordKindInPredicate(ident string) (Kind, bool) {
	kind, ok := predicateKeywords[ident]
	return kind, ok
}
