// Package host declares SyntaxHost, the narrow capability interface
// the evaluator uses to walk and inspect an abstract syntax tree
// without depending on any specific language front-end. Concrete
// implementations (one per supported source language in the
// surrounding application, and the in-memory/JSON ones in testhost
// and jsonhost here) live outside the core.
package host

// AttrValueKind discriminates the two shapes an attribute value can
// take: a plain boolean (for flags like "async", "static") or a
// string (for everything else, including numeric attributes, which
// the evaluator parses on demand for numeric comparisons).
type AttrValueKind int

const (
	AttrBool AttrValueKind = iota
	AttrString
)

// AttrValue is the value SyntaxHost.Attribute returns for a known
// attribute key.
type AttrValue struct {
	Kind AttrValueKind
	Bool bool
	Str  string
}

// Bool constructs a boolean attribute value.
func Bool(b bool) AttrValue { return AttrValue{Kind: AttrBool, Bool: b} }

// String constructs a string-valued attribute value.
func String(s string) AttrValue { return AttrValue{Kind: AttrString, Str: s} }

// Truthy reports whether the attribute value should be treated as
// true for a bare "[@name]" predicate: booleans by their own value,
// strings by being non-empty.
func (v AttrValue) Truthy() bool {
	switch v.Kind {
	case AttrBool:
		return v.Bool
	case AttrString:
		return v.Str != ""
	default:
		return false
	}
}

// Text renders the value as the normalized-text-comparable string the
// evaluator uses for glob/contains matching against literal RHS
// values, regardless of the value's native kind.
func (v AttrValue) Text() string {
	if v.Kind == AttrBool {
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return v.Str
}

// SyntaxHost is the capability set the evaluator needs from a parsed
// syntax tree. N is the host's own opaque node-identifier type; it
// must be comparable so the evaluator can dedupe candidate
// collections and use node identities as map keys. Implementations
// are not required to be safe for concurrent use by multiple
// goroutines unless they document otherwise; eval.EvaluateMany
// requires exactly that guarantee of whatever host it's given.
type SyntaxHost[N comparable] interface {
	// Root returns the starting node for absolute paths.
	Root() N

	// Children returns n's children in document order.
	Children(n N) []N

	// Parent returns n's parent, or ok=false at the root.
	Parent(n N) (parent N, ok bool)

	// NodeType returns n's canonical type name from the closed
	// vocabulary shared across language backends (e.g. "if-statement",
	// "method").
	NodeType(n N) string

	// NodeName returns n's declared name, if it has one (method and
	// field names, class names, and so on); ok is false for nodes with
	// no name, such as most statements and expressions.
	NodeName(n N) (name string, ok bool)

	// NormalisedText returns n's source text with whitespace
	// collapsed, used for @contains and @matches: always the
	// normalised form, never the raw trivia-bearing source.
	NormalisedText(n N) string

	// Attribute returns the value of a named attribute ("async",
	// "operator", "modifiers", ...), or ok=false if n doesn't carry it.
	Attribute(n N, key string) (value AttrValue, ok bool)
}

// Ordered is satisfied by a SyntaxHost that can additionally report a
// total document-order comparison between two of its own nodes. The
// evaluator uses this when present to produce exact document order
// without relying on traversal order alone; hosts that only implement
// the base SyntaxHost still get correct (if less battle-tested for
// exotic trees) ordering from the evaluator's own pre-order walk
// bookkeeping.
type Ordered[N comparable] interface {
	SyntaxHost[N]
	// Less reports whether a precedes b in document order.
	Less(a, b N) bool
}
