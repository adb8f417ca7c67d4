// Package ast defines the node types produced by the parser: the path
// expression (a sequence of steps) and, in pred.go, the predicate
// expression sum type. Nodes are immutable once built and carry no
// evaluation logic; that lives in eval.
package ast

import "github.com/cygnusbill/spelunkpath/token"

// Axis names the direction relation a Step applies from its context
// node(s) to a candidate set.
type Axis int

const (
	Child Axis = iota
	DescendantOrSelf // used for the // step prefix
	Descendant
	Parent
	Self
	Ancestor
	AncestorOrSelf
	FollowingSibling
	PrecedingSibling
)

var axisNames = map[Axis]string{
	Child:            "child",
	DescendantOrSelf: "descendant-or-self",
	Descendant:       "descendant",
	Parent:           "parent",
	Self:             "self",
	Ancestor:         "ancestor",
	AncestorOrSelf:   "ancestor-or-self",
	FollowingSibling: "following-sibling",
	PrecedingSibling: "preceding-sibling",
}

// String renders the axis using its XPath-style spelling, for
// diagnostics and for round-tripping into axis::nodeTest text.
func (a Axis) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return "unknown-axis"
}

// AxisByName resolves the literal spelling of an axis keyword
// (as it appears before "::") to its Axis value. ok is false for any
// identifier that is not one of the nine recognized axis names, in
// which case the parser treats the identifier as a node test instead
// (the axis:: prefix is optional).
func AxisByName(name string) (Axis, bool) {
	for axis, n := range axisNames {
		if n == name {
			return axis, true
		}
	}
	return 0, false
}

// NodeTestKind discriminates the three shapes a NodeTest can take.
type NodeTestKind int

const (
	// Any matches every node regardless of type or name ("*").
	Any NodeTestKind = iota
	// TypeNameTest matches nodes whose canonical type name equals Value
	// exactly (e.g. "if-statement", "method").
	TypeNameTest
	// PatternTest matches nodes whose *name* (not type) matches the
	// glob in Value, which may contain '*' and '?' wildcards.
	PatternTest
)

// NodeTest constrains which candidates in a step's axis-expanded
// frontier survive into the predicate stage.
type NodeTest struct {
	Kind  NodeTestKind
	Value string // unused for Any; type name or glob otherwise
}

// Step is one segment of a path: an axis, a node test, and zero or
// more predicates applied left to right to the axis/nodeTest
// candidate collection.
type Step struct {
	Axis       Axis
	NodeTest   NodeTest
	Predicates []PredExpr
	Span       token.Span
}

// PathStart describes how a PathExpr's leading step is anchored.
type PathStart int

const (
	// StartRelative means the path has no leading "/" or "//": it is
	// evaluated from whatever "current node" the caller supplies
	// (the document root for a top-level query, or the context node
	// for a nested PathPred).
	StartRelative PathStart = iota
	// StartAbsolute means the path began with a single "/": evaluation
	// starts at host.Root().
	StartAbsolute
	// StartDescendant means the path began with "//": evaluation
	// starts at host.Root(), same as StartAbsolute. The
	// descendant-or-self expansion "//" implies is merged directly
	// into the first real Step's Axis (DescendantOrSelf instead of
	// Child) rather than represented as a separate synthetic step,
	// so the step can still match the root node itself ("//block"
	// against a tree whose root is the only block still yields that
	// node). An internal "//" separator between two later steps
	// is different: it inserts its own synthetic Step (Axis:
	// DescendantOrSelf, NodeTest: Any) ahead of the next real step,
	// since there the left-hand node must stay excluded.
	StartDescendant
)

// PathExpr is an ordered sequence of steps, optionally anchored by a
// leading "/" or "//".
type PathExpr struct {
	Start Start
	Steps []Step
}

// Start captures both the anchor kind and its source span, so parse
// errors and diagnostics can point at the "/" or "//" token itself
// when relevant.
type Start struct {
	Kind PathStart
	Span token.Span
}
