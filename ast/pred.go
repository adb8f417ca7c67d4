package ast

import "github.com/cygnusbill/spelunkpath/token"

// PredExpr is the predicate-expression sum type living inside a
// step's "[...]" brackets: one variant per concrete shape rather than
// an open class hierarchy. There are exactly ten kinds and no more,
// so a closed switch in eval can be exhaustive.
type PredExpr interface {
	Span() token.Span
	predExpr()
}

// CmpOp is the comparison operator of an AttributePred.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpContains // ~=
)

func (op CmpOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpContains:
		return "~="
	default:
		return "?"
	}
}

// AttrValueKind discriminates the literal shapes an attribute
// comparison's right-hand side can take.
type AttrValueKind int

const (
	AttrString AttrValueKind = iota
	AttrNumber
)

// AttrValue is the literal right-hand side of an Attribute predicate.
type AttrValue struct {
	Kind AttrValueKind
	Text string // unquoted string contents, or the raw digit sequence
}

// OrPred is a short-circuiting logical disjunction.
type OrPred struct {
	Left, Right PredExpr
	span        token.Span
}

// AndPred is a short-circuiting logical conjunction.
type AndPred struct {
	Left, Right PredExpr
	span        token.Span
}

// NotPred negates its operand.
type NotPred struct {
	Inner PredExpr
	span  token.Span
}

// PositionPred is a 1-based literal collection index, e.g. "[3]".
type PositionPred struct {
	N    int
	span token.Span
}

// LastPred is "last()" (Offset == 0) or "last()-k" (Offset == k).
type LastPred struct {
	Offset int
	span   token.Span
}

// FirstPred is "first()". It is its own variant in the AST, but the
// evaluator treats it exactly like PositionPred{N: 1}.
type FirstPred struct {
	span token.Span
}

// AttributePred is "@name", "@name op value", tested per-node (not a
// collection-level predicate). HasOp is false for bare truthiness
// tests like "[@async]".
type AttributePred struct {
	Name  string
	HasOp bool
	Op    CmpOp
	Value AttrValue
	span  token.Span
}

// PathPred is a nested path predicate like "[.//throw-statement]",
// truthy iff evaluating Path from the candidate node yields a
// non-empty result.
type PathPred struct {
	Path *PathExpr
	span token.Span
}

// NameTestPred is a bare identifier or glob inside "[...]",
// equivalent to a name match against the candidate node, e.g.
// "[Get*User]".
type NameTestPred struct {
	Glob string
	span token.Span
}

// FunctionPred is a call-shaped predicate. Only position()/last()/
// first() are recognized, and last()/first() parse directly to
// LastPred/FirstPred, so the parser builds FunctionPred only for
// position(); any other call name is rejected with a ParseError and
// never reaches the AST.
type FunctionPred struct {
	Name string
	Args []PredExpr
	span token.Span
}

func (p *OrPred) Span() token.Span        { return p.span }
func (p *AndPred) Span() token.Span       { return p.span }
func (p *NotPred) Span() token.Span       { return p.span }
func (p *PositionPred) Span() token.Span  { return p.span }
func (p *LastPred) Span() token.Span      { return p.span }
func (p *FirstPred) Span() token.Span     { return p.span }
func (p *AttributePred) Span() token.Span { return p.span }
func (p *PathPred) Span() token.Span      { return p.span }
func (p *NameTestPred) Span() token.Span  { return p.span }
func (p *FunctionPred) Span() token.Span  { return p.span }

func (p *OrPred) predExpr()        {}
func (p *AndPred) predExpr()       {}
func (p *NotPred) predExpr()       {}
func (p *PositionPred) predExpr()  {}
func (p *LastPred) predExpr()      {}
func (p *FirstPred) predExpr()     {}
func (p *AttributePred) predExpr() {}
func (p *PathPred) predExpr()      {}
func (p *NameTestPred) predExpr()  {}
func (p *FunctionPred) predExpr()  {}

// NewOrPred, NewAndPred, ... are unexported-field-safe constructors so
// the parser (the only producer of these nodes) can set span alongside
// the exported fields in one call.

func NewOrPred(left, right PredExpr, span token.Span) *OrPred {
	return &OrPred{Left: left, Right: right, span: span}
}

func NewAndPred(left, right PredExpr, span token.Span) *AndPred {
	return &AndPred{Left: left, Right: right, span: span}
}

func NewNotPred(inner PredExpr, span token.Span) *NotPred {
	return &NotPred{Inner: inner, span: span}
}

func NewPositionPred(n int, span token.Span) *PositionPred {
	return &PositionPred{N: n, span: span}
}

func NewLastPred(offset int, span token.Span) *LastPred {
	return &LastPred{Offset: offset, span: span}
}

func NewFirstPred(span token.Span) *FirstPred {
	return &FirstPred{span: span}
}

func NewAttributePred(name string, hasOp bool, op CmpOp, value AttrValue, span token.Span) *AttributePred {
	return &AttributePred{Name: name, HasOp: hasOp, Op: op, Value: value, span: span}
}

func NewPathPred(path *PathExpr, span token.Span) *PathPred {
	return &PathPred{Path: path, span: span}
}

func NewNameTestPred(glob string, span token.Span) *NameTestPred {
	return &NameTestPred{Glob: glob, span: span}
}

func NewFunctionPred(name string, args []PredExpr, span token.Span) *FunctionPred {
	return &FunctionPred{Name: name, Args: args, span: span}
}
