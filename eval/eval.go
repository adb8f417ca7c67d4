// Package eval executes a parsed ast.PathExpr against a host.SyntaxHost
// and returns the matching nodes in document order. Evaluation is pure
// over (AST, host) apart from short-circuit boolean predicates: no
// panics, no global state, no I/O.
package eval

import (
	"context"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/cygnusbill/spelunkpath/ast"
	"github.com/cygnusbill/spelunkpath/host"
)

// Options tunes a single Evaluate call. A nil *Options is equivalent
// to the zero value: no cancellation, warnings discarded. This is a
// plain struct rather than a functional-options slice because Option
// would need its own N type parameter (Option[N]), forcing every call
// site to repeat the host's node type just to build one; a nilable
// struct keeps "no options" (the overwhelmingly common case) exactly
// as terse as the generic-free version would be.
type Options struct {
	// Context is checked before each step and before each predicate of
	// a step (axis walks themselves are not interrupted); a cancelled
	// context yields the partial
	// result collected so far plus an EvalError wrapping ErrCancelled.
	Context context.Context

	// CollectWarnings controls whether Evaluate allocates and returns
	// EvalWarning values. Left false, predicate failures that would
	// otherwise warn (e.g. a bad @matches pattern) still degrade to
	// "no match"; they just aren't reported.
	CollectWarnings bool
}

func (o *Options) context() context.Context {
	if o == nil || o.Context == nil {
		return context.Background()
	}
	return o.Context
}

func (o *Options) collectWarnings() bool {
	return o != nil && o.CollectWarnings
}

// state carries the per-call mutable bits evalPred and the step loop
// share: the compiled-glob cache, the document-order helper, and the
// accumulated warnings. None of it survives past a single Evaluate call.
type state[N comparable] struct {
	host     host.SyntaxHost[N]
	opts     *Options
	order    *docOrder[N]
	globs    map[string]glob.Glob
	warnings []EvalWarning
}

func newState[N comparable](h host.SyntaxHost[N], opts *Options) *state[N] {
	return &state[N]{
		host:  h,
		opts:  opts,
		order: newDocOrder(h),
		globs: make(map[string]glob.Glob),
	}
}

func (s *state[N]) warn(kind WarnKind, reason string, step int) {
	if !s.opts.collectWarnings() {
		return
	}
	s.warnings = append(s.warnings, EvalWarning{Kind: kind, Reason: reason, Step: step})
}

func (s *state[N]) compileGlob(pattern string) (glob.Glob, error) {
	if g, ok := s.globs[pattern]; ok {
		return g, nil
	}
	// No separators: unlike glob's usual filesystem-path use, node
	// names have no hierarchical structure for '*' to stop short at.
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	s.globs[pattern] = g
	return g, nil
}

// Evaluate runs path against h, starting from current (the document
// root for a top-level query; whatever context node the caller is
// inside for a nested evaluation such as a PathPred's own recursive
// call into Evaluate). Results are deduplicated and sorted into
// document order.
func Evaluate[N comparable](path *ast.PathExpr, h host.SyntaxHost[N], current N, opts *Options) ([]N, []EvalWarning, error) {
	s := newState(h, opts)
	result, err := s.run(path, current)
	return result, s.warnings, err
}

func (s *state[N]) run(path *ast.PathExpr, current N) ([]N, error) {
	frontier := s.seed(path, current)

	for i, step := range path.Steps {
		if err := s.checkCancelled(i); err != nil {
			return dedupeOrdered(s.order, frontier), err
		}

		// Predicates see one candidate collection per context node, so a
		// positional predicate selects within each context's own
		// candidates: //method/statement[1] keeps the first statement of
		// each method, not the single globally-first statement of the
		// merged frontier.
		var next []N
		for _, ctxNode := range frontier {
			group := s.filterNodeTest(applyAxis(s.host, step.Axis, ctxNode), step.NodeTest)
			group, err := s.applyPredicates(group, step, i)
			if err != nil {
				return dedupeOrdered(s.order, frontier), err
			}
			next = append(next, group...)
		}
		s.order.sortInPlace(next)
		frontier = dedupeOrdered(s.order, next)
	}

	s.order.sortInPlace(frontier)
	return dedupeOrdered(s.order, frontier), nil
}

// seed picks the starting frontier. Absolute and descendant starts
// both seed at the root; the descendant-or-self expansion a leading
// "//" implies is carried by the first real Step's axis (merged in by
// parser.parseLeadingSeparator, so "//block" can still match a root
// that is itself a block), not as part of seeding, so the step loop's
// document-order sort and dedup apply to it uniformly with every other
// step. An internal "a//b" separator instead inserts its own synthetic
// DescendantOrSelf/Any step ahead of "b" (parser.parsePathExprTail),
// since there "a" itself must stay excluded.
func (s *state[N]) seed(path *ast.PathExpr, current N) []N {
	switch path.Start.Kind {
	case ast.StartAbsolute, ast.StartDescendant:
		return []N{s.host.Root()}
	default: // StartRelative
		return []N{current}
	}
}

func (s *state[N]) checkCancelled(step int) error {
	select {
	case <-s.opts.context().Done():
		return &EvalError{Kind: ErrCancelled, Reason: s.opts.context().Err().Error(), Step: step}
	default:
		return nil
	}
}

func dedupeOrdered[N comparable](order *docOrder[N], ns []N) []N {
	if len(ns) == 0 {
		return ns
	}
	out := make([]N, 0, len(ns))
	var seen map[N]struct{}
	if order.isOrdered {
		seen = make(map[N]struct{}, len(ns))
	}
	var bits *seenBits
	if !order.isOrdered {
		bits = newSeenBits()
	}
	for _, n := range ns {
		if order.isOrdered {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
		} else {
			ord := order.ordinalOf(n)
			if bits.testAndSet(ord) {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func (s *state[N]) filterNodeTest(ns []N, nt ast.NodeTest) []N {
	switch nt.Kind {
	case ast.Any:
		return ns
	case ast.TypeNameTest:
		out := ns[:0:0]
		for _, n := range ns {
			if s.host.NodeType(n) == nt.Value {
				out = append(out, n)
			}
		}
		return out
	case ast.PatternTest:
		g, err := s.compileGlob(nt.Value)
		if err != nil {
			return nil
		}
		out := ns[:0:0]
		for _, n := range ns {
			name, ok := s.host.NodeName(n)
			if ok && g.Match(name) {
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

// applyPredicates applies step.Predicates in order. A predicate that
// is, on its own, a PositionPred/LastPred/FirstPred is a
// collection-level operation; any other predicate shape, including
// one of those same three nested inside And/Or/Not, filters
// per-node via evalPred, which treats position predicates as per-node
// numeric tests in that context.
func (s *state[N]) applyPredicates(ns []N, step ast.Step, stepIdx int) ([]N, error) {
	for _, pred := range step.Predicates {
		if err := s.checkCancelled(stepIdx); err != nil {
			return nil, err
		}

		switch p := pred.(type) {
		case *ast.PositionPred:
			ns = collectionPosition(ns, p.N)
			continue
		case *ast.LastPred:
			ns = collectionPosition(ns, len(ns)-p.Offset)
			continue
		case *ast.FirstPred:
			ns = collectionPosition(ns, 1)
			continue
		}

		total := len(ns)
		out := ns[:0:0]
		for i, n := range ns {
			ok, err := s.evalPred(n, i+1, total, pred, stepIdx)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, n)
			}
		}
		ns = out
	}
	return ns, nil
}

// collectionPosition keeps the 1-based idx-th element of ns, or
// silently empties the collection if idx is out of range.
func collectionPosition[N comparable](ns []N, idx int) []N {
	if idx < 1 || idx > len(ns) {
		return nil
	}
	return []N{ns[idx-1]}
}

// evalPred is the per-node predicate evaluator. pos/total describe
// the node's 1-based position within its context node's candidate
// collection, used when a position-style predicate appears nested
// inside a logical combinator rather than as the sole primary.
func (s *state[N]) evalPred(n N, pos, total int, pred ast.PredExpr, stepIdx int) (bool, error) {
	switch p := pred.(type) {
	case *ast.OrPred:
		l, err := s.evalPred(n, pos, total, p.Left, stepIdx)
		if err != nil || l {
			return l, err
		}
		return s.evalPred(n, pos, total, p.Right, stepIdx)

	case *ast.AndPred:
		l, err := s.evalPred(n, pos, total, p.Left, stepIdx)
		if err != nil || !l {
			return false, err
		}
		return s.evalPred(n, pos, total, p.Right, stepIdx)

	case *ast.NotPred:
		inner, err := s.evalPred(n, pos, total, p.Inner, stepIdx)
		if err != nil {
			return false, err
		}
		return !inner, nil

	case *ast.PositionPred:
		return pos == p.N, nil

	case *ast.LastPred:
		return pos == total-p.Offset, nil

	case *ast.FirstPred:
		return pos == 1, nil

	case *ast.AttributePred:
		return s.evalAttributePred(n, p, stepIdx), nil

	case *ast.NameTestPred:
		g, err := s.compileGlob(p.Glob)
		if err != nil {
			return false, nil
		}
		name, ok := s.host.NodeName(n)
		return ok && g.Match(name), nil

	case *ast.PathPred:
		sub, warns, err := Evaluate(p.Path, s.host, n, s.opts)
		if err != nil {
			return false, err
		}
		s.warnings = append(s.warnings, warns...)
		return len(sub) > 0, nil

	case *ast.FunctionPred:
		if p.Name == "position" {
			return true, nil
		}
		return false, nil

	default:
		return false, nil
	}
}

// evalAttributePred implements the attribute predicate rules.
// The pseudo-attribute names "contains" and "matches" bypass
// host.Attribute entirely and test host.NormalisedText directly; any
// other name is looked up as a real attribute.
func (s *state[N]) evalAttributePred(n N, p *ast.AttributePred, stepIdx int) bool {
	switch p.Name {
	case "contains":
		if !p.HasOp {
			return false
		}
		return strings.Contains(s.host.NormalisedText(n), p.Value.Text)

	case "matches":
		if !p.HasOp {
			return false
		}
		re, err := compileRegex(p.Value.Text)
		if err != nil {
			s.warn(WarnBadRegex, err.Error(), stepIdx)
			return false
		}
		matched, _ := re.MatchString(s.host.NormalisedText(n))
		return matched
	}

	val, ok := s.host.Attribute(n, p.Name)
	if !ok {
		return false
	}
	if !p.HasOp {
		return val.Truthy()
	}

	rhs := p.Value.Text
	lhsText := val.Text()

	switch p.Op {
	case ast.OpContains:
		if listValuedAttr(p.Name) {
			return tokenSetContains(lhsText, rhs)
		}
		return strings.Contains(lhsText, rhs)
	case ast.OpEq:
		if hasGlobChars(rhs) {
			g, err := s.compileGlob(rhs)
			return err == nil && g.Match(lhsText)
		}
		return lhsText == rhs
	case ast.OpNe:
		if hasGlobChars(rhs) {
			g, err := s.compileGlob(rhs)
			return err != nil || !g.Match(lhsText)
		}
		return lhsText != rhs
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		lhsN, lerr := strconv.Atoi(lhsText)
		rhsN, rerr := strconv.Atoi(rhs)
		if lerr != nil || rerr != nil {
			return false
		}
		switch p.Op {
		case ast.OpLt:
			return lhsN < rhsN
		case ast.OpLe:
			return lhsN <= rhsN
		case ast.OpGt:
			return lhsN > rhsN
		case ast.OpGe:
			return lhsN >= rhsN
		}
	}
	return false
}

func hasGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?")
}

// listValuedAttr reports whether name's value is a whitespace-separated
// list. ~= on a list-valued attribute means set containment over its
// tokens, so @modifiers~='sealed' does not match "override unsealed";
// on every other attribute ~= is plain substring match.
func listValuedAttr(name string) bool {
	return name == "modifiers" || name == "implements"
}

func tokenSetContains(value, needle string) bool {
	for _, tok := range strings.Fields(value) {
		if tok == needle {
			return true
		}
	}
	return false
}
