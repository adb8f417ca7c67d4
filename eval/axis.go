package eval

import (
	"github.com/gammazero/deque"

	"github.com/cygnusbill/spelunkpath/ast"
	"github.com/cygnusbill/spelunkpath/host"
)

// applyAxis expands a single context node into the candidate set the
// named axis reaches from it.
// Results are unordered with respect to other context nodes in the
// same step; the caller sorts the merged frontier into document order
// once per step.
func applyAxis[N comparable](h host.SyntaxHost[N], axis ast.Axis, n N) []N {
	switch axis {
	case ast.Child:
		return append([]N(nil), h.Children(n)...)

	case ast.Self:
		return []N{n}

	case ast.Parent:
		if p, ok := h.Parent(n); ok {
			return []N{p}
		}
		return nil

	case ast.Descendant:
		return descendants(h, n, false)

	case ast.DescendantOrSelf:
		return descendants(h, n, true)

	case ast.Ancestor:
		return ancestors(h, n, false)

	case ast.AncestorOrSelf:
		return ancestors(h, n, true)

	case ast.FollowingSibling:
		return siblings(h, n, true)

	case ast.PrecedingSibling:
		return siblings(h, n, false)

	default:
		return nil
	}
}

// descendants walks n's subtree iteratively using deque as a
// pre-order DFS stack, rather than recursing, so the traversal depth
// of a wide/deep host tree doesn't become the Go call stack's
// problem.
func descendants[N comparable](h host.SyntaxHost[N], n N, includeSelf bool) []N {
	var out []N
	var stack deque.Deque[N]

	push := func(node N) {
		children := h.Children(node)
		for i := len(children) - 1; i >= 0; i-- {
			stack.PushFront(children[i])
		}
	}

	if includeSelf {
		out = append(out, n)
	}
	push(n)

	for stack.Len() > 0 {
		cur := stack.PopFront()
		out = append(out, cur)
		push(cur)
	}

	return out
}

// ancestors walks n's parent chain. It is bounded by tree depth, so
// no deque is needed here: depth is rarely more than a few hundred
// even for generated code, unlike descendant/child breadth.
func ancestors[N comparable](h host.SyntaxHost[N], n N, includeSelf bool) []N {
	var out []N
	if includeSelf {
		out = append(out, n)
	}
	cur := n
	for {
		p, ok := h.Parent(cur)
		if !ok {
			break
		}
		out = append(out, p)
		cur = p
	}
	return out
}

// siblings returns n's following (forward) or preceding (backward)
// siblings, in document order either way.
func siblings[N comparable](h host.SyntaxHost[N], n N, following bool) []N {
	p, ok := h.Parent(n)
	if !ok {
		return nil
	}
	kids := h.Children(p)
	idx := -1
	for i, k := range kids {
		if k == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if following {
		return append([]N(nil), kids[idx+1:]...)
	}
	return append([]N(nil), kids[:idx]...)
}
