package eval

import (
	"sort"

	"github.com/cygnusbill/spelunkpath/host"
)

// docOrder answers "does a precede b in document order" for a single
// Evaluate call. When the host implements host.Ordered, that's used
// directly and no extra bookkeeping is needed. Otherwise docOrder
// falls back to a lazily-computed pre-order numbering from the root,
// computed at most once per Evaluate call and cached for its
// lifetime; this is the "less battle-tested for exotic trees" path
// host.go documents for bare SyntaxHost implementations.
type docOrder[N comparable] struct {
	host      host.SyntaxHost[N]
	ordered   host.Ordered[N]
	isOrdered bool

	ordinal  map[N]int
	computed bool
	next     int
}

func newDocOrder[N comparable](h host.SyntaxHost[N]) *docOrder[N] {
	if oh, ok := h.(host.Ordered[N]); ok {
		return &docOrder[N]{host: h, ordered: oh, isOrdered: true}
	}
	return &docOrder[N]{host: h, ordinal: make(map[N]int)}
}

func (d *docOrder[N]) less(a, b N) bool {
	if d.isOrdered {
		return d.ordered.Less(a, b)
	}
	return d.ordinalOf(a) < d.ordinalOf(b)
}

func (d *docOrder[N]) ordinalOf(n N) int {
	if v, ok := d.ordinal[n]; ok {
		return v
	}
	d.computeOrdinals()
	return d.ordinal[n]
}

func (d *docOrder[N]) computeOrdinals() {
	if d.computed {
		return
	}
	d.computed = true
	var walk func(n N)
	walk = func(n N) {
		if _, seen := d.ordinal[n]; seen {
			return
		}
		d.ordinal[n] = d.next
		d.next++
		for _, c := range d.host.Children(n) {
			walk(c)
		}
	}
	walk(d.host.Root())
}

// sortInPlace sorts ns into document order.
func (d *docOrder[N]) sortInPlace(ns []N) {
	sort.Slice(ns, func(i, j int) bool { return d.less(ns[i], ns[j]) })
}
