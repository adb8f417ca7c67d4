package eval

import "github.com/bits-and-blooms/bitset"

// seenBits is the document-order dedup seen-set used when a host
// doesn't implement host.Ordered and the evaluator has to fall back
// to its own pre-order ordinal numbering. A bitset keyed by that
// ordinal is cheaper than a map[N]struct{} once trees get wide, since
// it never hashes N itself, only the small dense integer ordinal.
type seenBits struct {
	bits *bitset.BitSet
}

func newSeenBits() *seenBits {
	return &seenBits{bits: bitset.New(64)}
}

// testAndSet reports whether ordinal was already marked seen, marking
// it seen as a side effect either way.
func (s *seenBits) testAndSet(ordinal int) bool {
	u := uint(ordinal)
	if s.bits.Test(u) {
		return true
	}
	s.bits.Set(u)
	return false
}
