package stablepath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnusbill/spelunkpath/host"
	"github.com/cygnusbill/spelunkpath/stablepath"
)

// fakeHost is a tiny hand-rolled SyntaxHost, just enough to exercise
// Build's ancestor walk and sibling-index counting.
type fakeHost struct {
	parent   map[int]int
	children map[int][]int
	typ      map[int]string
	name     map[int]string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		parent:   make(map[int]int),
		children: make(map[int][]int),
		typ:      make(map[int]string),
		name:     make(map[int]string),
	}
}

func (h *fakeHost) add(id int, typ string, parent int, hasParent bool) {
	h.typ[id] = typ
	if hasParent {
		h.parent[id] = parent
		h.children[parent] = append(h.children[parent], id)
	}
}

func (h *fakeHost) Root() int                   { return 0 }
func (h *fakeHost) Children(n int) []int        { return h.children[n] }
func (h *fakeHost) NodeType(n int) string       { return h.typ[n] }
func (h *fakeHost) NormalisedText(n int) string { return "" }
func (h *fakeHost) Attribute(n int, k string) (host.AttrValue, bool) {
	return host.AttrValue{}, false
}

func (h *fakeHost) Parent(n int) (int, bool) {
	p, ok := h.parent[n]
	return p, ok
}

func (h *fakeHost) NodeName(n int) (string, bool) {
	name, ok := h.name[n]
	return name, ok
}

func TestBuildMixesNamedAndIndexedSegments(t *testing.T) {
	h := newFakeHost()
	const class, method, block, expr1, expr2 = 0, 1, 2, 3, 4
	h.add(class, "class", 0, false)
	h.name[class] = "Widget"
	h.add(method, "method", class, true)
	h.name[method] = "Render"
	h.add(block, "block", method, true)
	h.add(expr1, "expression", block, true)
	h.add(expr2, "expression", block, true)

	got, err := stablepath.Build[int](h, expr2)
	require.NoError(t, err)
	assert.Equal(t, "/Widget/Render/block[1]/expression[2]", got)
}

func TestBuildNamedSegmentCarriesNoIndex(t *testing.T) {
	h := newFakeHost()
	const class, field = 0, 1
	h.add(class, "class", 0, false)
	h.name[class] = "Widget"
	h.add(field, "field", class, true)
	h.name[field] = "count"

	got, err := stablepath.Build[int](h, field)
	require.NoError(t, err)
	assert.Equal(t, "/Widget/count", got)
}

func TestBuildRootOnly(t *testing.T) {
	h := newFakeHost()
	h.add(0, "compilation", 0, false)

	got, err := stablepath.Build[int](h, 0)
	require.NoError(t, err)
	assert.Equal(t, "/compilation[1]", got)
}

func TestParseRoundTripsBuild(t *testing.T) {
	segs, err := stablepath.Parse("/Widget/Render/block[1]/expression[2]")
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, stablepath.Segment{Value: "Widget"}, segs[0])
	assert.Equal(t, stablepath.Segment{Value: "Render"}, segs[1])
	assert.Equal(t, stablepath.Segment{Value: "block", Index: 1, HasIndex: true}, segs[2])
	assert.Equal(t, stablepath.Segment{Value: "expression", Index: 2, HasIndex: true}, segs[3])
}

func TestParseDottedNameSegmentStaysWhole(t *testing.T) {
	// Semantic-container segments carry a NodeName, which may itself
	// contain dots (e.g. a dotted namespace name); the grammar's Ident
	// token allows embedded dots so such a name stays one segment.
	segs, err := stablepath.Parse("/A.B.C/class")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "A.B.C", segs[0].Value)
	assert.False(t, segs[0].HasIndex)
}

func TestParseRejectsMissingLeadingSlash(t *testing.T) {
	_, err := stablepath.Parse("class/method")
	require.Error(t, err)
}

func TestParseRejectsEmptyString(t *testing.T) {
	_, err := stablepath.Parse("")
	require.Error(t, err)
}

func TestSegmentStringFormatting(t *testing.T) {
	assert.Equal(t, "class", stablepath.Segment{Value: "class"}.String())
	assert.Equal(t, "block[3]", stablepath.Segment{Value: "block", Index: 3, HasIndex: true}.String())
}
