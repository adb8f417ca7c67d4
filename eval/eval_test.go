package eval_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cygnusbill/spelunkpath/eval"
	"github.com/cygnusbill/spelunkpath/host"
	"github.com/cygnusbill/spelunkpath/parser"
)

// fakeHost is a minimal hand-rolled SyntaxHost used to unit-test the
// evaluator in isolation from the testhost/jsonhost packages (jsonhost
// is exercised end-to-end by the conformance suite; testhost by its
// own tests).
type fakeHost struct {
	root     int
	parent   map[int]int
	children map[int][]int
	typ      map[int]string
	name     map[int]string
	text     map[int]string
	attrs    map[int]map[string]host.AttrValue

	attrLookups []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		parent:   make(map[int]int),
		children: make(map[int][]int),
		typ:      make(map[int]string),
		name:     make(map[int]string),
		text:     make(map[int]string),
		attrs:    make(map[int]map[string]host.AttrValue),
	}
}

func (h *fakeHost) addNode(id int, typ string, parent int, hasParent bool) {
	h.typ[id] = typ
	if hasParent {
		h.parent[id] = parent
		h.children[parent] = append(h.children[parent], id)
	}
}

func (h *fakeHost) Root() int              { return h.root }
func (h *fakeHost) Children(n int) []int   { return h.children[n] }
func (h *fakeHost) NodeType(n int) string  { return h.typ[n] }

// NormalisedText stands in for a front-end's whitespace normalisation:
// "==" is set off by single spaces and every other whitespace run
// collapses to one space, so "x==null", "x == null" and "x  ==  null"
// all normalise to "x == null".
func (h *fakeHost) NormalisedText(n int) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(h.text[n], "==", " == ")), " ")
}

func (h *fakeHost) Parent(n int) (int, bool) {
	p, ok := h.parent[n]
	return p, ok
}

func (h *fakeHost) NodeName(n int) (string, bool) {
	name, ok := h.name[n]
	return name, ok
}

func (h *fakeHost) Attribute(n int, key string) (host.AttrValue, bool) {
	h.attrLookups = append(h.attrLookups, key)
	v, ok := h.attrs[n][key]
	return v, ok
}

func (h *fakeHost) setAttr(n int, key string, v host.AttrValue) {
	if h.attrs[n] == nil {
		h.attrs[n] = make(map[string]host.AttrValue)
	}
	h.attrs[n][key] = v
}

func TestAxisCompleteness(t *testing.T) {
	h := newFakeHost()
	const a, b, c = 0, 1, 2
	h.root = a
	h.addNode(a, "class", 0, false)
	h.addNode(b, "method", a, true)
	h.addNode(c, "statement", b, true)

	cases := []struct {
		query string
		from  int
		want  []int
	}{
		{"child::*", b, []int{c}},
		{"descendant::*", b, []int{c}},
		{"descendant-or-self::*", b, []int{b, c}},
		{"parent::*", b, []int{a}},
		{"ancestor::*", b, []int{a}},
		{"ancestor-or-self::*", b, []int{a, b}},
		{"self::*", b, []int{b}},
		{"following-sibling::*", b, nil},
		{"preceding-sibling::*", b, nil},
	}

	for _, tc := range cases {
		path, err := parser.Parse(tc.query)
		require.NoError(t, err, tc.query)
		got, warnings, err := eval.Evaluate(path, h, tc.from, nil)
		require.NoError(t, err, tc.query)
		assert.Empty(t, warnings)
		assert.ElementsMatch(t, tc.want, got, "query %q from %d", tc.query, tc.from)
	}
}

func TestPositionSemantics(t *testing.T) {
	h := newFakeHost()
	const method, s1, s2, s3 = 0, 1, 2, 3
	h.root = method
	h.addNode(method, "method", 0, false)
	h.addNode(s1, "statement", method, true)
	h.addNode(s2, "statement", method, true)
	h.addNode(s3, "statement", method, true)

	cases := []struct {
		query string
		want  []int
	}{
		{"statement[1]", []int{s1}},
		{"statement[last()]", []int{s3}},
		{"statement[last()-1]", []int{s2}},
		{"statement[4]", nil},
		{"statement[first()]", []int{s1}},
	}
	for _, tc := range cases {
		path, err := parser.Parse(tc.query)
		require.NoError(t, err)
		got, _, err := eval.Evaluate(path, h, method, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.query)
	}
}

func TestPositionalPredicateAppliesPerContextNode(t *testing.T) {
	h := newFakeHost()
	const class, m1, m2, s1a, s1b, s2a, s2b = 0, 1, 2, 3, 4, 5, 6
	h.root = class
	h.addNode(class, "class", 0, false)
	h.addNode(m1, "method", class, true)
	h.addNode(s1a, "statement", m1, true)
	h.addNode(s1b, "statement", m1, true)
	h.addNode(m2, "method", class, true)
	h.addNode(s2a, "statement", m2, true)
	h.addNode(s2b, "statement", m2, true)

	cases := []struct {
		query string
		want  []int
	}{
		// [1] keeps the first statement of each method, not the single
		// globally-first statement of the merged frontier.
		{"//method/statement[1]", []int{s1a, s2a}},
		{"//method/statement[last()]", []int{s1b, s2b}},
		{"//method/statement[2]", []int{s1b, s2b}},
	}
	for _, tc := range cases {
		path, err := parser.Parse(tc.query)
		require.NoError(t, err)
		got, _, err := eval.Evaluate(path, h, class, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.query)
	}
}

func TestNameGlobPredicateMatchesPrefix(t *testing.T) {
	h := newFakeHost()
	const class, get, getUser, setValue = 0, 1, 2, 3
	h.root = class
	h.addNode(class, "class", 0, false)
	h.addNode(get, "method", class, true)
	h.addNode(getUser, "method", class, true)
	h.addNode(setValue, "method", class, true)
	h.name[get] = "Get"
	h.name[getUser] = "GetUser"
	h.name[setValue] = "SetValue"

	path, err := parser.Parse("method[Get*]")
	require.NoError(t, err)
	got, _, err := eval.Evaluate(path, h, class, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{get, getUser}, got)
}

func TestBlockNodesExcludedFromStatementTest(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "block", 0, false)

	stmtPath, err := parser.Parse("//statement")
	require.NoError(t, err)
	got, _, err := eval.Evaluate(stmtPath, h, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	blockPath, err := parser.Parse("//block")
	require.NoError(t, err)
	got, _, err = eval.Evaluate(blockPath, h, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)
}

func TestShortCircuitOr(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "class", 0, false)
	h.setAttr(0, "a", host.Bool(true))

	path, err := parser.Parse("self::*[@a or @b]")
	require.NoError(t, err)
	_, _, err = eval.Evaluate(path, h, 0, nil)
	require.NoError(t, err)
	assert.NotContains(t, h.attrLookups, "b")
}

func TestShortCircuitAnd(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "class", 0, false)
	h.setAttr(0, "a", host.Bool(false))

	path, err := parser.Parse("self::*[@a and @b]")
	require.NoError(t, err)
	_, _, err = eval.Evaluate(path, h, 0, nil)
	require.NoError(t, err)
	assert.NotContains(t, h.attrLookups, "b")
}

func TestNormalisedTextContainsAcrossWhitespaceVariants(t *testing.T) {
	variants := []string{"x==null", "x == null", "x  ==  null"}
	for _, text := range variants {
		h := newFakeHost()
		h.root = 0
		h.addNode(0, "statement", 0, false)
		h.text[0] = text

		path, err := parser.Parse(`//statement[@contains='== null']`)
		require.NoError(t, err)
		got, _, err := eval.Evaluate(path, h, 0, nil)
		require.NoError(t, err)
		assert.Len(t, got, 1, "text %q", text)
	}
}

func TestContainsOperatorIsSubstringOnPlainAttributes(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "method", 0, false)
	h.setAttr(0, "right-text", host.String("maybeNull"))

	path, err := parser.Parse("self::*[@right-text~='Null']")
	require.NoError(t, err)
	got, _, err := eval.Evaluate(path, h, 0, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestContainsOperatorIsSetContainmentOnModifiers(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "method", 0, false)
	h.setAttr(0, "modifiers", host.String("public override unsealed"))

	cases := []struct {
		query string
		want  int
	}{
		{"self::*[@modifiers~='override']", 1},
		// "sealed" is a substring of "unsealed" but not one of the
		// whitespace-separated modifier tokens.
		{"self::*[@modifiers~='sealed']", 0},
	}
	for _, tc := range cases {
		path, err := parser.Parse(tc.query)
		require.NoError(t, err)
		got, _, err := eval.Evaluate(path, h, 0, nil)
		require.NoError(t, err)
		assert.Len(t, got, tc.want, tc.query)
	}
}

func TestBadRegexProducesWarningNotError(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "statement", 0, false)
	h.text[0] = "whatever"

	path, err := parser.Parse(`//statement[@matches='(']`)
	require.NoError(t, err)
	got, warnings, err := eval.Evaluate(path, h, 0, &eval.Options{CollectWarnings: true})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, warnings, 1)
	assert.Equal(t, eval.WarnBadRegex, warnings[0].Kind)
}

func TestCancellationYieldsPartialResultAndError(t *testing.T) {
	h := newFakeHost()
	h.root = 0
	h.addNode(0, "class", 0, false)
	h.addNode(1, "method", 0, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := parser.Parse("//method")
	require.NoError(t, err)
	_, _, err = eval.Evaluate(path, h, 0, &eval.Options{Context: ctx})
	require.Error(t, err)
	var evalErr *eval.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, eval.ErrCancelled, evalErr.Kind)
}

func TestEvaluateManyCombinesAcrossHosts(t *testing.T) {
	h1 := newFakeHost()
	h1.root = 0
	h1.addNode(0, "class", 0, false)
	h1.addNode(1, "method", 0, true)

	h2 := newFakeHost()
	h2.root = 0
	h2.addNode(0, "class", 0, false)

	path, err := parser.Parse("//method")
	require.NoError(t, err)

	hosts := []host.SyntaxHost[int]{h1, h2}
	starts := []int{0, 0}
	results, _, err := eval.EvaluateMany(path, hosts, starts, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int{1}, results[0])
	assert.Empty(t, results[1])
}
