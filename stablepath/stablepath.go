// Package stablepath implements the canonical stable-path string
// format: an XPath-style identifier such as "/solution/project/file/
// class/method/block[1]/expression[1]" that survives edits not
// touching the named structure. Build walks a host.SyntaxHost's
// ancestor chain to produce one; Parse reads one back into its
// segments.
package stablepath

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cygnusbill/spelunkpath/host"
)

// Segment is one "/"-delimited piece of a stable path: either a bare
// name (semantic containers: class, method, and the like, which have
// a declared NodeName) or a type name with a 1-based sibling index
// (structural nodes: block, statement, expression, which don't).
type Segment struct {
	Value    string
	Index    int
	HasIndex bool
}

// String renders the segment in stable-path form: "typeName" or
// "typeName[N]".
func (s Segment) String() string {
	if s.HasIndex {
		return fmt.Sprintf("%s[%d]", s.Value, s.Index)
	}
	return s.Value
}

// Build constructs the stable path identifying n within h, walking
// Parent() from n up to the root and rendering each ancestor as a
// Segment.
func Build[N comparable](h host.SyntaxHost[N], n N) (string, error) {
	chain := []N{n}
	cur := n
	for {
		p, ok := h.Parent(cur)
		if !ok {
			break
		}
		chain = append(chain, p)
		cur = p
	}

	var b strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(buildSegment(h, chain[i]).String())
	}
	return b.String(), nil
}

// buildSegment decides whether n is a semantic container (has a
// declared name: class, method, field...) or a structural node (block,
// statement, expression...) and renders it accordingly.
func buildSegment[N comparable](h host.SyntaxHost[N], n N) Segment {
	if name, ok := h.NodeName(n); ok && name != "" {
		return Segment{Value: name}
	}
	typ := h.NodeType(n)
	return Segment{Value: typ, Index: siblingIndex(h, n, typ), HasIndex: true}
}

// siblingIndex returns n's 1-based position among its parent's
// children that share n's own NodeType.
func siblingIndex[N comparable](h host.SyntaxHost[N], n N, typ string) int {
	p, ok := h.Parent(n)
	if !ok {
		return 1
	}
	count := 0
	for _, sib := range h.Children(p) {
		if h.NodeType(sib) != typ {
			continue
		}
		count++
		if sib == n {
			return count
		}
	}
	return count
}

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[/\[\]]`},
})

// segmentGrammar is one parsed "/"-delimited piece: a name optionally
// followed by a bracketed sibling index.
type segmentGrammar struct {
	Name  string `@Ident`
	Index *int   `( "[" @Int "]" )?`
}

// pathGrammar is a stable path: one or more "/"-prefixed segments.
type pathGrammar struct {
	Segments []*segmentGrammar `( "/" @@ )+`
}

var pathParser = participle.MustBuild[pathGrammar](
	participle.Lexer(pathLexer),
	participle.UseLookahead(2),
)

// Parse reads a stable path string back into its segments. It is the
// inverse of Build: Parse(Build(h, n)) recovers the same Value/Index
// sequence Build produced, though it has no way to recover which
// segments were semantic containers and which were structural (that
// information lives in the host, not the string).
func Parse(path string) ([]Segment, error) {
	g, err := pathParser.ParseString("", path)
	if err != nil {
		return nil, fmt.Errorf("stablepath: parse %q: %w", path, err)
	}

	segs := make([]Segment, len(g.Segments))
	for i, sg := range g.Segments {
		seg := Segment{Value: sg.Name}
		if sg.Index != nil {
			seg.HasIndex = true
			seg.Index = *sg.Index
		}
		segs[i] = seg
	}
	return segs, nil
}
