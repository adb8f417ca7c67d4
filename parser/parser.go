// Package parser builds a SpelunkPath ast.PathExpr from a token
// stream. It is a hand-written recursive-descent parser rather than a
// Pratt/precedence-table parser: the predicate grammar is already
// unambiguously layered (orExpr > andExpr > notExpr > primary), so
// precedence climbing buys nothing a direct grammar-shaped set of
// functions doesn't already give for free, and it keeps the
// not/and/or short-circuit structure in eval.Evaluate obviously
// correct by construction.
package parser

import (
	"fmt"
	"strconv"

	"github.com/cygnusbill/spelunkpath/ast"
	"github.com/cygnusbill/spelunkpath/lexer"
	"github.com/cygnusbill/spelunkpath/token"
)

// ParseError reports a grammar violation: an unexpected token, or
// end-of-input where a step or predicate was still expected. Parsing
// aborts the whole query on the first ParseError; there is no
// error-recovery mode.
type ParseError struct {
	Reason string
	Span   token.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s (at %s)", e.Reason, e.Span.String())
}

// Parser consumes a fixed token slice by index; it never mutates the
// slice.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New builds a parser over an already-tokenized query.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes src and parses it as a complete SpelunkPath query.
// It is the single entry point most callers need; Parser itself is
// exposed for callers that already have a token stream.
func Parse(src string) (*ast.PathExpr, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // Eof
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur().Kind != kind {
		return token.Token{}, &ParseError{
			Reason: fmt.Sprintf("expected %s but found %s %q", kind.Name(), p.cur().Kind.Name(), p.cur().Literal),
			Span:   p.cur().Span,
		}
	}
	return p.advance(), nil
}

// Parse parses a complete path expression and ensures no tokens
// remain afterward.
func (p *Parser) Parse() (*ast.PathExpr, error) {
	path, err := p.parsePathExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.Eof {
		return nil, &ParseError{
			Reason: fmt.Sprintf("unexpected token %s %q after complete expression", p.cur().Kind.Name(), p.cur().Literal),
			Span:   p.cur().Span,
		}
	}
	return path, nil
}

// parsePathExpr implements the path grammar:
//
//	path ::= ('/' | '//' | '.' | ) ? step ( ('/' | '//') step )*
//
// It does not check for trailing EOF: callers parsing a nested
// pathPred need to hand control back to the predicate grammar (a
// ']', 'and', or 'or' token typically follows), while the top-level
// Parse wraps this with its own EOF check.
func (p *Parser) parsePathExpr() (*ast.PathExpr, error) {
	switch p.cur().Kind {
	case token.Slash, token.DoubleSlash:
		start, steps, err := p.parseLeadingSeparator()
		if err != nil {
			return nil, err
		}
		return p.parsePathExprTail(start, steps)

	case token.Dot:
		start := ast.Start{Kind: ast.StartRelative, Span: p.cur().Span}
		p.advance()
		switch p.cur().Kind {
		case token.Slash, token.DoubleSlash:
			// "." is only an explicit spelling of the relative start; a
			// separator right after it (as in the predicate
			// "[.//throw-statement]") continues exactly
			// like an ordinary internal "//"/"/" separator between two
			// steps would: descendant-or-self of the CURRENT node, not
			// of the document root, so self is excluded unless reached
			// again through an actual child hop. This is why it keeps
			// the two-step synthetic-step form parsePathExprTail uses
			// below rather than parseLeadingSeparator's root-anchored
			// merge.
			sep := p.advance()
			var steps []ast.Step
			if sep.Kind == token.DoubleSlash {
				steps = append(steps, ast.Step{
					Axis:     ast.DescendantOrSelf,
					NodeTest: ast.NodeTest{Kind: ast.Any},
					Span:     sep.Span,
				})
			}
			step, err := p.parseStep()
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
			return p.parsePathExprTail(start, steps)

		case token.Pattern, token.DoubleDot:
			step, err := p.parseStep()
			if err != nil {
				return nil, err
			}
			return p.parsePathExprTail(start, []ast.Step{step})

		default:
			// A lone "." with nothing following is a valid self-reference
			// (the context node itself).
			return &ast.PathExpr{Start: start, Steps: nil}, nil
		}

	default:
		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		return p.parsePathExprTail(ast.Start{Kind: ast.StartRelative}, []ast.Step{step})
	}
}

// parseLeadingSeparator consumes a path's leading "/" or "//" and the
// step that immediately follows it. A leading "//" seeds at the
// document root and must be able to match the root node itself, not
// only its descendants ("//block" against a tree that is only a block
// node still yields that one node); so unlike an internal "a//b"
// separator (handled by parsePathExprTail, which deliberately excludes
// "a" itself), the descendant-or-self expansion here is merged
// directly into the first real step's axis when that axis is the
// default child axis. A step with an explicit axis keeps it and gets
// the expansion as a separate leading step instead.
func (p *Parser) parseLeadingSeparator() (ast.Start, []ast.Step, error) {
	sep := p.advance() // Slash or DoubleSlash
	start := ast.Start{Kind: ast.StartAbsolute, Span: sep.Span}
	if sep.Kind == token.DoubleSlash {
		start.Kind = ast.StartDescendant
	}

	firstStep, err := p.parseStep()
	if err != nil {
		return ast.Start{}, nil, err
	}
	if sep.Kind == token.DoubleSlash {
		if firstStep.Axis == ast.Child {
			firstStep.Axis = ast.DescendantOrSelf
		} else {
			// An explicit axis (//self::foo, //descendant::foo) keeps its
			// own meaning; the descendant-or-self anchor becomes a step of
			// its own ahead of it, so //self::foo still reaches every foo
			// in the tree rather than only the root.
			return start, []ast.Step{
				{Axis: ast.DescendantOrSelf, NodeTest: ast.NodeTest{Kind: ast.Any}, Span: sep.Span},
				firstStep,
			}, nil
		}
	}
	return start, []ast.Step{firstStep}, nil
}

// parsePathExprTail consumes any further "/"- or "//"-separated steps
// after the path's first one, per "path ::= ...? step (('/' | '//')
// step)*". Each internal "//" separator inserts a synthetic
// descendant-or-self/Any step ahead of the following real step: "a//b"
// must find "b" as a genuine descendant of "a", never "a" itself.
func (p *Parser) parsePathExprTail(start ast.Start, steps []ast.Step) (*ast.PathExpr, error) {
	for p.cur().Kind == token.Slash || p.cur().Kind == token.DoubleSlash {
		sep := p.advance()
		if sep.Kind == token.DoubleSlash {
			steps = append(steps, ast.Step{
				Axis:     ast.DescendantOrSelf,
				NodeTest: ast.NodeTest{Kind: ast.Any},
				Span:     sep.Span,
			})
		}
		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return &ast.PathExpr{Start: start, Steps: steps}, nil
}

func startsStep(k token.Kind) bool {
	return k == token.Pattern || k == token.DoubleDot
}

// parseStep implements:
//
//	step     ::= (axis '::')? nodeTest predicate*
//	nodeTest ::= '*' | typeName | '..'
//
// A step must always consume at least one token, or the path loop
// above it would spin forever on queries like "//*[@name='foo']";
// startIdx/the trailing assertion below is that guard made explicit
// rather than just hoped for by construction.
func (p *Parser) parseStep() (ast.Step, error) {
	startIdx := p.pos

	if p.cur().Kind == token.Eof {
		return ast.Step{}, &ParseError{
			Reason: "expected a step but found end of input",
			Span:   p.cur().Span,
		}
	}

	axis := ast.Child
	if p.cur().Kind == token.Pattern && p.peek(1).Kind == token.ColonColon {
		if resolved, ok := ast.AxisByName(p.cur().Literal); ok {
			axis = resolved
			p.advance() // axis name
			p.advance() // ::
		}
	}

	var nodeTest ast.NodeTest
	span := p.cur().Span

	switch p.cur().Kind {
	case token.DoubleDot:
		span = p.cur().Span
		p.advance()
		axis = ast.Parent
		nodeTest = ast.NodeTest{Kind: ast.Any}
	case token.Pattern:
		lit := p.cur().Literal
		span = p.cur().Span
		p.advance()
		nodeTest = classifyNodeTest(lit)
	default:
		return ast.Step{}, &ParseError{
			Reason: fmt.Sprintf("expected a node test but found %s %q", p.cur().Kind.Name(), p.cur().Literal),
			Span:   p.cur().Span,
		}
	}

	var preds []ast.PredExpr
	for p.cur().Kind == token.LBracket {
		pred, err := p.parsePredicate()
		if err != nil {
			return ast.Step{}, err
		}
		preds = append(preds, pred)
	}

	if p.pos == startIdx {
		return ast.Step{}, &ParseError{
			Reason: "internal: step consumed no tokens",
			Span:   p.cur().Span,
		}
	}

	return ast.Step{Axis: axis, NodeTest: nodeTest, Predicates: preds, Span: span}, nil
}

// classifyNodeTest turns a Pattern token's literal text into a
// NodeTest: the bare wildcard is Any, text containing glob characters
// matches against the node's declared *name* (PatternTest), and plain
// text matches the node's canonical *type* exactly (TypeNameTest).
func classifyNodeTest(lit string) ast.NodeTest {
	if token.IsPatternText(lit) {
		return ast.NodeTest{Kind: ast.Any}
	}
	if containsGlobChars(lit) {
		return ast.NodeTest{Kind: ast.PatternTest, Value: lit}
	}
	return ast.NodeTest{Kind: ast.TypeNameTest, Value: lit}
}

func containsGlobChars(s string) bool {
	for _, r := range s {
		if r == '*' || r == '?' {
			return true
		}
	}
	return false
}

// parsePredicate implements "predicate ::= '[' orExpr ']'".
func (p *Parser) parsePredicate() (ast.PredExpr, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseOrExpr implements "orExpr ::= andExpr ('or' andExpr)*".
func (p *Parser) parseOrExpr() (ast.PredExpr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.KwOr {
		opSpan := p.advance().Span
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewOrPred(left, right, opSpan)
	}
	return left, nil
}

// parseAndExpr implements "andExpr ::= notExpr ('and' notExpr)*".
func (p *Parser) parseAndExpr() (ast.PredExpr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.KwAnd {
		opSpan := p.advance().Span
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewAndPred(left, right, opSpan)
	}
	return left, nil
}

// parseNotExpr implements "notExpr ::= 'not' '(' orExpr ')' | primary".
func (p *Parser) parseNotExpr() (ast.PredExpr, error) {
	if p.cur().Kind != token.KwNot {
		return p.parsePrimary()
	}
	notSpan := p.advance().Span
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	inner, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return ast.NewNotPred(inner, notSpan), nil
}

// pathContinuation reports whether kind can follow a bare Pattern
// token and still mean "this Pattern is the start of a nested path",
// as opposed to "this Pattern is the whole name-glob predicate".
func pathContinuation(kind token.Kind) bool {
	switch kind {
	case token.Slash, token.DoubleSlash, token.ColonColon, token.LBracket:
		return true
	default:
		return false
	}
}

// parsePrimary implements:
//
//	primary ::= '(' orExpr ')'
//	          | attrPred | positionPred | funcCall
//	          | pathPred | nameGlob
func (p *Parser) parsePrimary() (ast.PredExpr, error) {
	switch p.cur().Kind {
	case token.LParen:
		p.advance()
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil

	case token.At:
		return p.parseAttrPred()

	case token.Number:
		tok := p.advance()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("invalid position literal %q", tok.Literal), Span: tok.Span}
		}
		return ast.NewPositionPred(n, tok.Span), nil

	case token.Dot, token.Slash, token.DoubleSlash:
		span := p.cur().Span
		path, err := p.parsePathExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewPathPred(path, span), nil

	case token.Pattern:
		if p.peek(1).Kind == token.LParen {
			return p.parseFuncCall()
		}
		if pathContinuation(p.peek(1).Kind) {
			span := p.cur().Span
			path, err := p.parsePathExpr()
			if err != nil {
				return nil, err
			}
			return ast.NewPathPred(path, span), nil
		}
		tok := p.advance()
		return ast.NewNameTestPred(tok.Literal, tok.Span), nil

	default:
		return nil, &ParseError{
			Reason: fmt.Sprintf("unexpected token %s %q in predicate", p.cur().Kind.Name(), p.cur().Literal),
			Span:   p.cur().Span,
		}
	}
}

// parseAttrPred implements "attrPred ::= '@' name (cmpOp literal)?".
func (p *Parser) parseAttrPred() (ast.PredExpr, error) {
	atTok, err := p.expect(token.At)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.Pattern)
	if err != nil {
		return nil, &ParseError{Reason: "expected an attribute name after '@'", Span: p.cur().Span}
	}

	op, hasOp := cmpOpFor(p.cur().Kind)
	if !hasOp {
		return ast.NewAttributePred(nameTok.Literal, false, 0, ast.AttrValue{}, atTok.Span), nil
	}
	p.advance()

	litTok := p.cur()
	var value ast.AttrValue
	switch litTok.Kind {
	case token.String:
		value = ast.AttrValue{Kind: ast.AttrString, Text: litTok.Literal}
	case token.Number:
		value = ast.AttrValue{Kind: ast.AttrNumber, Text: litTok.Literal}
	default:
		return nil, &ParseError{
			Reason: fmt.Sprintf("expected a string or number literal after comparison operator, found %s", litTok.Kind.Name()),
			Span:   litTok.Span,
		}
	}
	p.advance()

	return ast.NewAttributePred(nameTok.Literal, true, op, value, atTok.Span), nil
}

func cmpOpFor(kind token.Kind) (ast.CmpOp, bool) {
	switch kind {
	case token.Equals:
		return ast.OpEq, true
	case token.NotEquals:
		return ast.OpNe, true
	case token.Lt:
		return ast.OpLt, true
	case token.Le:
		return ast.OpLe, true
	case token.Gt:
		return ast.OpGt, true
	case token.Ge:
		return ast.OpGe, true
	case token.Contains:
		return ast.OpContains, true
	default:
		return 0, false
	}
}

// parseFuncCall handles last(), last()-k, first(), and position();
// any other identifier-with-parens combination is rejected.
func (p *Parser) parseFuncCall() (ast.PredExpr, error) {
	nameTok := p.advance() // Pattern
	lparen, err := p.expect(token.LParen)
	if err != nil {
		return nil, err
	}

	switch nameTok.Literal {
	case "last":
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		span := nameTok.Span
		if p.cur().Kind == token.Minus {
			p.advance()
			numTok, err := p.expect(token.Number)
			if err != nil {
				return nil, &ParseError{Reason: "expected a number after 'last()-'", Span: p.cur().Span}
			}
			offset, convErr := strconv.Atoi(numTok.Literal)
			if convErr != nil {
				return nil, &ParseError{Reason: fmt.Sprintf("invalid offset %q", numTok.Literal), Span: numTok.Span}
			}
			return ast.NewLastPred(offset, span), nil
		}
		return ast.NewLastPred(0, span), nil

	case "first":
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return ast.NewFirstPred(nameTok.Span), nil

	case "position":
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return ast.NewFunctionPred("position", nil, nameTok.Span), nil

	default:
		return nil, &ParseError{
			Reason: fmt.Sprintf("unsupported function %q; only last(), first(), and position() are recognized", nameTok.Literal),
			Span:   lparen.Span,
		}
	}
}
