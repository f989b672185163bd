// internal/syntax/parser.go

// Package syntax parses program source into an untyped syntax tree.
package syntax

import (
	"strconv"
	"strings"
	"time"

	"github.com/solatis/remap/internal/types"
	"github.com/solatis/remap/internal/value"
)

/*
 * Recursive-descent parser.
 *
 * Grammar (newline or ';' separate expressions at block level):
 *
 *   program    = { expr sep }
 *   expr       = assignment
 *   assignment = (path | ident) "=" expr | coalesce
 *   coalesce   = primary { "??" primary }
 *   primary    = literal | path | ident | call | array | object
 *              | "(" expr ")" | if
 *   call       = ident "(" [ arg { "," arg } [","] ] ")"
 *   arg        = [ ident ":" ] expr
 *   if         = "if" expr block [ "else" ( block | if ) ]
 *   block      = "{" { expr sep } "}"
 *   array      = "[" [ expr { "," expr } [","] ] "]"
 *   object     = "{" [ string ":" expr { "," string ":" expr } [","] ] "}"
 *
 * Nesting is bounded by types.MaxExpressionDepth so hostile input cannot
 * exhaust the stack.
 */

var keywords = map[string]bool{
	"if":    true,
	"else":  true,
	"true":  true,
	"false": true,
	"null":  true,
}

type parser struct {
	tokens []token
	pos    int
	depth  int
}

// Parse parses source into a Program. Errors are *types.CompileError
// wrapping types.ErrSyntax.
func Parse(source string) (*Program, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	exprs, err := p.parseSequence(tokEOF)
	if err != nil {
		return nil, err
	}
	return &Program{
		Exprs:  exprs,
		Source: source,
		span:   types.Span{Start: 0, End: len(source)},
	}, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekN(n int) token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, syntaxError(tok.span, "expected %s, found %s", kind, describe(tok))
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.advance()
	}
}

func describe(tok token) string {
	switch tok.kind {
	case tokEOF, tokNewline:
		return tok.kind.String()
	default:
		return strconv.Quote(tok.text)
	}
}

// parseSequence parses separated expressions until end (not consumed).
func (p *parser) parseSequence(end tokenKind) ([]Node, error) {
	var exprs []Node
	for {
		for p.peek().kind == tokNewline || p.peek().kind == tokSemicolon {
			p.advance()
		}
		if p.peek().kind == end {
			return exprs, nil
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)

		switch p.peek().kind {
		case tokNewline, tokSemicolon:
		case end:
			return exprs, nil
		default:
			tok := p.peek()
			return nil, syntaxError(tok.span, "expected newline or ';' after expression, found %s", describe(tok))
		}
	}
}

func (p *parser) enter(span types.Span) error {
	p.depth++
	if p.depth > types.MaxExpressionDepth {
		return syntaxError(span, "expression nesting exceeds %d", types.MaxExpressionDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseExpr() (Node, error) {
	if err := p.enter(p.peek().span); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokAssign {
		return left, nil
	}

	assignTok := p.advance()
	switch left.(type) {
	case *Query, *Variable:
	default:
		return nil, syntaxError(assignTok.span, "left side of assignment must be a path or variable")
	}
	p.skipNewlines()
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Assign{Target: left, Value: right, span: left.Span().Merge(right.Span())}, nil
}

func (p *parser) parseCoalesce() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokCoalesce {
		p.advance()
		p.skipNewlines()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &Coalesce{Left: left, Right: right, span: left.Span().Merge(right.Span())}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokString:
		p.advance()
		return &Literal{Value: value.Bytes(tok.text), span: tok.span}, nil

	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(strings.ReplaceAll(tok.text, "_", ""), 10, 64)
		if err != nil {
			return nil, syntaxError(tok.span, "integer literal out of range")
		}
		return &Literal{Value: value.Integer(n), span: tok.span}, nil

	case tokFloat:
		p.advance()
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.text, "_", ""), 64)
		if err != nil {
			return nil, syntaxError(tok.span, "invalid float literal")
		}
		return &Literal{Value: value.Float(f), span: tok.span}, nil

	case tokRegex:
		p.advance()
		re, err := value.NewRegex(tok.text)
		if err != nil {
			return nil, syntaxError(tok.span, "invalid regex: %v", err)
		}
		return &Literal{Value: re, span: tok.span}, nil

	case tokTimestamp:
		p.advance()
		ts, err := time.Parse(time.RFC3339Nano, tok.text)
		if err != nil {
			return nil, syntaxError(tok.span, "invalid timestamp literal %q", tok.text)
		}
		return &Literal{Value: value.NewTimestamp(ts), span: tok.span}, nil

	case tokPath:
		p.advance()
		if len(tok.path) > types.MaxPathDepth {
			return nil, &types.CompileError{
				Span:    tok.span,
				Message: tok.text,
				Cause:   types.ErrPathTooDeep,
			}
		}
		return &Query{Path: tok.path, span: tok.span}, nil

	case tokLBracket:
		return p.parseArray()

	case tokLBrace:
		return p.parseObject()

	case tokLParen:
		p.advance()
		p.skipNewlines()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case tokIdent:
		return p.parseIdent()
	}

	return nil, syntaxError(tok.span, "unexpected %s", describe(tok))
}

func (p *parser) parseIdent() (Node, error) {
	tok := p.advance()
	switch tok.text {
	case "true", "false":
		return &Literal{Value: value.Boolean(tok.text == "true"), span: tok.span}, nil
	case "null":
		return &Literal{Value: value.Null{}, span: tok.span}, nil
	case "if":
		return p.parseIf(tok)
	case "else":
		return nil, syntaxError(tok.span, "'else' without 'if'")
	}

	if p.peek().kind == tokLParen {
		return p.parseCall(tok)
	}
	return &Variable{Name: tok.text, span: tok.span}, nil
}

func (p *parser) parseCall(name token) (Node, error) {
	p.advance() // (
	var args []Argument
	for {
		p.skipNewlines()
		if p.peek().kind == tokRParen {
			break
		}

		start := p.peek().span
		var keyword string
		if p.peek().kind == tokIdent && p.peekN(1).kind == tokColon && !keywords[p.peek().text] {
			keyword = p.advance().text
			p.advance()
			p.skipNewlines()
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, Argument{Keyword: keyword, Value: v, Span: start.Merge(v.Span())})

		p.skipNewlines()
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}

	end, err := p.expect(tokRParen)
	if err != nil {
		return nil, err
	}
	return &Call{Name: name.text, Args: args, span: name.span.Merge(end.span)}, nil
}

func (p *parser) parseArray() (Node, error) {
	start := p.advance() // [
	var items []Node
	for {
		p.skipNewlines()
		if p.peek().kind == tokRBracket {
			break
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipNewlines()
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	end, err := p.expect(tokRBracket)
	if err != nil {
		return nil, err
	}
	return &ArrayLit{Items: items, span: start.span.Merge(end.span)}, nil
}

func (p *parser) parseObject() (Node, error) {
	start := p.advance() // {
	var entries []ObjectEntry
	seen := make(map[string]bool)
	for {
		p.skipNewlines()
		if p.peek().kind == tokRBrace {
			break
		}
		keyTok, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		if seen[keyTok.text] {
			return nil, syntaxError(keyTok.span, "duplicate object key %q", keyTok.text)
		}
		seen[keyTok.text] = true
		if _, err := p.expect(tokColon); err != nil {
			return nil, err
		}
		p.skipNewlines()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ObjectEntry{Key: keyTok.text, Value: v})
		p.skipNewlines()
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	end, err := p.expect(tokRBrace)
	if err != nil {
		return nil, err
	}
	return &ObjectLit{Entries: entries, span: start.span.Merge(end.span)}, nil
}

func (p *parser) parseBlock() (*Block, error) {
	start, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	exprs, err := p.parseSequence(tokRBrace)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(tokRBrace)
	if err != nil {
		return nil, err
	}
	return &Block{Exprs: exprs, span: start.span.Merge(end.span)}, nil
}

func (p *parser) parseIf(ifTok token) (Node, error) {
	pred, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node := &IfElse{Predicate: pred, Then: then, span: ifTok.span.Merge(then.span)}

	if p.peek().kind != tokIdent || p.peek().text != "else" {
		return node, nil
	}
	p.advance()

	if p.peek().kind == tokIdent && p.peek().text == "if" {
		nestedTok := p.advance()
		if err := p.enter(nestedTok.span); err != nil {
			return nil, err
		}
		defer p.leave()
		nested, err := p.parseIf(nestedTok)
		if err != nil {
			return nil, err
		}
		node.Else = &Block{Exprs: []Node{nested}, span: nested.Span()}
	} else {
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		node.Else = els
	}
	node.span = node.span.Merge(node.Else.span)
	return node, nil
}
