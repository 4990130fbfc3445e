// Package parser implements a recursive-descent parser for the EBNF
// grammar language: the top-level grammar, a nested regex sub-parser
// (parser/regex.go), and a binary-field sub-parser, all built directly on
// top of the reader.Source character source.
package parser

import (
	"io"

	"github.com/ebnfcomp/ebnfcomp/ast"
	"github.com/ebnfcomp/ebnfcomp/errorx"
	"github.com/ebnfcomp/ebnfcomp/reader"
)

// Parser holds the character source and has one parse<Rule> method per
// grammar production; fatal errors are raised by panic and recovered in
// Parse.
type Parser struct {
	src *reader.Source
}

// New creates a Parser reading from src.
func New(src io.Reader) (*Parser, error) {
	s, err := reader.New(src)
	if err != nil {
		return nil, err
	}
	return &Parser{src: s}, nil
}

// Parse runs the parser to completion and returns the PROD_LIST root.
func (p *Parser) Parse() (root *ast.Node, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			diag, ok := r.(*errorx.Diag)
			if !ok {
				panic(r)
			}
			retErr = diag
		}
	}()

	root = p.parseProdList()
	if root == nil {
		p.fatal(errProdListExpected)
	}
	return root, nil
}

func (p *Parser) fatal(cause error) {
	panic(p.src.Errorf(cause))
}

func (p *Parser) ch() (byte, bool) {
	return p.src.Ch()
}

func (p *Parser) advance() {
	if err := p.src.Advance(); err != nil {
		p.fatal(err)
	}
}

func (p *Parser) skipWS() {
	for {
		c, eof := p.ch()
		if eof || (c != ' ' && c != '\t') {
			return
		}
		p.advance()
	}
}

func isIdentChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || c == '-'
}

func isIdentStart(c byte) bool {
	// An identifier may start with a digit; this is preserved deliberately.
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}

// tryKeyword attempts to match kw verbatim, character by character. On a
// full match the look-ahead sits just past kw and true is returned. On any
// mismatch (including hitting EOF mid-match), every character consumed
// during the attempt -- plus the offending character, if any -- is pushed
// back onto the source so the same prefix can be retried, e.g. as an
// identifier.
func (p *Parser) tryKeyword(kw string) bool {
	var consumed []byte
	for i := 0; i < len(kw); i++ {
		c, eof := p.ch()
		if eof || c != kw[i] {
			if !eof {
				consumed = append(consumed, c)
			}
			p.src.PutbackAll(consumed)
			p.advance()
			return false
		}
		consumed = append(consumed, c)
		p.advance()
	}
	return true
}

// parseIdentifier reads identifier := /[a-z0-9-]+/ starting at the current
// look-ahead, which the caller must have already confirmed is a valid
// identifier-start character.
func (p *Parser) parseIdentifier() *ast.Node {
	var text []byte
	for {
		c, eof := p.ch()
		if eof || !isIdentChar(c) {
			break
		}
		text = append(text, c)
		p.advance()
	}
	return ast.New(ast.IDENTIFIER, string(text))
}

// parseStrLiteral reads a single- or double-quoted string literal; the
// current look-ahead must be the opening delimiter.
func (p *Parser) parseStrLiteral() *ast.Node {
	term, _ := p.ch()
	p.advance()

	var text []byte
	for {
		c, eof := p.ch()
		if eof {
			p.fatal(errUnterminatedString)
		}
		if c == term {
			break
		}
		text = append(text, c)
		p.advance()
	}
	p.advance() // consume closing delimiter
	if len(text) == 0 {
		p.fatal(errEmptyString)
	}
	return ast.New(ast.STR_LITERAL, string(text))
}

// parseHex reads hexadecimal := '$' [0-9a-fA-F]+, normalizing an odd digit
// count by left-padding a single '0' nibble.
func (p *Parser) parseHex() *ast.Node {
	p.advance() // consume '$'

	var digits []byte
	for {
		c, eof := p.ch()
		if eof || !isHexDigit(c) {
			break
		}
		digits = append(digits, c)
		p.advance()
	}
	if len(digits) == 0 {
		p.fatal(errMissingHexDigit)
	}
	if len(digits)%2 != 0 {
		digits = append([]byte{'0'}, digits...)
	}
	return ast.New(ast.BIN_DATA, string(digits))
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

var binFieldWidths = []string{ast.BinByte, ast.BinWord, ast.BinDWord, ast.BinQWord}

// parseBinField reads bin-field := ('BYTE'|'WORD'|'DWORD'|'QWORD')
// [ (':'|'*') identifier ], or returns nil if the look-ahead does not begin
// one of the four width keywords.
func (p *Parser) parseBinField() *ast.Node {
	var width string
	for _, w := range binFieldWidths {
		if p.tryKeyword(w) {
			width = w
			break
		}
	}
	if width == "" {
		return nil
	}

	c, eof := p.ch()
	if eof || (c != ':' && c != '*') {
		return ast.New(ast.BIN_FIELD, width)
	}

	kind := ast.BIN_FIELD_COUNT
	if c == '*' {
		kind = ast.BIN_FIELD_TIMES
	}
	p.advance()
	p.skipWS()

	c, eof = p.ch()
	if eof || !isIdentStart(c) {
		p.fatal(errMissingIdentAfterBin)
	}
	ident := p.parseIdentifier()

	node := ast.New(kind, width)
	node.AddChild(ident)
	return node
}

// parseBinMatch reads bin-match := hexadecimal | bin-field, or returns nil
// if the look-ahead matches neither alternative.
func (p *Parser) parseBinMatch() *ast.Node {
	c, eof := p.ch()
	if !eof && c == '$' {
		return p.parseHex()
	}
	return p.parseBinField()
}

// parseRegex reads regex := '/' re-expr '/'; see regex.go for re-expr.
func (p *Parser) parseRegex() *ast.Node {
	p.advance() // consume opening '/'
	body := p.parseRegexBody()
	c, eof := p.ch()
	if eof || c != '/' {
		p.fatal(errMissingRegexDelim)
	}
	p.advance()
	return ast.New(ast.REG_EX, body)
}

// parseBaseExpr reads base-expr := identifier | str-literal | regex
// | bin-match | '(' expr ')' | '[' expr ']' | '{' expr '}', or returns nil
// when none apply.
func (p *Parser) parseBaseExpr() *ast.Node {
	p.skipWS()
	c, eof := p.ch()
	if eof {
		return nil
	}
	switch c {
	case '\'', '"':
		return p.parseStrLiteral()
	case '/':
		return p.parseRegex()
	case '(':
		return p.parseParenExpr()
	case '[':
		return p.parseBrackExpr()
	case '{':
		return p.parseBraceExpr()
	case '$', 'B', 'W', 'D', 'Q':
		if m := p.parseBinMatch(); m != nil {
			return m
		}
	}
	if isIdentStart(c) {
		return p.parseIdentifier()
	}
	return nil
}

func (p *Parser) parseParenExpr() *ast.Node {
	p.advance() // consume '('
	expr := p.parseExpr()
	if expr == nil {
		p.fatal(errExprAfterParen)
	}
	c, eof := p.ch()
	if eof || c != ')' {
		p.fatal(errMissingCloseParen)
	}
	p.advance()
	return expr
}

func (p *Parser) parseBrackExpr() *ast.Node {
	p.advance() // consume '['
	expr := p.parseExpr()
	if expr == nil {
		p.fatal(errExprAfterBracket)
	}
	c, eof := p.ch()
	if eof || c != ']' {
		p.fatal(errMissingCloseBracket)
	}
	p.advance()
	node := ast.New(ast.BRACK_EXPR, "")
	node.AddChild(expr)
	return node
}

func (p *Parser) parseBraceExpr() *ast.Node {
	p.advance() // consume '{'
	expr := p.parseExpr()
	if expr == nil {
		p.fatal(errExprAfterBrace)
	}
	c, eof := p.ch()
	if eof || c != '}' {
		p.fatal(errMissingCloseBrace)
	}
	p.advance()
	node := ast.New(ast.BRACE_EXPR, "")
	node.AddChild(expr)
	return node
}

// parseAndExpr reads and-expr := base-expr { base-expr }. A sequence of
// exactly one element collapses to that element instead of wrapping it in
// a redundant AND_EXPR.
func (p *Parser) parseAndExpr() *ast.Node {
	expr := p.parseBaseExpr()
	if expr == nil {
		return nil
	}
	node := ast.New(ast.AND_EXPR, "")
	for {
		node.AddChild(expr)
		expr = p.parseBaseExpr()
		if expr == nil {
			break
		}
	}
	if node.NumBranches() == 1 {
		return node.Children[0]
	}
	return node
}

// parseOrExpr reads or-expr := and-expr { '|' and-expr }, with the same
// singleton collapse as parseAndExpr.
func (p *Parser) parseOrExpr() *ast.Node {
	expr := p.parseAndExpr()
	if expr == nil {
		return nil
	}
	node := ast.New(ast.OR_EXPR, "")
	for {
		node.AddChild(expr)
		p.skipWS()
		c, eof := p.ch()
		if eof || c != '|' {
			break
		}
		p.advance()
		expr = p.parseAndExpr()
		if expr == nil {
			p.fatal(errExprAfterOr)
		}
	}
	if node.NumBranches() == 1 {
		return node.Children[0]
	}
	return node
}

func (p *Parser) parseExpr() *ast.Node {
	return p.parseOrExpr()
}

// parseProduction reads production := [ 'TOKEN' ] identifier ':=' expr '.'.
// It returns nil, without raising an error, when the look-ahead is not a
// valid identifier start -- this is how parseProdList recognizes the end
// of the production list (trailing garbage past the last production is
// not reported as a syntax error at this level).
func (p *Parser) parseProduction() *ast.Node {
	p.skipWS()

	hasToken := p.tryKeyword("TOKEN")
	if hasToken {
		p.skipWS()
	}

	c, eof := p.ch()
	if eof || !isIdentStart(c) {
		if hasToken {
			p.fatal(errMissingIdentAfterTok)
		}
		return nil
	}
	ident := p.parseIdentifier()

	p.skipWS()
	c, eof = p.ch()
	if eof || c != ':' {
		p.fatal(errMissingColon)
	}
	p.advance()
	c, eof = p.ch()
	if eof || c != '=' {
		p.fatal(errMissingEquals)
	}
	p.advance()

	expr := p.parseExpr()
	if expr == nil {
		p.fatal(errExprInProduction)
	}

	p.skipWS()
	c, eof = p.ch()
	if eof || c != '.' {
		p.fatal(errMissingDot)
	}
	p.advance()

	node := ast.New(ast.PRODUCTION, ident.Text)
	node.AddChild(expr)
	return node
}

// parseProdList reads prod-list := production { production }.
func (p *Parser) parseProdList() *ast.Node {
	prod := p.parseProduction()
	if prod == nil {
		return nil
	}
	node := ast.New(ast.PROD_LIST, "")
	for prod != nil {
		node.AddChild(prod)
		prod = p.parseProduction()
	}
	return node
}
