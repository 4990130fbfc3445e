package parser

import "strings"

// parseRegexBody parses the body of a `/.../ ` terminal. Whitespace is
// significant here -- every accepted character, including spaces, is
// copied verbatim into the returned text. The outer delimiters are
// stripped by the caller (parseRegex).
func (p *Parser) parseRegexBody() string {
	var b strings.Builder
	if !p.reOrExpr(&b) {
		p.fatal(errRegexExpected)
	}
	return b.String()
}

// re-expr := re-or-expr
func (p *Parser) reExpr(b *strings.Builder) bool {
	return p.reOrExpr(b)
}

// re-or-expr := re-and-expr { '|' re-and-expr }
func (p *Parser) reOrExpr(b *strings.Builder) bool {
	if !p.reAndExpr(b) {
		return false
	}
	for {
		c, eof := p.ch()
		if eof || c != '|' {
			break
		}
		b.WriteByte('|')
		p.advance()
		if !p.reAndExpr(b) {
			p.fatal(errRegexExprExpected)
		}
	}
	return true
}

// re-and-expr := re-repeat-expr { re-repeat-expr }
func (p *Parser) reAndExpr(b *strings.Builder) bool {
	if !p.reRepeatExpr(b) {
		return false
	}
	for p.reRepeatExpr(b) {
	}
	return true
}

// re-repeat-expr := re-base-expr [ '+' | '*' | '?' ]
func (p *Parser) reRepeatExpr(b *strings.Builder) bool {
	if !p.reBaseExpr(b) {
		return false
	}
	c, eof := p.ch()
	if !eof && (c == '+' || c == '*' || c == '?') {
		b.WriteByte(c)
		p.advance()
	}
	return true
}

// re-base-expr := re-cc | re-chr | re-any | '(' re-expr ')'
func (p *Parser) reBaseExpr(b *strings.Builder) bool {
	if p.reCharClass(b) || p.reChar(b) || p.reAny(b) {
		return true
	}
	c, eof := p.ch()
	if eof || c != '(' {
		return false
	}
	b.WriteByte('(')
	p.advance()
	if !p.reExpr(b) {
		p.fatal(errRegexExprExpected)
	}
	c, eof = p.ch()
	if eof || c != ')' {
		p.fatal(errMissingCloseParen)
	}
	b.WriteByte(')')
	p.advance()
	return true
}

// re-any := '.'
func (p *Parser) reAny(b *strings.Builder) bool {
	c, eof := p.ch()
	if eof || c != '.' {
		return false
	}
	b.WriteByte('.')
	p.advance()
	return true
}

// re-chr := '\' /./ | /[^\/.*?[()|]/
func (p *Parser) reChar(b *strings.Builder) bool {
	c, eof := p.ch()
	if !eof && c == '\\' {
		p.advance()
		c, eof = p.ch()
		if eof {
			p.fatal(errUnexpectedEOF)
		}
		b.WriteByte('\\')
		b.WriteByte(c)
		p.advance()
		return true
	}
	if eof {
		p.fatal(errUnexpectedEOF)
	}
	switch c {
	case '/', '.', '*', '?', '[', '(', ')', '|':
		return false
	}
	b.WriteByte(c)
	p.advance()
	return true
}

// re-cc := '[' '^'? re-cc-items ']'
func (p *Parser) reCharClass(b *strings.Builder) bool {
	c, eof := p.ch()
	if eof || c != '[' {
		return false
	}
	b.WriteByte('[')
	p.advance()

	c, eof = p.ch()
	if !eof && c == '^' {
		b.WriteByte('^')
		p.advance()
	}

	if !p.reCharClassItems(b) {
		p.fatal(errMalformedCharClass)
	}
	c, eof = p.ch()
	if eof || c != ']' {
		p.fatal(errMalformedCharClass)
	}
	b.WriteByte(']')
	p.advance()
	return true
}

// re-cc-items := re-cc-item { re-cc-item }
func (p *Parser) reCharClassItems(b *strings.Builder) bool {
	if !p.reCharClassItem(b) {
		return false
	}
	for p.reCharClassItem(b) {
	}
	return true
}

// re-cc-item := re-cc-rng | re-cc-chr
// re-cc-rng  := re-cc-chr '-' re-cc-chr
func (p *Parser) reCharClassItem(b *strings.Builder) bool {
	if !p.reCharClassChar(b) {
		return false
	}
	c, eof := p.ch()
	if !eof && c == '-' {
		b.WriteByte('-')
		p.advance()
		if !p.reCharClassChar(b) {
			p.fatal(errMalformedCharClass)
		}
	}
	return true
}

// re-cc-chr := '\' /./ | /[^\\\]]/
func (p *Parser) reCharClassChar(b *strings.Builder) bool {
	c, eof := p.ch()
	if !eof && c == '\\' {
		p.advance()
		c, eof = p.ch()
		if eof {
			p.fatal(errUnexpectedEOF)
		}
		b.WriteByte('\\')
		b.WriteByte(c)
		p.advance()
		return true
	}
	if eof {
		p.fatal(errUnexpectedEOF)
	}
	if c == '\\' || c == ']' {
		return false
	}
	b.WriteByte(c)
	p.advance()
	return true
}
