package parser

import (
	"strings"

	"github.com/golangsnmp/asnc/internal/lexer"
	"github.com/golangsnmp/asnc/internal/schema"
)

// parseValue reads a literal or a value reference.
func (p *Parser) parseValue() (schema.LitOrRef[schema.Literal], error) {
	tok, err := p.next()
	if err != nil {
		return schema.LitOrRef[schema.Literal]{}, err
	}
	var lit schema.Literal
	switch {
	case tok.IsSeparator('"'):
		lit, err = p.parseQuoted(tok)
	case tok.IsSeparator('\''):
		lit, err = p.parseBinary(tok)
	case tok.Kind == lexer.TokSeparator:
		return schema.LitOrRef[schema.Literal]{}, p.errorAt(UnsupportedLiteral, tok, "")
	case strings.EqualFold(tok.Text, "TRUE"):
		lit = schema.BoolValue(true)
	case strings.EqualFold(tok.Text, "FALSE"):
		lit = schema.BoolValue(false)
	case isNumber(tok.Text):
		var n int64
		n, err = p.parseInt(tok)
		lit = schema.IntValue(n)
	default:
		return schema.Ref[schema.Literal](tok.Text), nil
	}
	if err != nil {
		return schema.LitOrRef[schema.Literal]{}, err
	}
	return schema.Lit(lit), nil
}

// parseQuoted rejoins the tokens of a quoted string from the whitespace
// the lexer recorded before each one. Whitespace spanning a line break
// collapses to a single newline. A doubled quote is an escaped quote.
func (p *Parser) parseQuoted(open lexer.Token) (schema.Literal, error) {
	var b strings.Builder
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if strings.ContainsRune(tok.Space, '\n') {
			b.WriteByte('\n')
		} else {
			b.WriteString(tok.Space)
		}

		if tok.IsSeparator('"') {
			next, ok := p.peek()
			if !ok || !next.IsSeparator('"') || next.Space != "" {
				return schema.StringValue(b.String()), nil
			}
			p.advance()
			b.WriteByte('"')
			continue
		}
		if tok.Kind == lexer.TokText {
			b.WriteString(tok.Text)
		} else {
			b.WriteRune(tok.Sep)
		}
	}
}

// parseBinary reads the rest of a `'digits'H` or `'digits'B` literal.
func (p *Parser) parseBinary(open lexer.Token) (schema.Literal, error) {
	var digits strings.Builder
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.IsSeparator('\'') {
			break
		}
		if tok.Kind != lexer.TokText {
			return nil, p.errorAt(InvalidLiteral, tok, "")
		}
		digits.WriteString(tok.Text)
	}
	suffix, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case suffix.IsText("H") || suffix.IsText("h"):
		v, err := schema.ParseHex(digits.String())
		if err != nil {
			return nil, p.errorAt(InvalidLiteral, open, err.Error())
		}
		return v, nil
	case suffix.IsText("B") || suffix.IsText("b"):
		v, err := schema.ParseBits(digits.String())
		if err != nil {
			return nil, p.errorAt(InvalidLiteral, open, err.Error())
		}
		return v, nil
	}
	return nil, p.errorAt(UnsupportedLiteral, suffix, "expected H or B suffix")
}
