package parser

import (
	"log/slog"

	"github.com/golangsnmp/asnc/internal/lexer"
	"github.com/golangsnmp/asnc/internal/schema"
)

// parseTag reads an optional `[ [class] number ] [IMPLICIT|EXPLICIT]`
// prefix. A `[[` opens an extension group and is not a tag.
func (p *Parser) parseTag() (*schema.Tag, error) {
	if !p.peekSep('[') || p.peekSepAt(1, '[') {
		return nil, nil
	}
	p.advance()
	tok, err := p.expectText()
	if err != nil {
		return nil, err
	}
	class := schema.ClassContextSpecific
	switch tok.Text {
	case "UNIVERSAL":
		class = schema.ClassUniversal
	case "APPLICATION":
		class = schema.ClassApplication
	case "PRIVATE":
		class = schema.ClassPrivate
	}
	if class != schema.ClassContextSpecific {
		if tok, err = p.expectText(); err != nil {
			return nil, err
		}
	}
	n, err := p.parseUint(tok)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSep(']'); err != nil {
		return nil, err
	}
	if p.peekText("IMPLICIT") || p.peekText("EXPLICIT") {
		p.advance()
	}
	return &schema.Tag{Class: class, Number: n}, nil
}

// parseType reads a type expression.
func (p *Parser) parseType() (schema.TypeSpec, error) {
	tok, err := p.expectName()
	if err != nil {
		return nil, err
	}
	switch tok.Text {
	case "BOOLEAN":
		return &schema.Boolean{}, nil
	case "NULL":
		return &schema.Null{}, nil
	case "INTEGER":
		return p.parseInteger()
	case "ENUMERATED":
		return p.parseEnumerated()
	case "OCTET":
		if err := p.expectKeyword("STRING"); err != nil {
			return nil, err
		}
		size, err := p.parseOptionalSize()
		if err != nil {
			return nil, err
		}
		return &schema.OctetString{Size: size}, nil
	case "BIT":
		if err := p.expectKeyword("STRING"); err != nil {
			return nil, err
		}
		return p.parseBitString()
	case "SEQUENCE":
		if p.peekSep('{') {
			fields, ext, err := p.parseComponents()
			if err != nil {
				return nil, err
			}
			return &schema.Sequence{Fields: fields, ExtensionAfter: ext}, nil
		}
		inner, size, tag, err := p.parseOf()
		if err != nil {
			return nil, err
		}
		return &schema.SequenceOf{Inner: inner, Size: size, ElementTag: tag}, nil
	case "SET":
		if p.peekSep('{') {
			fields, ext, err := p.parseComponents()
			if err != nil {
				return nil, err
			}
			return &schema.Set{Fields: fields, ExtensionAfter: ext}, nil
		}
		inner, size, tag, err := p.parseOf()
		if err != nil {
			return nil, err
		}
		return &schema.SetOf{Inner: inner, Size: size, ElementTag: tag}, nil
	case "CHOICE":
		if !p.peekSep('{') {
			tok, _ := p.peek()
			return nil, p.errorAt(UnexpectedToken, tok, "expected '{' after CHOICE")
		}
		variants, ext, err := p.parseComponents()
		if err != nil {
			return nil, err
		}
		return &schema.Choice{Variants: variants, ExtensionAfter: ext}, nil
	}

	if charset, ok := schema.CharsetOf(tok.Text); ok {
		size, err := p.parseOptionalSize()
		if err != nil {
			return nil, err
		}
		return &schema.String{Size: size, Charset: charset}, nil
	}

	// Constraints on a referenced type narrow it but do not change its
	// shape; they are not modelled.
	if p.peekSep('(') {
		p.Log(slog.LevelDebug, "ignoring constraint on type reference", slog.String("type", tok.Text))
		if err := p.skipBalanced('(', ')'); err != nil {
			return nil, err
		}
	}
	return &schema.TypeReference{Name: tok.Text}, nil
}

func (p *Parser) parseInteger() (schema.TypeSpec, error) {
	ty := &schema.Integer{}
	if p.peekSep('{') {
		constants, err := p.parseNamedConstants()
		if err != nil {
			return nil, err
		}
		ty.Constants = constants
	}
	if p.peekSep('(') {
		p.advance()
		rng, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSep(')'); err != nil {
			return nil, err
		}
		ty.Range = rng
	}
	return ty, nil
}

func (p *Parser) parseBitString() (schema.TypeSpec, error) {
	ty := &schema.BitString{}
	if p.peekSep('{') {
		constants, err := p.parseNamedConstants()
		if err != nil {
			return nil, err
		}
		ty.Constants = constants
	}
	size, err := p.parseOptionalSize()
	if err != nil {
		return nil, err
	}
	ty.Size = size
	return ty, nil
}

// parseNamedConstants reads `{ name(value), ... }`. Values are integers or
// value references.
func (p *Parser) parseNamedConstants() ([]schema.NamedConstant, error) {
	p.advance()
	var constants []schema.NamedConstant
	for !p.peekSep('}') {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSep('('); err != nil {
			return nil, err
		}
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		var value schema.LitOrRef[int64]
		switch {
		case tok.Kind == lexer.TokText && isNumber(tok.Text):
			n, err := p.parseInt(tok)
			if err != nil {
				return nil, err
			}
			value = schema.Lit(n)
		case tok.Kind == lexer.TokText && isLetter(tok.Text[0]):
			value = schema.Ref[int64](tok.Text)
		default:
			return nil, p.errorAt(InvalidValueForConstant, tok, "named constant "+name.Text)
		}
		if _, err := p.expectSep(')'); err != nil {
			return nil, err
		}
		constants = append(constants, schema.NamedConstant{Name: name.Text, Value: value})
		if !p.peekSep(',') {
			break
		}
		p.advance()
	}
	if _, err := p.expectSep('}'); err != nil {
		return nil, err
	}
	return constants, nil
}

func (p *Parser) parseEnumerated() (schema.TypeSpec, error) {
	if _, err := p.expectSep('{'); err != nil {
		return nil, err
	}
	ty := &schema.Enumerated{}
	for !p.peekSep('}') {
		if p.peekEllipsis() {
			p.consumeEllipsis()
			if ty.ExtensionAfter == nil {
				ty.ExtensionAfter = ptr(len(ty.Variants) - 1)
			}
		} else {
			name, err := p.expectName()
			if err != nil {
				return nil, err
			}
			variant := schema.EnumVariant{Name: name.Text}
			if p.peekSep('(') {
				p.advance()
				tok, err := p.next()
				if err != nil {
					return nil, err
				}
				if tok.Kind != lexer.TokText || !isNumber(tok.Text) {
					return nil, p.errorAt(InvalidValueForConstant, tok, "enumeration item "+name.Text)
				}
				n, err := p.parseInt(tok)
				if err != nil {
					return nil, err
				}
				variant.Number = &n
				if _, err := p.expectSep(')'); err != nil {
					return nil, err
				}
			}
			ty.Variants = append(ty.Variants, variant)
		}
		if !p.peekSep(',') {
			break
		}
		p.advance()
	}
	if _, err := p.expectSep('}'); err != nil {
		return nil, err
	}
	return ty, nil
}

// parseOf reads the remainder of `SEQUENCE [SIZE(..) | (SIZE(..))] OF T`
// after the SEQUENCE or SET keyword.
func (p *Parser) parseOf() (schema.TypeSpec, schema.Size, *schema.Tag, error) {
	var size schema.Size
	var err error
	switch {
	case p.peekText("SIZE"):
		p.advance()
		size, err = p.parseSizeBody()
	case p.peekSep('('):
		size, err = p.parseOptionalSize()
	}
	if err != nil {
		return nil, size, nil, err
	}
	if err := p.expectKeyword("OF"); err != nil {
		return nil, size, nil, err
	}
	// `SEQUENCE OF item Type` names the element; the name has no effect
	// on the model.
	if tok, ok := p.peek(); ok && tok.Kind == lexer.TokText && isLower(tok.Text) {
		if next, ok := p.peekAt(1); ok && (next.IsSeparator('[') || next.Kind == lexer.TokText) {
			p.advance()
		}
	}
	tag, err := p.parseTag()
	if err != nil {
		return nil, size, nil, err
	}
	inner, err := p.parseType()
	if err != nil {
		return nil, size, nil, err
	}
	if ref, ok := inner.(*schema.TypeReference); ok && tag != nil {
		ref.Tag = tag
	}
	return inner, size, tag, nil
}

// parseOptionalSize reads an optional `(SIZE (range))` constraint.
func (p *Parser) parseOptionalSize() (schema.Size, error) {
	if !p.peekSep('(') {
		return schema.Size{}, nil
	}
	p.advance()
	if err := p.expectKeyword("SIZE"); err != nil {
		return schema.Size{}, err
	}
	size, err := p.parseSizeBody()
	if err != nil {
		return size, err
	}
	_, err = p.expectSep(')')
	return size, err
}

// parseSizeBody reads `(lo..hi [, ...])` following the SIZE keyword.
func (p *Parser) parseSizeBody() (schema.Size, error) {
	if _, err := p.expectSep('('); err != nil {
		return schema.Size{}, err
	}
	rng, err := p.parseBounds()
	if err != nil {
		return schema.Size{}, err
	}
	size := schema.Size{Extensible: rng.extensible}
	if size.Min, err = p.sizeBound(rng.min); err != nil {
		return size, err
	}
	if size.Max, err = p.sizeBound(rng.max); err != nil {
		return size, err
	}
	_, err = p.expectSep(')')
	return size, err
}

// parseRange reads the inside of an INTEGER value constraint.
func (p *Parser) parseRange() (schema.Range, error) {
	b, err := p.parseBounds()
	if err != nil {
		return schema.Range{}, err
	}
	rng := schema.Range{Extensible: b.extensible}
	if rng.Min, err = p.rangeBound(b.min); err != nil {
		return rng, err
	}
	if rng.Max, err = p.rangeBound(b.max); err != nil {
		return rng, err
	}
	return rng, nil
}

// bounds is a constraint before conversion to its bound type; a nil token
// is MIN or MAX.
type bounds struct {
	min, max   *lexer.Token
	extensible bool
}

// parseBounds reads `v`, `lo..hi`, and either followed by `, ...` with any
// extension additions skipped. It stops before the closing parenthesis.
func (p *Parser) parseBounds() (bounds, error) {
	var b bounds
	lo, err := p.boundToken()
	if err != nil {
		return b, err
	}
	b.min, b.max = lo, lo
	if p.peekSep('.') && p.peekSepAt(1, '.') {
		p.advance()
		p.advance()
		if b.max, err = p.boundToken(); err != nil {
			return b, err
		}
	}
	if p.peekSep(',') && p.peekSepAt(1, '.') {
		p.advance()
		if !p.peekEllipsis() {
			tok, _ := p.peek()
			return b, p.errorAt(UnexpectedToken, tok, "expected '...'")
		}
		p.consumeEllipsis()
		b.extensible = true
		for !p.peekSep(')') {
			if _, err := p.next(); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

// boundToken reads one bound; MIN and MAX yield nil.
func (p *Parser) boundToken() (*lexer.Token, error) {
	tok, err := p.expectText()
	if err != nil {
		return nil, err
	}
	if tok.Text == "MIN" || tok.Text == "MAX" {
		return nil, nil
	}
	return &tok, nil
}

func (p *Parser) rangeBound(tok *lexer.Token) (*schema.LitOrRef[int64], error) {
	if tok == nil {
		return nil, nil
	}
	if !isNumber(tok.Text) {
		return ptr(schema.Ref[int64](tok.Text)), nil
	}
	n, err := p.parseInt(*tok)
	if err != nil {
		return nil, err
	}
	return ptr(schema.Lit(n)), nil
}

func (p *Parser) sizeBound(tok *lexer.Token) (*schema.LitOrRef[uint64], error) {
	if tok == nil {
		return nil, nil
	}
	if !isNumber(tok.Text) {
		return ptr(schema.Ref[uint64](tok.Text)), nil
	}
	n, err := p.parseUint(*tok)
	if err != nil {
		return nil, err
	}
	return ptr(schema.Lit(n)), nil
}

// parseComponents reads `{ component, ..., component }` for SEQUENCE, SET
// and CHOICE. The returned extension index is that of the last component
// before the first `...`; components of `[[ ]]` groups are flattened.
// A second `...` may close the extension list, but only at the end:
// components after it are rejected.
func (p *Parser) parseComponents() ([]schema.Field, *int, error) {
	p.advance()
	var fields []schema.Field
	var ext *int
	closed := false
	for !p.peekSep('}') {
		if closed {
			tok, ok := p.peek()
			if !ok {
				return nil, nil, p.eos()
			}
			return nil, nil, p.errorAt(UnexpectedToken, tok, "components after a closing extension marker are not supported")
		}
		switch {
		case p.peekEllipsis():
			p.consumeEllipsis()
			if ext == nil {
				ext = ptr(len(fields) - 1)
			} else {
				closed = true
			}
			// Exception specification: `... ! value`.
			if p.peekSep('!') {
				p.advance()
				if _, err := p.next(); err != nil {
					return nil, nil, err
				}
			}
		case p.peekSep('[') && p.peekSepAt(1, '['):
			p.advance()
			p.advance()
			group, err := p.parseGroup()
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, group...)
		default:
			field, err := p.parseComponent()
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, field)
		}
		if !p.peekSep(',') {
			break
		}
		p.advance()
	}
	if _, err := p.expectSep('}'); err != nil {
		return nil, nil, err
	}
	return fields, ext, nil
}

// parseGroup reads the components of an extension addition group up to
// and including `]]`. An optional `n:` version prefix is skipped.
func (p *Parser) parseGroup() ([]schema.Field, error) {
	if tok, ok := p.peek(); ok && tok.Kind == lexer.TokText && isNumber(tok.Text) && p.peekSepAt(1, ':') {
		p.advance()
		p.advance()
	}
	var fields []schema.Field
	for {
		field, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if !p.peekSep(',') {
			break
		}
		p.advance()
	}
	if _, err := p.expectSep(']'); err != nil {
		return nil, err
	}
	if _, err := p.expectSep(']'); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseComponent reads `name [tag] Type [OPTIONAL | DEFAULT value]`.
func (p *Parser) parseComponent() (schema.Field, error) {
	name, err := p.expectName()
	if err != nil {
		return schema.Field{}, err
	}
	tag, err := p.parseTag()
	if err != nil {
		return schema.Field{}, err
	}
	ty, err := p.parseType()
	if err != nil {
		return schema.Field{}, err
	}
	if ref, ok := ty.(*schema.TypeReference); ok && tag != nil {
		ref.Tag = tag
	}
	switch {
	case p.peekText("OPTIONAL"):
		p.advance()
		ty = &schema.Optional{Inner: ty}
	case p.peekText("DEFAULT"):
		p.advance()
		value, err := p.parseValue()
		if err != nil {
			return schema.Field{}, err
		}
		ty = &schema.Default{Inner: ty, Value: value}
	}
	return schema.Field{Name: name.Text, Type: ty, Tag: tag}, nil
}

func (p *Parser) consumeEllipsis() {
	p.advance()
	p.advance()
	p.advance()
}

// skipBalanced consumes a parenthesized group including nested pairs.
func (p *Parser) skipBalanced(open, close rune) error {
	depth := 0
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch {
		case tok.IsSeparator(open):
			depth++
		case tok.IsSeparator(close):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

func isLower(s string) bool {
	return s != "" && s[0] >= 'a' && s[0] <= 'z'
}

func ptr[T any](v T) *T {
	return &v
}
