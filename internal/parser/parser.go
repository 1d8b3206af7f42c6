// Package parser builds unresolved schema modules from a token stream.
//
// The parser reads one or more modules of the form
//
//	Name [{ oid }] DEFINITIONS ... ::= BEGIN
//	    [EXPORTS ... ;]
//	    [IMPORTS sym, ... FROM Other [{ oid }] ... ;]
//	    TypeName ::= [tag] Type
//	    valueName Type ::= value
//	END
//
// Parsing stops at the first error; there is no resynchronization.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golangsnmp/asnc/internal/lexer"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/types"
)

// Parser converts a token stream into unresolved schema modules.
type Parser struct {
	tokens []lexer.Token
	pos    int
	types.Logger
}

// New returns a Parser over the given tokens.
// Pass nil for logger to disable logging.
func New(tokens []lexer.Token, logger *slog.Logger) *Parser {
	return &Parser{tokens: tokens, Logger: types.Logger{L: logger}}
}

// Parse tokenizes source and parses every module in it.
func Parse(source []byte, logger *slog.Logger) ([]*schema.Module, error) {
	tokens, err := lexer.New(source, types.Component(logger, "lexer")).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens, logger).ParseAll()
}

// ParseAll parses modules until the token stream is exhausted.
func (p *Parser) ParseAll() ([]*schema.Module, error) {
	var mods []*schema.Module
	for !p.atEnd() {
		mod, err := p.ParseModule()
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

// ParseModule parses a single module starting at the current token.
func (p *Parser) ParseModule() (*schema.Module, error) {
	mod := &schema.Module{State: schema.Unresolved}
	if err := p.parseHeader(mod); err != nil {
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsing module", slog.String("module", mod.Name))

	if p.peekText("EXPORTS") {
		if err := p.skipPast(';'); err != nil {
			return nil, err
		}
	}
	if p.peekText("IMPORTS") {
		p.advance()
		imports, err := p.parseImports()
		if err != nil {
			return nil, err
		}
		mod.Imports = imports
	}

	seen := make(map[string]struct{})
	for !p.peekText("END") {
		nameTok, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[nameTok.Text]; dup {
			return nil, p.errorAt(DuplicateDefinition, nameTok, "")
		}
		seen[nameTok.Text] = struct{}{}

		if p.peekAssign() {
			def, err := p.parseTypeAssignment(nameTok.Text)
			if err != nil {
				return nil, err
			}
			mod.Definitions = append(mod.Definitions, def)
			if p.TraceEnabled() {
				p.Trace("type definition", slog.String("name", def.Name))
			}
			continue
		}
		val, err := p.parseValueAssignment(nameTok.Text)
		if err != nil {
			return nil, err
		}
		mod.Values = append(mod.Values, val)
		if p.TraceEnabled() {
			p.Trace("value reference", slog.String("name", val.Name))
		}
	}
	p.advance()

	p.Log(slog.LevelDebug, "parsing complete",
		slog.String("module", mod.Name),
		slog.Int("imports", len(mod.Imports)),
		slog.Int("definitions", len(mod.Definitions)),
		slog.Int("values", len(mod.Values)))
	return mod, nil
}

// parseHeader reads the module name and optional OID, then skips the
// DEFINITIONS clause up to and including BEGIN.
func (p *Parser) parseHeader(mod *schema.Module) error {
	tok, ok := p.peek()
	if !ok {
		return p.eos()
	}
	if tok.Kind != lexer.TokText || tok.IsText("DEFINITIONS") || !isUpper(tok.Text) {
		return p.errorAt(MissingModuleName, tok, "")
	}
	p.advance()
	mod.Name = tok.Text

	if p.peekSep('{') {
		oid, err := p.parseOID()
		if err != nil {
			return err
		}
		mod.OID = oid
	}
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.IsText("BEGIN") {
			return nil
		}
	}
}

// parseImports reads `sym, sym FROM Module [{ oid }] ... ;`.
func (p *Parser) parseImports() ([]schema.Import, error) {
	var imports []schema.Import
	for {
		if p.peekSep(';') {
			p.advance()
			return imports, nil
		}
		var imp schema.Import
		for {
			tok, err := p.expectName()
			if err != nil {
				return nil, err
			}
			if tok.Text == "FROM" {
				if len(imp.Symbols) == 0 {
					return nil, p.errorAt(UnexpectedToken, tok, "expected imported symbol")
				}
				break
			}
			imp.Symbols = append(imp.Symbols, tok.Text)
			// Parameterized references are imported as `Name{}`.
			if p.peekSep('{') && p.peekSepAt(1, '}') {
				p.advance()
				p.advance()
			}
			if p.peekSep(',') {
				p.advance()
			}
		}
		from, err := p.expectName()
		if err != nil {
			return nil, err
		}
		imp.From = from.Text
		if p.peekSep('{') {
			oid, err := p.parseOID()
			if err != nil {
				return nil, err
			}
			imp.FromOID = oid
		}
		imports = append(imports, imp)
	}
}

// parseOID reads `{ comp comp ... }` where each component is `name`,
// `number` or `name(number)`.
func (p *Parser) parseOID() (schema.ObjectIdentifier, error) {
	if _, err := p.expectSep('{'); err != nil {
		return nil, err
	}
	var oid schema.ObjectIdentifier
	for !p.peekSep('}') {
		tok, err := p.expectText()
		if err != nil {
			return nil, err
		}
		if isDigit(tok.Text[0]) {
			n, err := p.parseUint(tok)
			if err != nil {
				return nil, err
			}
			oid = append(oid, schema.NumberForm(n))
			continue
		}
		if !p.peekSep('(') {
			oid = append(oid, schema.NameForm(tok.Text))
			continue
		}
		p.advance()
		numTok, err := p.expectText()
		if err != nil {
			return nil, err
		}
		n, err := p.parseUint(numTok)
		if err != nil {
			return nil, err
		}
		if _, err := p.expectSep(')'); err != nil {
			return nil, err
		}
		oid = append(oid, schema.NameAndNumberForm(tok.Text, n))
	}
	p.advance()
	return oid, nil
}

func (p *Parser) parseTypeAssignment(name string) (schema.Definition, error) {
	if err := p.expectAssign(); err != nil {
		return schema.Definition{}, err
	}
	tag, err := p.parseTag()
	if err != nil {
		return schema.Definition{}, err
	}
	ty, err := p.parseType()
	if err != nil {
		return schema.Definition{}, err
	}
	return schema.Definition{Name: name, Tag: tag, Type: ty}, nil
}

func (p *Parser) parseValueAssignment(name string) (schema.ValueReference, error) {
	ty, err := p.parseType()
	if err != nil {
		return schema.ValueReference{}, err
	}
	if err := p.expectAssign(); err != nil {
		return schema.ValueReference{}, err
	}
	value, err := p.parseValue()
	if err != nil {
		return schema.ValueReference{}, err
	}
	return schema.ValueReference{Name: name, Type: ty, Value: value}, nil
}

// Token cursor.

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() (lexer.Token, bool) {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) (lexer.Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos+n], true
}

func (p *Parser) peekText(s string) bool {
	tok, ok := p.peek()
	return ok && tok.IsText(s)
}

func (p *Parser) peekSep(r rune) bool {
	return p.peekSepAt(0, r)
}

func (p *Parser) peekSepAt(n int, r rune) bool {
	tok, ok := p.peekAt(n)
	return ok && tok.IsSeparator(r)
}

// peekAssign reports whether the next tokens spell `::=`.
func (p *Parser) peekAssign() bool {
	return p.peekSepAt(0, ':') && p.peekSepAt(1, ':') && p.peekSepAt(2, '=')
}

// peekEllipsis reports whether the next tokens spell `...`.
func (p *Parser) peekEllipsis() bool {
	return p.peekSepAt(0, '.') && p.peekSepAt(1, '.') && p.peekSepAt(2, '.')
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) next() (lexer.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return lexer.Token{}, p.eos()
	}
	p.pos++
	return tok, nil
}

func (p *Parser) expectText() (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != lexer.TokText {
		return tok, p.errorAt(UnexpectedToken, tok, "expected identifier or number")
	}
	return tok, nil
}

// expectName reads an identifier: a text token starting with a letter.
func (p *Parser) expectName() (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != lexer.TokText || !isLetter(tok.Text[0]) {
		return tok, p.errorAt(UnexpectedToken, tok, "expected identifier")
	}
	return tok, nil
}

func (p *Parser) expectKeyword(kw string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if !tok.IsText(kw) {
		return p.errorAt(UnexpectedToken, tok, "expected "+kw)
	}
	return nil
}

func (p *Parser) expectSep(r rune) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if !tok.IsSeparator(r) {
		return tok, p.errorAt(UnexpectedToken, tok, fmt.Sprintf("expected '%c'", r))
	}
	return tok, nil
}

func (p *Parser) expectAssign() error {
	for _, r := range "::=" {
		if _, err := p.expectSep(r); err != nil {
			return err
		}
	}
	return nil
}

// skipPast consumes tokens up to and including the separator r.
func (p *Parser) skipPast(r rune) error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.IsSeparator(r) {
			return nil
		}
	}
}

func (p *Parser) parseUint(tok lexer.Token) (uint64, error) {
	n, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return 0, p.errorAt(InvalidIntValue, tok, "")
	}
	return n, nil
}

func (p *Parser) parseInt(tok lexer.Token) (int64, error) {
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, p.errorAt(InvalidIntValue, tok, "")
	}
	return n, nil
}

func (p *Parser) errorAt(kind ErrorKind, tok lexer.Token, msg string) *Error {
	return &Error{Kind: kind, Token: tok, Loc: tok.Loc, Message: msg}
}

func (p *Parser) eos() *Error {
	var loc types.Location
	if n := len(p.tokens); n > 0 {
		loc = p.tokens[n-1].Loc
	}
	return &Error{Kind: UnexpectedEndOfStream, Loc: loc}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// isNumber reports whether a text token is a (possibly negative) decimal.
func isNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return s != "" && isDigit(s[0])
}
