// Package lexer provides tokenization of ASN.1 schema source text into a
// located stream of textual tokens and single-character separators.
package lexer

import (
	"fmt"

	"github.com/golangsnmp/asnc/internal/types"
)

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokText is a run of identifier characters: letters, digits,
	// underscores and single hyphens (e.g. "SEQUENCE", "my-field", "-5").
	TokText TokenKind = iota
	// TokSeparator is any other single non-space character.
	TokSeparator
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokText:
		return "text"
	case TokSeparator:
		return "separator"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a located token. Text tokens carry Text, separators carry Sep.
// Inside a quoted string Space holds the whitespace that preceded the
// token; elsewhere it is empty.
type Token struct {
	Kind  TokenKind
	Loc   types.Location
	Text  string
	Sep   rune
	Space string
}

// Text creates a text token.
func Text(loc types.Location, text string) Token {
	return Token{Kind: TokText, Loc: loc, Text: text}
}

// Separator creates a separator token.
func Separator(loc types.Location, sep rune) Token {
	return Token{Kind: TokSeparator, Loc: loc, Sep: sep}
}

// IsText reports whether the token is text equal to s.
func (t Token) IsText(s string) bool {
	return t.Kind == TokText && t.Text == s
}

// IsSeparator reports whether the token is the separator r.
func (t Token) IsSeparator(r rune) bool {
	return t.Kind == TokSeparator && t.Sep == r
}

// Width returns the number of source columns the token occupies.
func (t Token) Width() int {
	if t.Kind == TokText {
		return len(t.Text)
	}
	return len(string(t.Sep))
}

// String renders the token for diagnostics, e.g. `"BEGIN" at 3:1`.
func (t Token) String() string {
	if t.Kind == TokText {
		return fmt.Sprintf("%q at %s", t.Text, t.Loc)
	}
	return fmt.Sprintf("'%c' at %s", t.Sep, t.Loc)
}
