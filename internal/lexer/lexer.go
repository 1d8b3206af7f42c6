package lexer

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/golangsnmp/asnc/internal/types"
)

type lexerState int

const (
	stateNormal lexerState = iota
	stateInQuote
)

// Lexer tokenizes ASN.1 schema source text. It performs no keyword
// classification; the parser interprets text tokens.
type Lexer struct {
	source []byte
	pos    int
	line   int
	col    int
	state  lexerState
	escape bool
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
		col:    1,
		state:  stateNormal,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Tokenize is a convenience wrapper around New(source, nil).Tokenize().
func Tokenize(source []byte) ([]Token, error) {
	return New(source, nil).Tokenize()
}

// Tokenize consumes all source text and returns the token stream.
// The only lexical error is an unterminated block comment.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, max(len(l.source)/4, 64))
	for {
		tok, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if l.TraceEnabled() {
			l.Trace("token", slog.String("token", tok.String()))
		}
		tokens = append(tokens, tok)
	}
	l.Log(slog.LevelDebug, "tokenization complete", slog.Int("tokens", len(tokens)))
	return tokens, nil
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() {
	if l.pos >= len(l.source) {
		return
	}
	if l.source[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) location() types.Location {
	return types.At(l.line, l.col)
}

func (l *Lexer) next() (Token, bool, error) {
	start := l.pos
	for {
		b, ok := l.peekAt(0)
		if !ok {
			return Token{}, false, nil
		}
		if isSpace(b) {
			l.advance()
			continue
		}
		if l.state == stateNormal && b == '-' && l.is(1, '-') {
			l.skipLineComment()
			continue
		}
		if l.state == stateNormal && b == '/' && l.is(1, '*') {
			if err := l.skipBlockComment(); err != nil {
				return Token{}, false, err
			}
			continue
		}
		break
	}

	quoted := l.state == stateInQuote
	tok := l.token()
	if quoted {
		tok.Space = string(l.source[start:tok.offset])
	}
	return tok.Token, true, nil
}

// located is a token with the byte offset it starts at.
type located struct {
	Token
	offset int
}

func (l *Lexer) token() located {
	loc := l.location()
	offset := l.pos
	b, _ := l.peekAt(0)

	if isIdentStart(b) || (b == '-' && l.isDigitAt(1)) {
		start := l.pos
		l.advance()
		for {
			c, ok := l.peekAt(0)
			if !ok {
				break
			}
			if c == '-' {
				if l.is(1, '-') || !l.isTextAt(1) {
					break
				}
				l.advance()
				continue
			}
			if !isIdentStart(c) {
				break
			}
			l.advance()
		}
		return located{Text(loc, string(l.source[start:l.pos])), offset}
	}

	r, size := utf8.DecodeRune(l.source[l.pos:])
	for range size {
		l.advance()
	}
	if r == '"' {
		switch {
		case l.state == stateNormal:
			l.state = stateInQuote
		case l.escape:
			l.escape = false
		case l.is(0, '"'):
			// "" inside a string is an escaped quote, not the terminator.
			l.escape = true
		default:
			l.state = stateNormal
		}
	}
	return located{Separator(loc, r), offset}
}

func (l *Lexer) is(offset int, want byte) bool {
	b, ok := l.peekAt(offset)
	return ok && b == want
}

func (l *Lexer) isDigitAt(offset int) bool {
	b, ok := l.peekAt(offset)
	return ok && b >= '0' && b <= '9'
}

func (l *Lexer) isTextAt(offset int) bool {
	b, ok := l.peekAt(offset)
	return ok && isIdentStart(b)
}

// skipLineComment skips "--" up to the end of line or the next "--".
func (l *Lexer) skipLineComment() {
	l.advance()
	l.advance()
	for {
		b, ok := l.peekAt(0)
		if !ok || b == '\n' {
			return
		}
		if b == '-' && l.is(1, '-') {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() error {
	loc := l.location()
	l.advance()
	l.advance()
	depth := 1
	for depth > 0 {
		b, ok := l.peekAt(0)
		if !ok {
			return fmt.Errorf("unterminated block comment at %s", loc)
		}
		switch {
		case b == '/' && l.is(1, '*'):
			l.advance()
			depth++
		case b == '*' && l.is(1, '/'):
			l.advance()
			depth--
		}
		l.advance()
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}
