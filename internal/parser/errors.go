package parser

import (
	"fmt"

	"github.com/golangsnmp/asnc/internal/lexer"
	"github.com/golangsnmp/asnc/internal/types"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnexpectedEndOfStream
	MissingModuleName
	InvalidIntValue
	UnsupportedLiteral
	InvalidLiteral
	InvalidValueForConstant
	DuplicateDefinition
)

var errorKindNames = [...]string{
	UnexpectedToken:         "unexpected token",
	UnexpectedEndOfStream:   "unexpected end of stream",
	MissingModuleName:       "missing module name",
	InvalidIntValue:         "invalid integer value",
	UnsupportedLiteral:      "unsupported literal",
	InvalidLiteral:          "invalid literal",
	InvalidValueForConstant: "invalid value for constant",
	DuplicateDefinition:     "duplicate definition",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a parse failure. Token is the offending token; it is the zero
// token for UnexpectedEndOfStream, in which case Loc is the position of
// the last token read.
type Error struct {
	Kind    ErrorKind
	Token   lexer.Token
	Loc     types.Location
	Message string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Loc, e.Kind)
	if e.Token.Kind == lexer.TokText && e.Token.Text != "" {
		s += fmt.Sprintf(" %q", e.Token.Text)
	} else if e.Token.Kind == lexer.TokSeparator {
		s += fmt.Sprintf(" '%c'", e.Token.Sep)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}
