package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// LitOrRef holds either a literal value of type T or the name of a value
// reference that must be resolved to one. The zero value is the zero literal.
type LitOrRef[T any] struct {
	lit   T
	ref   string
	isRef bool
}

// Lit creates a literal variant.
func Lit[T any](v T) LitOrRef[T] {
	return LitOrRef[T]{lit: v}
}

// Ref creates a reference variant.
func Ref[T any](name string) LitOrRef[T] {
	return LitOrRef[T]{ref: name, isRef: true}
}

// IsRef reports whether the value is still a named reference.
func (v LitOrRef[T]) IsRef() bool {
	return v.isRef
}

// Literal returns the literal and true, or the zero value and false for a
// reference.
func (v LitOrRef[T]) Literal() (T, bool) {
	if v.isRef {
		var zero T
		return zero, false
	}
	return v.lit, true
}

// MustLiteral returns the literal. It panics on a reference; callers use it
// only on modules that passed CheckResolved.
func (v LitOrRef[T]) MustLiteral() T {
	if v.isRef {
		panic(fmt.Sprintf("schema: unresolved reference %q", v.ref))
	}
	return v.lit
}

// Reference returns the referenced name, or "" for a literal.
func (v LitOrRef[T]) Reference() string {
	return v.ref
}

func (v LitOrRef[T]) String() string {
	if v.isRef {
		return v.ref
	}
	return fmt.Sprint(v.lit)
}

// Literal is a materialized schema value.
type Literal interface {
	literal()
	String() string
}

// BoolValue is TRUE or FALSE.
type BoolValue bool

// IntValue is a signed decimal integer.
type IntValue int64

// StringValue is a quoted character string.
type StringValue string

// OctetsValue is a hex-string literal ('..'H).
type OctetsValue []byte

// BitsValue is a bit-string literal ('..'B). Data is MSB-first and
// zero-padded to whole bytes; Len is the number of significant bits.
type BitsValue struct {
	Data []byte
	Len  int
}

// EnumValue names a variant of an enumerated type.
type EnumValue string

func (BoolValue) literal()   {}
func (IntValue) literal()    {}
func (StringValue) literal() {}
func (OctetsValue) literal() {}
func (BitsValue) literal()   {}
func (EnumValue) literal()   {}

func (v BoolValue) String() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v StringValue) String() string { return strconv.Quote(string(v)) }
func (v EnumValue) String() string   { return string(v) }

func (v OctetsValue) String() string {
	return "'" + strings.ToUpper(fmt.Sprintf("%x", []byte(v))) + "'H"
}

func (v BitsValue) String() string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := range v.Len {
		if v.Data[i/8]&(0x80>>(i%8)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteString("'B")
	return b.String()
}

// MarshalText renders the literal in schema notation.
func (v OctetsValue) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// MarshalText renders the literal in schema notation.
func (v BitsValue) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ParseHex decodes the digits of a '..'H literal. An odd digit count is
// zero-extended with a leading nibble, so "ABC" decodes to 0x0A 0xBC.
func ParseHex(digits string) (OctetsValue, error) {
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		hi, ok1 := hexNibble(digits[2*i])
		lo, ok2 := hexNibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid hex digit in %q", digits)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// ParseBits decodes the digits of a '..'B literal most-significant-bit
// first, zero-padded to a full byte: "101" decodes to 0xA0 with Len 3.
func ParseBits(digits string) (BitsValue, error) {
	out := BitsValue{Data: make([]byte, (len(digits)+7)/8), Len: len(digits)}
	for i := range len(digits) {
		switch digits[i] {
		case '0':
		case '1':
			out.Data[i/8] |= 0x80 >> (i % 8)
		default:
			return BitsValue{}, fmt.Errorf("invalid bit digit in %q", digits)
		}
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
