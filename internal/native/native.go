// Package native describes lowered, codec-ready types.
//
// A Model is what code emitters consume: one Definition per source type
// assignment plus the definitions hoisted out of inline aggregates. Every
// Named reference carries its wire tag and every sized or ranged type
// carries its constraint, so emitters never look back at the schema.
//
// All values are plain data. They serialize to YAML through yaml.v3.
package native

import (
	"fmt"

	"github.com/golangsnmp/asnc/internal/schema"
)

// Type is a lowered field or element type.
type Type interface {
	nativeType()
}

// Width is a fixed integer width and signedness.
type Width int

const (
	U8 Width = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
)

var widthNames = [...]string{
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
}

func (w Width) String() string {
	if int(w) < len(widthNames) {
		return widthNames[w]
	}
	return fmt.Sprintf("Width(%d)", int(w))
}

// MarshalText renders the width name.
func (w Width) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Signed reports whether the width is a signed integer.
func (w Width) Signed() bool {
	return w >= I8
}

// Bits returns the width in bits.
func (w Width) Bits() int {
	return 8 << (int(w) % 4)
}

// Ordering says whether a Vec keeps element order on the wire or sorts it.
type Ordering int

const (
	Keep Ordering = iota
	Sort
)

func (o Ordering) String() string {
	if o == Sort {
		return "sort"
	}
	return "keep"
}

// MarshalText renders the ordering name.
func (o Ordering) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Size is a length constraint. Nil bounds are unbounded.
type Size struct {
	Min        *uint64 `yaml:"min,omitempty"`
	Max        *uint64 `yaml:"max,omitempty"`
	Extensible bool    `yaml:"extensible,omitempty"`
}

// Boolean is a BOOLEAN.
type Boolean struct{}

// Null is a NULL.
type Null struct{}

// Integer is a fixed width integer. Min and Max are the inclusive source
// range; nil means bounded only by the width.
type Integer struct {
	Width      Width  `yaml:"width"`
	Min        *int64 `yaml:"min,omitempty"`
	Max        *int64 `yaml:"max,omitempty"`
	Extensible bool   `yaml:"extensible,omitempty"`
}

// String is a character string.
type String struct {
	Charset schema.Charset `yaml:"charset"`
	Size    Size           `yaml:"size,omitempty"`
}

// ByteArray is an OCTET STRING.
type ByteArray struct {
	Size Size `yaml:"size,omitempty"`
}

// BitArray is a BIT STRING.
type BitArray struct {
	Size Size `yaml:"size,omitempty"`
}

// Vec is a SEQUENCE OF or SET OF. SET OF elements are sorted on the wire.
type Vec struct {
	Inner    Type     `yaml:"inner"`
	Size     Size     `yaml:"size,omitempty"`
	Ordering Ordering `yaml:"ordering"`
}

// Optional is a component that may be absent.
type Optional struct {
	Inner Type `yaml:"inner"`
}

// Default is a component with a default value.
type Default struct {
	Inner Type           `yaml:"inner"`
	Value schema.Literal `yaml:"value"`
}

// Named refers to another definition by name, with the tag it is
// encoded under.
type Named struct {
	Name string     `yaml:"name"`
	Tag  schema.Tag `yaml:"tag"`
}

func (*Boolean) nativeType()   {}
func (*Null) nativeType()      {}
func (*Integer) nativeType()   {}
func (*String) nativeType()    {}
func (*ByteArray) nativeType() {}
func (*BitArray) nativeType()  {}
func (*Vec) nativeType()       {}
func (*Optional) nativeType()  {}
func (*Default) nativeType()   {}
func (*Named) nativeType()     {}

// Shape is the form of a top-level definition.
type Shape interface {
	shape()
}

// Constant is a named number carried over from an INTEGER or BIT STRING.
type Constant struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

// TupleStruct wraps a single type, e.g. `Port ::= INTEGER (0..65535)`.
type TupleStruct struct {
	Inner     Type       `yaml:"inner"`
	Constants []Constant `yaml:"constants,omitempty"`
}

// Field is a struct member.
type Field struct {
	Name      string      `yaml:"name"`
	Type      Type        `yaml:"type"`
	Tag       *schema.Tag `yaml:"tag,omitempty"`
	Constants []Constant  `yaml:"constants,omitempty"`
}

// Struct is a SEQUENCE or SET. EncodingOrder, set only for SET, lists
// field indexes in canonical wire order.
type Struct struct {
	Fields         []Field `yaml:"fields"`
	ExtensionAfter *int    `yaml:"extensionAfter,omitempty"`
	EncodingOrder  []int   `yaml:"encodingOrder,omitempty"`
}

// EnumVariant is a numbered ENUMERATED item.
type EnumVariant struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

// Enum is an ENUMERATED.
type Enum struct {
	Variants       []EnumVariant `yaml:"variants"`
	ExtensionAfter *int          `yaml:"extensionAfter,omitempty"`
}

// Variant is a CHOICE alternative.
type Variant struct {
	Name string     `yaml:"name"`
	Type Type       `yaml:"type"`
	Tag  schema.Tag `yaml:"tag"`
}

// DataEnum is a CHOICE.
type DataEnum struct {
	Variants       []Variant `yaml:"variants"`
	ExtensionAfter *int      `yaml:"extensionAfter,omitempty"`
}

func (*TupleStruct) shape() {}
func (*Struct) shape()      {}
func (*Enum) shape()        {}
func (*DataEnum) shape()    {}

// Definition is a top-level lowered type. Tag is the outer tag given on
// the type assignment, if any.
type Definition struct {
	Name  string      `yaml:"name"`
	Tag   *schema.Tag `yaml:"tag,omitempty"`
	Shape Shape       `yaml:"shape"`
}

// Model is the lowered form of one module.
type Model struct {
	Module      string       `yaml:"module"`
	Definitions []Definition `yaml:"definitions"`
}

// Definition returns the definition with the given name.
func (m *Model) Definition(name string) (*Definition, bool) {
	for i := range m.Definitions {
		if m.Definitions[i].Name == name {
			return &m.Definitions[i], true
		}
	}
	return nil, false
}
