package schema

// TypeSpec is a schema type. The concrete types below are the only
// implementations.
type TypeSpec interface {
	typeSpec()
}

// Boolean is BOOLEAN.
type Boolean struct{}

// Integer is INTEGER with an optional value range and named numbers.
type Integer struct {
	Range     Range
	Constants []NamedConstant
}

// String is one of the restricted character string types.
type String struct {
	Size    Size
	Charset Charset
}

// OctetString is OCTET STRING.
type OctetString struct {
	Size Size
}

// BitString is BIT STRING with optional named bits.
type BitString struct {
	Size      Size
	Constants []NamedConstant
}

// Null is NULL.
type Null struct{}

// Optional marks a component OPTIONAL.
type Optional struct {
	Inner TypeSpec
}

// Default marks a component with a DEFAULT value.
type Default struct {
	Inner TypeSpec
	Value LitOrRef[Literal]
}

// Sequence is SEQUENCE { ... }.
type Sequence struct {
	Fields         []Field
	ExtensionAfter *int
}

// SequenceOf is SEQUENCE OF. ElementTag is an explicit tag written on an
// inline element type (`SEQUENCE OF [0] SEQUENCE {...}`).
type SequenceOf struct {
	Inner      TypeSpec
	Size       Size
	ElementTag *Tag
}

// Set is SET { ... }.
type Set struct {
	Fields         []Field
	ExtensionAfter *int
}

// SetOf is SET OF.
type SetOf struct {
	Inner      TypeSpec
	Size       Size
	ElementTag *Tag
}

// Enumerated is ENUMERATED { ... }.
type Enumerated struct {
	Variants       []EnumVariant
	ExtensionAfter *int
}

// Choice is CHOICE { ... }.
type Choice struct {
	Variants       []Field
	ExtensionAfter *int
}

// TypeReference names a type defined in this module or imported into it.
type TypeReference struct {
	Name string
	Tag  *Tag
}

func (*Boolean) typeSpec()       {}
func (*Integer) typeSpec()       {}
func (*String) typeSpec()        {}
func (*OctetString) typeSpec()   {}
func (*BitString) typeSpec()     {}
func (*Null) typeSpec()          {}
func (*Optional) typeSpec()      {}
func (*Default) typeSpec()       {}
func (*Sequence) typeSpec()      {}
func (*SequenceOf) typeSpec()    {}
func (*Set) typeSpec()           {}
func (*SetOf) typeSpec()         {}
func (*Enumerated) typeSpec()    {}
func (*Choice) typeSpec()        {}
func (*TypeReference) typeSpec() {}

// Field is a SEQUENCE or SET component, or a CHOICE variant.
type Field struct {
	Name string
	Type TypeSpec
	Tag  *Tag
}

// EnumVariant is one ENUMERATED item. Number is nil when the schema gives
// no explicit value.
type EnumVariant struct {
	Name   string
	Number *int64
}

// NamedConstant is a named number on an INTEGER or a named bit on a
// BIT STRING.
type NamedConstant struct {
	Name  string
	Value LitOrRef[int64]
}

// Range is an INTEGER value constraint. Nil bounds are unbounded (MIN/MAX
// or no constraint); a single value constraint has Min == Max.
type Range struct {
	Min        *LitOrRef[int64]
	Max        *LitOrRef[int64]
	Extensible bool
}

// IsZero reports whether no constraint was given.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil && !r.Extensible
}

// Size is a SIZE constraint, bounded the same way as Range.
type Size struct {
	Min        *LitOrRef[uint64]
	Max        *LitOrRef[uint64]
	Extensible bool
}

// IsZero reports whether no constraint was given.
func (s Size) IsZero() bool {
	return s.Min == nil && s.Max == nil && !s.Extensible
}

// IsExtension reports whether component i follows the extension marker.
func IsExtension(i int, extensionAfter *int) bool {
	return extensionAfter != nil && i > *extensionAfter
}

// Root returns the components that precede the extension marker.
func Root[E any](items []E, extensionAfter *int) []E {
	if extensionAfter == nil {
		return items
	}
	return items[:min(*extensionAfter+1, len(items))]
}

// Unwrap strips Optional and Default wrappers.
func Unwrap(t TypeSpec) TypeSpec {
	for {
		switch v := t.(type) {
		case *Optional:
			t = v.Inner
		case *Default:
			t = v.Inner
		default:
			return t
		}
	}
}

// IsAggregate reports whether t is an inline SEQUENCE, SET, CHOICE or
// ENUMERATED, the types that get their own named definition when nested.
func IsAggregate(t TypeSpec) bool {
	switch t.(type) {
	case *Sequence, *Set, *Choice, *Enumerated:
		return true
	}
	return false
}

// Charset is the character set of a String type.
type Charset int

const (
	CharsetUTF8 Charset = iota
	CharsetNumeric
	CharsetPrintable
	CharsetTeletex
	CharsetVideotex
	CharsetIA5
	CharsetGraphic
	CharsetVisible
	CharsetGeneral
	CharsetUniversal
	CharsetBMP
)

var charsetNames = [...]string{
	CharsetUTF8:      "UTF8String",
	CharsetNumeric:   "NumericString",
	CharsetPrintable: "PrintableString",
	CharsetTeletex:   "TeletexString",
	CharsetVideotex:  "VideotexString",
	CharsetIA5:       "IA5String",
	CharsetGraphic:   "GraphicString",
	CharsetVisible:   "VisibleString",
	CharsetGeneral:   "GeneralString",
	CharsetUniversal: "UniversalString",
	CharsetBMP:       "BMPString",
}

// charsetKeywords maps every accepted keyword, aliases included.
var charsetKeywords = map[string]Charset{
	"UTF8String":      CharsetUTF8,
	"NumericString":   CharsetNumeric,
	"PrintableString": CharsetPrintable,
	"TeletexString":   CharsetTeletex,
	"T61String":       CharsetTeletex,
	"VideotexString":  CharsetVideotex,
	"IA5String":       CharsetIA5,
	"GraphicString":   CharsetGraphic,
	"VisibleString":   CharsetVisible,
	"ISO646String":    CharsetVisible,
	"GeneralString":   CharsetGeneral,
	"UniversalString": CharsetUniversal,
	"BMPString":       CharsetBMP,
}

// CharsetOf returns the charset named by a string type keyword.
func CharsetOf(keyword string) (Charset, bool) {
	c, ok := charsetKeywords[keyword]
	return c, ok
}

// String returns the canonical keyword.
func (c Charset) String() string {
	if int(c) < len(charsetNames) {
		return charsetNames[c]
	}
	return "UnknownString"
}

// MarshalText renders the canonical keyword.
func (c Charset) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
