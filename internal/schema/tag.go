package schema

import "fmt"

// TagClass is the class of an ASN.1 tag. The numeric order is the X.690
// canonical class order.
type TagClass int

const (
	ClassUniversal TagClass = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// String returns the class keyword as written in a tag prefix.
func (c TagClass) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return fmt.Sprintf("TagClass(%d)", int(c))
	}
}

// Tag identifies a type's wire representation.
type Tag struct {
	Class  TagClass
	Number uint64
}

// Universal creates a universal-class tag.
func Universal(n uint64) Tag { return Tag{Class: ClassUniversal, Number: n} }

// Application creates an application-class tag.
func Application(n uint64) Tag { return Tag{Class: ClassApplication, Number: n} }

// ContextSpecific creates a context-specific tag, the class of a bare [n].
func ContextSpecific(n uint64) Tag { return Tag{Class: ClassContextSpecific, Number: n} }

// Private creates a private-class tag.
func Private(n uint64) Tag { return Tag{Class: ClassPrivate, Number: n} }

// Compare orders tags by class (Universal, Application, ContextSpecific,
// Private) and then by number. It returns -1, 0 or +1.
func (t Tag) Compare(o Tag) int {
	switch {
	case t.Class < o.Class:
		return -1
	case t.Class > o.Class:
		return 1
	case t.Number < o.Number:
		return -1
	case t.Number > o.Number:
		return 1
	}
	return 0
}

// Less reports whether t sorts before o.
func (t Tag) Less(o Tag) bool {
	return t.Compare(o) < 0
}

// String renders the tag in prefix notation, e.g. "[APPLICATION 3]" or "[0]".
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return fmt.Sprintf("[%d]", t.Number)
	}
	return fmt.Sprintf("[%s %d]", t.Class, t.Number)
}

// MarshalText renders the tag in prefix notation.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
