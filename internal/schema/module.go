// Package schema provides the ASN.1 schema type model shared by the
// builder, the resolver, the tag resolver and lowering.
//
// A Module exists in one of two resolution states. An Unresolved module, as
// produced by the parser, may hold named references wherever a literal is
// allowed (range and size bounds, named-constant values, DEFAULT values).
// A Resolved module holds only literals in those places; CheckResolved
// verifies that invariant.
//
// # Pipeline Position
//
//	Source → Lexer → Tokens → Parser → [Unresolved Module] → Resolver → [Resolved Module] → Lower
//	                                   ^^^^^^^^^^^^^^^^^^^             ^^^^^^^^^^^^^^^^^
//	                                   This package                    This package
//
// Nothing in this package mutates a module; phases build new values.
package schema

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// State is the resolution state of a module.
type State int

const (
	// Unresolved modules may contain named references.
	Unresolved State = iota
	// Resolved modules contain literals only.
	Resolved
)

// String returns the state name.
func (s State) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Module is one schema module: its identity, imports, type definitions and
// value references, all in source order.
type Module struct {
	Name        string
	OID         ObjectIdentifier
	State       State
	Imports     []Import
	Definitions []Definition
	Values      []ValueReference
}

// Definition returns the type definition with the given name.
func (m *Module) Definition(name string) (*Definition, bool) {
	for i := range m.Definitions {
		if m.Definitions[i].Name == name {
			return &m.Definitions[i], true
		}
	}
	return nil, false
}

// Value returns the value reference with the given name.
func (m *Module) Value(name string) (*ValueReference, bool) {
	for i := range m.Values {
		if m.Values[i].Name == name {
			return &m.Values[i], true
		}
	}
	return nil, false
}

// ImportOf returns the import clause that brings name into scope.
func (m *Module) ImportOf(name string) (*Import, bool) {
	for i := range m.Imports {
		if slices.Contains(m.Imports[i].Symbols, name) {
			return &m.Imports[i], true
		}
	}
	return nil, false
}

// DefinitionNames returns an iterator over the names of all definitions.
func (m *Module) DefinitionNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, def := range m.Definitions {
			if !yield(def.Name) {
				return
			}
		}
	}
}

// Import is one IMPORTS clause: symbols imported from a single module.
// FromOID, when present, disambiguates same-named modules.
type Import struct {
	Symbols []string
	From    string
	FromOID ObjectIdentifier
}

// Definition is a type assignment `Name ::= [tag] Type`.
type Definition struct {
	Name string
	Tag  *Tag
	Type TypeSpec
}

// ValueReference is a value assignment `name Type ::= value`.
type ValueReference struct {
	Name  string
	Type  TypeSpec
	Value LitOrRef[Literal]
}

// ObjectIdentifier is an ordered sequence of OID components.
type ObjectIdentifier []OIDComponent

// OIDComponent is one component in name form (`iso`), number form (`1`)
// or name-and-number form (`iso(1)`).
type OIDComponent struct {
	Name   string
	Number *uint64
}

// NameForm creates a name-only component.
func NameForm(name string) OIDComponent {
	return OIDComponent{Name: name}
}

// NumberForm creates a number-only component.
func NumberForm(n uint64) OIDComponent {
	return OIDComponent{Number: &n}
}

// NameAndNumberForm creates a component carrying both.
func NameAndNumberForm(name string, n uint64) OIDComponent {
	return OIDComponent{Name: name, Number: &n}
}

// Equal reports whether two identifiers match component-wise. Components
// compare by number when both carry one, by name otherwise.
func (o ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		a, b := o[i], other[i]
		if a.Number != nil && b.Number != nil {
			if *a.Number != *b.Number {
				return false
			}
			continue
		}
		if a.Name != b.Name {
			return false
		}
	}
	return true
}

// String renders the identifier in brace notation, e.g. "{ iso(1) 2 }".
func (o ObjectIdentifier) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for _, c := range o {
		b.WriteByte(' ')
		switch {
		case c.Name != "" && c.Number != nil:
			b.WriteString(c.Name + "(" + strconv.FormatUint(*c.Number, 10) + ")")
		case c.Number != nil:
			b.WriteString(strconv.FormatUint(*c.Number, 10))
		default:
			b.WriteString(c.Name)
		}
	}
	b.WriteString(" }")
	return b.String()
}
