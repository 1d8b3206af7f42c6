// Package lower turns a resolved module into a native model.
//
// Each type assignment becomes a native definition. Inline SEQUENCE, SET,
// CHOICE and ENUMERATED types nested in components are hoisted into
// definitions of their own, named after the enclosing definition and the
// component, and replaced by a Named reference carrying the wire tag.
// Hoisted definitions directly follow the definition they came from.
//
// Components after an extension marker that are neither OPTIONAL nor
// DEFAULT are lowered as Optional.
package lower

import (
	"log/slog"

	"github.com/golangsnmp/asnc/internal/naming"
	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
	"github.com/golangsnmp/asnc/internal/tag"
	"github.com/golangsnmp/asnc/internal/types"
)

// Options configures lowering.
type Options struct {
	// Naming selects identifier rewriting. The zero value normalizes.
	Naming naming.Mode
	// Logger receives debug and trace output. Nil disables logging.
	Logger *slog.Logger
}

type lowerer struct {
	mod   *schema.Module
	tags  *tag.Resolver
	names naming.Mode
	defs  []native.Definition
	owner string
	field string
	types.Logger
}

// Lower lowers a resolved module. Tags of referenced types are looked up
// through s, which should hold the resolved modules mod imports from; a
// nil s means mod alone.
func Lower(mod *schema.Module, s *scope.Scope, opts Options) (*native.Model, error) {
	if mod.State != schema.Resolved {
		return nil, &Error{Kind: NotResolved, Module: mod.Name}
	}
	if err := mod.CheckResolved(); err != nil {
		return nil, &Error{Kind: NotResolved, Module: mod.Name, Err: err}
	}
	if s == nil {
		s = scope.New(mod)
	}
	l := &lowerer{
		mod:    mod,
		tags:   tag.New(s),
		names:  opts.Naming,
		defs:   make([]native.Definition, 0, len(mod.Definitions)),
		Logger: types.Logger{L: opts.Logger},
	}

	l.Log(slog.LevelDebug, "lowering module",
		slog.String("module", mod.Name),
		slog.String("naming", opts.Naming.String()))
	for i := range mod.Definitions {
		def := &mod.Definitions[i]
		if err := l.definition(l.names.Type(def.Name), def.Tag, def.Type); err != nil {
			return nil, err
		}
	}
	l.Log(slog.LevelDebug, "lowering complete",
		slog.String("module", mod.Name),
		slog.Int("definitions", len(l.defs)),
		slog.Int("hoisted", len(l.defs)-len(mod.Definitions)))

	return &native.Model{Module: mod.Name, Definitions: l.defs}, nil
}

// definition appends a definition. Its slot is reserved first so that
// definitions hoisted while lowering it land after it.
func (l *lowerer) definition(name string, outer *schema.Tag, t schema.TypeSpec) error {
	prevOwner, prevField := l.owner, l.field
	l.owner, l.field = name, ""
	defer func() { l.owner, l.field = prevOwner, prevField }()

	if l.TraceEnabled() {
		l.Trace("lowering definition", slog.String("name", name))
	}
	idx := len(l.defs)
	l.defs = append(l.defs, native.Definition{Name: name, Tag: outer})
	shape, err := l.shape(name, t)
	if err != nil {
		return err
	}
	l.defs[idx].Shape = shape
	return nil
}

func (l *lowerer) shape(name string, t schema.TypeSpec) (native.Shape, error) {
	switch v := t.(type) {
	case *schema.Sequence:
		return l.structShape(name, v.Fields, v.ExtensionAfter, false)
	case *schema.Set:
		return l.structShape(name, v.Fields, v.ExtensionAfter, true)
	case *schema.Choice:
		return l.choiceShape(name, v)
	case *schema.Enumerated:
		return l.enumShape(v), nil
	}
	inner, err := l.lowerType(t, name+"Entry", nil)
	if err != nil {
		return nil, err
	}
	return &native.TupleStruct{Inner: inner, Constants: l.constants(t)}, nil
}

func (l *lowerer) structShape(name string, fields []schema.Field, ext *int, set bool) (native.Shape, error) {
	out := &native.Struct{
		Fields:         make([]native.Field, 0, len(fields)),
		ExtensionAfter: ext,
	}
	for i := range fields {
		f := &fields[i]
		l.field = f.Name
		ty, err := l.lowerType(forceOptional(f.Type, i, ext), l.names.Join(name, f.Name), f.Tag)
		if err != nil {
			return nil, err
		}
		nf := native.Field{
			Name:      l.names.Field(f.Name),
			Type:      ty,
			Constants: l.constants(f.Type),
		}
		if wire, ok := l.tags.TagOfField(f, l.mod); ok {
			nf.Tag = &wire
		}
		out.Fields = append(out.Fields, nf)
	}
	l.field = ""
	if set {
		out.EncodingOrder = l.tags.CanonicalOrder(fields, ext, l.mod)
	}
	return out, nil
}

func (l *lowerer) choiceShape(name string, c *schema.Choice) (native.Shape, error) {
	out := &native.DataEnum{
		Variants:       make([]native.Variant, 0, len(c.Variants)),
		ExtensionAfter: c.ExtensionAfter,
	}
	for i := range c.Variants {
		v := &c.Variants[i]
		l.field = v.Name
		wire, ok := l.tags.TagOfField(v, l.mod)
		if !ok {
			return nil, l.missingTag(typeName(v.Type))
		}
		ty, err := l.lowerType(forceOptional(v.Type, i, c.ExtensionAfter), l.names.Join(name, v.Name), v.Tag)
		if err != nil {
			return nil, err
		}
		out.Variants = append(out.Variants, native.Variant{Name: l.names.Variant(v.Name), Type: ty, Tag: wire})
	}
	l.field = ""
	return out, nil
}

// enumShape numbers the items. Unnumbered root items take the smallest
// value not used by a numbered root item; unnumbered extension items take
// one more than the largest value so far.
func (l *lowerer) enumShape(e *schema.Enumerated) native.Shape {
	used := make(map[int64]bool)
	for i, v := range e.Variants {
		if v.Number != nil && !schema.IsExtension(i, e.ExtensionAfter) {
			used[*v.Number] = true
		}
	}
	out := &native.Enum{
		Variants:       make([]native.EnumVariant, 0, len(e.Variants)),
		ExtensionAfter: e.ExtensionAfter,
	}
	var next, highest int64 = 0, -1
	for i, v := range e.Variants {
		var n int64
		switch {
		case v.Number != nil:
			n = *v.Number
		case schema.IsExtension(i, e.ExtensionAfter):
			n = highest + 1
		default:
			for used[next] {
				next++
			}
			n = next
		}
		used[n] = true
		highest = max(highest, n)
		out.Variants = append(out.Variants, native.EnumVariant{Name: l.names.Variant(v.Name), Value: n})
	}
	return out
}

// lowerType lowers a component or element type. hoist names the definition
// an inline aggregate is hoisted into; explicit is the tag written on the
// component, if any.
func (l *lowerer) lowerType(t schema.TypeSpec, hoist string, explicit *schema.Tag) (native.Type, error) {
	switch v := t.(type) {
	case *schema.Boolean:
		return &native.Boolean{}, nil
	case *schema.Null:
		return &native.Null{}, nil
	case *schema.Integer:
		return integer(v.Range), nil
	case *schema.String:
		return &native.String{Charset: v.Charset, Size: size(v.Size)}, nil
	case *schema.OctetString:
		return &native.ByteArray{Size: size(v.Size)}, nil
	case *schema.BitString:
		return &native.BitArray{Size: size(v.Size)}, nil
	case *schema.Optional:
		inner, err := l.lowerType(v.Inner, hoist, explicit)
		if err != nil {
			return nil, err
		}
		return &native.Optional{Inner: inner}, nil
	case *schema.Default:
		inner, err := l.lowerType(v.Inner, hoist, explicit)
		if err != nil {
			return nil, err
		}
		return &native.Default{Inner: inner, Value: v.Value.MustLiteral()}, nil
	case *schema.SequenceOf:
		inner, err := l.lowerType(v.Inner, hoist, v.ElementTag)
		if err != nil {
			return nil, err
		}
		return &native.Vec{Inner: inner, Size: size(v.Size), Ordering: native.Keep}, nil
	case *schema.SetOf:
		inner, err := l.lowerType(v.Inner, hoist, v.ElementTag)
		if err != nil {
			return nil, err
		}
		return &native.Vec{Inner: inner, Size: size(v.Size), Ordering: native.Sort}, nil
	case *schema.Sequence, *schema.Set, *schema.Choice, *schema.Enumerated:
		return l.hoist(hoist, t, explicit)
	case *schema.TypeReference:
		wire, ok := l.tagOf(t, explicit)
		if !ok {
			return nil, l.missingTag(v.Name)
		}
		return &native.Named{Name: l.names.Type(v.Name), Tag: wire}, nil
	}
	return nil, &Error{Kind: NotResolved, Module: l.mod.Name, Definition: l.owner, Field: l.field, Name: typeName(t)}
}

func (l *lowerer) hoist(name string, t schema.TypeSpec, explicit *schema.Tag) (native.Type, error) {
	wire, ok := l.tagOf(t, explicit)
	if !ok {
		return nil, l.missingTag(name)
	}
	l.Log(slog.LevelDebug, "hoisting definition",
		slog.String("name", name),
		slog.String("from", l.owner))
	if err := l.definition(name, nil, t); err != nil {
		return nil, err
	}
	return &native.Named{Name: name, Tag: wire}, nil
}

func (l *lowerer) tagOf(t schema.TypeSpec, explicit *schema.Tag) (schema.Tag, bool) {
	if explicit != nil {
		return *explicit, true
	}
	return l.tags.TagOf(t, l.mod)
}

// constants returns the named numbers of an INTEGER or BIT STRING.
func (l *lowerer) constants(t schema.TypeSpec) []native.Constant {
	var named []schema.NamedConstant
	switch v := schema.Unwrap(t).(type) {
	case *schema.Integer:
		named = v.Constants
	case *schema.BitString:
		named = v.Constants
	}
	if len(named) == 0 {
		return nil
	}
	out := make([]native.Constant, len(named))
	for i, c := range named {
		out[i] = native.Constant{Name: l.names.Constant(c.Name), Value: c.Value.MustLiteral()}
	}
	return out
}

func (l *lowerer) missingTag(name string) *Error {
	return &Error{Kind: MissingTag, Module: l.mod.Name, Definition: l.owner, Field: l.field, Name: name}
}

// forceOptional wraps extension additions that are neither OPTIONAL nor
// DEFAULT.
func forceOptional(t schema.TypeSpec, i int, ext *int) schema.TypeSpec {
	if !schema.IsExtension(i, ext) {
		return t
	}
	switch t.(type) {
	case *schema.Optional, *schema.Default:
		return t
	}
	return &schema.Optional{Inner: t}
}

func typeName(t schema.TypeSpec) string {
	if ref, ok := schema.Unwrap(t).(*schema.TypeReference); ok {
		return ref.Name
	}
	return ""
}
