// Package resolver turns unresolved schema modules into resolved ones.
//
// Every literal-or-reference slot (range and size bounds, named constant
// values, DEFAULT values and value assignments) is replaced by a literal,
// following value references through the import chain. Type references
// are checked to name a reachable definition. Component lists that carry
// no explicit tags receive automatic context-specific tags.
//
// # Usage
//
//	resolved, err := resolver.ResolveAll(modules, logger)
//
// A module resolves completely or not at all; a batch fails on the first
// module that fails.
package resolver

import (
	"fmt"
	"log/slog"

	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
	"github.com/golangsnmp/asnc/internal/tag"
	"github.com/golangsnmp/asnc/internal/types"
)

// resolver resolves one module.
type resolver struct {
	scope *scope.Scope
	mod   *schema.Module
	owner string
	types.Logger
}

// Resolve resolves mod against the modules in s. The module itself need
// not be in s; a nil s means the module alone.
// If logger is nil, logging is disabled.
func Resolve(mod *schema.Module, s *scope.Scope, logger *slog.Logger) (*schema.Module, error) {
	if s == nil {
		s = scope.New(mod)
	}
	if err := checkCycles(s, mod); err != nil {
		return nil, err
	}
	r := &resolver{scope: s, mod: mod, Logger: types.Logger{L: logger}}
	return r.resolve()
}

// ResolveAll resolves a batch of modules that form each other's scope.
// Modules are resolved in import order; the result is in input order.
func ResolveAll(mods []*schema.Module, logger *slog.Logger) ([]*schema.Module, error) {
	l := types.Logger{L: logger}
	s := scope.New(mods...)

	l.Log(slog.LevelDebug, "starting phase", slog.String("phase", "cycles"))
	if err := checkCycles(s, nil); err != nil {
		return nil, err
	}

	l.Log(slog.LevelDebug, "starting phase", slog.String("phase", "resolve"))
	resolved := make(map[*schema.Module]*schema.Module, len(mods))
	for _, mod := range importOrder(s) {
		r := &resolver{scope: s, mod: mod, Logger: l}
		out, err := r.resolve()
		if err != nil {
			return nil, err
		}
		resolved[mod] = out
	}
	l.Log(slog.LevelDebug, "phase complete", slog.String("phase", "resolve"),
		slog.Int("modules", len(resolved)))

	out := make([]*schema.Module, len(mods))
	for i, mod := range mods {
		out[i] = resolved[mod]
	}
	return out, nil
}

func (r *resolver) resolve() (*schema.Module, error) {
	r.Log(slog.LevelDebug, "resolving module",
		slog.String("module", r.mod.Name),
		slog.Int("definitions", len(r.mod.Definitions)),
		slog.Int("values", len(r.mod.Values)))

	out := &schema.Module{
		Name:        r.mod.Name,
		OID:         r.mod.OID,
		State:       schema.Resolved,
		Imports:     r.mod.Imports,
		Definitions: make([]schema.Definition, 0, len(r.mod.Definitions)),
		Values:      make([]schema.ValueReference, 0, len(r.mod.Values)),
	}
	for _, def := range r.mod.Definitions {
		r.owner = def.Name
		if r.TraceEnabled() {
			r.Trace("resolving definition", slog.String("name", def.Name))
		}
		ty, err := r.resolveType(def.Type)
		if err != nil {
			return nil, err
		}
		out.Definitions = append(out.Definitions, schema.Definition{Name: def.Name, Tag: def.Tag, Type: ty})
	}
	for _, v := range r.mod.Values {
		r.owner = v.Name
		if r.TraceEnabled() {
			r.Trace("resolving value", slog.String("name", v.Name))
		}
		ty, err := r.resolveType(v.Type)
		if err != nil {
			return nil, err
		}
		var chain scope.Chain
		if err := chain.Enter(r.mod.Name, v.Name); err != nil {
			return nil, r.fail(CyclicReference, v.Name, err)
		}
		lit, err := r.checkedValue(v.Value, ty, &chain)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, schema.ValueReference{Name: v.Name, Type: ty, Value: schema.Lit(lit)})
	}
	if err := out.CheckResolved(); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", r.mod.Name, err)
	}

	r.Log(slog.LevelDebug, "module resolved", slog.String("module", r.mod.Name))
	return out, nil
}

// resolveType rebuilds t with every reference slot materialized.
// Types without such slots are returned unchanged.
func (r *resolver) resolveType(t schema.TypeSpec) (schema.TypeSpec, error) {
	switch v := t.(type) {
	case *schema.Boolean, *schema.Null, *schema.Enumerated:
		return v, nil
	case *schema.Integer:
		rng, err := r.resolveRange(v.Range)
		if err != nil {
			return nil, err
		}
		constants, err := r.resolveConstants(v.Constants)
		if err != nil {
			return nil, err
		}
		return &schema.Integer{Range: rng, Constants: constants}, nil
	case *schema.String:
		size, err := r.resolveSize(v.Size)
		if err != nil {
			return nil, err
		}
		return &schema.String{Size: size, Charset: v.Charset}, nil
	case *schema.OctetString:
		size, err := r.resolveSize(v.Size)
		if err != nil {
			return nil, err
		}
		return &schema.OctetString{Size: size}, nil
	case *schema.BitString:
		size, err := r.resolveSize(v.Size)
		if err != nil {
			return nil, err
		}
		constants, err := r.resolveConstants(v.Constants)
		if err != nil {
			return nil, err
		}
		return &schema.BitString{Size: size, Constants: constants}, nil
	case *schema.Optional:
		inner, err := r.resolveType(v.Inner)
		if err != nil {
			return nil, err
		}
		return &schema.Optional{Inner: inner}, nil
	case *schema.Default:
		return r.resolveDefault(v)
	case *schema.Sequence:
		fields, err := r.resolveFields(v.Fields)
		if err != nil {
			return nil, err
		}
		return &schema.Sequence{Fields: fields, ExtensionAfter: v.ExtensionAfter}, nil
	case *schema.Set:
		fields, err := r.resolveFields(v.Fields)
		if err != nil {
			return nil, err
		}
		return &schema.Set{Fields: fields, ExtensionAfter: v.ExtensionAfter}, nil
	case *schema.Choice:
		variants, err := r.resolveFields(v.Variants)
		if err != nil {
			return nil, err
		}
		return &schema.Choice{Variants: variants, ExtensionAfter: v.ExtensionAfter}, nil
	case *schema.SequenceOf:
		inner, err := r.resolveType(v.Inner)
		if err != nil {
			return nil, err
		}
		size, err := r.resolveSize(v.Size)
		if err != nil {
			return nil, err
		}
		return &schema.SequenceOf{Inner: inner, Size: size, ElementTag: v.ElementTag}, nil
	case *schema.SetOf:
		inner, err := r.resolveType(v.Inner)
		if err != nil {
			return nil, err
		}
		size, err := r.resolveSize(v.Size)
		if err != nil {
			return nil, err
		}
		return &schema.SetOf{Inner: inner, Size: size, ElementTag: v.ElementTag}, nil
	case *schema.TypeReference:
		if _, _, err := scope.Lookup(r.scope, r.mod, v.Name, scope.Definitions); err != nil {
			return nil, r.scopeError(FailedToResolveType, v.Name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("module %s: %s: unsupported type %T", r.mod.Name, r.owner, t)
}

// resolveFields resolves component types and applies automatic tagging.
func (r *resolver) resolveFields(fields []schema.Field) ([]schema.Field, error) {
	out := make([]schema.Field, len(fields))
	for i, f := range fields {
		ty, err := r.resolveType(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = schema.Field{Name: f.Name, Type: ty, Tag: f.Tag}
	}
	return tag.Automatic(out), nil
}

func (r *resolver) resolveRange(rng schema.Range) (schema.Range, error) {
	ints := r.ints()
	lo, err := ints.bound(rng.Min)
	if err != nil {
		return rng, err
	}
	hi, err := ints.bound(rng.Max)
	if err != nil {
		return rng, err
	}
	return schema.Range{Min: lo, Max: hi, Extensible: rng.Extensible}, nil
}

func (r *resolver) resolveSize(size schema.Size) (schema.Size, error) {
	sizes := r.sizes()
	lo, err := sizes.bound(size.Min)
	if err != nil {
		return size, err
	}
	hi, err := sizes.bound(size.Max)
	if err != nil {
		return size, err
	}
	return schema.Size{Min: lo, Max: hi, Extensible: size.Extensible}, nil
}

func (r *resolver) resolveConstants(constants []schema.NamedConstant) ([]schema.NamedConstant, error) {
	if constants == nil {
		return nil, nil
	}
	ints := r.ints()
	out := make([]schema.NamedConstant, len(constants))
	for i, c := range constants {
		v, err := ints.resolve(c.Value)
		if err != nil {
			return nil, err
		}
		out[i] = schema.NamedConstant{Name: c.Name, Value: v}
	}
	return out, nil
}

func (r *resolver) resolveDefault(d *schema.Default) (schema.TypeSpec, error) {
	inner, err := r.resolveType(d.Inner)
	if err != nil {
		return nil, err
	}
	var chain scope.Chain
	lit, err := r.checkedValue(d.Value, inner, &chain)
	if err != nil {
		return nil, err
	}
	return &schema.Default{Inner: inner, Value: schema.Lit(lit)}, nil
}

func (r *resolver) fail(kind ErrorKind, name string, err error) *Error {
	return &Error{Kind: kind, Module: r.mod.Name, Owner: r.owner, Name: name, Err: err}
}
