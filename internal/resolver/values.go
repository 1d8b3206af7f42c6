package resolver

import (
	"errors"

	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
)

// valueResolver materializes LitOrRef[T] slots by looking the referenced
// value up and converting its literal to T.
type valueResolver[T any] struct {
	r       *resolver
	convert func(schema.Literal) (T, bool)
}

func (r *resolver) ints() valueResolver[int64] {
	return valueResolver[int64]{r: r, convert: toInt64}
}

func (r *resolver) sizes() valueResolver[uint64] {
	return valueResolver[uint64]{r: r, convert: toUint64}
}

func (v valueResolver[T]) resolve(x schema.LitOrRef[T]) (schema.LitOrRef[T], error) {
	if !x.IsRef() {
		return x, nil
	}
	name := x.Reference()
	var chain scope.Chain
	lit, err := v.r.lookupValue(v.r.mod, name, &chain)
	if err != nil {
		return x, err
	}
	out, ok := v.convert(lit)
	if !ok {
		return x, v.r.fail(FailedToParseLiteral, name, nil)
	}
	return schema.Lit(out), nil
}

func (v valueResolver[T]) bound(b *schema.LitOrRef[T]) (*schema.LitOrRef[T], error) {
	if b == nil {
		return nil, nil
	}
	out, err := v.resolve(*b)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toInt64(l schema.Literal) (int64, bool) {
	v, ok := l.(schema.IntValue)
	return int64(v), ok
}

// toUint64 rejects negative values: sizes are never negative.
func toUint64(l schema.Literal) (uint64, bool) {
	v, ok := l.(schema.IntValue)
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

// lookupValue finds the value assignment name as seen from module from and
// follows it to a literal. Every value visited is entered into chain.
func (r *resolver) lookupValue(from *schema.Module, name string, chain *scope.Chain) (schema.Literal, error) {
	vr, owner, err := scope.Lookup(r.scope, from, name, scope.Values)
	if err != nil {
		return nil, r.scopeError(FailedToResolveReference, name, err)
	}
	if err := chain.Enter(owner.Name, vr.Name); err != nil {
		return nil, r.fail(CyclicReference, name, err)
	}
	return r.typedValue(vr.Value, vr.Type, owner, chain)
}

// typedValue materializes value, whose declared type is ty in module mod.
// A reference first matches an enumeration item or a named integer
// constant of the underlying type and only then another value assignment.
func (r *resolver) typedValue(value schema.LitOrRef[schema.Literal], ty schema.TypeSpec, mod *schema.Module, chain *scope.Chain) (schema.Literal, error) {
	if lit, ok := value.Literal(); ok {
		return lit, nil
	}
	name := value.Reference()
	base, owner, err := r.underlying(ty, mod)
	if err != nil {
		return nil, err
	}
	switch t := base.(type) {
	case *schema.Enumerated:
		for _, v := range t.Variants {
			if v.Name == name {
				return schema.EnumValue(name), nil
			}
		}
	case *schema.Integer:
		for _, c := range t.Constants {
			if c.Name != name {
				continue
			}
			if n, ok := c.Value.Literal(); ok {
				return schema.IntValue(n), nil
			}
			return r.lookupValue(owner, c.Value.Reference(), chain)
		}
	}
	return r.lookupValue(mod, name, chain)
}

// checkedValue materializes value in the current module and verifies the
// literal fits the resolved type ty.
func (r *resolver) checkedValue(value schema.LitOrRef[schema.Literal], ty schema.TypeSpec, chain *scope.Chain) (schema.Literal, error) {
	lit, err := r.typedValue(value, ty, r.mod, chain)
	if err != nil {
		return nil, err
	}
	base, _, err := r.underlying(ty, r.mod)
	if err != nil {
		return nil, err
	}
	if !fits(base, lit) {
		name := lit.String()
		if value.IsRef() {
			name = value.Reference()
		}
		return nil, r.fail(FailedToParseLiteral, name, nil)
	}
	return lit, nil
}

// underlying strips wrappers and follows type references to the first
// structural type, returning it with the module that defines it.
func (r *resolver) underlying(t schema.TypeSpec, mod *schema.Module) (schema.TypeSpec, *schema.Module, error) {
	var chain scope.Chain
	for {
		t = schema.Unwrap(t)
		ref, ok := t.(*schema.TypeReference)
		if !ok {
			return t, mod, nil
		}
		def, owner, err := scope.Lookup(r.scope, mod, ref.Name, scope.Definitions)
		if err != nil {
			return nil, nil, r.scopeError(FailedToResolveType, ref.Name, err)
		}
		if err := chain.Enter(owner.Name, def.Name); err != nil {
			return nil, nil, r.fail(CyclicReference, ref.Name, err)
		}
		t, mod = def.Type, owner
	}
}

// fits reports whether lit is an acceptable value for type t.
func fits(t schema.TypeSpec, lit schema.Literal) bool {
	switch t.(type) {
	case *schema.Boolean:
		_, ok := lit.(schema.BoolValue)
		return ok
	case *schema.Integer:
		_, ok := lit.(schema.IntValue)
		return ok
	case *schema.String:
		_, ok := lit.(schema.StringValue)
		return ok
	case *schema.OctetString:
		_, ok := lit.(schema.OctetsValue)
		return ok
	case *schema.BitString:
		switch lit.(type) {
		case schema.BitsValue, schema.OctetsValue:
			return true
		}
		return false
	case *schema.Enumerated:
		_, ok := lit.(schema.EnumValue)
		return ok
	}
	return true
}

// scopeError converts a scope lookup failure. Import cycles become
// CyclicReference regardless of kind.
func (r *resolver) scopeError(kind ErrorKind, name string, err error) *Error {
	var cycle *scope.CycleError
	if errors.As(err, &cycle) {
		kind = CyclicReference
	}
	return r.fail(kind, name, err)
}
