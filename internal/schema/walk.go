package schema

import "fmt"

// Inspect traverses a type tree depth-first in source order, calling fn for
// each node. If fn returns false, the children of that node are skipped.
func Inspect(t TypeSpec, fn func(TypeSpec) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch v := t.(type) {
	case *Optional:
		Inspect(v.Inner, fn)
	case *Default:
		Inspect(v.Inner, fn)
	case *Sequence:
		for _, f := range v.Fields {
			Inspect(f.Type, fn)
		}
	case *Set:
		for _, f := range v.Fields {
			Inspect(f.Type, fn)
		}
	case *Choice:
		for _, f := range v.Variants {
			Inspect(f.Type, fn)
		}
	case *SequenceOf:
		Inspect(v.Inner, fn)
	case *SetOf:
		Inspect(v.Inner, fn)
	}
}

type refValue interface {
	IsRef() bool
	Reference() string
}

// ValueRefs returns the value-reference names a type tree depends on, in
// traversal order and with duplicates.
func ValueRefs(t TypeSpec) []string {
	var refs []string
	add := func(v refValue) {
		if v.IsRef() {
			refs = append(refs, v.Reference())
		}
	}
	Inspect(t, func(n TypeSpec) bool {
		switch v := n.(type) {
		case *Integer:
			visitRange(v.Range, func(b *LitOrRef[int64]) { add(b) })
			for _, c := range v.Constants {
				add(c.Value)
			}
		case *BitString:
			visitSize(v.Size, func(b *LitOrRef[uint64]) { add(b) })
			for _, c := range v.Constants {
				add(c.Value)
			}
		case *String:
			visitSize(v.Size, func(b *LitOrRef[uint64]) { add(b) })
		case *OctetString:
			visitSize(v.Size, func(b *LitOrRef[uint64]) { add(b) })
		case *SequenceOf:
			visitSize(v.Size, func(b *LitOrRef[uint64]) { add(b) })
		case *SetOf:
			visitSize(v.Size, func(b *LitOrRef[uint64]) { add(b) })
		case *Default:
			add(v.Value)
		}
		return true
	})
	return refs
}

// TypeRefs returns the type names a type tree refers to.
func TypeRefs(t TypeSpec) []string {
	var refs []string
	Inspect(t, func(n TypeSpec) bool {
		if r, ok := n.(*TypeReference); ok {
			refs = append(refs, r.Name)
		}
		return true
	})
	return refs
}

func visitRange(r Range, fn func(*LitOrRef[int64])) {
	if r.Min != nil {
		fn(r.Min)
	}
	if r.Max != nil {
		fn(r.Max)
	}
}

func visitSize(s Size, fn func(*LitOrRef[uint64])) {
	if s.Min != nil {
		fn(s.Min)
	}
	if s.Max != nil {
		fn(s.Max)
	}
}

// UnresolvedError reports a reference left in a module marked Resolved.
type UnresolvedError struct {
	Module string
	Owner  string
	Ref    string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("module %s: %s still references %q", e.Module, e.Owner, e.Ref)
}

// CheckResolved verifies that no reference variant remains anywhere in the
// module. It returns the first one found, in source order.
func (m *Module) CheckResolved() error {
	for _, def := range m.Definitions {
		if refs := ValueRefs(def.Type); len(refs) > 0 {
			return &UnresolvedError{Module: m.Name, Owner: def.Name, Ref: refs[0]}
		}
	}
	for _, v := range m.Values {
		if v.Value.IsRef() {
			return &UnresolvedError{Module: m.Name, Owner: v.Name, Ref: v.Value.Reference()}
		}
		if refs := ValueRefs(v.Type); len(refs) > 0 {
			return &UnresolvedError{Module: m.Name, Owner: v.Name, Ref: refs[0]}
		}
	}
	return nil
}
