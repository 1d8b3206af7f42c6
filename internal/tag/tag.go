// Package tag computes ASN.1 tags for schema types.
//
// Built-in types carry a fixed universal tag. OPTIONAL and DEFAULT are
// transparent. A reference takes its explicit tag, or the tag of the
// definition it names, found through the import chain. A CHOICE takes the
// smallest tag among its root variants.
//
// An unresolvable tag is not an error here: TagOf reports false and the
// caller decides. Reference cycles also yield false.
package tag

import (
	"slices"

	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
)

var charsetTags = map[schema.Charset]uint64{
	schema.CharsetUTF8:      12,
	schema.CharsetNumeric:   18,
	schema.CharsetPrintable: 19,
	schema.CharsetTeletex:   20,
	schema.CharsetVideotex:  21,
	schema.CharsetIA5:       22,
	schema.CharsetGraphic:   25,
	schema.CharsetVisible:   26,
	schema.CharsetGeneral:   27,
	schema.CharsetUniversal: 28,
	schema.CharsetBMP:       30,
}

// Universal returns the default universal tag of a built-in type. It
// reports false for wrappers, references and CHOICE, which have none of
// their own.
func Universal(t schema.TypeSpec) (schema.Tag, bool) {
	switch v := t.(type) {
	case *schema.Boolean:
		return schema.Universal(1), true
	case *schema.Integer:
		return schema.Universal(2), true
	case *schema.BitString:
		return schema.Universal(3), true
	case *schema.OctetString:
		return schema.Universal(4), true
	case *schema.Null:
		return schema.Universal(5), true
	case *schema.Enumerated:
		return schema.Universal(10), true
	case *schema.Sequence, *schema.SequenceOf:
		return schema.Universal(16), true
	case *schema.Set, *schema.SetOf:
		return schema.Universal(17), true
	case *schema.String:
		n, ok := charsetTags[v.Charset]
		return schema.Universal(n), ok
	}
	return schema.Tag{}, false
}

// Resolver computes tags, following references through a scope.
type Resolver struct {
	scope *scope.Scope
}

// New returns a Resolver over the given scope.
func New(s *scope.Scope) *Resolver {
	return &Resolver{scope: s}
}

// TagOf returns the tag of t as it appears in mod.
func (r *Resolver) TagOf(t schema.TypeSpec, mod *schema.Module) (schema.Tag, bool) {
	var chain scope.Chain
	return r.tagOf(t, mod, &chain)
}

// TagOfDefinition returns the outer tag of a definition in mod: its
// explicit tag if present, otherwise the tag of its type.
func (r *Resolver) TagOfDefinition(def *schema.Definition, mod *schema.Module) (schema.Tag, bool) {
	if def.Tag != nil {
		return *def.Tag, true
	}
	var chain scope.Chain
	if err := chain.Enter(mod.Name, def.Name); err != nil {
		return schema.Tag{}, false
	}
	return r.tagOf(def.Type, mod, &chain)
}

// TagOfField returns a component's explicit tag, or the tag of its type.
func (r *Resolver) TagOfField(f *schema.Field, mod *schema.Module) (schema.Tag, bool) {
	if f.Tag != nil {
		return *f.Tag, true
	}
	return r.TagOf(f.Type, mod)
}

func (r *Resolver) tagOf(t schema.TypeSpec, mod *schema.Module, chain *scope.Chain) (schema.Tag, bool) {
	switch v := t.(type) {
	case *schema.Optional:
		return r.tagOf(v.Inner, mod, chain)
	case *schema.Default:
		return r.tagOf(v.Inner, mod, chain)
	case *schema.TypeReference:
		if v.Tag != nil {
			return *v.Tag, true
		}
		def, owner, err := scope.Lookup(r.scope, mod, v.Name, scope.Definitions)
		if err != nil {
			return schema.Tag{}, false
		}
		if def.Tag != nil {
			return *def.Tag, true
		}
		if chain.Enter(owner.Name, def.Name) != nil {
			return schema.Tag{}, false
		}
		defer chain.Leave()
		return r.tagOf(def.Type, owner, chain)
	case *schema.Choice:
		root := schema.Root(v.Variants, v.ExtensionAfter)
		if len(root) == 0 {
			return schema.Tag{}, false
		}
		var lowest schema.Tag
		for i := range root {
			tag, ok := r.fieldTag(&root[i], mod, chain)
			if !ok {
				return schema.Tag{}, false
			}
			if i == 0 || tag.Less(lowest) {
				lowest = tag
			}
		}
		return lowest, true
	}
	return Universal(t)
}

func (r *Resolver) fieldTag(f *schema.Field, mod *schema.Module, chain *scope.Chain) (schema.Tag, bool) {
	if f.Tag != nil {
		return *f.Tag, true
	}
	return r.tagOf(f.Type, mod, chain)
}

// Automatic assigns ContextSpecific(i) to the i-th component when no
// component carries an explicit tag. Otherwise fields are returned as is.
// The input slice is never modified.
func Automatic(fields []schema.Field) []schema.Field {
	for _, f := range fields {
		if f.Tag != nil {
			return fields
		}
	}
	out := make([]schema.Field, len(fields))
	for i, f := range fields {
		tag := schema.ContextSpecific(uint64(i))
		f.Tag = &tag
		out[i] = f
	}
	return out
}

// CanonicalOrder returns the indices of a SET's components in canonical
// encoding order: root components before extension additions, each group
// sorted by tag. Components whose tag cannot be resolved sort last within
// their group. The sort is stable.
func (r *Resolver) CanonicalOrder(fields []schema.Field, extensionAfter *int, mod *schema.Module) []int {
	type entry struct {
		index int
		ext   bool
		tag   schema.Tag
		ok    bool
	}
	entries := make([]entry, len(fields))
	for i := range fields {
		tag, ok := r.TagOfField(&fields[i], mod)
		entries[i] = entry{index: i, ext: schema.IsExtension(i, extensionAfter), tag: tag, ok: ok}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.ext != b.ext:
			if a.ext {
				return 1
			}
			return -1
		case a.ok != b.ok:
			if a.ok {
				return -1
			}
			return 1
		case !a.ok:
			return 0
		}
		return a.tag.Compare(b.tag)
	})
	order := make([]int, len(entries))
	for i, e := range entries {
		order[i] = e.index
	}
	return order
}
