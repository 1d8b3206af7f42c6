// Package scope resolves names across modules by following IMPORTS.
//
// A Scope is the set of modules visible to resolution. Only modules reached
// through an explicit import are searched; there is no global namespace.
// The same lookup serves value resolution, type checks and tag resolution.
package scope

import (
	"fmt"
	"strings"

	"github.com/golangsnmp/asnc/internal/schema"
)

// Scope indexes modules by name. It is read-only after New and safe for
// concurrent use.
type Scope struct {
	modules []*schema.Module
	byName  map[string][]*schema.Module
}

// New builds a scope over the given modules. Modules sharing a name are
// kept in order and told apart by object identifier.
func New(mods ...*schema.Module) *Scope {
	s := &Scope{
		modules: mods,
		byName:  make(map[string][]*schema.Module, len(mods)),
	}
	for _, m := range mods {
		s.byName[m.Name] = append(s.byName[m.Name], m)
	}
	return s
}

// Modules returns the modules in the order given to New.
func (s *Scope) Modules() []*schema.Module {
	return s.modules
}

// Module finds a module by name. When oid is non-empty, the candidate with
// a matching object identifier is chosen; a lone candidate that declares no
// identifier also matches.
func (s *Scope) Module(name string, oid schema.ObjectIdentifier) (*schema.Module, bool) {
	candidates := s.byName[name]
	if len(candidates) == 0 {
		return nil, false
	}
	if len(oid) == 0 {
		return candidates[0], true
	}
	for _, c := range candidates {
		if c.OID.Equal(oid) {
			return c, true
		}
	}
	if len(candidates) == 1 && len(candidates[0].OID) == 0 {
		return candidates[0], true
	}
	return nil, false
}

// Definitions finds type definitions.
func Definitions(mod *schema.Module, name string) (*schema.Definition, bool) {
	return mod.Definition(name)
}

// Values finds value references.
func Values(mod *schema.Module, name string) (*schema.ValueReference, bool) {
	return mod.Value(name)
}

// Lookup searches from for name with find, which looks a name up in a
// single module without following imports. On a miss it follows the import
// that names the symbol into the source module and searches there, and so
// on. It returns the value and the module that owns it.
//
// A missing symbol, a missing import or an unknown source module yields a
// *NotFoundError; an import chain that revisits a (module, name) pair
// yields a *CycleError.
func Lookup[T any](s *Scope, from *schema.Module, name string, find func(*schema.Module, string) (T, bool)) (T, *schema.Module, error) {
	var zero T
	var chain Chain
	mod := from
	for {
		if err := chain.Enter(mod.Name, name); err != nil {
			return zero, nil, err
		}
		if v, ok := find(mod, name); ok {
			return v, mod, nil
		}
		imp, ok := mod.ImportOf(name)
		if !ok {
			return zero, nil, &NotFoundError{Module: from.Name, Name: name}
		}
		next, ok := s.Module(imp.From, imp.FromOID)
		if !ok {
			return zero, nil, &NotFoundError{Module: from.Name, Name: name, Source: imp.From}
		}
		mod = next
	}
}

// Chain records the (module, name) pairs visited while following a chain
// of references. The zero value is ready to use.
type Chain struct {
	seen map[string]struct{}
	path []string
}

// Enter records a visit. It returns a *CycleError, and records nothing, if
// the pair is already on the chain.
func (c *Chain) Enter(module, name string) error {
	key := module + "." + name
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, dup := c.seen[key]; dup {
		path := append(append([]string(nil), c.path...), key)
		return &CycleError{Path: path}
	}
	c.seen[key] = struct{}{}
	c.path = append(c.path, key)
	return nil
}

// Leave forgets the most recent visit, so a chain can track the current
// path of a depth-first walk rather than every pair ever seen.
func (c *Chain) Leave() {
	if n := len(c.path); n > 0 {
		delete(c.seen, c.path[n-1])
		c.path = c.path[:n-1]
	}
}

// NotFoundError reports a name that cannot be reached from Module.
// Source is set when the import names a module missing from the scope.
type NotFoundError struct {
	Module string
	Name   string
	Source string
}

func (e *NotFoundError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %q is imported from %s, which is not in scope", e.Module, e.Name, e.Source)
	}
	return fmt.Sprintf("%s: %q is not defined or imported", e.Module, e.Name)
}

// CycleError reports a reference chain that returns to a pair it has
// already visited. Path lists the pairs in visit order, ending with the
// repeated one.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "reference cycle: " + strings.Join(e.Path, " -> ")
}
