package resolver

import (
	"github.com/golangsnmp/asnc/internal/graph"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
)

// dependencyGraph links value assignments that are bare references to
// other values, and definitions that are bare aliases of other types.
// Structural recursion (a SEQUENCE containing itself) is not an edge.
// Unresolvable references are left out; resolution reports them later.
func dependencyGraph(s *scope.Scope, extra *schema.Module) *graph.Graph {
	g := graph.New()
	mods := s.Modules()
	if extra != nil {
		if m, ok := s.Module(extra.Name, extra.OID); !ok || m != extra {
			mods = append(mods[:len(mods):len(mods)], extra)
		}
	}
	for _, mod := range mods {
		for _, v := range mod.Values {
			from := graph.ValueSymbol(mod.Name, v.Name)
			g.AddNode(from)
			if !v.Value.IsRef() {
				continue
			}
			if target, owner, err := scope.Lookup(s, mod, v.Value.Reference(), scope.Values); err == nil {
				g.AddEdge(from, graph.ValueSymbol(owner.Name, target.Name))
			}
		}
		for _, def := range mod.Definitions {
			from := graph.TypeSymbol(mod.Name, def.Name)
			g.AddNode(from)
			ref, ok := schema.Unwrap(def.Type).(*schema.TypeReference)
			if !ok {
				continue
			}
			if target, owner, err := scope.Lookup(s, mod, ref.Name, scope.Definitions); err == nil {
				g.AddEdge(from, graph.TypeSymbol(owner.Name, target.Name))
			}
		}
	}
	return g
}

// checkCycles reports the first alias or value cycle. When mod is non-nil
// only cycles through one of its symbols count.
func checkCycles(s *scope.Scope, mod *schema.Module) error {
	for _, cycle := range dependencyGraph(s, mod).FindCycles() {
		if mod != nil && !touches(cycle, mod.Name) {
			continue
		}
		path := make([]string, 0, len(cycle)+1)
		for _, sym := range cycle {
			path = append(path, sym.String())
		}
		path = append(path, cycle[0].String())
		first := cycle[0]
		return &Error{
			Kind:   CyclicReference,
			Module: first.Module,
			Owner:  first.Name,
			Name:   first.Name,
			Err:    &scope.CycleError{Path: path},
		}
	}
	return nil
}

func touches(cycle []graph.Symbol, module string) bool {
	for _, sym := range cycle {
		if sym.Module == module {
			return true
		}
	}
	return false
}

// importOrder returns the modules of s with imported modules before their
// importers. Mutually importing modules keep name order.
func importOrder(s *scope.Scope) []*schema.Module {
	g := graph.New()
	byName := make(map[string][]*schema.Module)
	for _, mod := range s.Modules() {
		from := graph.ModuleSymbol(mod.Name)
		g.AddNode(from)
		byName[mod.Name] = append(byName[mod.Name], mod)
		for _, imp := range mod.Imports {
			if _, ok := s.Module(imp.From, imp.FromOID); ok {
				g.AddEdge(from, graph.ModuleSymbol(imp.From))
			}
		}
	}
	order, cycles := g.ResolutionOrder()
	for _, cycle := range cycles {
		order = append(order, cycle...)
	}
	out := make([]*schema.Module, 0, len(s.Modules()))
	for _, sym := range order {
		out = append(out, byName[sym.Module]...)
	}
	return out
}
