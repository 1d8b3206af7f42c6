// Package graph orders schema symbols by dependency and reports reference
// cycles. Nodes are module names (import edges), type definitions (type
// reference edges) or value references (value reference edges).
package graph

import (
	"cmp"
	"slices"
)

// Kind distinguishes the namespaces a symbol can live in.
type Kind int

const (
	KindModule Kind = iota
	KindType
	KindValue
)

// Symbol uniquely identifies a node. Module symbols leave Name empty.
type Symbol struct {
	Kind   Kind
	Module string
	Name   string
}

// ModuleSymbol returns the node for a whole module.
func ModuleSymbol(module string) Symbol {
	return Symbol{Kind: KindModule, Module: module}
}

// TypeSymbol returns the node for a type definition.
func TypeSymbol(module, name string) Symbol {
	return Symbol{Kind: KindType, Module: module, Name: name}
}

// ValueSymbol returns the node for a value reference.
func ValueSymbol(module, name string) Symbol {
	return Symbol{Kind: KindValue, Module: module, Name: name}
}

// String renders "Module" or "Module.Name".
func (s Symbol) String() string {
	if s.Kind == KindModule {
		return s.Module
	}
	return s.Module + "." + s.Name
}

// Graph is a dependency graph of symbols with forward edges.
type Graph struct {
	nodes map[Symbol]struct{}
	edges map[Symbol][]Symbol
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		nodes: make(map[Symbol]struct{}),
		edges: make(map[Symbol][]Symbol),
	}
}

// AddNode registers a symbol. Duplicate calls are no-ops.
func (g *Graph) AddNode(sym Symbol) {
	g.nodes[sym] = struct{}{}
}

// AddEdge records that "from" depends on "to", meaning "to" must be
// resolved before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to Symbol) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// ResolutionOrder returns symbols ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the order. Roots are visited sorted by
// (Kind, Module, Name), so the result is deterministic.
func (g *Graph) ResolutionOrder() (order []Symbol, cycles [][]Symbol) {
	var (
		index    int
		stack    []Symbol
		onStack  = make(map[Symbol]bool)
		indices  = make(map[Symbol]int)
		lowlinks = make(map[Symbol]int)
	)

	var strongConnect func(sym Symbol)
	strongConnect = func(sym Symbol) {
		indices[sym] = index
		lowlinks[sym] = index
		index++
		stack = append(stack, sym)
		onStack[sym] = true

		for _, dep := range g.edges[sym] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[sym] = min(lowlinks[sym], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[sym] = min(lowlinks[sym], indices[dep])
			}
		}

		if lowlinks[sym] != indices[sym] {
			return
		}
		var scc []Symbol
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == sym {
				break
			}
		}
		switch {
		case len(scc) > 1:
			slices.SortFunc(scc, compareSymbols)
			cycles = append(cycles, scc)
		case slices.Contains(g.edges[scc[0]], scc[0]):
			cycles = append(cycles, scc)
		default:
			order = append(order, scc[0])
		}
	}

	sorted := make([]Symbol, 0, len(g.nodes))
	for sym := range g.nodes {
		sorted = append(sorted, sym)
	}
	slices.SortFunc(sorted, compareSymbols)

	for _, sym := range sorted {
		if _, visited := indices[sym]; !visited {
			strongConnect(sym)
		}
	}

	return order, cycles
}

func compareSymbols(a, b Symbol) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
