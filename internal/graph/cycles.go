package graph

// FindCycles returns all strongly connected components with more than one
// node, plus single nodes with a self-loop. Members of each cycle are
// sorted, and cycles appear in discovery order.
func (g *Graph) FindCycles() [][]Symbol {
	_, cycles := g.ResolutionOrder()
	return cycles
}

