// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package grammar

// Finalize performs semantic validation and emits diagnostics.
// It does not panic; it records errors/warnings and returns the grammar
// anyway. Call this after the grammar-file parser has finished.
//
// Nonterminals that are referenced but have no rules are NOT reported
// here; that error is reported during closure, where the original tool
// reports it, so only reachable ones count.
func (b *Builder) Finalize() *Grammar {
	if b == nil || b.g == nil {
		return nil
	}

	g := b.g

	if len(g.Rules) == 0 {
		b.Error(nil, "empty grammar")
		return g
	}

	if g.Start != nil && len(g.Start.Rules) == 0 {
		b.Error(g.Start.DeclaredAt, "the specified start symbol %q has no rules", g.Start.Name)
	}

	// usage counts and nonterminal-to-nonterminal edges for the
	// reachability walk below.
	used := make(map[*Symbol]int, g.SymbolCount())
	edges := make(map[*Symbol]map[*Symbol]bool)

	for _, r := range g.Rules {
		if _, ok := edges[r.LHS]; !ok {
			edges[r.LHS] = map[*Symbol]bool{}
		}
		for _, sym := range r.RHS {
			used[sym]++
			if sym.Kind == SymNonterminal {
				edges[r.LHS][sym] = true
			}
		}
		if r.PrecSym != nil {
			used[r.PrecSym]++
		}
	}

	// Reachability from the start symbol over nonterminal edges.
	start := g.StartSymbol()
	reachable := map[*Symbol]bool{}
	if start != nil {
		stack := []*Symbol{start}
		reachable[start] = true
		for len(stack) > 0 {
			nt := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for next := range edges[nt] {
				if !reachable[next] {
					reachable[next] = true
					stack = append(stack, next)
				}
			}
		}
		for nt := range edges {
			if len(nt.Rules) > 0 && !reachable[nt] {
				b.warn(nt.DeclaredAt, "nonterminal %q has rules but is unreachable from start symbol %q", nt.Name, start.Name)
			}
		}
	}

	// Unused symbol warnings. "$", "error", and the start symbol are
	// exempt: they are structural.
	for _, sym := range g.SymbolList() {
		if sym.Name == "$" || sym == g.ErrSym || sym == start || sym.Name == "<invalid>" {
			continue
		}
		if used[sym] == 0 {
			switch sym.Kind {
			case SymTerminal:
				b.warn(sym.DeclaredAt, "terminal %q is declared but never used", sym.Name)
			case SymNonterminal:
				if len(sym.Rules) == 0 {
					b.warn(sym.DeclaredAt, "nonterminal %q is declared but never used and has no rules", sym.Name)
				}
			}
		}
	}

	return g
}
