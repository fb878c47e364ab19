// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package lalr is the analysis and table-construction engine: it turns
// a parsed grammar into LALR(1) states, actions, and the packed action
// tables consumed by the emitter. The phases run in a fixed order:
// rule precedences, lambda and FIRST sets, LR(0) state construction
// with follow-set propagation links, follow-set propagation, action
// construction with precedence conflict resolution, default-action
// compression, and finally table packing.
package lalr

import (
	"fmt"
	"sort"

	"github.com/mdhender/cherimoya/internal/grammar"
)

// Generator holds all working state for one grammar run. Two runs
// never share a Generator.
type Generator struct {
	G *grammar.Grammar

	// Symbols sorted and indexed: "$" first, terminals, nonterminals,
	// "{default}" last. The slice has NSymbol+1 entries; "{default}"
	// does not count toward NSymbol.
	Symbols    []*grammar.Symbol
	NSymbol    int
	NTerminal  int
	ErrSym     *grammar.Symbol
	DefaultSym *grammar.Symbol

	Rules []*grammar.Rule

	// Sorted lists states in creation order; the initial state is
	// Sorted[0].
	Sorted []*State

	// NConflict counts the parsing conflicts precedence could not
	// resolve.
	NConflict int

	cl     configList
	states *stateTable
	diags  []grammar.Diagnostic
}

// New indexes the grammar's symbols and prepares a generator. The
// synthetic "{default}" symbol is created here, once, after the real
// symbols are counted, so it always holds the highest index.
func New(g *grammar.Grammar) *Generator {
	nsymbol := g.SymbolCount()
	dflt := g.Intern("{default}")

	syms := g.SymbolList()
	sort.SliceStable(syms, func(i, j int) bool {
		return symClass(syms[i]) < symClass(syms[j])
	})
	for i, sym := range syms {
		sym.Index = i
	}
	nterminal := 1
	for nterminal < len(syms) && isUpper(syms[nterminal].Name) {
		nterminal++
	}

	gen := &Generator{
		G:          g,
		Symbols:    syms,
		NSymbol:    nsymbol,
		NTerminal:  nterminal,
		ErrSym:     g.ErrSym,
		DefaultSym: dflt,
		Rules:      g.Rules,
		states:     newStateTable(),
	}
	gen.cl.init()
	return gen
}

// symClass splits symbols into the terminal-looking block (names whose
// first byte sorts at or below 'Z', which catches "$" and every
// uppercase name) and everything else. The sort is stable, so symbols
// keep creation order within each block and "{default}" lands last.
func symClass(sym *grammar.Symbol) int {
	if sym.Name[0] > 'Z' {
		return 1
	}
	return 0
}

func isUpper(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// NState returns the number of states.
func (gen *Generator) NState() int { return len(gen.Sorted) }

// NRule returns the number of rules.
func (gen *Generator) NRule() int { return len(gen.Rules) }

// Diagnostics returns the errors found during analysis.
func (gen *Generator) Diagnostics() []grammar.Diagnostic {
	return append([]grammar.Diagnostic(nil), gen.diags...)
}

// ErrorCount returns the number of errors found during analysis.
func (gen *Generator) ErrorCount() int { return len(gen.diags) }

func (gen *Generator) errorf(line int, format string, args ...any) {
	d := grammar.Diagnostic{Level: grammar.DiagError}
	d.At = &grammar.Span{File: gen.G.Filename, Line: line}
	d.Msg = fmt.Sprintf(format, args...)
	gen.diags = append(gen.diags, d)
}

// Analyze runs every analysis phase in order. After it returns, the
// states carry sorted, conflict-resolved action lists and NConflict
// holds the number of unresolved conflicts.
func (gen *Generator) Analyze() {
	gen.findRulePrecedences()
	gen.findFirstSets()
	gen.findStates()
	gen.findLinks()
	gen.findFollowSets()
	gen.findActions()
}
