// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdhender/cherimoya/internal/grammar"
)

// analyze parses src, requires a clean front-end, and runs every
// analysis phase.
func analyze(t *testing.T, src string) *Generator {
	t.Helper()
	b := grammar.Parse("test.y", []byte(src))
	g := b.Finalize()
	require.Equal(t, 0, b.ErrorCount(), "front-end diagnostics: %v", b.Diagnostics())
	gen := New(g)
	gen.Analyze()
	return gen
}

// findAction returns the first non-tombstone action in stp on the
// named lookahead.
func findAction(stp *State, name string) *Action {
	for _, ap := range stp.Actions {
		if ap.Sym.Name != name {
			continue
		}
		switch ap.Kind {
		case ActShift, ActReduce, ActAccept, ActError, ActConflict:
			return ap
		}
	}
	return nil
}

func countConflictActions(gen *Generator) int {
	n := 0
	for _, stp := range gen.Sorted {
		for _, ap := range stp.Actions {
			if ap.Kind == ActConflict {
				n++
			}
		}
	}
	return n
}

func TestTrivialIdentityGrammar(t *testing.T) {
	gen := analyze(t, "start ::= ID.\n")
	require.Equal(t, 0, gen.ErrorCount(), "diagnostics: %v", gen.Diagnostics())

	require.Equal(t, 2, gen.NState())
	assert.Equal(t, 0, gen.NConflict)

	shift := findAction(gen.Sorted[0], "ID")
	require.NotNil(t, shift)
	assert.Equal(t, ActShift, shift.Kind)
	assert.Equal(t, 1, shift.State.Index)

	accept := findAction(gen.Sorted[1], "$")
	require.NotNil(t, accept)
	assert.Equal(t, ActAccept, accept.Kind)
}

// Symbol ordering: "$" is index 0, terminals form a contiguous block
// before the nonterminals, and "{default}" holds the highest index.
func TestSymbolOrdering(t *testing.T) {
	gen := analyze(t, `
expr ::= expr PLUS term.
expr ::= term.
term ::= NUM.
term ::= LPAREN expr RPAREN.
`)
	syms := gen.Symbols
	require.Equal(t, gen.NSymbol+1, len(syms))
	assert.Equal(t, "$", syms[0].Name)
	for i, sym := range syms {
		assert.Equal(t, i, sym.Index)
	}
	for i := 1; i < gen.NTerminal; i++ {
		assert.Equal(t, grammar.SymTerminal, syms[i].Kind, "symbol %q", syms[i].Name)
	}
	for i := gen.NTerminal; i < gen.NSymbol; i++ {
		assert.Equal(t, grammar.SymNonterminal, syms[i].Kind, "symbol %q", syms[i].Name)
	}
	assert.Equal(t, "{default}", syms[gen.NSymbol].Name)
	assert.Same(t, gen.DefaultSym, syms[gen.NSymbol])
}

// Lambda closure: a nonterminal is lambda iff it can derive the empty
// string over the current lambdas.
func TestLambdaFixedPoint(t *testing.T) {
	gen := analyze(t, `
list ::= list item.
list ::= .
item ::= opt NUM.
opt ::= maybe.
opt ::= .
maybe ::= COMMA.
`)
	assert.True(t, gen.G.Lookup("list").Lambda)
	assert.True(t, gen.G.Lookup("opt").Lambda)
	assert.False(t, gen.G.Lookup("maybe").Lambda, "maybe always produces COMMA")
	assert.False(t, gen.G.Lookup("item").Lambda, "item always produces NUM")
}

// FIRST sets are a fixed point of the generation rule: applying it
// once more changes nothing, and lambda members pass FIRST through.
func TestFirstSets(t *testing.T) {
	gen := analyze(t, `
s ::= a b.
a ::= X a.
a ::= .
b ::= Y.
b ::= a Z.
`)
	g := gen.G
	x := g.Lookup("X")
	y := g.Lookup("Y")
	z := g.Lookup("Z")
	a := g.Lookup("a")
	b := g.Lookup("b")
	s := g.Lookup("s")

	assert.True(t, a.FirstSet.Has(x.Index))
	assert.False(t, a.FirstSet.Has(y.Index))

	// b starts with Y, or with a's Z continuation since a is lambda.
	assert.True(t, b.FirstSet.Has(y.Index))
	assert.True(t, b.FirstSet.Has(z.Index))
	assert.True(t, b.FirstSet.Has(x.Index))

	// s ::= a b with lambda a sees through to FIRST(b).
	for _, sym := range []*grammar.Symbol{x, y, z} {
		assert.True(t, s.FirstSet.Has(sym.Index), "FIRST(s) must contain %s", sym.Name)
	}

	// Fixed point: one more pass over the rules adds nothing.
	for _, rp := range gen.Rules {
		for _, s2 := range rp.RHS {
			if s2.Kind == grammar.SymTerminal {
				assert.True(t, rp.LHS.FirstSet.Has(s2.Index))
				break
			}
			if s2 != rp.LHS {
				changedCheck := rp.LHS.FirstSet.Union(s2.FirstSet)
				assert.False(t, changedCheck, "FIRST(%s) not a fixed point", rp.LHS.Name)
			}
			if !s2.Lambda {
				break
			}
		}
	}
}

// State uniqueness: no two states share a basis set.
func TestStateUniqueness(t *testing.T) {
	gen := analyze(t, `
expr ::= expr PLUS expr.
expr ::= expr TIMES expr.
expr ::= LPAREN expr RPAREN.
expr ::= NUM.
`)
	seen := map[string]bool{}
	for _, stp := range gen.Sorted {
		key := ""
		for _, cfp := range stp.Basis {
			key += cfp.String() + ";"
		}
		assert.False(t, seen[key], "duplicate basis: %s", key)
		seen[key] = true

		// basis is a subset of the closure
		inClosure := map[*Config]bool{}
		for _, cfp := range stp.Configs {
			inClosure[cfp] = true
		}
		for _, cfp := range stp.Basis {
			assert.True(t, inClosure[cfp], "basis config not in closure")
		}
	}
}

// Follow propagation fixed point: after the follow phase, every
// forward link's source follow-set is contained in its target's.
func TestFollowPropagationFixedPoint(t *testing.T) {
	gen := analyze(t, `
stmt ::= expr SEMI.
stmt ::= IF expr THEN stmt.
expr ::= expr PLUS expr.
expr ::= NUM.
`)
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Configs {
			for _, to := range cfp.Forward {
				changed := to.Follow.Union(cfp.Follow)
				assert.False(t, changed, "follow(%s) not propagated to %s", cfp, to)
			}
		}
	}
}

// Left recursion with precedence: all shift/reduce conflicts on PLUS
// and TIMES are resolved, and the higher TIMES precedence wins over a
// pending PLUS reduction.
func TestPrecedenceResolution(t *testing.T) {
	gen := analyze(t, `
%left PLUS.
%left TIMES.
prog ::= expr.
expr ::= expr PLUS expr.
expr ::= expr TIMES expr.
expr ::= NUM.
`)
	require.Equal(t, 0, gen.ErrorCount(), "diagnostics: %v", gen.Diagnostics())
	assert.Equal(t, 0, gen.NConflict)
	assert.Equal(t, 0, countConflictActions(gen))

	// Find the state whose basis contains "expr ::= expr PLUS expr *".
	var after *State
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Basis {
			if cfp.String() == "expr ::= expr PLUS expr *" {
				after = stp
			}
		}
	}
	require.NotNil(t, after, "state after PLUS reduction not found")

	onTimes := findAction(after, "TIMES")
	require.NotNil(t, onTimes)
	assert.Equal(t, ActShift, onTimes.Kind, "TIMES binds tighter, so shift")

	onPlus := findAction(after, "PLUS")
	require.NotNil(t, onPlus)
	assert.Equal(t, ActReduce, onPlus.Kind, "left associativity keeps the reduce")
}

// Dangling else: the classic conflict is resolved toward shift by
// ELSE's right associativity (with the short rule carrying ELSE's
// precedence).
func TestDanglingElse(t *testing.T) {
	gen := analyze(t, `
%right ELSE.
prog ::= stmt.
stmt ::= IF expr stmt. [ELSE]
stmt ::= IF expr stmt ELSE stmt.
stmt ::= S.
expr ::= E.
`)
	require.Equal(t, 0, gen.ErrorCount(), "diagnostics: %v", gen.Diagnostics())
	assert.Equal(t, 0, gen.NConflict)
	assert.Equal(t, 0, countConflictActions(gen))

	var conflicted *State
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Basis {
			if cfp.String() == "stmt ::= IF expr stmt *" {
				conflicted = stp
			}
		}
	}
	require.NotNil(t, conflicted)

	onElse := findAction(conflicted, "ELSE")
	require.NotNil(t, onElse)
	assert.Equal(t, ActShift, onElse.Kind, "right associativity keeps the shift")

	// the displaced reduce is tombstoned, not deleted
	var resolved bool
	for _, ap := range conflicted.Actions {
		if ap.Sym.Name == "ELSE" && ap.Kind == ActReduceResolved {
			resolved = true
		}
	}
	assert.True(t, resolved)
}

// Reduce/reduce without precedence: exactly one conflict action
// remains and the conflict is tallied.
func TestReduceReduceConflict(t *testing.T) {
	gen := analyze(t, `
s ::= a.
s ::= b.
a ::= X.
b ::= X.
`)
	assert.GreaterOrEqual(t, gen.NConflict, 1)
	assert.Equal(t, 1, countConflictActions(gen))

	// The conflicted action reduces the later rule.
	for _, stp := range gen.Sorted {
		for _, ap := range stp.Actions {
			if ap.Kind == ActConflict {
				assert.Equal(t, "b ::= X", ruleString(ap.Rule))
			}
		}
	}
}

func ruleString(rp *grammar.Rule) string {
	s := rp.LHS.Name + " ::="
	for _, sym := range rp.RHS {
		s += " " + sym.Name
	}
	return s
}

func TestRulePrecedenceInference(t *testing.T) {
	gen := analyze(t, `
%left PLUS.
%left TIMES.
expr ::= expr PLUS expr TIMES expr.
expr ::= LPAREN expr RPAREN.
expr ::= NUM.
`)
	// first declared-precedence terminal wins, not the rightmost
	require.NotNil(t, gen.Rules[0].PrecSym)
	assert.Equal(t, "PLUS", gen.Rules[0].PrecSym.Name)
	// LPAREN has no declared precedence, so rule 1 gets none
	assert.Nil(t, gen.Rules[1].PrecSym)
}

func TestStartSymbolOnRHSIsError(t *testing.T) {
	gen := analyze(t, `
s ::= a s.
s ::= X.
a ::= Y.
`)
	assert.NotEqual(t, 0, gen.ErrorCount())
}

func TestNonterminalWithoutRulesIsError(t *testing.T) {
	b := grammar.Parse("test.y", []byte("s ::= missing X.\n"))
	g := b.Finalize()
	gen := New(g)
	gen.Analyze()
	assert.NotEqual(t, 0, gen.ErrorCount())
}

func TestErrorSymbolAllowedWithoutRules(t *testing.T) {
	gen := analyze(t, `
stmt ::= expr SEMI.
stmt ::= error SEMI.
expr ::= NUM.
`)
	assert.Equal(t, 0, gen.ErrorCount(), "diagnostics: %v", gen.Diagnostics())
}

// Every state carries an error action on the error symbol so the
// driver can fall back to the default.
func TestErrorActionAppended(t *testing.T) {
	gen := analyze(t, "start ::= ID.\n")
	for _, stp := range gen.Sorted {
		ap := findAction(stp, "error")
		require.NotNil(t, ap, "state %d has no error action", stp.Index)
		assert.Equal(t, ActError, ap.Kind)
	}
}

// Conflict bookkeeping: after resolution at most one non-tombstone
// action remains per (state, lookahead), except that an unresolved
// conflict leaves the arbitrary choice plus the conflict marker.
func TestConflictBookkeeping(t *testing.T) {
	gen := analyze(t, `
s ::= a.
s ::= b.
a ::= X.
b ::= X.
`)
	for _, stp := range gen.Sorted {
		byLookahead := map[int][]*Action{}
		for _, ap := range stp.Actions {
			switch ap.Kind {
			case ActShift, ActReduce, ActAccept, ActError:
				byLookahead[ap.Sym.Index] = append(byLookahead[ap.Sym.Index], ap)
			}
		}
		for idx, aps := range byLookahead {
			assert.LessOrEqual(t, len(aps), 1,
				"state %d lookahead %d keeps %d live actions", stp.Index, idx, len(aps))
		}
	}
}

func TestDeterministicConstruction(t *testing.T) {
	src := `
%left PLUS.
expr ::= expr PLUS expr.
expr ::= NUM.
`
	a := analyze(t, src)
	b := analyze(t, src)
	require.Equal(t, a.NState(), b.NState())
	for i := range a.Sorted {
		require.Equal(t, len(a.Sorted[i].Actions), len(b.Sorted[i].Actions), "state %d", i)
		for j := range a.Sorted[i].Actions {
			x, y := a.Sorted[i].Actions[j], b.Sorted[i].Actions[j]
			assert.Equal(t, x.Kind, y.Kind)
			assert.Equal(t, x.Sym.Name, y.Sym.Name)
		}
	}
}
