// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdhender/cherimoya/internal/grammar"
)

// testState builds a generator with one hand-made state for compressor
// unit tests.
func testState(actions ...*Action) (*Generator, *State) {
	gen := &Generator{
		DefaultSym: &grammar.Symbol{Name: "{default}", Index: 99},
	}
	stp := &State{Actions: actions}
	gen.Sorted = []*State{stp}
	return gen, stp
}

func term(name string, index int) *grammar.Symbol {
	return &grammar.Symbol{Name: name, Kind: grammar.SymTerminal, Index: index, Prec: grammar.NoPrec}
}

func TestCompressReplacesMostFrequentReduce(t *testing.T) {
	r1 := &grammar.Rule{Index: 0}
	r2 := &grammar.Rule{Index: 1}
	gen, stp := testState(
		&Action{Sym: term("A", 1), Kind: ActReduce, Rule: r1},
		&Action{Sym: term("B", 2), Kind: ActReduce, Rule: r1},
		&Action{Sym: term("C", 3), Kind: ActReduce, Rule: r2},
	)

	gen.CompressTables()

	var defaulted, tombstoned, kept int
	for _, ap := range stp.Actions {
		switch {
		case ap.Sym == gen.DefaultSym:
			defaulted++
			assert.Equal(t, ActReduce, ap.Kind)
			assert.Same(t, r1, ap.Rule)
		case ap.Kind == ActNotUsed:
			tombstoned++
		case ap.Kind == ActReduce && ap.Rule == r2:
			kept++
		}
	}
	assert.Equal(t, 1, defaulted, "one default reduce")
	assert.Equal(t, 1, tombstoned, "the duplicate is tombstoned")
	assert.Equal(t, 1, kept, "the unrelated reduce stays")
}

func TestCompressSkipsSingleReduce(t *testing.T) {
	r1 := &grammar.Rule{Index: 0}
	gen, stp := testState(
		&Action{Sym: term("A", 1), Kind: ActReduce, Rule: r1},
		&Action{Sym: term("B", 2), Kind: ActShift, State: &State{}},
	)

	gen.CompressTables()

	for _, ap := range stp.Actions {
		assert.NotSame(t, gen.DefaultSym, ap.Sym, "single reduces must not compress")
		assert.NotEqual(t, ActNotUsed, ap.Kind)
	}
}

func TestCompressNeverTouchesShifts(t *testing.T) {
	r1 := &grammar.Rule{Index: 0}
	sh := &Action{Sym: term("A", 1), Kind: ActShift, State: &State{}}
	gen, _ := testState(
		sh,
		&Action{Sym: term("B", 2), Kind: ActReduce, Rule: r1},
		&Action{Sym: term("C", 3), Kind: ActReduce, Rule: r1},
	)

	gen.CompressTables()
	assert.Equal(t, ActShift, sh.Kind)
	assert.Equal(t, "A", sh.Sym.Name)
}

// Compression safety over a whole grammar: for every lookahead that
// had a live action before compression, the effective outcome through
// the packed tables is unchanged.
func TestCompressionPreservesOutcomes(t *testing.T) {
	src := `
%left PLUS.
%left TIMES.
prog ::= expr.
expr ::= expr PLUS expr.
expr ::= expr TIMES expr.
expr ::= NUM.
expr ::= LPAREN expr RPAREN.
`
	plain := analyze(t, src)
	require.Equal(t, 0, plain.ErrorCount())
	plainTb := plain.BuildTables()

	packed := analyze(t, src)
	packed.CompressTables()
	packedTb := packed.BuildTables()

	require.Equal(t, plain.NState(), packed.NState())

	effective := func(tb *Tables, s, x, nterminal int) (int, bool) {
		off := tb.ShiftOfst[s]
		if x >= nterminal {
			off = tb.ReduceOfst[s]
		}
		if off != NoOffset {
			if i := off + x; 0 <= i && i < len(tb.Action) && tb.Lookahead[i] == x {
				return tb.Action[i], true
			}
		}
		if tb.Default[s] != tb.NState+tb.NRule {
			return tb.Default[s], true
		}
		return 0, false
	}

	for s, stp := range plain.Sorted {
		for _, ap := range stp.Actions {
			act := plain.ComputeAction(ap)
			if act < 0 || ap.Sym.Index >= plain.NSymbol {
				continue
			}
			if ap.Kind == ActError {
				continue
			}
			got, ok := effective(packedTb, s, ap.Sym.Index, plain.NTerminal)
			require.True(t, ok, "state %d lookahead %s lost", s, ap.Sym.Name)
			assert.Equal(t, act, got, "state %d lookahead %s", s, ap.Sym.Name)

			want, ok := effective(plainTb, s, ap.Sym.Index, plain.NTerminal)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	}
}
