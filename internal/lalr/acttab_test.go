// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActTabSingleSet(t *testing.T) {
	at := newActTab()
	at.addAction(2, 100)
	at.addAction(5, 101)
	ofst := at.insert()

	assert.Equal(t, 100, at.action(ofst+2))
	assert.Equal(t, 2, at.lookahead(ofst+2))
	assert.Equal(t, 101, at.action(ofst+5))
	assert.Equal(t, 5, at.lookahead(ofst+5))
}

func TestActTabInterleavesSparseSets(t *testing.T) {
	at := newActTab()
	// first set occupies lookaheads 0 and 4
	at.addAction(0, 10)
	at.addAction(4, 11)
	o1 := at.insert()
	size1 := at.size()

	// second set is a single entry; it should slide into one of the
	// holes left by the first set instead of growing the table
	at.addAction(1, 20)
	o2 := at.insert()

	assert.LessOrEqual(t, at.size(), size1, "dense packing should reuse the holes")
	assert.Equal(t, 10, at.action(o1+0))
	assert.Equal(t, 11, at.action(o1+4))
	assert.Equal(t, 20, at.action(o2+1))
	assert.Equal(t, 1, at.lookahead(o2+1))
}

func TestActTabReusesIdenticalSet(t *testing.T) {
	at := newActTab()
	at.addAction(3, 7)
	at.addAction(4, 8)
	o1 := at.insert()
	size1 := at.size()

	at.addAction(3, 7)
	at.addAction(4, 8)
	o2 := at.insert()

	assert.Equal(t, o1, o2, "identical transaction sets share their slots")
	assert.Equal(t, size1, at.size())
}

func TestActTabNoAliasing(t *testing.T) {
	at := newActTab()
	at.addAction(0, 1)
	at.addAction(1, 2)
	at.insert()
	at.addAction(0, 3)
	o2 := at.insert()

	// the second set's lookup for lookahead 0 must find action 3
	assert.Equal(t, 3, at.action(o2+0))
	assert.Equal(t, 0, at.lookahead(o2+0))
}

// Packing correctness over a real grammar: every live action is
// reachable through the offset arrays, and no lookup can hit a
// foreign entry.
func TestPackingCorrectness(t *testing.T) {
	gen := analyze(t, `
%left PLUS.
%left TIMES.
prog ::= expr.
expr ::= expr PLUS expr.
expr ::= expr TIMES expr.
expr ::= LPAREN expr RPAREN.
expr ::= NUM.
`)
	require.Equal(t, 0, gen.ErrorCount(), "diagnostics: %v", gen.Diagnostics())
	gen.CompressTables()
	tb := gen.BuildTables()

	lookup := func(off, x int) (int, bool) {
		if off == NoOffset {
			return 0, false
		}
		i := off + x
		if i < 0 || i >= len(tb.Action) || tb.Lookahead[i] != x {
			return 0, false
		}
		return tb.Action[i], true
	}

	for s, stp := range gen.Sorted {
		// every live action is found at its slot (or is the default)
		acted := map[int]int{}
		for _, ap := range stp.Actions {
			act := gen.ComputeAction(ap)
			if act < 0 {
				continue
			}
			x := ap.Sym.Index
			if x == gen.NSymbol {
				assert.Equal(t, act, tb.Default[s], "state %d default", s)
				continue
			}
			acted[x] = act
			off := tb.ShiftOfst[s]
			if x >= gen.NTerminal {
				off = tb.ReduceOfst[s]
			}
			got, ok := lookup(off, x)
			require.True(t, ok, "state %d lookahead %d not found", s, x)
			assert.Equal(t, act, got, "state %d lookahead %d", s, x)
		}

		// no false positives: a lookahead without an action must miss
		for x := 0; x < gen.NSymbol; x++ {
			if _, have := acted[x]; have {
				continue
			}
			off := tb.ShiftOfst[s]
			if x >= gen.NTerminal {
				off = tb.ReduceOfst[s]
			}
			if got, ok := lookup(off, x); ok {
				t.Errorf("state %d lookahead %d aliases to foreign action %d", s, x, got)
			}
		}
	}
}

// An empty transaction set packs to the sentinel offset; the emitter
// substitutes the USE_DFLT value for it.
func TestInsertEmptySetSentinel(t *testing.T) {
	at := newActTab()
	assert.Equal(t, NoOffset, at.insert())
}

func TestPackingAssignsOffsets(t *testing.T) {
	gen := analyze(t, "start ::= ID.\n")
	tb := gen.BuildTables()

	// every state carries at least the error action, so both offset
	// arrays are populated for this grammar
	for s := 0; s < tb.NState; s++ {
		assert.NotEqual(t, NoOffset, tb.ReduceOfst[s], "state %d", s)
	}
	assert.NotEqual(t, NoOffset, tb.ShiftOfst[0])
}
