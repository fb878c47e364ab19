// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionEncoding(t *testing.T) {
	gen := analyze(t, "start ::= ID.\n")
	nstate := gen.NState()
	nrule := gen.NRule()

	var shift, accept, errAct *Action
	for _, stp := range gen.Sorted {
		for _, ap := range stp.Actions {
			switch ap.Kind {
			case ActShift:
				shift = ap
			case ActAccept:
				accept = ap
			case ActError:
				errAct = ap
			}
		}
	}
	require.NotNil(t, shift)
	require.NotNil(t, accept)
	require.NotNil(t, errAct)

	assert.Equal(t, shift.State.Index, gen.ComputeAction(shift))
	assert.Equal(t, nstate+nrule, gen.ComputeAction(errAct))
	assert.Equal(t, nstate+nrule+1, gen.ComputeAction(accept))

	tomb := &Action{Sym: gen.Symbols[0], Kind: ActShiftResolved}
	assert.Equal(t, -1, gen.ComputeAction(tomb), "tombstones do not emit")
}

func TestReduceEncoding(t *testing.T) {
	gen := analyze(t, `
prog ::= expr SEMI.
expr ::= NUM.
`)
	nstate := gen.NState()
	var reduce *Action
	for _, stp := range gen.Sorted {
		for _, ap := range stp.Actions {
			if ap.Kind == ActReduce {
				reduce = ap
			}
		}
	}
	require.NotNil(t, reduce)
	act := gen.ComputeAction(reduce)
	assert.GreaterOrEqual(t, act, nstate)
	assert.Less(t, act, nstate+gen.NRule())
	assert.Equal(t, reduce.Rule.Index, act-nstate)
}

func TestTablesCounts(t *testing.T) {
	gen := analyze(t, `
prog ::= expr SEMI.
expr ::= NUM.
`)
	tb := gen.BuildTables()
	assert.Equal(t, gen.NState(), tb.NState)
	assert.Equal(t, gen.NRule(), tb.NRule)
	assert.Equal(t, gen.NSymbol, tb.NSymbol)
	assert.Equal(t, gen.NTerminal, tb.NTerminal)
	assert.Equal(t, gen.ErrSym.Index, tb.ErrSym)
	assert.Equal(t, len(tb.Action), tb.Size())
	assert.Len(t, tb.ShiftOfst, tb.NState)
	assert.Len(t, tb.ReduceOfst, tb.NState)
	assert.Len(t, tb.Default, tb.NState)
}

func TestTablesString(t *testing.T) {
	gen := analyze(t, "start ::= ID.\n")
	tb := gen.BuildTables()
	out := tb.String()
	assert.Contains(t, out, "action table:")
	assert.Contains(t, out, "STATE")
	assert.Contains(t, out, "DEFAULT")
}
