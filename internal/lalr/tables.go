// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dekarrin/rosed"
)

// Tables is everything the emitter needs: the packed action and
// lookahead arrays, the per-state offsets and defaults, the fallback
// table, and the counts that define the action encoding.
//
// An action integer a means: shift to state a when 0 <= a < NState;
// reduce by rule a-NState when NState <= a < NState+NRule; syntax
// error when a == NState+NRule; accept when a == NState+NRule+1. Empty
// slots hold -1 here; the emitter substitutes NSymbol+NRule+2 for
// empty actions and NSymbol for empty lookaheads.
type Tables struct {
	Action    []int
	Lookahead []int

	// ShiftOfst and ReduceOfst are two different offset arrays over
	// the same Action array; a state may have an entry in one and not
	// the other. NoOffset marks a state with no entries.
	ShiftOfst  []int
	ReduceOfst []int
	Default    []int

	MinShiftOfst  int
	MaxShiftOfst  int
	MinReduceOfst int
	MaxReduceOfst int

	// Fallback maps terminal index to fallback terminal index, 0 for
	// none. Nil unless the grammar declares any %fallback.
	Fallback []int

	NState    int
	NRule     int
	NSymbol   int
	NTerminal int
	ErrSym    int
	NConflict int
}

// ComputeAction returns the encoded integer for an action, or -1 if
// the action is a tombstone and should not be generated.
func (gen *Generator) ComputeAction(ap *Action) int {
	switch ap.Kind {
	case ActShift:
		return ap.State.Index
	case ActReduce:
		return ap.Rule.Index + gen.NState()
	case ActError:
		return gen.NState() + gen.NRule()
	case ActAccept:
		return gen.NState() + gen.NRule() + 1
	default:
		return -1
	}
}

// BuildTables packs every state's terminal and nonterminal actions
// into the linear action table. States with more actions are packed
// first so the large sets grab the good offsets.
func (gen *Generator) BuildTables() *Tables {
	nstate := gen.NState()

	type axSet struct {
		stp     *State
		isToken bool
		nAction int
	}
	ax := make([]axSet, 0, nstate*2)
	for _, stp := range gen.Sorted {
		stp.NTknAct = 0
		stp.NNtknAct = 0
		stp.DfltAct = nstate + gen.NRule()
		stp.TknOff = NoOffset
		stp.NtknOff = NoOffset
		for _, ap := range stp.Actions {
			if act := gen.ComputeAction(ap); act >= 0 {
				switch {
				case ap.Sym.Index < gen.NTerminal:
					stp.NTknAct++
				case ap.Sym.Index < gen.NSymbol:
					stp.NNtknAct++
				default:
					stp.DfltAct = act
				}
			}
		}
		ax = append(ax,
			axSet{stp: stp, isToken: true, nAction: stp.NTknAct},
			axSet{stp: stp, isToken: false, nAction: stp.NNtknAct})
	}
	sort.SliceStable(ax, func(i, j int) bool { return ax[i].nAction > ax[j].nAction })

	t := &Tables{
		NState:    nstate,
		NRule:     gen.NRule(),
		NSymbol:   gen.NSymbol,
		NTerminal: gen.NTerminal,
		ErrSym:    gen.ErrSym.Index,
		NConflict: gen.NConflict,
	}

	at := newActTab()
	for _, x := range ax {
		if x.nAction == 0 {
			break
		}
		stp := x.stp
		if x.isToken {
			for _, ap := range stp.Actions {
				if ap.Sym.Index >= gen.NTerminal {
					continue
				}
				if action := gen.ComputeAction(ap); action >= 0 {
					at.addAction(ap.Sym.Index, action)
				}
			}
			stp.TknOff = at.insert()
			if stp.TknOff < t.MinShiftOfst {
				t.MinShiftOfst = stp.TknOff
			}
			if stp.TknOff > t.MaxShiftOfst {
				t.MaxShiftOfst = stp.TknOff
			}
		} else {
			for _, ap := range stp.Actions {
				if ap.Sym.Index < gen.NTerminal || ap.Sym.Index >= gen.NSymbol {
					continue
				}
				if action := gen.ComputeAction(ap); action >= 0 {
					at.addAction(ap.Sym.Index, action)
				}
			}
			stp.NtknOff = at.insert()
			if stp.NtknOff < t.MinReduceOfst {
				t.MinReduceOfst = stp.NtknOff
			}
			if stp.NtknOff > t.MaxReduceOfst {
				t.MaxReduceOfst = stp.NtknOff
			}
		}
	}

	t.Action = make([]int, at.size())
	t.Lookahead = make([]int, at.size())
	for i := 0; i < at.size(); i++ {
		t.Action[i] = at.action(i)
		t.Lookahead[i] = at.lookahead(i)
	}

	t.ShiftOfst = make([]int, nstate)
	t.ReduceOfst = make([]int, nstate)
	t.Default = make([]int, nstate)
	for i, stp := range gen.Sorted {
		t.ShiftOfst[i] = stp.TknOff
		t.ReduceOfst[i] = stp.NtknOff
		t.Default[i] = stp.DfltAct
	}

	if gen.G.HasFallback {
		t.Fallback = make([]int, gen.NTerminal)
		for i := 0; i < gen.NTerminal; i++ {
			if fb := gen.Symbols[i].Fallback; fb != nil {
				t.Fallback[i] = fb.Index
			}
		}
	}

	return t
}

// Size returns the number of entries in the packed action table.
func (t *Tables) Size() int { return len(t.Action) }

// String renders the per-state view of the packed tables. Debugging
// aid; the emitter writes the real output.
func (t *Tables) String() string {
	data := [][]string{{"STATE", "SHIFT-OFST", "REDUCE-OFST", "DEFAULT"}}
	for s := 0; s < t.NState; s++ {
		row := []string{strconv.Itoa(s), offString(t.ShiftOfst[s]), offString(t.ReduceOfst[s]), strconv.Itoa(t.Default[s])}
		data = append(data, row)
	}
	table := rosed.
		Edit("").
		InsertTableOpts(0, data, 48, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
	return fmt.Sprintf("action table: %d entries\n%s", len(t.Action), table)
}

func offString(v int) string {
	if v == NoOffset {
		return "-"
	}
	return strconv.Itoa(v)
}
