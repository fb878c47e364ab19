// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

// NoOffset marks a state without an entry in one of the packed offset
// arrays; the emitter substitutes the table's USE_DFLT value.
const NoOffset = -0x7FFFFFFF

// State is one state of the generated parser's finite state machine.
// A state is identified uniquely by its basis configuration set.
type State struct {
	Basis   []*Config // the basis configurations for this state
	Configs []*Config // all configurations (basis plus closure)
	Index   int       // sequential number for this state

	Actions []*Action // sorted actions for this state

	NTknAct  int // number of actions on terminals
	NNtknAct int // number of actions on nonterminals
	TknOff   int // packed action table offset for terminals
	NtknOff  int // packed action table offset for nonterminals
	DfltAct  int // default action, encoded
}

// stateTable finds states by their basis sets. The hash is a rolling
// combiner over the basis list's (rule index, dot) pairs; equality
// walks both lists pairwise and requires identical length.
type stateTable struct {
	buckets map[uint64][]*State
}

func newStateTable() *stateTable {
	return &stateTable{buckets: make(map[uint64][]*State)}
}

func basisHash(basis []*Config) uint64 {
	var h uint64
	for _, c := range basis {
		h = h*571 + uint64(c.Rule.Index)*37 + uint64(c.Dot)
	}
	return h
}

func basisEqual(a, b []*Config) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rule.Index != b[i].Rule.Index || a[i].Dot != b[i].Dot {
			return false
		}
	}
	return true
}

// find returns the state with the given basis, or nil.
func (t *stateTable) find(basis []*Config) *State {
	for _, stp := range t.buckets[basisHash(basis)] {
		if basisEqual(stp.Basis, basis) {
			return stp
		}
	}
	return nil
}

// insert adds a state; duplicates are the caller's bug and are left in
// place so find keeps returning the original.
func (t *stateTable) insert(stp *State) {
	h := basisHash(stp.Basis)
	t.buckets[h] = append(t.buckets[h], stp)
}
