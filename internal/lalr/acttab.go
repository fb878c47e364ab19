// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

// This file implements the packer that builds the single linear action
// table. Per-state transaction sets are inserted at the lowest offset
// where every entry lands on an empty slot or an identical existing
// entry, and where the offset cannot make an unrelated entry look
// valid for this state.

type acttabEntry struct {
	lookahead int // value of the lookahead token, -1 when empty
	action    int // action to take on the given lookahead
}

// actTab is the action table under construction plus the transaction
// set being accumulated for the next insert.
type actTab struct {
	nAction int           // number of used slots in actions
	actions []acttabEntry // the packed table; slots beyond nAction are preallocated empties

	lookaheads   []acttabEntry // the transaction set under construction
	minLookahead int
	minAction    int // action associated with minLookahead
	maxLookahead int
}

func newActTab() *actTab {
	return &actTab{}
}

// addAction adds one (lookahead, action) pair to the current
// transaction set.
func (at *actTab) addAction(lookahead, action int) {
	if len(at.lookaheads) == 0 {
		at.minLookahead = lookahead
		at.maxLookahead = lookahead
		at.minAction = action
	} else {
		if at.maxLookahead < lookahead {
			at.maxLookahead = lookahead
		}
		if at.minLookahead > lookahead {
			at.minLookahead = lookahead
			at.minAction = action
		}
	}
	at.lookaheads = append(at.lookaheads, acttabEntry{lookahead, action})
}

// insert adds the current transaction set into the table, resets the
// set, and returns the offset that is added to a lookahead to find its
// slot.
func (at *actTab) insert() int {
	if len(at.lookaheads) == 0 {
		return NoOffset
	}

	// Worst case the set is appended at the end of the table.
	need := at.nAction + at.maxLookahead + 1
	if need >= len(at.actions) {
		grown := make([]acttabEntry, need+len(at.actions)+20)
		copy(grown, at.actions)
		for i := len(at.actions); i < len(grown); i++ {
			grown[i] = acttabEntry{-1, -1}
		}
		at.actions = grown
	}

	// Scan for the lowest offset where the transaction set fits.
	// i is the index where minLookahead would land; falling out of the
	// loop appends the set at the end.
	var i int
	for i = 0; i < at.nAction+at.minLookahead; i++ {
		if at.actions[i].lookahead < 0 {
			ok := true
			for _, la := range at.lookaheads {
				k := la.lookahead - at.minLookahead + i
				if k < 0 || at.actions[k].lookahead >= 0 {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			// No existing entry may alias into this offset's
			// lookahead mapping, or lookups for this state would hit
			// a foreign action.
			for j := 0; j < at.nAction; j++ {
				if at.actions[j].lookahead == j+at.minLookahead-i {
					ok = false
					break
				}
			}
			if ok {
				break // fits in empty slots
			}
		} else if at.actions[i].lookahead == at.minLookahead {
			if at.actions[i].action != at.minAction {
				continue
			}
			ok := true
			for _, la := range at.lookaheads {
				k := la.lookahead - at.minLookahead + i
				if k < 0 || k >= at.nAction {
					ok = false
					break
				}
				if la.lookahead != at.actions[k].lookahead || la.action != at.actions[k].action {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			n := 0
			for j := 0; j < at.nAction; j++ {
				if at.actions[j].lookahead < 0 {
					continue
				}
				if at.actions[j].lookahead == j+at.minLookahead-i {
					n++
				}
			}
			if n == len(at.lookaheads) {
				break // same as a prior transaction set
			}
		}
	}

	for _, la := range at.lookaheads {
		k := la.lookahead - at.minLookahead + i
		at.actions[k] = la
		if k >= at.nAction {
			at.nAction = k + 1
		}
	}
	at.lookaheads = at.lookaheads[:0]

	return i - at.minLookahead
}

// size returns the number of entries in the packed table.
func (at *actTab) size() int { return at.nAction }

// action returns the n-th packed action, -1 for an empty slot.
func (at *actTab) action(n int) int { return at.actions[n].action }

// lookahead returns the n-th packed lookahead, -1 for an empty slot.
func (at *actTab) lookahead(n int) int { return at.actions[n].lookahead }
