// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"sort"

	"github.com/mdhender/cherimoya/internal/grammar"
)

// ActionKind classifies a parser action. The three *Resolved/NotUsed
// values are tombstones: they are kept for reporting but never emit
// into the packed tables.
type ActionKind uint8

const (
	ActShift ActionKind = iota
	ActAccept
	ActReduce
	ActError
	ActConflict       // was a reduce, but part of an unresolved conflict
	ActShiftResolved  // was a shift; precedence resolved the conflict
	ActReduceResolved // was a reduce; precedence resolved the conflict
	ActNotUsed        // deleted by compression
)

// Action is one shift or reduce operation: a lookahead symbol, a kind,
// and either a target state (shift) or a rule (reduce, conflict).
type Action struct {
	Sym   *grammar.Symbol
	Kind  ActionKind
	State *State        // the new state, if a shift
	Rule  *grammar.Rule // the rule, if a reduce
}

// sortActions orders a state's actions by (lookahead index, kind),
// with reduce-flavored ties broken by rule index.
func sortActions(actions []*Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		a, b := actions[i], actions[j]
		if a.Sym.Index != b.Sym.Index {
			return a.Sym.Index < b.Sym.Index
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Rule != nil && b.Rule != nil {
			return a.Rule.Index < b.Rule.Index
		}
		return false
	})
}

// resolveConflict handles two actions on the same lookahead. apx comes
// earlier in sort order, so a shift/reduce pair always arrives as
// (shift, reduce). Returns the number of unresolved conflicts (0 or 1).
//
// Shift/reduce: both the rule and the lookahead terminal must carry
// precedence to resolve. Higher precedence wins; on a tie, left
// associativity keeps the reduce, right keeps the shift, and
// nonassociative stands as a conflict.
//
// Reduce/reduce: resolved only when both rules have precedence and they
// differ; otherwise the later rule is marked as the conflict.
func resolveConflict(apx, apy *Action) int {
	errcnt := 0
	switch {
	case apx.Kind == ActShift && apy.Kind == ActReduce:
		spx := apx.Sym
		spy := apy.Rule.PrecSym
		if spy == nil || spx.Prec < 0 || spy.Prec < 0 {
			// not enough precedence information
			apy.Kind = ActConflict
			errcnt++
		} else if spx.Prec > spy.Prec {
			apy.Kind = ActReduceResolved
		} else if spx.Prec < spy.Prec {
			apx.Kind = ActShiftResolved
		} else if spx.Assoc == grammar.AssocRight {
			apy.Kind = ActReduceResolved
		} else if spx.Assoc == grammar.AssocLeft {
			apx.Kind = ActShiftResolved
		} else {
			apy.Kind = ActConflict
			errcnt++
		}
	case apx.Kind == ActReduce && apy.Kind == ActReduce:
		spx := apx.Rule.PrecSym
		spy := apy.Rule.PrecSym
		if spx == nil || spy == nil || spx.Prec < 0 || spy.Prec < 0 || spx.Prec == spy.Prec {
			apy.Kind = ActConflict
			errcnt++
		} else if spx.Prec > spy.Prec {
			apy.Kind = ActReduceResolved
		} else {
			apx.Kind = ActReduceResolved
		}
	case apx.Kind == ActAccept && apy.Kind == ActReduce:
		apy.Kind = ActConflict
		errcnt++
	}
	// Everything else is a pairing of a tombstone from a prior
	// resolution with a live action, which is not a conflict.
	return errcnt
}
