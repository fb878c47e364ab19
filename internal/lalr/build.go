// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"github.com/mdhender/cherimoya/internal/bitset"
	"github.com/mdhender/cherimoya/internal/grammar"
)

// findRulePrecedences infers the precedence symbol for every rule that
// lacks an explicit [PREC] mark: the first RHS terminal whose
// precedence has been declared.
func (gen *Generator) findRulePrecedences() {
	for _, rp := range gen.Rules {
		if rp.PrecSym != nil {
			continue
		}
		for _, sp := range rp.RHS {
			if sp.Kind == grammar.SymTerminal && sp.Prec >= 0 {
				rp.PrecSym = sp
				break
			}
		}
	}
}

// findFirstSets computes the lambda flag and the FIRST set for every
// nonterminal. Both are monotone fixed points over finite sets.
func (gen *Generator) findFirstSets() {
	for _, sp := range gen.Symbols {
		sp.Lambda = false
	}
	for i := gen.NTerminal; i < gen.NSymbol; i++ {
		gen.Symbols[i].FirstSet = bitset.New(gen.NTerminal)
	}

	// A nonterminal is lambda iff some rule's RHS is made entirely of
	// lambda nonterminals (or is empty).
	for progress := true; progress; {
		progress = false
		for _, rp := range gen.Rules {
			if rp.LHS.Lambda {
				continue
			}
			i := 0
			for ; i < len(rp.RHS); i++ {
				sp := rp.RHS[i]
				if sp.Kind != grammar.SymNonterminal || !sp.Lambda {
					break
				}
			}
			if i == len(rp.RHS) {
				rp.LHS.Lambda = true
				progress = true
			}
		}
	}

	for progress := true; progress; {
		progress = false
		for _, rp := range gen.Rules {
			s1 := rp.LHS
			for _, s2 := range rp.RHS {
				if s2.Kind == grammar.SymTerminal {
					if s1.FirstSet.Add(s2.Index) {
						progress = true
					}
					break
				}
				if s1 == s2 {
					if !s1.Lambda {
						break
					}
					continue
				}
				if s1.FirstSet.Union(s2.FirstSet) {
					progress = true
				}
				if !s2.Lambda {
					break
				}
			}
		}
	}
}

// findStates computes all LR(0) states, recording follow-set
// propagation links along the way. The initial state's basis is
// (r, 0) for every rule r of the start symbol, with "$" seeded into
// each follow-set.
func (gen *Generator) findStates() {
	sp := gen.G.StartSymbol()
	if sp == nil {
		gen.errorf(0, "empty grammar")
		return
	}

	// A start symbol on the RHS of a rule produces a parser that
	// cannot stop at end of input.
	for _, rp := range gen.Rules {
		for _, x := range rp.RHS {
			if x == sp {
				gen.errorf(rp.RuleLine,
					"the start symbol %q occurs on the RHS of a rule; this will result in a parser which does not work properly", sp.Name)
			}
		}
	}

	gen.cl.reset()
	for _, rp := range sp.Rules {
		cfp := gen.cl.addBasis(gen, rp, 0)
		cfp.Follow.Add(0)
	}
	gen.getState()
}

// getState finds or creates the state whose basis is the basis list
// under construction. On a hit, the follow-sets and backward links of
// the duplicate basis are merged into the existing state's basis and
// the working list is discarded. On a miss, the closure is computed
// and the new state's successors are built.
func (gen *Generator) getState() *State {
	gen.cl.sortBasis()
	bp := gen.cl.takeBasis()

	if stp := gen.states.find(bp); stp != nil {
		for i := 0; i < len(bp) && i < len(stp.Basis); i++ {
			x, y := bp[i], stp.Basis[i]
			y.Follow.Union(x.Follow)
			y.Backward = append(y.Backward, x.Backward...)
			x.Forward = nil
			x.Backward = nil
		}
		gen.cl.takeCurrent()
		return stp
	}

	gen.cl.closure(gen)
	gen.cl.sortCurrent()
	stp := &State{
		Basis:   bp,
		Configs: gen.cl.takeCurrent(),
		Index:   len(gen.Sorted),
		TknOff:  NoOffset,
		NtknOff: NoOffset,
	}
	gen.Sorted = append(gen.Sorted, stp)
	gen.states.insert(stp)
	gen.buildShifts(stp)
	return stp
}

// buildShifts computes all successor states of stp. Each symbol
// appearing after a dot produces one successor whose basis is every
// such config with the dot advanced; the advanced copy records a
// backward propagation link to its source.
func (gen *Generator) buildShifts(stp *State) {
	for _, cfp := range stp.Configs {
		cfp.status = incomplete
	}
	for i, cfp := range stp.Configs {
		if cfp.status == complete || cfp.Dot >= len(cfp.Rule.RHS) {
			continue
		}
		gen.cl.reset()
		sp := cfp.Rule.RHS[cfp.Dot]

		for _, bcfp := range stp.Configs[i:] {
			if bcfp.status == complete || bcfp.Dot >= len(bcfp.Rule.RHS) {
				continue
			}
			if bcfp.Rule.RHS[bcfp.Dot] != sp {
				continue
			}
			bcfp.status = complete
			newcfg := gen.cl.addBasis(gen, bcfp.Rule, bcfp.Dot+1)
			newcfg.Backward = append(newcfg.Backward, bcfp)
		}

		newstp := gen.getState()
		stp.Actions = append(stp.Actions, &Action{Sym: sp, Kind: ActShift, State: newstp})
	}
}

// findLinks stamps every config with its owning state and converts the
// backward propagation links recorded during construction into forward
// links on their other endpoint.
func (gen *Generator) findLinks() {
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Configs {
			cfp.State = stp
		}
	}
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Configs {
			for _, other := range cfp.Backward {
				other.Forward = append(other.Forward, cfp)
			}
		}
	}
}

// findFollowSets iterates the propagation links to a fixed point.
// Termination follows from the monotone growth of the follow-sets
// within the fixed terminal universe.
func (gen *Generator) findFollowSets() {
	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Configs {
			cfp.status = incomplete
		}
	}
	for progress := true; progress; {
		progress = false
		for _, stp := range gen.Sorted {
			for _, cfp := range stp.Configs {
				if cfp.status == complete {
					continue
				}
				for _, to := range cfp.Forward {
					if to.Follow.Union(cfp.Follow) {
						to.status = incomplete
						progress = true
					}
				}
				cfp.status = complete
			}
		}
	}
}

// findActions computes the action list of every state: reduces from
// the follow-sets of completed configs (with accept replacing the
// start rule's reduce on "$"), the shifts recorded during state
// construction, and an error action on the error symbol for every
// state. The lists are then sorted and conflicts resolved by
// precedence; every conflict precedence could not resolve bumps
// NConflict. Rules that are never reduced are reported as errors.
func (gen *Generator) findActions() {
	start := gen.G.StartSymbol()

	for _, stp := range gen.Sorted {
		for _, cfp := range stp.Configs {
			if cfp.Dot != len(cfp.Rule.RHS) {
				continue
			}
			for j := 0; j < gen.NTerminal; j++ {
				if !cfp.Follow.Has(j) {
					continue
				}
				if j == 0 && cfp.Rule.LHS == start {
					stp.Actions = append(stp.Actions, &Action{Sym: gen.Symbols[0], Kind: ActAccept, Rule: cfp.Rule})
				} else {
					stp.Actions = append(stp.Actions, &Action{Sym: gen.Symbols[j], Kind: ActReduce, Rule: cfp.Rule})
				}
			}
		}
	}

	for _, stp := range gen.Sorted {
		stp.Actions = append(stp.Actions, &Action{Sym: gen.ErrSym, Kind: ActError})
	}

	for _, stp := range gen.Sorted {
		sortActions(stp.Actions)
		for i := 0; i < len(stp.Actions); i++ {
			for j := i + 1; j < len(stp.Actions) && stp.Actions[j].Sym == stp.Actions[i].Sym; j++ {
				gen.NConflict += resolveConflict(stp.Actions[i], stp.Actions[j])
			}
		}
	}

	for _, rp := range gen.Rules {
		rp.CanReduce = false
	}
	for _, stp := range gen.Sorted {
		for _, ap := range stp.Actions {
			if (ap.Kind == ActReduce || ap.Kind == ActAccept) && ap.Rule != nil {
				ap.Rule.CanReduce = true
			}
		}
	}
	for _, rp := range gen.Rules {
		if !rp.CanReduce {
			gen.errorf(rp.RuleLine, "this rule can not be reduced")
		}
	}
}
