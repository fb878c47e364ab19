// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mdhender/cherimoya/internal/bitset"
	"github.com/mdhender/cherimoya/internal/grammar"
)

type configStatus uint8

const (
	incomplete configStatus = iota
	complete
)

// Config is an LR(0) item: a rule plus a dot position, together with
// the follow-set used during LALR(1) propagation. Two configs are the
// same iff they have the same rule and dot.
type Config struct {
	Rule *grammar.Rule
	Dot  int // the parse point, 0..len(RHS)

	// Follow is the follow-set for this configuration only.
	Follow *bitset.Set

	// Forward and Backward are follow-set propagation links: any
	// terminal added to this config's follow-set must also be added
	// to every config on Forward. Backward edges are recorded during
	// state construction and converted by findLinks.
	Forward  []*Config
	Backward []*Config

	// State is the state that absorbed this config; set by findLinks.
	State *State

	status configStatus
}

// String renders the item as "LHS ::= alpha * beta".
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s ::=", c.Rule.LHS.Name)
	for i := 0; i <= len(c.Rule.RHS); i++ {
		if i == c.Dot {
			sb.WriteString(" *")
		}
		if i == len(c.Rule.RHS) {
			break
		}
		sb.WriteString(" ")
		sb.WriteString(c.Rule.RHS[i].Name)
	}
	return sb.String()
}

type configKey struct {
	rule, dot int
}

// configList builds the configuration set of one state: the working
// list, the basis sublist, and a scratch table for dedup. The scratch
// table is cleared (not freed) between states.
type configList struct {
	current []*Config
	basis   []*Config
	table   map[configKey]*Config
}

func (cl *configList) init() {
	cl.current = nil
	cl.basis = nil
	cl.table = make(map[configKey]*Config)
}

// reset discards the working lists and clears the scratch table in
// preparation for the next state.
func (cl *configList) reset() {
	cl.current = nil
	cl.basis = nil
	for k := range cl.table {
		delete(cl.table, k)
	}
}

// add appends the configuration (rule, dot) to the working list,
// reusing an existing config when one with the same key is present.
func (cl *configList) add(gen *Generator, rule *grammar.Rule, dot int) *Config {
	key := configKey{rule.Index, dot}
	if cfp, ok := cl.table[key]; ok {
		return cfp
	}
	cfp := &Config{Rule: rule, Dot: dot, Follow: bitset.New(gen.NTerminal)}
	cl.current = append(cl.current, cfp)
	cl.table[key] = cfp
	return cfp
}

// addBasis appends (rule, dot) to both the working and basis lists.
func (cl *configList) addBasis(gen *Generator, rule *grammar.Rule, dot int) *Config {
	key := configKey{rule.Index, dot}
	if cfp, ok := cl.table[key]; ok {
		return cfp
	}
	cfp := &Config{Rule: rule, Dot: dot, Follow: bitset.New(gen.NTerminal)}
	cl.current = append(cl.current, cfp)
	cl.basis = append(cl.basis, cfp)
	cl.table[key] = cfp
	return cfp
}

// closure expands the working list: for every config with a
// nonterminal after the dot, add (r, 0) for each rule r of that
// nonterminal. While adding, seed follow-sets from FIRST of the
// remainder of the RHS, and record a forward propagation link when
// that remainder can derive the empty string.
func (cl *configList) closure(gen *Generator) {
	for i := 0; i < len(cl.current); i++ {
		cfp := cl.current[i]
		rp, dot := cfp.Rule, cfp.Dot
		if dot >= len(rp.RHS) {
			continue
		}
		sp := rp.RHS[dot]
		if sp.Kind != grammar.SymNonterminal {
			continue
		}
		if len(sp.Rules) == 0 && sp != gen.ErrSym {
			gen.errorf(rp.RuleLine, "nonterminal %q has no rules", sp.Name)
		}
		for _, newrp := range sp.Rules {
			newcfp := cl.add(gen, newrp, 0)
			j := dot + 1
			for ; j < len(rp.RHS); j++ {
				xsp := rp.RHS[j]
				if xsp.Kind == grammar.SymTerminal {
					newcfp.Follow.Add(xsp.Index)
					break
				}
				newcfp.Follow.Union(xsp.FirstSet)
				if !xsp.Lambda {
					break
				}
			}
			if j == len(rp.RHS) {
				cfp.Forward = append(cfp.Forward, newcfp)
			}
		}
	}
}

func configLess(a, b *Config) bool {
	if a.Rule.Index != b.Rule.Index {
		return a.Rule.Index < b.Rule.Index
	}
	return a.Dot < b.Dot
}

// sortCurrent orders the working list by (rule index, dot).
func (cl *configList) sortCurrent() {
	sort.SliceStable(cl.current, func(i, j int) bool { return configLess(cl.current[i], cl.current[j]) })
}

// sortBasis orders the basis list by (rule index, dot).
func (cl *configList) sortBasis() {
	sort.SliceStable(cl.basis, func(i, j int) bool { return configLess(cl.basis[i], cl.basis[j]) })
}

// takeCurrent hands off the working list.
func (cl *configList) takeCurrent() []*Config {
	out := cl.current
	cl.current = nil
	return out
}

// takeBasis hands off the basis list.
func (cl *configList) takeBasis() []*Config {
	out := cl.basis
	cl.basis = nil
	return out
}
