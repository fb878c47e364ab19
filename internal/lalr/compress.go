// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lalr

import "github.com/mdhender/cherimoya/internal/grammar"

// CompressTables reduces the size of the action tables by taking the
// most frequent reduce action in each state and making it the state's
// default. A reduce is only defaulted when it appears at least twice;
// the displaced duplicates are tombstoned as not-used so the report
// still accounts for them.
func (gen *Generator) CompressTables() {
	for _, stp := range gen.Sorted {
		nbest := 0
		var rbest *grammar.Rule
		for i, ap := range stp.Actions {
			if ap.Kind != ActReduce {
				continue
			}
			rp := ap.Rule
			if rp == rbest {
				continue
			}
			n := 1
			for _, ap2 := range stp.Actions[i+1:] {
				if ap2.Kind != ActReduce {
					continue
				}
				rp2 := ap2.Rule
				if rp2 == rbest {
					continue
				}
				if rp2 == rp {
					n++
				}
			}
			if n > nbest {
				nbest = n
				rbest = rp
			}
		}

		if nbest < 2 {
			continue
		}

		// The first matching reduce becomes the default; the rest are
		// tombstoned.
		seen := false
		for _, ap := range stp.Actions {
			if ap.Kind != ActReduce || ap.Rule != rbest {
				continue
			}
			if !seen {
				ap.Sym = gen.DefaultSym
				seen = true
			} else {
				ap.Kind = ActNotUsed
			}
		}
		sortActions(stp.Actions)
	}
}
