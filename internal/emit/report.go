// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package emit writes the generator's outputs: the human-readable
// report, the generated parser (driver template plus tables), the
// token-constants file, the grammar reprint, and the statistics
// database.
package emit

import (
	"fmt"
	"io"

	"github.com/mdhender/cherimoya/internal/lalr"
)

// WriteReport writes the state-by-state log (the ".out" file): every
// configuration of every state, then one line per action. Tombstoned
// actions are not printed. With basisOnly, only the basis
// configurations are listed.
func WriteReport(w io.Writer, gen *lalr.Generator, basisOnly bool) error {
	for _, stp := range gen.Sorted {
		if _, err := fmt.Fprintf(w, "State %d:\n", stp.Index); err != nil {
			return err
		}
		cfgs := stp.Configs
		if basisOnly {
			cfgs = stp.Basis
		}
		for _, cfp := range cfgs {
			if cfp.Dot == len(cfp.Rule.RHS) {
				fmt.Fprintf(w, "%9s ", fmt.Sprintf("(%d)", cfp.Rule.Index))
			} else {
				fmt.Fprintf(w, "%10s", "")
			}
			fmt.Fprintf(w, "%s\n", cfp)
		}
		fmt.Fprintln(w)
		for _, ap := range stp.Actions {
			if line, ok := actionLine(ap); ok {
				fmt.Fprintln(w, line)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

// actionLine formats one action for the report. The bool result is
// false for tombstones, which are skipped.
func actionLine(ap *lalr.Action) (string, bool) {
	const indent = 30
	switch ap.Kind {
	case lalr.ActShift:
		return fmt.Sprintf("%*s shift  %d", indent, ap.Sym.Name, ap.State.Index), true
	case lalr.ActReduce:
		return fmt.Sprintf("%*s reduce %d", indent, ap.Sym.Name, ap.Rule.Index), true
	case lalr.ActAccept:
		return fmt.Sprintf("%*s accept", indent, ap.Sym.Name), true
	case lalr.ActError:
		return fmt.Sprintf("%*s error", indent, ap.Sym.Name), true
	case lalr.ActConflict:
		return fmt.Sprintf("%*s reduce %-3d ** Parsing conflict **", indent, ap.Sym.Name, ap.Rule.Index), true
	}
	return "", false
}
