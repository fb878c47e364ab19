// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import (
	"fmt"
	"io"

	"github.com/mdhender/cherimoya/internal/lalr"
)

// Reprint duplicates the input grammar without comments: a columnar
// symbol listing followed by every rule in source order, each rule
// followed by its action code when it has one.
func Reprint(w io.Writer, gen *lalr.Generator) {
	fmt.Fprintf(w, "// Reprint of input file %q.\n// Symbols:\n", gen.G.Filename)

	maxlen := 10
	for i := 0; i < gen.NSymbol; i++ {
		if n := len(gen.Symbols[i].Name); n > maxlen {
			maxlen = n
		}
	}
	ncolumns := 76 / (maxlen + 5)
	if ncolumns < 1 {
		ncolumns = 1
	}
	skip := (gen.NSymbol + ncolumns - 1) / ncolumns
	for i := 0; i < skip; i++ {
		fmt.Fprintf(w, "//")
		for j := i; j < gen.NSymbol; j += skip {
			sp := gen.Symbols[j]
			fmt.Fprintf(w, " %3d %-*.*s", j, maxlen, maxlen, sp.Name)
		}
		fmt.Fprintf(w, "\n")
	}

	for _, rp := range gen.Rules {
		fmt.Fprintf(w, "%s", rp.LHS.Name)
		if rp.LHSAlias != "" {
			fmt.Fprintf(w, "(%s)", rp.LHSAlias)
		}
		fmt.Fprintf(w, " ::=")
		for i, sp := range rp.RHS {
			fmt.Fprintf(w, " %s", sp.Name)
			if rp.RHSAlias[i] != "" {
				fmt.Fprintf(w, "(%s)", rp.RHSAlias[i])
			}
		}
		fmt.Fprintf(w, ".")
		if rp.PrecSym != nil {
			fmt.Fprintf(w, " [%s]", rp.PrecSym.Name)
		}
		if rp.Code != "" {
			fmt.Fprintf(w, "\n    %s", rp.Code)
		}
		fmt.Fprintf(w, "\n")
	}
}
