// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import (
	"fmt"
	"io"

	"github.com/mdhender/cherimoya/internal/lalr"
)

// WriteTokenFile writes the token-constants file used by the scanner
// that feeds the generated parser: one constant per terminal, named
// with the %token_prefix and valued with the terminal's index.
func WriteTokenFile(w io.Writer, gen *lalr.Generator, packageName string) error {
	if packageName == "" {
		packageName = "parser"
	}
	if _, err := fmt.Fprintf(w, "// Code generated by cherimoya; DO NOT EDIT.\n\npackage %s\n\nconst (\n", packageName); err != nil {
		return err
	}
	prefix := gen.G.TokenPrefix
	for i := 1; i < gen.NTerminal; i++ {
		if _, err := fmt.Fprintf(w, "\t%s%-30s = %2d\n", prefix, gen.Symbols[i].Name, i); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, ")\n")
	return err
}
