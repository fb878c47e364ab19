// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command cherimoya is an LALR(1) parser generator. It reads a Lemon
// style grammar file and writes a table-driven parser in Go, a
// human-readable report of the state machine, and a token-constants
// file for the scanner that feeds the parser.
//
// The exit status is the number of grammar errors plus the number of
// parsing conflicts that precedence could not resolve.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/maloquacious/semver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mdhender/cherimoya/internal/emit"
	"github.com/mdhender/cherimoya/internal/grammar"
	"github.com/mdhender/cherimoya/internal/lalr"
)

var version = semver.Version{
	Minor:      3,
	PreRelease: "alpha",
}

// options mirrors the original tool's flag set, with the toml config
// file supplying defaults for the path-ish settings.
type options struct {
	basisOnly   bool     // -b: print only the basis in the report
	noCompress  bool     // -c: don't compress the action table
	reprint     bool     // -g: reprint the grammar and stop
	makeheaders bool     // -m: suppress the token-constants file
	quiet       bool     // -q: don't write the report file
	stats       bool     // -s: print statistics to standard output
	sqlStats    bool     // -S: record statistics in a SQLite database
	showVersion bool     // -v: print the version number
	outdir      string   // -d: output directory
	template    string   // -T: driver template file
	noLineNos   bool     // -l: do not print //line directives
	defines     []string // -D: %ifdef macros (not implemented)
}

// fileConfig is the optional cherimoya.toml in the working directory;
// flags given on the command line win.
type fileConfig struct {
	Outdir   string `toml:"outdir"`
	Template string `toml:"template"`
}

var exitStatus int

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:           "cherimoya [flags] grammar-file",
		Short:         "cherimoya is an LALR(1) parser generator",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Printf("cherimoya version %s\n", version.String())
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("no grammar file specified")
			}
			applyConfig(cmd.Flags(), &opts)
			status, err := generate(args[0], &opts)
			if err != nil {
				return err
			}
			exitStatus = status
			return nil
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&opts.basisOnly, "basis", "b", false, "print only the basis in the report")
	fl.BoolVarP(&opts.noCompress, "no-compress", "c", false, "don't compress the action table")
	fl.StringVarP(&opts.outdir, "output-dir", "d", "", "directory where output files are written")
	fl.StringArrayVarP(&opts.defines, "define", "D", nil, "define an %ifdef macro")
	fl.BoolVarP(&opts.reprint, "reprint", "g", false, "reprint the grammar (without comments) and stop")
	fl.BoolVarP(&opts.noLineNos, "no-lines", "l", false, "do not print //line directives")
	fl.BoolVarP(&opts.makeheaders, "makeheaders", "m", false, "suppress the token-constants file")
	fl.BoolVarP(&opts.quiet, "quiet", "q", false, "don't write the report file")
	fl.BoolVarP(&opts.stats, "stats", "s", false, "print parser stats to standard output")
	fl.BoolVarP(&opts.sqlStats, "sql-stats", "S", false, "record parser stats in a SQLite database")
	fl.StringVarP(&opts.template, "template", "T", "", "driver template file")
	fl.BoolVarP(&opts.showVersion, "version", "v", false, "print the version number")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitStatus)
}

// applyConfig fills unset flags from cherimoya.toml, if one exists.
func applyConfig(fl *pflag.FlagSet, opts *options) {
	var cfg fileConfig
	if _, err := toml.DecodeFile("cherimoya.toml", &cfg); err != nil {
		return
	}
	if !fl.Changed("output-dir") && cfg.Outdir != "" {
		opts.outdir = cfg.Outdir
	}
	if !fl.Changed("template") && cfg.Template != "" {
		opts.template = cfg.Template
	}
}

// generate runs the whole pipeline for one grammar file and returns
// the exit status (grammar errors plus unresolved conflicts).
func generate(grammarFile string, opts *options) (int, error) {
	src, err := os.ReadFile(grammarFile)
	if err != nil {
		return 0, err
	}

	if len(opts.defines) > 0 {
		fmt.Fprintf(os.Stderr, "warning: -D is accepted for compatibility but %%ifdef macros are not implemented\n")
	}

	// Parse the grammar file.
	b := grammar.Parse(grammarFile, src)
	g := b.Finalize()
	for _, d := range b.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	errCnt := b.ErrorCount()
	if errCnt > 0 {
		return errCnt, nil
	}
	if len(g.Rules) == 0 {
		return 0, fmt.Errorf("empty grammar")
	}

	// Index the symbols and run the analysis phases.
	gen := lalr.New(g)
	if opts.reprint {
		emit.Reprint(os.Stdout, gen)
		return 0, nil
	}
	gen.Analyze()
	for _, d := range gen.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	errCnt += gen.ErrorCount()

	if !opts.noCompress {
		gen.CompressTables()
	}
	tables := gen.BuildTables()

	outdir := opts.outdir
	if outdir == "" {
		outdir = filepath.Dir(grammarFile)
	} else if err := os.MkdirAll(outdir, 0o755); err != nil {
		return errCnt, err
	}
	base := strings.TrimSuffix(filepath.Base(grammarFile), filepath.Ext(grammarFile))
	outPath := func(suffix string) string { return filepath.Join(outdir, base+suffix) }

	// The report file.
	if !opts.quiet {
		if err := writeFile(outPath(".out"), func(w *os.File) error {
			return emit.WriteReport(w, gen, opts.basisOnly)
		}); err != nil {
			return errCnt, err
		}
	}

	// The generated parser.
	tpl, err := emit.LoadTemplate(opts.template)
	if err != nil {
		return errCnt, err
	}
	var emitDiags []grammar.Diagnostic
	if err := writeFile(outPath(".go"), func(w *os.File) error {
		emitDiags = emit.WriteParser(w, gen, tables, emit.Options{
			TemplateText: tpl,
			NoLineNos:    opts.noLineNos,
		})
		return nil
	}); err != nil {
		return errCnt, err
	}
	for _, d := range emitDiags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	errCnt += len(emitDiags)

	// The token-constants file for the scanner.
	if !opts.makeheaders {
		if err := writeFile(outPath("_tokens.go"), func(w *os.File) error {
			return emit.WriteTokenFile(w, gen, "parser")
		}); err != nil {
			return errCnt, err
		}
	}

	st := emit.Stats{
		Grammar:      grammarFile,
		Terminals:    gen.NTerminal - 1,
		Nonterminals: gen.NSymbol - gen.NTerminal - 1,
		Rules:        gen.NRule(),
		States:       gen.NState(),
		TableEntries: tables.Size(),
		Conflicts:    gen.NConflict,
	}
	if opts.sqlStats {
		if err := emit.WriteStatsDB(outPath(".db"), st); err != nil {
			return errCnt, err
		}
	}
	if opts.stats {
		printStats(st)
	}
	if gen.NConflict > 0 {
		pterm.Warning.Printf("%d parsing conflicts.\n", gen.NConflict)
	}

	return errCnt + gen.NConflict, nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't open file %q: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(st emit.Stats) {
	data := pterm.TableData{
		{"terminals", "nonterminals", "rules", "states", "table entries", "conflicts"},
		{
			strconv.Itoa(st.Terminals), strconv.Itoa(st.Nonterminals),
			strconv.Itoa(st.Rules), strconv.Itoa(st.States),
			strconv.Itoa(st.TableEntries), strconv.Itoa(st.Conflicts),
		},
	}
	if out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		fmt.Println(out)
	} else {
		fmt.Printf("Parser statistics: %d terminals, %d nonterminals, %d rules\n",
			st.Terminals, st.Nonterminals, st.Rules)
		fmt.Printf("                   %d states, %d parser table entries, %d conflicts\n",
			st.States, st.TableEntries, st.Conflicts)
	}
}
