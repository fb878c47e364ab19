// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mdhender/cherimoya/internal/grammar"
	"github.com/mdhender/cherimoya/internal/lalr"
)

// The driver template is split into sections by lines containing only
// "%%". The emitter writes a section, then generated content, then the
// next section, in a fixed rhythm both sides agree on:
//
//	include, token constants, defines, tables, fallback table,
//	token names, rule names, rule info, reduce cases, destructor
//	cases, overflow, failure, syntax error, accept, extra code.
//
//go:embed driver.go.tpl
var driverTemplate string

// LoadTemplate returns the driver template text: the file at path if
// given, otherwise the embedded default.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return driverTemplate, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("can't open the template file %q: %w", path, err)
	}
	return string(buf), nil
}

// Parser emission options.
type Options struct {
	TemplateText string
	NoLineNos    bool // suppress //line directives
}

// WriteParser writes the generated parser: the driver template with
// the grammar's tables and code blocks spliced into the section gaps.
// Label diagnostics found while splicing rule code are returned; they
// count toward the run's error total.
func WriteParser(w io.Writer, gen *lalr.Generator, t *lalr.Tables, opts Options) []grammar.Diagnostic {
	e := &emitter{
		w:    w,
		gen:  gen,
		t:    t,
		g:    gen.G,
		opts: opts,
	}
	e.sections = splitSections(opts.TemplateText)
	if len(e.sections) == 0 {
		e.sections = splitSections(driverTemplate)
	}

	e.xfer() // header and package clause
	e.lineComment(e.g.Include, e.g.IncludeLine)

	e.xfer()
	e.tokenConstants()

	e.xfer()
	e.defines()

	e.xfer()
	e.tables()

	e.xfer()
	e.fallbackTable()

	e.xfer()
	e.tokenNames()

	e.xfer()
	e.ruleNames()

	e.xfer()
	e.ruleInfo()

	e.xfer()
	e.reduceCases()

	e.xfer()
	e.destructorCases()

	e.xfer()
	e.lineComment(e.g.Overflow, e.g.OverflowLine)

	e.xfer()
	e.lineComment(e.g.Failure, e.g.FailureLine)

	e.xfer()
	e.lineComment(e.g.SyntaxError, e.g.SynErrLine)

	e.xfer()
	e.lineComment(e.g.Accept, e.g.AcceptLine)

	e.xfer()
	e.lineComment(e.g.ExtraCode, e.g.ExtraCodeLine)

	e.xfer() // trailing template text, if any
	return e.diags
}

type emitter struct {
	w        io.Writer
	gen      *lalr.Generator
	t        *lalr.Tables
	g        *grammar.Grammar
	opts     Options
	sections []string
	next     int
	diags    []grammar.Diagnostic
}

func (e *emitter) errorf(line int, format string, args ...any) {
	e.diags = append(e.diags, grammar.Diagnostic{
		Level: grammar.DiagError,
		Msg:   fmt.Sprintf(format, args...),
		At:    &grammar.Span{File: e.g.Filename, Line: line},
	})
}

func splitSections(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	var sections []string
	var cur strings.Builder
	for _, line := range lines {
		if strings.TrimRight(line, " \t") == "%%" {
			sections = append(sections, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	sections = append(sections, cur.String())
	return sections
}

// xfer writes the next template section, renaming the "Parse" prefix
// to the grammar's %name when one was declared.
func (e *emitter) xfer() {
	if e.next >= len(e.sections) {
		return
	}
	section := e.sections[e.next]
	e.next++
	if name := e.g.Name; name != "" {
		section = renameParse(section, name)
	}
	io.WriteString(e.w, section)
}

// renameParse replaces every identifier beginning with "Parse" so the
// generated API carries the grammar's name.
func renameParse(text, name string) string {
	var sb strings.Builder
	for i := 0; i < len(text); {
		if text[i] == 'P' && strings.HasPrefix(text[i:], "Parse") &&
			(i == 0 || !isIdentByte(text[i-1])) {
			sb.WriteString(name)
			i += len("Parse")
			continue
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// lineComment writes a user code block bracketed with //line
// directives so errors in the generated file point back at the
// grammar.
func (e *emitter) lineComment(code string, line int) {
	if code == "" {
		return
	}
	if !e.opts.NoLineNos && line > 0 {
		fmt.Fprintf(e.w, "//line %s:%d\n", e.g.Filename, line)
	}
	io.WriteString(e.w, code)
	io.WriteString(e.w, "\n")
}

func (e *emitter) tokenConstants() {
	prefix := e.g.TokenPrefix
	for i := 1; i < e.t.NTerminal; i++ {
		fmt.Fprintf(e.w, "\t%s%-30s = %2d\n", prefix, e.gen.Symbols[i].Name, i)
	}
}

func (e *emitter) defines() {
	tokenType := e.g.TokenType
	if tokenType == "" {
		tokenType = "any"
	}
	argType := e.g.Arg
	if argType == "" {
		argType = "struct{}"
	}
	stackSize := e.g.StackSize
	if stackSize == "" {
		stackSize = "100"
	}
	prefix := e.g.Name
	if prefix == "" {
		prefix = "Parse"
	}
	fmt.Fprintf(e.w, "// %sTOKENTYPE is the value type for terminals.\n", prefix)
	fmt.Fprintf(e.w, "type %sTOKENTYPE = %s\n", prefix, tokenType)
	fmt.Fprintf(e.w, "\n// %sARG is the extra argument threaded through the parser.\n", prefix)
	fmt.Fprintf(e.w, "type %sARG = %s\n", prefix, argType)
	fmt.Fprintf(e.w, "\nconst (\n")
	fmt.Fprintf(e.w, "\tyyNState     = %d\n", e.t.NState)
	fmt.Fprintf(e.w, "\tyyNRule      = %d\n", e.t.NRule)
	fmt.Fprintf(e.w, "\tyyNoCode     = %d\n", e.t.NSymbol+1)
	fmt.Fprintf(e.w, "\tyyStackDepth = %s\n", stackSize)
	fmt.Fprintf(e.w, "\tyyErrorSym   = %d\n", e.t.ErrSym)
	fmt.Fprintf(e.w, "\tyyUseErrSym  = %v\n", e.errSymUsed())
	fmt.Fprintf(e.w, ")\n")
}

// errSymUsed reports whether the grammar mentions the error symbol on
// any RHS; only then does the driver run error recovery.
func (e *emitter) errSymUsed() bool {
	for _, rp := range e.gen.Rules {
		for _, sp := range rp.RHS {
			if sp == e.gen.ErrSym {
				return true
			}
		}
	}
	return false
}

// intTable writes a []int literal ten entries per line with running
// index comments, the way the original tool formats its tables.
func (e *emitter) intTable(name string, vals []int) {
	fmt.Fprintf(e.w, "var %s = []int{\n", name)
	for i := 0; i < len(vals); i += 10 {
		fmt.Fprintf(e.w, "\t/* %5d */ ", i)
		for j := i; j < i+10 && j < len(vals); j++ {
			fmt.Fprintf(e.w, " %4d,", vals[j])
		}
		fmt.Fprintf(e.w, "\n")
	}
	fmt.Fprintf(e.w, "}\n")
}

func (e *emitter) tables() {
	noAction := e.t.NSymbol + e.t.NRule + 2

	action := make([]int, len(e.t.Action))
	for i, a := range e.t.Action {
		if a < 0 {
			a = noAction
		}
		action[i] = a
	}
	e.intTable("yyAction", action)

	lookahead := make([]int, len(e.t.Lookahead))
	for i, la := range e.t.Lookahead {
		if la < 0 {
			la = e.t.NSymbol
		}
		lookahead[i] = la
	}
	e.intTable("yyLookahead", lookahead)

	fmt.Fprintf(e.w, "const yyShiftUseDflt = %d\n", e.t.MinShiftOfst-1)
	e.intTable("yyShiftOfst", substOffsets(e.t.ShiftOfst, e.t.MinShiftOfst-1))
	fmt.Fprintf(e.w, "const yyReduceUseDflt = %d\n", e.t.MinReduceOfst-1)
	e.intTable("yyReduceOfst", substOffsets(e.t.ReduceOfst, e.t.MinReduceOfst-1))
	e.intTable("yyDefault", e.t.Default)
}

func substOffsets(ofst []int, useDflt int) []int {
	out := make([]int, len(ofst))
	for i, v := range ofst {
		if v == lalr.NoOffset {
			v = useDflt
		}
		out[i] = v
	}
	return out
}

func (e *emitter) fallbackTable() {
	if e.t.Fallback == nil {
		return
	}
	for i, fb := range e.t.Fallback {
		sym := e.gen.Symbols[i]
		if fb == 0 {
			fmt.Fprintf(e.w, "\t  0, /* %10s => nothing */\n", sym.Name)
		} else {
			fmt.Fprintf(e.w, "\t%3d, /* %10s => %s */\n", fb, sym.Name, e.gen.Symbols[fb].Name)
		}
	}
}

func (e *emitter) tokenNames() {
	for i := 0; i < e.t.NSymbol; i++ {
		entry := fmt.Sprintf("%q,", e.gen.Symbols[i].Name)
		fmt.Fprintf(e.w, "\t%-15s", entry)
		if i%4 == 3 {
			fmt.Fprintf(e.w, "\n")
		}
	}
	if e.t.NSymbol%4 != 0 {
		fmt.Fprintf(e.w, "\n")
	}
}

func (e *emitter) ruleNames() {
	for _, rp := range e.gen.Rules {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s ::=", rp.LHS.Name)
		for _, sp := range rp.RHS {
			fmt.Fprintf(&sb, " %s", sp.Name)
		}
		fmt.Fprintf(e.w, "\t/* %3d */ %q,\n", rp.Index, sb.String())
	}
}

func (e *emitter) ruleInfo() {
	for _, rp := range e.gen.Rules {
		fmt.Fprintf(e.w, "\t{%d, %d},\n", rp.LHS.Index, len(rp.RHS))
	}
}

func (e *emitter) reduceCases() {
	for _, rp := range e.gen.Rules {
		fmt.Fprintf(e.w, "\tcase %d:\n", rp.Index)
		e.emitRuleCode(rp)
	}
}

// emitRuleCode splices one rule's action code, translating the alias
// labels into stack references: the LHS alias becomes yygotominor and
// the RHS alias at position i becomes yypParser.yymsp(i-nrhs+1).minor.
// Declared labels that the code never mentions are errors, and RHS
// symbols without labels get their destructors invoked.
func (e *emitter) emitRuleCode(rp *grammar.Rule) {
	used := make([]bool, len(rp.RHS))
	lhsUsed := false

	if rp.Code != "" {
		if !e.opts.NoLineNos && rp.Line > 0 {
			fmt.Fprintf(e.w, "//line %s:%d\n", e.g.Filename, rp.Line)
		}
		code := rp.Code
		var sb strings.Builder
		for i := 0; i < len(code); {
			if !isIdentStart(code[i]) || (i > 0 && isIdentByte(code[i-1])) {
				sb.WriteByte(code[i])
				i++
				continue
			}
			j := i + 1
			for j < len(code) && isIdentByte(code[j]) {
				j++
			}
			word := code[i:j]
			if rp.LHSAlias != "" && word == rp.LHSAlias {
				sb.WriteString("yygotominor")
				lhsUsed = true
			} else if k := aliasIndex(rp, word); k >= 0 {
				fmt.Fprintf(&sb, "yypParser.yymsp(%d).minor", k-len(rp.RHS)+1)
				used[k] = true
			} else {
				sb.WriteString(word)
			}
			i = j
		}
		io.WriteString(e.w, sb.String())
		fmt.Fprintf(e.w, "\n")
	}

	if rp.LHSAlias != "" && !lhsUsed {
		e.errorf(rp.RuleLine, "label %q for %q(%s) is never used", rp.LHSAlias, rp.LHS.Name, rp.LHSAlias)
	}
	for i, alias := range rp.RHSAlias {
		if alias != "" && !used[i] {
			e.errorf(rp.RuleLine, "label %q for %q(%s) is never used", alias, rp.RHS[i].Name, alias)
		} else if alias == "" && hasDestructor(rp.RHS[i], e.g) {
			fmt.Fprintf(e.w, "\t\tyyDestructor(%d, yypParser.yymsp(%d).minor)\n", rp.RHS[i].Index, i-len(rp.RHS)+1)
		}
	}
}

func aliasIndex(rp *grammar.Rule, word string) int {
	for i, alias := range rp.RHSAlias {
		if alias != "" && alias == word {
			return i
		}
	}
	return -1
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func hasDestructor(sym *grammar.Symbol, g *grammar.Grammar) bool {
	if sym.Kind == grammar.SymTerminal {
		return g.TokenDest != ""
	}
	return g.VarDest != "" || sym.Destructor != ""
}

// destructorCases writes the case arms of yyDestructor: terminals
// share the %token_destructor, symbols with their own %destructor get
// it, and the remaining nonterminals share the %default_destructor.
// The $$ marker in destructor code refers to the value being
// destroyed.
func (e *emitter) destructorCases() {
	if e.g.TokenDest != "" && e.t.NTerminal > 1 {
		var idxs []string
		for i := 1; i < e.t.NTerminal; i++ {
			idxs = append(idxs, strconv.Itoa(i))
		}
		fmt.Fprintf(e.w, "\tcase %s:\n", strings.Join(idxs, ", "))
		e.destructorCode(e.g.TokenDest, e.g.TokenDestLine)
	}
	for i := e.t.NTerminal; i < e.t.NSymbol; i++ {
		sp := e.gen.Symbols[i]
		if sp.Destructor == "" {
			continue
		}
		fmt.Fprintf(e.w, "\tcase %d:\n", i)
		e.destructorCode(sp.Destructor, sp.DestructorLine)
	}
	if e.g.VarDest != "" {
		var idxs []string
		for i := e.t.NTerminal; i < e.t.NSymbol; i++ {
			sp := e.gen.Symbols[i]
			if sp.Destructor != "" || sp == e.gen.ErrSym {
				continue
			}
			idxs = append(idxs, strconv.Itoa(i))
		}
		if len(idxs) > 0 {
			fmt.Fprintf(e.w, "\tcase %s:\n", strings.Join(idxs, ", "))
			e.destructorCode(e.g.VarDest, e.g.VarDestLine)
		}
	}
}

func (e *emitter) destructorCode(code string, line int) {
	if !e.opts.NoLineNos && line > 0 {
		fmt.Fprintf(e.w, "//line %s:%d\n", e.g.Filename, line)
	}
	io.WriteString(e.w, strings.ReplaceAll(code, "$$", "yyminor"))
	fmt.Fprintf(e.w, "\n\t\treturn\n")
}
