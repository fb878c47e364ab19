// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package grammar

import (
	"fmt"
	"strings"
)

// Diagnostic is a structured error/warning emitted during building/validation.
type Diagnostic struct {
	Level DiagnosticLevel
	Msg   string
	At    *Span
}

type DiagnosticLevel uint8

const (
	DiagError DiagnosticLevel = iota + 1
	DiagWarn
)

func (d Diagnostic) Error() string {
	if d.At == nil {
		return d.Msg
	}
	return fmt.Sprintf("%s:%d: %s", d.At.File, d.At.Line, d.Msg)
}

// Builder builds a Grammar incrementally, collecting diagnostics instead
// of failing hard. The grammar-file parser drives it, one call per
// directive or rule.
type Builder struct {
	g *Grammar

	// precCounter increments for each precedence directive group, so
	// later groups bind tighter.
	precCounter int

	diags []Diagnostic
}

// NewBuilder creates a new Builder with an empty Grammar.
func NewBuilder(filename string) *Builder {
	return &Builder{g: NewGrammar(filename)}
}

// Grammar returns the built grammar (even if there are diagnostics).
func (b *Builder) Grammar() *Grammar { return b.g }

// Diagnostics returns all diagnostics collected so far.
func (b *Builder) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), b.diags...) }

// ErrorCount returns the number of error-level diagnostics.
func (b *Builder) ErrorCount() int {
	n := 0
	for _, d := range b.diags {
		if d.Level == DiagError {
			n++
		}
	}
	return n
}

// Error records an error-level diagnostic. Exposed so the parser can
// report syntax errors through the same channel.
func (b *Builder) Error(at *Span, msg string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Level: DiagError,
		Msg:   fmt.Sprintf(msg, args...),
		At:    at,
	})
}

func (b *Builder) warn(at *Span, msg string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Level: DiagWarn,
		Msg:   fmt.Sprintf(msg, args...),
		At:    at,
	})
}

// ---------------------------
// Symbol interning & metadata
// ---------------------------

// Intern gets or creates a symbol with the given name, recording where
// it was first seen.
func (b *Builder) Intern(name string, at *Span) *Symbol {
	name = strings.TrimSpace(name)
	if name == "" {
		b.Error(at, "symbol name is empty")
		name = "<invalid>"
	}
	sym := b.g.Intern(name)
	if sym.DeclaredAt == nil {
		sym.DeclaredAt = at
	}
	return sym
}

// SetStart sets the grammar start symbol.
func (b *Builder) SetStart(sym *Symbol, at *Span) {
	if sym == nil {
		return
	}
	if sym.Kind != SymNonterminal {
		b.Error(at, "start symbol %q must be a nonterminal", sym.Name)
		return
	}
	if b.g.Start != nil && b.g.Start != sym {
		b.warn(at, "start symbol changed from %q to %q", b.g.Start.Name, sym.Name)
	}
	b.g.Start = sym
}

// SetDataType sets the value type for a symbol (%type). If conflicting
// types are applied, an error is recorded and the first wins.
func (b *Builder) SetDataType(sym *Symbol, dataType string, at *Span) {
	if sym == nil {
		return
	}
	dataType = strings.TrimSpace(dataType)
	if dataType == "" {
		return
	}
	if sym.DataType != "" && sym.DataType != dataType {
		b.Error(at, "symbol %q already has type %q; cannot set to %q", sym.Name, sym.DataType, dataType)
		return
	}
	sym.DataType = dataType
}

// SetDestructor attaches destructor code to a symbol.
func (b *Builder) SetDestructor(sym *Symbol, code string, line int, at *Span) {
	if sym == nil {
		return
	}
	if sym.Destructor != "" {
		b.Error(at, "symbol %q already has a destructor", sym.Name)
		return
	}
	sym.Destructor = code
	sym.DestructorLine = line
}

// ---------------------------
// Precedence directives
// ---------------------------

// PrecedenceGroup applies one precedence level and associativity to a
// list of terminals, as in:
//
//	%left PLUS MINUS.
//	%right POW.
func (b *Builder) PrecedenceGroup(assoc Assoc, terminals []*Symbol, at *Span) {
	if assoc == AssocUnknown {
		b.Error(at, "precedence group must have associativity (left/right/nonassoc)")
		return
	}
	b.precCounter++
	level := b.precCounter

	for _, t := range terminals {
		if t == nil {
			continue
		}
		if t.Kind != SymTerminal {
			b.Error(at, "can't assign a precedence to %q; precedence applies to terminals only", t.Name)
			continue
		}
		if t.Prec != NoPrec {
			b.Error(at, "symbol %q has already been given a precedence", t.Name)
			continue
		}
		t.Prec = level
		t.Assoc = assoc
	}
}

// Fallbacks applies a %fallback directive: every token in tokens falls
// back to the first symbol fb when it fails to parse.
func (b *Builder) Fallbacks(fb *Symbol, tokens []*Symbol, at *Span) {
	if fb == nil {
		return
	}
	if fb.Kind != SymTerminal {
		b.Error(at, "fallback symbol %q must be a terminal", fb.Name)
		return
	}
	for _, t := range tokens {
		if t == nil {
			continue
		}
		if t.Kind != SymTerminal {
			b.Error(at, "fallback symbol %q must be a terminal", t.Name)
			continue
		}
		if t.Fallback != nil {
			b.Error(at, "more than one fallback assigned to token %s", t.Name)
			continue
		}
		t.Fallback = fb
		b.g.HasFallback = true
	}
}

// ---------------------------
// Rules
// ---------------------------

// AddRule appends one flattened production. The rule is linked into
// both the global rule list and the per-LHS chain of its LHS, and the
// start symbol is inferred from the first rule if not declared.
func (b *Builder) AddRule(lhs *Symbol, lhsAlias string, rhs []*Symbol, rhsAlias []string, precSym *Symbol, line int, at *Span) *Rule {
	if lhs == nil {
		return nil
	}
	if lhs.Kind != SymNonterminal {
		b.Error(at, "rule LHS %q must be a nonterminal", lhs.Name)
		return nil
	}
	if precSym != nil && precSym.Kind != SymTerminal {
		b.Error(at, "precedence mark %q must be a terminal", precSym.Name)
		precSym = nil
	}
	if len(rhsAlias) != len(rhs) {
		aliases := make([]string, len(rhs))
		copy(aliases, rhsAlias)
		rhsAlias = aliases
	}

	r := &Rule{
		LHS:      lhs,
		LHSAlias: lhsAlias,
		RuleLine: line,
		RHS:      rhs,
		RHSAlias: rhsAlias,
		PrecSym:  precSym,
		Index:    len(b.g.Rules),
	}
	b.g.Rules = append(b.g.Rules, r)
	lhs.Rules = append(lhs.Rules, r)
	return r
}

// AttachCode attaches an action block to the most recent rule.
func (b *Builder) AttachCode(r *Rule, code string, line int, at *Span) {
	if r == nil {
		b.Error(at, "there is no prior rule upon which to attach the code fragment")
		return
	}
	if r.Code != "" {
		b.Error(at, "rule for %q already has code attached", r.LHS.Name)
		return
	}
	r.Code = code
	r.Line = line
}

// AttachPrec attaches an explicit [PREC] mark to the most recent rule.
func (b *Builder) AttachPrec(r *Rule, sym *Symbol, at *Span) {
	if r == nil {
		b.Error(at, "there is no prior rule to assign a precedence to")
		return
	}
	if sym == nil {
		return
	}
	if sym.Kind != SymTerminal {
		b.Error(at, "precedence mark %q must be a terminal", sym.Name)
		return
	}
	if r.PrecSym != nil {
		b.Error(at, "precedence mark on rule for %q is already assigned", r.LHS.Name)
		return
	}
	r.PrecSym = sym
}
