// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package grammar

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/mdhender/cherimoya/internal/bitset"
)

// SymbolKind distinguishes terminals vs nonterminals. The kind of a
// symbol is decided by the spelling of its name: a name beginning with
// an uppercase letter is a terminal, everything else is a nonterminal.
type SymbolKind uint8

const (
	SymTerminal SymbolKind = iota + 1
	SymNonterminal
)

func (k SymbolKind) String() string {
	switch k {
	case SymTerminal:
		return "terminal"
	case SymNonterminal:
		return "nonterminal"
	}
	return "unknown"
}

// Assoc is operator associativity for precedence handling.
type Assoc uint8

const (
	AssocUnknown Assoc = iota
	AssocLeft
	AssocRight
	AssocNonassoc
)

// NoPrec marks a symbol or rule without declared precedence.
const NoPrec = -1

// Symbol is a named grammar symbol (terminal or nonterminal).
// Terminals and nonterminals share one namespace.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Index is the stable index assigned after symbol sorting:
	// "$" is 0, terminals fill [1, nterminal), then nonterminals,
	// then the synthetic "{default}" symbol last.
	Index int

	// Rules collects the rules having this symbol as LHS, in source
	// order. Only meaningful for nonterminals.
	Rules []*Rule

	// Fallback is the token this token falls back to when the parser
	// cannot shift it (%fallback). Terminal to terminal only.
	Fallback *Symbol

	// Prec is NoPrec until a %left/%right/%nonassoc group assigns a
	// level; higher binds tighter.
	Prec  int
	Assoc Assoc

	// FirstSet and Lambda are filled in by the analysis phases.
	// FirstSet is nil until first-set computation runs.
	FirstSet *bitset.Set
	Lambda   bool

	// Destructor is user code run when this symbol is popped during
	// error processing (%destructor).
	Destructor     string
	DestructorLine int

	// DataType is the value type declared with %type; %default_type
	// is kept in Grammar.VarType instead. DataTypeNum is not assigned
	// by the parser or the analysis phases and stays zero.
	DataType    string
	DataTypeNum int

	// DeclaredAt is optional, but very useful for error messages.
	DeclaredAt *Span
}

// Rule is one production: LHS ::= RHS1 RHS2 ... .
// Alternatives in the grammar file are flattened, one Rule each.
type Rule struct {
	LHS      *Symbol
	LHSAlias string // alias for the LHS (empty if none)
	RuleLine int    // line number of the rule itself

	RHS      []*Symbol
	RHSAlias []string // one per RHS symbol; empty string if none

	// Code is the user action run when the rule is reduced, and Line
	// the line its block starts on.
	Code string
	Line int

	// PrecSym is the explicit [PREC] override; when nil the rule's
	// precedence is inferred from its RHS terminals.
	PrecSym *Symbol

	// Index is assigned in grammar-source order starting at 0.
	Index int

	// CanReduce is set during action construction if the rule is
	// ever reduced.
	CanReduce bool
}

// Span identifies a location in the source grammar file for diagnostics.
type Span struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

// Grammar is the in-memory representation of a grammar file plus the
// directive payloads the emitter splices into the driver template.
type Grammar struct {
	Filename string

	// Name is the parser name (%name); it replaces the "Parse" prefix
	// in the driver template.
	Name string

	// Start is the start symbol (%start_symbol). If nil, the LHS of
	// the first rule is used.
	Start *Symbol

	// Rules in source order.
	Rules []*Rule

	// ErrSym is the pre-created "error" symbol.
	ErrSym *Symbol

	// HasFallback is set when any %fallback directive is seen.
	HasFallback bool

	// Directive payloads; the *Line fields record where each code
	// block started for line-directive emission.
	TokenType     string
	VarType       string
	TokenPrefix   string
	Arg           string
	StackSize     string
	Include       string
	IncludeLine   int
	ExtraCode     string
	ExtraCodeLine int
	TokenDest     string
	TokenDestLine int
	VarDest       string
	VarDestLine   int
	SyntaxError   string
	SynErrLine    int
	Failure       string
	FailureLine   int
	Accept        string
	AcceptLine    int
	Overflow      string
	OverflowLine  int

	// syms interns symbols by name in creation order. "$" is created
	// first, then "error"; everything else in order of first mention.
	syms *linkedhashmap.Map
}

// NewGrammar creates an empty grammar with the "$" and "error"
// symbols pre-created, in that order.
func NewGrammar(filename string) *Grammar {
	g := &Grammar{
		Filename: filename,
		syms:     linkedhashmap.New(),
	}
	g.Intern("$")
	g.ErrSym = g.Intern("error")
	return g
}

// KindOf reports the symbol kind implied by a name's spelling.
func KindOf(name string) SymbolKind {
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return SymTerminal
	}
	return SymNonterminal
}

// Intern gets or creates the symbol with the given name. The kind is
// derived from the spelling, so repeated mentions always agree.
func (g *Grammar) Intern(name string) *Symbol {
	if v, ok := g.syms.Get(name); ok {
		return v.(*Symbol)
	}
	sym := &Symbol{
		Name: name,
		Kind: KindOf(name),
		Prec: NoPrec,
	}
	g.syms.Put(name, sym)
	return sym
}

// Lookup returns the symbol with the given name, or nil.
func (g *Grammar) Lookup(name string) *Symbol {
	if v, ok := g.syms.Get(name); ok {
		return v.(*Symbol)
	}
	return nil
}

// SymbolCount returns the number of interned symbols.
func (g *Grammar) SymbolCount() int { return g.syms.Size() }

// SymbolList returns the interned symbols in creation order.
func (g *Grammar) SymbolList() []*Symbol {
	out := make([]*Symbol, 0, g.syms.Size())
	it := g.syms.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Symbol))
	}
	return out
}

// StartSymbol resolves the effective start symbol: the %start_symbol
// declaration if present, otherwise the LHS of the first rule.
func (g *Grammar) StartSymbol() *Symbol {
	if g.Start != nil {
		return g.Start
	}
	if len(g.Rules) > 0 {
		return g.Rules[0].LHS
	}
	return nil
}
