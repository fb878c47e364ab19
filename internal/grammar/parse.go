// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package grammar

import (
	"strings"

	"github.com/mdhender/cherimoya/internal/lex"
)

// Parse tokenizes and parses a grammar file, returning the Builder so
// callers can inspect diagnostics alongside the grammar. Scan-level
// errors are folded into the builder's diagnostics.
func Parse(filename string, src []byte) *Builder {
	b := NewBuilder(filename)
	tokens, err := lex.Tokenize(filename, src)
	if err != nil {
		b.Error(nil, "%v", err)
	}
	if len(tokens) == 0 {
		return b
	}
	p := &parser{b: b, toks: tokens}
	p.run()
	return b
}

// parser is a straightforward one-token-lookahead walk over the token
// stream. Rules and directives are statements; code blocks and [PREC]
// marks at statement level attach to the most recent rule.
type parser struct {
	b    *Builder
	toks []lex.Token
	pos  int

	lastRule *Rule
}

func (p *parser) peek() lex.Token { return p.toks[p.pos] }

func (p *parser) next() lex.Token {
	t := p.toks[p.pos]
	if t.Type != lex.TOKEN_EOF {
		p.pos++
	}
	return t
}

func (p *parser) at(t lex.Token) *Span {
	return &Span{File: t.Pos.File, Line: t.Pos.Line, Column: t.Pos.Column}
}

// skipStatement advances past the current statement after a syntax
// error: everything up to and including the next DOT, or up to the
// next directive or EOF.
func (p *parser) skipStatement() {
	for {
		t := p.peek()
		if t.Type == lex.TOKEN_EOF || t.Type.IsDirective() {
			return
		}
		p.next()
		if t.Type == lex.TOKEN_DOT {
			return
		}
	}
}

func (p *parser) run() {
	for {
		t := p.peek()
		switch {
		case t.Type == lex.TOKEN_EOF:
			return
		case t.Type == lex.TOKEN_NONTERMINAL:
			p.parseRule()
		case t.Type == lex.TOKEN_CODE_BLOCK:
			p.next()
			p.b.AttachCode(p.lastRule, codeText(t), t.Pos.Line, p.at(t))
		case t.Type == lex.TOKEN_LBRACKET:
			p.parseRulePrec()
		case t.Type.IsDirective():
			p.parseDirective()
		case t.Type == lex.TOKEN_TERMINAL:
			p.b.Error(p.at(t), "rule LHS %q must be a nonterminal", t.Literal)
			p.next()
			p.skipStatement()
		default:
			p.b.Error(p.at(t), "unexpected token %q", t.Literal)
			p.next()
		}
	}
}

// parseRule handles: lhs(ALIAS)? ::= (sym(ALIAS)?)* . with the
// optional [PREC] mark and {code} block picked up afterwards at
// statement level.
func (p *parser) parseRule() {
	lhsTok := p.next()
	lhs := p.b.Intern(lhsTok.Literal, p.at(lhsTok))
	lhsAlias := p.parseAlias()

	if t := p.peek(); t.Type != lex.TOKEN_COLONCOLON_EQ {
		p.b.Error(p.at(t), "expected \"::=\" after rule LHS %q", lhs.Name)
		p.skipStatement()
		return
	}
	p.next()

	var rhs []*Symbol
	var aliases []string
	for {
		t := p.peek()
		if t.Type != lex.TOKEN_TERMINAL && t.Type != lex.TOKEN_NONTERMINAL {
			break
		}
		p.next()
		rhs = append(rhs, p.b.Intern(t.Literal, p.at(t)))
		aliases = append(aliases, p.parseAlias())
	}

	if t := p.peek(); t.Type != lex.TOKEN_DOT {
		p.b.Error(p.at(t), "expected \".\" at the end of the rule for %q", lhs.Name)
		p.skipStatement()
		return
	}
	p.next()

	p.lastRule = p.b.AddRule(lhs, lhsAlias, rhs, aliases, nil, lhsTok.Pos.Line, p.at(lhsTok))
}

// parseAlias handles an optional "(name)" following a symbol.
func (p *parser) parseAlias() string {
	if p.peek().Type != lex.TOKEN_LPAREN {
		return ""
	}
	open := p.next()
	t := p.peek()
	if t.Type != lex.TOKEN_TERMINAL && t.Type != lex.TOKEN_NONTERMINAL {
		p.b.Error(p.at(open), "expected an alias name after \"(\"")
		return ""
	}
	p.next()
	if c := p.peek(); c.Type != lex.TOKEN_RPAREN {
		p.b.Error(p.at(c), "expected \")\" to close alias %q", t.Literal)
	} else {
		p.next()
	}
	return t.Literal
}

// parseRulePrec handles a statement-level "[TERMINAL]" precedence mark.
func (p *parser) parseRulePrec() {
	open := p.next()
	t := p.peek()
	if t.Type != lex.TOKEN_TERMINAL && t.Type != lex.TOKEN_NONTERMINAL {
		p.b.Error(p.at(open), "expected a symbol name inside \"[...]\"")
		p.skipStatement()
		return
	}
	p.next()
	sym := p.b.Intern(t.Literal, p.at(t))
	if c := p.peek(); c.Type != lex.TOKEN_RBRACKET {
		p.b.Error(p.at(c), "expected \"]\" after precedence mark %q", t.Literal)
	} else {
		p.next()
	}
	p.b.AttachPrec(p.lastRule, sym, p.at(t))
}

func (p *parser) parseDirective() {
	d := p.next()
	at := p.at(d)
	g := p.b.Grammar()

	switch d.Type {
	case lex.TOKEN_DIR_LEFT, lex.TOKEN_DIR_RIGHT, lex.TOKEN_DIR_NONASSOC:
		assoc := AssocLeft
		if d.Type == lex.TOKEN_DIR_RIGHT {
			assoc = AssocRight
		} else if d.Type == lex.TOKEN_DIR_NONASSOC {
			assoc = AssocNonassoc
		}
		syms := p.symbolListArg(d)
		if len(syms) == 0 {
			p.b.Error(at, "%s requires at least one terminal", d.Literal)
			return
		}
		p.b.PrecedenceGroup(assoc, syms, at)

	case lex.TOKEN_DIR_START_SYMBOL:
		if name, ok := p.identArg(d); ok {
			p.b.SetStart(p.b.Intern(name, at), at)
		}

	case lex.TOKEN_DIR_FALLBACK:
		syms := p.symbolListArg(d)
		if len(syms) < 2 {
			p.b.Error(at, "%%fallback requires a fallback token and at least one token")
			return
		}
		p.b.Fallbacks(syms[0], syms[1:], at)

	case lex.TOKEN_DIR_TOKEN_TYPE:
		if v, ok := p.valueArg(d); ok {
			g.TokenType = v
		}
	case lex.TOKEN_DIR_DEFAULT_TYPE:
		if v, ok := p.valueArg(d); ok {
			g.VarType = v
		}

	case lex.TOKEN_DIR_TYPE:
		name, ok := p.identArg(d)
		if !ok {
			return
		}
		sym := p.b.Intern(name, at)
		if v, ok := p.valueArg(d); ok {
			p.b.SetDataType(sym, v, at)
		}

	case lex.TOKEN_DIR_DESTRUCTOR:
		name, ok := p.identArg(d)
		if !ok {
			return
		}
		sym := p.b.Intern(name, at)
		if code, line, ok := p.codeArg(d); ok {
			p.b.SetDestructor(sym, code, line, at)
		}
	case lex.TOKEN_DIR_TOKEN_DESTRUCTOR:
		if code, line, ok := p.codeArg(d); ok {
			g.TokenDest, g.TokenDestLine = code, line
		}
	case lex.TOKEN_DIR_DEFAULT_DESTRUCTOR:
		if code, line, ok := p.codeArg(d); ok {
			g.VarDest, g.VarDestLine = code, line
		}

	case lex.TOKEN_DIR_INCLUDE:
		if code, line, ok := p.codeArg(d); ok {
			if g.Include == "" {
				g.IncludeLine = line
			}
			g.Include += code
		}
	case lex.TOKEN_DIR_CODE:
		if code, line, ok := p.codeArg(d); ok {
			if g.ExtraCode == "" {
				g.ExtraCodeLine = line
			}
			g.ExtraCode += code
		}

	case lex.TOKEN_DIR_NAME:
		if name, ok := p.identArg(d); ok {
			g.Name = name
		}
	case lex.TOKEN_DIR_TOKEN_PREFIX:
		if name, ok := p.identArg(d); ok {
			g.TokenPrefix = name
		}
	case lex.TOKEN_DIR_EXTRA_ARGUMENT:
		if v, ok := p.valueArg(d); ok {
			g.Arg = v
		}
	case lex.TOKEN_DIR_STACK_SIZE:
		t := p.peek()
		if t.Type != lex.TOKEN_NUMBER {
			p.b.Error(at, "%%stack_size requires an integer argument")
			return
		}
		p.next()
		g.StackSize = t.Literal
		p.optionalDot()

	case lex.TOKEN_DIR_SYNTAX_ERROR:
		if code, line, ok := p.codeArg(d); ok {
			g.SyntaxError, g.SynErrLine = code, line
		}
	case lex.TOKEN_DIR_PARSE_ACCEPT:
		if code, line, ok := p.codeArg(d); ok {
			g.Accept, g.AcceptLine = code, line
		}
	case lex.TOKEN_DIR_PARSE_FAILURE:
		if code, line, ok := p.codeArg(d); ok {
			g.Failure, g.FailureLine = code, line
		}
	case lex.TOKEN_DIR_STACK_OVERFLOW:
		if code, line, ok := p.codeArg(d); ok {
			g.Overflow, g.OverflowLine = code, line
		}

	default:
		p.b.Error(at, "unknown declaration keyword %q", d.Literal)
		p.skipStatement()
	}
}

// symbolListArg collects symbol names up to and including the
// terminating DOT.
func (p *parser) symbolListArg(d lex.Token) []*Symbol {
	var syms []*Symbol
	for {
		t := p.peek()
		if t.Type == lex.TOKEN_TERMINAL || t.Type == lex.TOKEN_NONTERMINAL {
			p.next()
			syms = append(syms, p.b.Intern(t.Literal, p.at(t)))
			continue
		}
		if t.Type == lex.TOKEN_DOT {
			p.next()
		} else {
			p.b.Error(p.at(t), "expected \".\" to end the %s list", d.Literal)
		}
		return syms
	}
}

// identArg consumes one identifier argument plus an optional DOT.
func (p *parser) identArg(d lex.Token) (string, bool) {
	t := p.peek()
	if t.Type != lex.TOKEN_TERMINAL && t.Type != lex.TOKEN_NONTERMINAL {
		p.b.Error(p.at(d), "%s requires a symbol name", d.Literal)
		return "", false
	}
	p.next()
	p.optionalDot()
	return t.Literal, true
}

// valueArg consumes one {block}, "string", or identifier argument.
func (p *parser) valueArg(d lex.Token) (string, bool) {
	t := p.peek()
	switch t.Type {
	case lex.TOKEN_CODE_BLOCK:
		p.next()
		p.optionalDot()
		return codeText(t), true
	case lex.TOKEN_STRING:
		p.next()
		p.optionalDot()
		return strings.Trim(t.Literal, `"`), true
	case lex.TOKEN_TERMINAL, lex.TOKEN_NONTERMINAL:
		p.next()
		p.optionalDot()
		return t.Literal, true
	}
	p.b.Error(p.at(d), "%s requires an argument", d.Literal)
	return "", false
}

// codeArg consumes one {block} argument and reports its starting line.
func (p *parser) codeArg(d lex.Token) (string, int, bool) {
	t := p.peek()
	if t.Type != lex.TOKEN_CODE_BLOCK {
		p.b.Error(p.at(d), "%s requires a code block", d.Literal)
		return "", 0, false
	}
	p.next()
	p.optionalDot()
	return codeText(t), t.Pos.Line, true
}

func (p *parser) optionalDot() {
	if p.peek().Type == lex.TOKEN_DOT {
		p.next()
	}
}

// codeText strips the enclosing braces from a code block literal.
func codeText(t lex.Token) string {
	s := t.Literal
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		s = s[1 : len(s)-1]
	}
	return strings.Trim(s, "\n")
}
