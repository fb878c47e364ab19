// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lex

import "fmt"

// Position records where a token was found in the source.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) IsZero() bool { return p == Position{} }

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// TokenType classifies a token.
type TokenType int

const (
	// Special
	TOKEN_EOF   TokenType = iota
	TOKEN_ERROR           // lexer error

	// Identifiers
	TOKEN_TERMINAL    // UPPER_CASE identifier (e.g., PLUS, INTEGER)
	TOKEN_NONTERMINAL // lower_case identifier (e.g., expr, stmt)

	// Punctuation
	TOKEN_COLONCOLON_EQ // ::=
	TOKEN_DOT           // . (rule terminator)
	TOKEN_LPAREN        // ( (alias open)
	TOKEN_RPAREN        // )
	TOKEN_LBRACKET      // [ (precedence mark open)
	TOKEN_RBRACKET      // ]

	// Directives
	TOKEN_DIR_CODE               // %code
	TOKEN_DIR_DEFAULT_DESTRUCTOR // %default_destructor
	TOKEN_DIR_DEFAULT_TYPE       // %default_type
	TOKEN_DIR_DESTRUCTOR         // %destructor
	TOKEN_DIR_EXTRA_ARGUMENT     // %extra_argument
	TOKEN_DIR_FALLBACK           // %fallback
	TOKEN_DIR_INCLUDE            // %include
	TOKEN_DIR_LEFT               // %left
	TOKEN_DIR_NAME               // %name
	TOKEN_DIR_NONASSOC           // %nonassoc
	TOKEN_DIR_PARSE_ACCEPT       // %parse_accept
	TOKEN_DIR_PARSE_FAILURE      // %parse_failure
	TOKEN_DIR_RIGHT              // %right
	TOKEN_DIR_STACK_OVERFLOW     // %stack_overflow
	TOKEN_DIR_STACK_SIZE         // %stack_size
	TOKEN_DIR_START_SYMBOL       // %start_symbol
	TOKEN_DIR_SYNTAX_ERROR       // %syntax_error
	TOKEN_DIR_TOKEN_DESTRUCTOR   // %token_destructor
	TOKEN_DIR_TOKEN_PREFIX       // %token_prefix
	TOKEN_DIR_TOKEN_TYPE         // %token_type
	TOKEN_DIR_TYPE               // %type
	TOKEN_DIR_GENERIC            // any other %directive

	// Code blocks
	TOKEN_CODE_BLOCK // { ... } including the braces

	// Quoted strings
	TOKEN_STRING // "quoted string"

	// Integers (only used by %stack_size)
	TOKEN_NUMBER
)

var tokenTypeNames = map[TokenType]string{
	TOKEN_EOF:                    "EOF",
	TOKEN_ERROR:                  "ERROR",
	TOKEN_TERMINAL:               "TERMINAL",
	TOKEN_NONTERMINAL:            "NONTERMINAL",
	TOKEN_COLONCOLON_EQ:          "COLONCOLON_EQ",
	TOKEN_DOT:                    "DOT",
	TOKEN_LPAREN:                 "LPAREN",
	TOKEN_RPAREN:                 "RPAREN",
	TOKEN_LBRACKET:               "LBRACKET",
	TOKEN_RBRACKET:               "RBRACKET",
	TOKEN_DIR_CODE:               "DIR_CODE",
	TOKEN_DIR_DEFAULT_DESTRUCTOR: "DIR_DEFAULT_DESTRUCTOR",
	TOKEN_DIR_DEFAULT_TYPE:       "DIR_DEFAULT_TYPE",
	TOKEN_DIR_DESTRUCTOR:         "DIR_DESTRUCTOR",
	TOKEN_DIR_EXTRA_ARGUMENT:     "DIR_EXTRA_ARGUMENT",
	TOKEN_DIR_FALLBACK:           "DIR_FALLBACK",
	TOKEN_DIR_INCLUDE:            "DIR_INCLUDE",
	TOKEN_DIR_LEFT:               "DIR_LEFT",
	TOKEN_DIR_NAME:               "DIR_NAME",
	TOKEN_DIR_NONASSOC:           "DIR_NONASSOC",
	TOKEN_DIR_PARSE_ACCEPT:       "DIR_PARSE_ACCEPT",
	TOKEN_DIR_PARSE_FAILURE:      "DIR_PARSE_FAILURE",
	TOKEN_DIR_RIGHT:              "DIR_RIGHT",
	TOKEN_DIR_STACK_OVERFLOW:     "DIR_STACK_OVERFLOW",
	TOKEN_DIR_STACK_SIZE:         "DIR_STACK_SIZE",
	TOKEN_DIR_START_SYMBOL:       "DIR_START_SYMBOL",
	TOKEN_DIR_SYNTAX_ERROR:       "DIR_SYNTAX_ERROR",
	TOKEN_DIR_TOKEN_DESTRUCTOR:   "DIR_TOKEN_DESTRUCTOR",
	TOKEN_DIR_TOKEN_PREFIX:       "DIR_TOKEN_PREFIX",
	TOKEN_DIR_TOKEN_TYPE:         "DIR_TOKEN_TYPE",
	TOKEN_DIR_TYPE:               "DIR_TYPE",
	TOKEN_DIR_GENERIC:            "DIR_GENERIC",
	TOKEN_CODE_BLOCK:             "CODE_BLOCK",
	TOKEN_STRING:                 "STRING",
	TOKEN_NUMBER:                 "NUMBER",
}

func (tt TokenType) String() string {
	if s, ok := tokenTypeNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsDirective reports whether tt is one of the %directive tokens.
func (tt TokenType) IsDirective() bool {
	return TOKEN_DIR_CODE <= tt && tt <= TOKEN_DIR_GENERIC
}

// Token is a single lexical unit from a Cherimoya grammar file.
type Token struct {
	Type    TokenType
	Literal string   // the raw text
	Pos     Position // where it appeared
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
