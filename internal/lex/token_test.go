// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenTypeString(t *testing.T) {
	types := []TokenType{
		TOKEN_EOF, TOKEN_ERROR, TOKEN_TERMINAL, TOKEN_NONTERMINAL,
		TOKEN_COLONCOLON_EQ, TOKEN_DOT,
		TOKEN_LPAREN, TOKEN_RPAREN, TOKEN_LBRACKET, TOKEN_RBRACKET,
		TOKEN_DIR_LEFT, TOKEN_DIR_RIGHT, TOKEN_DIR_NONASSOC,
		TOKEN_DIR_TOKEN_TYPE, TOKEN_DIR_TYPE, TOKEN_DIR_START_SYMBOL,
		TOKEN_DIR_NAME, TOKEN_DIR_INCLUDE, TOKEN_DIR_CODE,
		TOKEN_DIR_DEFAULT_TYPE, TOKEN_DIR_EXTRA_ARGUMENT,
		TOKEN_DIR_TOKEN_PREFIX, TOKEN_DIR_FALLBACK,
		TOKEN_DIR_DESTRUCTOR, TOKEN_DIR_SYNTAX_ERROR,
		TOKEN_DIR_PARSE_ACCEPT, TOKEN_DIR_PARSE_FAILURE, TOKEN_DIR_STACK_OVERFLOW,
		TOKEN_CODE_BLOCK, TOKEN_STRING, TOKEN_NUMBER,
	}
	seen := map[string]bool{}
	for _, tt := range types {
		s := tt.String()
		assert.NotEmpty(t, s, "TokenType %d has no name", int(tt))
		assert.False(t, seen[s], "TokenType name %q duplicated", s)
		seen[s] = true
	}
}

func TestTokenTypeIsDirective(t *testing.T) {
	assert.True(t, TOKEN_DIR_LEFT.IsDirective())
	assert.True(t, TOKEN_DIR_GENERIC.IsDirective())
	assert.False(t, TOKEN_TERMINAL.IsDirective())
	assert.False(t, TOKEN_CODE_BLOCK.IsDirective())
}

func TestPositionString(t *testing.T) {
	p := Position{File: "calc.y", Line: 3, Column: 9}
	assert.Equal(t, "calc.y:3:9", p.String())
	assert.False(t, p.IsZero())
	assert.True(t, Position{}.IsZero())
}
