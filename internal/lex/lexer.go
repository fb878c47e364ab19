// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package lex turns a grammar file into a stream of positioned tokens.
// The heavy lifting (identifier classes, %directive keywords, action
// blocks) happens in the scanner; this package maps the scanner's
// token runes onto the parser-facing TokenType values and attaches
// positions and literals.
package lex

import (
	"bytes"
	"fmt"

	"github.com/mdhender/cherimoya/internal/scanner"
)

// directiveTokens maps the scanner's directive runes to token types.
// Directives not in this map are legal to scan but unknown to the
// grammar parser; they come through as TOKEN_DIR_GENERIC and are
// reported there with their spelling intact.
var directiveTokens = map[rune]TokenType{
	scanner.Code:              TOKEN_DIR_CODE,
	scanner.DefaultDestructor: TOKEN_DIR_DEFAULT_DESTRUCTOR,
	scanner.DefaultType:       TOKEN_DIR_DEFAULT_TYPE,
	scanner.Destructor:        TOKEN_DIR_DESTRUCTOR,
	scanner.ExtraArgument:     TOKEN_DIR_EXTRA_ARGUMENT,
	scanner.Fallback:          TOKEN_DIR_FALLBACK,
	scanner.Include:           TOKEN_DIR_INCLUDE,
	scanner.Left:              TOKEN_DIR_LEFT,
	scanner.Name:              TOKEN_DIR_NAME,
	scanner.NonAssoc:          TOKEN_DIR_NONASSOC,
	scanner.ParseAccept:       TOKEN_DIR_PARSE_ACCEPT,
	scanner.ParseFailure:      TOKEN_DIR_PARSE_FAILURE,
	scanner.Right:             TOKEN_DIR_RIGHT,
	scanner.StackOverflow:     TOKEN_DIR_STACK_OVERFLOW,
	scanner.StackSize:         TOKEN_DIR_STACK_SIZE,
	scanner.StartSymbol:       TOKEN_DIR_START_SYMBOL,
	scanner.SyntaxError:       TOKEN_DIR_SYNTAX_ERROR,
	scanner.TokenDestructor:   TOKEN_DIR_TOKEN_DESTRUCTOR,
	scanner.TokenPrefix:       TOKEN_DIR_TOKEN_PREFIX,
	scanner.TokenType:         TOKEN_DIR_TOKEN_TYPE,
	scanner.Type:              TOKEN_DIR_TYPE,
}

// Tokenize scans the source and returns all tokens including a final
// TOKEN_EOF. The filename is used only for Position fields in the
// returned tokens. Scanner-level errors (unterminated actions or
// strings, illegal encodings) are returned after the token slice so
// the caller can report them with positions.
func Tokenize(filename string, src []byte) (tokens []Token, err error) {
	s := &scanner.Scanner{Mode: scanner.DefaultTokens}
	if _, err = s.Init(bytes.NewReader(src)); err != nil {
		return nil, err
	}
	s.Filename = filename

	for ch := s.Scan(); ch != scanner.EOF; ch = s.Scan() {
		tok := Token{
			Literal: s.TokenText(),
			Pos:     Position{File: filename, Line: s.Line, Column: s.Column},
		}
		switch ch {
		case scanner.Terminal:
			tok.Type = TOKEN_TERMINAL
		case scanner.NonTerminal, scanner.Ident:
			tok.Type = TOKEN_NONTERMINAL
		case scanner.Is:
			tok.Type = TOKEN_COLONCOLON_EQ
			tok.Literal = "::="
		case scanner.Action:
			tok.Type = TOKEN_CODE_BLOCK
		case scanner.String:
			tok.Type = TOKEN_STRING
		case scanner.Int:
			tok.Type = TOKEN_NUMBER
		case '.':
			tok.Type = TOKEN_DOT
		case '(':
			tok.Type = TOKEN_LPAREN
		case ')':
			tok.Type = TOKEN_RPAREN
		case '[':
			tok.Type = TOKEN_LBRACKET
		case ']':
			tok.Type = TOKEN_RBRACKET
		default:
			if tt, ok := directiveTokens[ch]; ok {
				tok.Type = tt
			} else if ch == scanner.Directive || ch < 0 {
				tok.Type = TOKEN_DIR_GENERIC
			} else {
				tok.Type = TOKEN_ERROR
			}
		}
		tokens = append(tokens, tok)
	}
	tokens = append(tokens, Token{Type: TOKEN_EOF, Pos: Position{File: filename, Line: s.Line, Column: s.Column}})

	if s.ErrorCount > 0 {
		return tokens, fmt.Errorf("%s: %d scan errors:\n%s", filename, s.ErrorCount, s.ErrorLog.String())
	}
	return tokens, nil
}
