// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner tokenizes Lox source for the compiler to consume. It
// exposes a stateful token stream producing (kind, lexeme, line) triples; it
// is specified only by its token vocabulary, so its internals here are an
// implementation choice, built in the idiom of the larger module.
package scanner

import (
	"fmt"
	goscanner "go/scanner"
	gotoken "go/token"

	"loxvm/lang/token"
)

type (
	// Error is a single scan or compile error with a resolved source position.
	Error = goscanner.Error
	// ErrorList collects and sorts Errors, matching the standard library's
	// go/scanner error aggregation so callers get stable, de-duplicated output.
	ErrorList = goscanner.ErrorList
)

// PrintError prints a list (or single) error to w, one per line.
var PrintError = goscanner.PrintError

// Scanner tokenizes a single source buffer for the parser to consume.
type Scanner struct {
	filename string
	src      []byte
	err      func(pos gotoken.Position, msg string)

	start int // byte offset of the token currently being scanned
	off   int // byte offset of cur
	roff  int // byte offset following cur
	cur   byte
	line  int
}

// Init prepares s to scan src. filename is used only to annotate errors.
func (s *Scanner) Init(filename string, src []byte, errHandler func(gotoken.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler
	s.off = 0
	s.roff = 0
	s.line = 1
	s.cur = 0
	if len(src) > 0 {
		s.cur = src[0]
		s.roff = 1
	}
}

func (s *Scanner) error(line int, msg string) {
	if s.err != nil {
		s.err(gotoken.Position{Filename: s.filename, Line: line}, msg)
	}
}

func (s *Scanner) errorf(line int, format string, args ...any) {
	s.error(line, fmt.Sprintf(format, args...))
}

func (s *Scanner) atEnd() bool { return s.off >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.cur
}

func (s *Scanner) peekNext() byte {
	if s.roff >= len(s.src) {
		return 0
	}
	return s.src[s.roff]
}

// advance consumes the current byte and returns it.
func (s *Scanner) advance() byte {
	c := s.cur
	s.off = s.roff
	if s.off < len(s.src) {
		s.cur = s.src[s.off]
		s.roff = s.off + 1
	} else {
		s.cur = 0
	}
	return c
}

// advanceIf consumes the current byte if it matches want.
func (s *Scanner) advanceIf(want byte) bool {
	if s.atEnd() || s.cur != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

// Scan returns the next token in the source, along with its value.
func (s *Scanner) Scan(val *token.Value) token.Token {
	s.skipWhitespace()
	s.start = s.off
	startLine := s.line

	if s.atEnd() {
		*val = token.Value{Pos: token.MakePos(startLine, 1), Raw: ""}
		return token.EOF
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier(val, startLine)
	case isDigit(c):
		return s.number(val, startLine)
	}

	switch c {
	case '(':
		return s.make(val, token.LPAREN, startLine)
	case ')':
		return s.make(val, token.RPAREN, startLine)
	case '{':
		return s.make(val, token.LBRACE, startLine)
	case '}':
		return s.make(val, token.RBRACE, startLine)
	case ',':
		return s.make(val, token.COMMA, startLine)
	case '.':
		return s.make(val, token.DOT, startLine)
	case '-':
		return s.make(val, token.MINUS, startLine)
	case '+':
		return s.make(val, token.PLUS, startLine)
	case ';':
		return s.make(val, token.SEMI, startLine)
	case '*':
		return s.make(val, token.STAR, startLine)
	case '/':
		return s.make(val, token.SLASH, startLine)
	case '!':
		if s.advanceIf('=') {
			return s.make(val, token.BANG_EQ, startLine)
		}
		return s.make(val, token.BANG, startLine)
	case '=':
		if s.advanceIf('=') {
			return s.make(val, token.EQ_EQ, startLine)
		}
		return s.make(val, token.EQ, startLine)
	case '<':
		if s.advanceIf('=') {
			return s.make(val, token.LT_EQ, startLine)
		}
		return s.make(val, token.LT, startLine)
	case '>':
		if s.advanceIf('=') {
			return s.make(val, token.GT_EQ, startLine)
		}
		return s.make(val, token.GT, startLine)
	case '"':
		return s.string(val, startLine)
	}

	s.errorf(startLine, "unexpected character %q", c)
	*val = token.Value{Pos: token.MakePos(startLine, 1), Raw: string(c)}
	return token.ILLEGAL
}

func (s *Scanner) make(val *token.Value, tok token.Token, line int) token.Token {
	*val = token.Value{Pos: token.MakePos(line, 1), Raw: string(s.src[s.start:s.off])}
	return tok
}

func (s *Scanner) identifier(val *token.Value, line int) token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lit := string(s.src[s.start:s.off])
	*val = token.Value{Pos: token.MakePos(line, 1), Raw: lit}
	if tok, ok := token.Keywords[lit]; ok {
		return tok
	}
	return token.IDENT
}

func isAlpha(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
