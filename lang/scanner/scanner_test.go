package scanner_test

import (
	gotoken "go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"loxvm/lang/scanner"
	"loxvm/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []string) {
	t.Helper()

	var s scanner.Scanner
	var errs []string
	s.Init("test", []byte(src), func(pos gotoken.Position, msg string) {
		errs = append(errs, msg)
	})

	var toks []token.Token
	var val token.Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, tok)
		if tok == token.EOF {
			break
		}
	}
	return toks, errs
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*/! != = == < <= > >=")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.MINUS, token.PLUS, token.SEMI, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ,
		token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.EOF,
	}, toks)
}

func TestScanKeywordsAndIdent(t *testing.T) {
	toks, errs := scanAll(t, "and class myVar1 while")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.AND, token.CLASS, token.IDENT, token.WHILE, token.EOF}, toks)
}

func TestScanNumber(t *testing.T) {
	var s scanner.Scanner
	s.Init("test", []byte("1 2.5"), nil)

	var val token.Value
	tok := s.Scan(&val)
	require.Equal(t, token.NUMBER, tok)
	require.Equal(t, "1", val.Raw)

	tok = s.Scan(&val)
	require.Equal(t, token.NUMBER, tok)
	require.Equal(t, "2.5", val.Raw)
}

func TestScanString(t *testing.T) {
	var s scanner.Scanner
	s.Init("test", []byte(`"hello world"`), nil)

	var val token.Value
	tok := s.Scan(&val)
	require.Equal(t, token.STRING, tok)
	require.Equal(t, `"hello world"`, val.Raw)
}

func TestScanUnterminatedString(t *testing.T) {
	toks, errs := scanAll(t, `"oops`)
	require.NotEmpty(t, errs)
	require.Equal(t, []token.Token{token.ILLEGAL, token.EOF}, toks)
}

func TestScanLineComment(t *testing.T) {
	toks, errs := scanAll(t, "1 // a comment\n2")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.NUMBER, token.NUMBER, token.EOF}, toks)
}

func TestScanLineTracking(t *testing.T) {
	var s scanner.Scanner
	s.Init("test", []byte("1\n2\n\n3"), nil)

	var val token.Value
	for _, want := range []int{1, 2, 4} {
		tok := s.Scan(&val)
		require.Equal(t, token.NUMBER, tok)
		require.Equal(t, want, val.Line())
	}
}
