package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	for lexeme, tok := range Keywords {
		if !tok.IsKeyword() {
			t.Errorf("token for keyword %q is not reported as a keyword", lexeme)
		}
		if tok.String() != lexeme {
			t.Errorf("Keywords[%q] = %v, String() = %q", lexeme, tok, tok.String())
		}
	}
}

func TestGoStringQuotesPunctuation(t *testing.T) {
	if got := MINUS.GoString(); got != "'-'" {
		t.Errorf("MINUS.GoString() = %q, want '-'", got)
	}
	if got := IDENT.GoString(); got != "identifier" {
		t.Errorf("IDENT.GoString() = %q, want identifier", got)
	}
}
