package scanner

import "loxvm/lang/token"

// number scans a decimal literal with an optional fractional part. Lox has a
// single numeric token kind; the compiler parses it to a float64 with
// strconv.ParseFloat.
func (s *Scanner) number(val *token.Value, line int) token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	return s.make(val, token.NUMBER, line)
}
