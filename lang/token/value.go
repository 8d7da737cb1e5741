package token

// Value carries the payload scanned alongside a Token: its source position
// and the literal lexeme (raw source text) it was scanned from. Numbers and
// strings are parsed from Raw by the compiler, not by the scanner.
type Value struct {
	Pos Pos
	Raw string
}

// Line returns the 1-based source line the value was scanned on.
func (v Value) Line() int {
	line, _ := v.Pos.LineCol()
	return line
}
