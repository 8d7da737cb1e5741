package token

import "testing"

func TestPosLineCol(t *testing.T) {
	p := MakePos(42, 7)
	line, col := p.LineCol()
	if line != 42 || col != 7 {
		t.Errorf("LineCol() = (%d, %d), want (42, 7)", line, col)
	}
}

func TestPosUnknown(t *testing.T) {
	if !(Pos(0)).Unknown() {
		t.Errorf("zero Pos should be unknown")
	}
	if MakePos(1, 1).Unknown() {
		t.Errorf("MakePos(1,1) should be known")
	}
}
