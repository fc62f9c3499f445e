package gui

import (
	"testing"

	"github.com/notnil/chess"
)

func uciGame(t *testing.T, moves ...string) *chess.Game {
	t.Helper()
	g := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	for _, m := range moves {
		if err := g.MoveStr(m); err != nil {
			t.Fatalf("move %q: %v", m, err)
		}
	}
	return g
}

func TestParseMove(t *testing.T) {
	pos := chess.NewGame().Position()
	tests := []struct {
		input string
		want  string
	}{
		{"e2e4", "e2e4"},
		{"e4", "e2e4"},
		{"Nf3", "g1f3"},
		{"1. e4", "e2e4"},
		{"1.e4", "e2e4"},
		{"  e4  ", "e2e4"},
	}
	for _, tt := range tests {
		move, err := ParseMove(tt.input, pos)
		if err != nil {
			t.Errorf("ParseMove(%q): %v", tt.input, err)
			continue
		}
		if move.String() != tt.want {
			t.Errorf("ParseMove(%q) = %s, want %s", tt.input, move, tt.want)
		}
	}
}

func TestParseMoveErrors(t *testing.T) {
	pos := chess.NewGame().Position()
	for _, input := range []string{"", "   ", "zz9", "e2e5", "1."} {
		if _, err := ParseMove(input, pos); err == nil {
			t.Errorf("ParseMove(%q) succeeded, want error", input)
		}
	}
}

func TestGameFromFEN(t *testing.T) {
	orig := uciGame(t, "e2e4", "c7c5")
	snap, err := GameFromFEN(orig.FEN())
	if err != nil {
		t.Fatalf("GameFromFEN: %v", err)
	}
	if snap.Position().String() != orig.Position().String() {
		t.Error("snapshot position differs from original")
	}
	if _, err := GameFromFEN("not a fen"); err == nil {
		t.Error("bad fen should fail")
	}
}

func TestInCheck(t *testing.T) {
	if inCheck(chess.NewGame()) {
		t.Error("starting position is not check")
	}
	if inCheck(uciGame(t, "e2e4", "e7e5")) {
		t.Error("1. e4 e5 is not check")
	}
	if !inCheck(uciGame(t, "f2f3", "e7e5", "g2g4", "d8h4")) {
		t.Error("fool's mate should read as check")
	}
}

func TestKingSquare(t *testing.T) {
	g := chess.NewGame()
	if sq := kingSquare(g, chess.White); sq != chess.E1 {
		t.Errorf("white king at %s", sq)
	}
	if sq := kingSquare(g, chess.Black); sq != chess.E8 {
		t.Errorf("black king at %s", sq)
	}
}

func TestMovesText(t *testing.T) {
	g := uciGame(t, "e2e4", "e7e5", "g1f3")
	if got := movesText(g, 7); got != "1. e4 e5\n2. Nf3" {
		t.Errorf("movesText = %q", got)
	}
	// Only the newest pairs survive the cap.
	g = uciGame(t, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6")
	if got := movesText(g, 2); got != "2. Nf3 Nc6\n3. Bb5 a6" {
		t.Errorf("capped movesText = %q", got)
	}
	if got := movesText(chess.NewGame(), 7); got != "" {
		t.Errorf("empty game movesText = %q", got)
	}
}

func TestPosToSquare(t *testing.T) {
	b := newBoardView(ThemeBasic)

	// White at the bottom: top-left piece cell is a8, bottom-right h1.
	if sq := b.posToSquare(0, 1); sq != chess.A8 {
		t.Errorf("white orientation (0,1) = %s, want a8", sq)
	}
	if sq := b.posToSquare(7, 8); sq != chess.H1 {
		t.Errorf("white orientation (7,8) = %s, want h1", sq)
	}

	b.SetOrientation(chess.Black)
	if sq := b.posToSquare(0, 1); sq != chess.A1 {
		t.Errorf("black orientation (0,1) = %s, want a1", sq)
	}

	// Label cells are not squares.
	b.SetOrientation(chess.White)
	if sq := b.posToSquare(3, 0); sq != chess.NoSquare {
		t.Errorf("rank label cell = %s", sq)
	}
	if sq := b.posToSquare(numrows, 4); sq != chess.NoSquare {
		t.Errorf("file label cell = %s", sq)
	}
}
