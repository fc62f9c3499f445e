package engine

import (
	"math"
	"testing"

	"github.com/notnil/chess"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		cp     int
		mate   bool
		mateIn int
		want   string
	}{
		{35, false, 0, "+0.35"},
		{-120, false, 0, "-1.20"},
		{0, false, 0, "+0.00"},
		{0, true, 3, "Mate in 3"},
		{0, true, -2, "Mate in -2"},
	}
	for _, tt := range tests {
		if got := FormatScore(tt.cp, tt.mate, tt.mateIn); got != tt.want {
			t.Errorf("FormatScore(%d, %v, %d) = %q, want %q", tt.cp, tt.mate, tt.mateIn, got, tt.want)
		}
	}
}

func TestWinProb(t *testing.T) {
	if got := WinProb(0); got != 0.5 {
		t.Errorf("WinProb(0) = %v", got)
	}
	if WinProb(200) <= 0.5 || WinProb(-200) >= 0.5 {
		t.Error("WinProb should grow with the score")
	}
	if diff := WinProb(150) + WinProb(-150) - 1; math.Abs(diff) > 1e-9 {
		t.Errorf("WinProb not symmetric, off by %v", diff)
	}
}

func TestThermometer(t *testing.T) {
	tests := []struct {
		cp   int
		want string
	}{
		{0, "[---█---]"},
		{300, "[------█]"},
		{900, "[------█]"},
		{-300, "[█------]"},
	}
	for _, tt := range tests {
		if got := Thermometer(tt.cp, 7); got != tt.want {
			t.Errorf("Thermometer(%d, 7) = %q, want %q", tt.cp, got, tt.want)
		}
	}
}

func TestSANLine(t *testing.T) {
	pos := chess.NewGame().Position()
	if got := SANLine(pos, []string{"e2e4", "e7e5", "g1f3"}); got != "e4 e5 Nf3" {
		t.Errorf("SANLine = %q", got)
	}
	// Truncated PVs stop at the first undecodable move.
	if got := SANLine(pos, []string{"e2e4", "zzzz"}); got != "e4" {
		t.Errorf("SANLine with bad tail = %q", got)
	}
	if got := SANLine(pos, nil); got != "" {
		t.Errorf("SANLine(nil) = %q", got)
	}
}

func TestSortVariants(t *testing.T) {
	vs := []Variant{
		{CP: 10},
		{Mate: true, MateIn: 2},
		{CP: -50},
		{Mate: true, MateIn: 3},
	}
	sortVariants(vs, chess.White)
	if !vs[0].Mate || vs[0].MateIn != 2 {
		t.Errorf("best for white = %+v, want mate in 2", vs[0])
	}
	if vs[1].MateIn != 3 || vs[2].CP != 10 || vs[3].CP != -50 {
		t.Errorf("order = %+v", vs)
	}

	vs = []Variant{
		{CP: 10},
		{Mate: true, MateIn: -2},
		{CP: -50},
	}
	sortVariants(vs, chess.Black)
	if !vs[0].Mate || vs[0].MateIn != -2 {
		t.Errorf("best for black = %+v, want mate in -2", vs[0])
	}
}
