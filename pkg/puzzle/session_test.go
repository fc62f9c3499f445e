package puzzle

import (
	"testing"

	"github.com/notnil/chess"
)

func fixture(pgn string, solution ...string) *Puzzle {
	p := &Puzzle{}
	p.Game.PGN = pgn
	p.Puzzle.ID = "test"
	p.Puzzle.Rating = 1500
	p.Puzzle.Solution = solution
	return p
}

func TestSessionMateInOne(t *testing.T) {
	s, err := NewSession(fixture("1. f3 e5 2. g4", "d8h4"))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Turn() != chess.Black {
		t.Fatalf("turn = %s, want black", s.Turn())
	}

	outcome, err := s.Try("a7a6")
	if err != nil || outcome != Wrong {
		t.Fatalf("off-solution try = %s, %v", outcome, err)
	}
	if done, _ := s.Progress(); done != 0 {
		t.Fatal("wrong move must not advance the cursor")
	}

	outcome, err = s.Try("d8h4")
	if err != nil {
		t.Fatalf("Try: %v", err)
	}
	if outcome != Solved || !s.Done() {
		t.Errorf("outcome = %s, done = %v", outcome, s.Done())
	}
	if s.Game().Outcome() != chess.BlackWon {
		t.Errorf("board outcome = %s", s.Game().Outcome())
	}
}

func TestSessionScriptedReplies(t *testing.T) {
	s, err := NewSession(fixture("1. e4 e5", "g1f3", "b8c6", "f1c4"))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	outcome, err := s.Try("g1f3")
	if err != nil {
		t.Fatalf("Try: %v", err)
	}
	if outcome != Advanced {
		t.Fatalf("outcome = %s, want Advanced", outcome)
	}
	// The scripted reply was played too.
	if done, total := s.Progress(); done != 2 || total != 3 {
		t.Fatalf("progress = %d/%d", done, total)
	}
	if s.Turn() != chess.White {
		t.Fatalf("turn = %s after reply", s.Turn())
	}

	outcome, err = s.Try("f1c4")
	if err != nil {
		t.Fatalf("Try: %v", err)
	}
	if outcome != Solved || !s.Done() {
		t.Errorf("outcome = %s, done = %v", outcome, s.Done())
	}
}

func TestSessionBrokenReplyAborts(t *testing.T) {
	// The reply move is not legal in the resulting position.
	s, err := NewSession(fixture("1. e4 e5", "g1f3", "e1e8"))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.Try("g1f3"); err == nil {
		t.Fatal("broken scripted reply should abort the session")
	}
}

func TestSessionBadPGN(t *testing.T) {
	if _, err := NewSession(fixture("1. zz9", "e2e4")); err == nil {
		t.Fatal("bad pgn should fail")
	}
}
