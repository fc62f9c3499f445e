package puzzle

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Outcome is the result of one solution attempt.
type Outcome int

const (
	// Wrong leaves the board unchanged.
	Wrong Outcome = iota
	// Advanced applied the player's move and the scripted reply.
	Advanced
	// Solved applied the final move of the solution.
	Solved
)

func (o Outcome) String() string {
	switch o {
	case Wrong:
		return "Wrong"
	case Advanced:
		return "Advanced"
	case Solved:
		return "Solved"
	default:
		return "Unknown Outcome"
	}
}

// Session is one puzzle in progress. The board is always the PGN
// position plus the solution prefix played so far; the cursor advances
// only on exact UCI matches.
type Session struct {
	ID       string
	Rating   int
	game     *chess.Game
	solution []string
	cursor   int
}

// NewSession replays the puzzle's PGN to reach the starting position.
func NewSession(p *Puzzle) (*Session, error) {
	pgn, err := chess.PGN(strings.NewReader(p.Game.PGN))
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: bad pgn: %w", p.Puzzle.ID, err)
	}
	return &Session{
		ID:       p.Puzzle.ID,
		Rating:   p.Puzzle.Rating,
		game:     chess.NewGame(pgn),
		solution: p.Puzzle.Solution,
	}, nil
}

// Game exposes the board for rendering.
func (s *Session) Game() *chess.Game {
	return s.game
}

// Turn is the color the player is solving for.
func (s *Session) Turn() chess.Color {
	return s.game.Position().Turn()
}

// Progress reports how many solution moves have been played and how
// many the puzzle has in total.
func (s *Session) Progress() (done, total int) {
	return s.cursor, len(s.solution)
}

// Done reports whether the whole solution has been played out.
func (s *Session) Done() bool {
	return s.cursor >= len(s.solution)
}

// Try plays one attempt in UCI. A move that is off the solution, or
// not even legal, is Wrong and changes nothing. A correct move is
// applied together with the scripted opponent reply, if one remains. A
// scripted reply that does not parse aborts with an error: the puzzle
// data is broken and the session cannot continue.
func (s *Session) Try(uciMove string) (Outcome, error) {
	if s.Done() {
		return Solved, nil
	}
	if uciMove != s.solution[s.cursor] {
		return Wrong, nil
	}
	if err := s.push(uciMove); err != nil {
		return Wrong, fmt.Errorf("puzzle %s: solution move %q: %w", s.ID, uciMove, err)
	}
	s.cursor++
	if s.Done() {
		return Solved, nil
	}

	reply := s.solution[s.cursor]
	if err := s.push(reply); err != nil {
		return Wrong, fmt.Errorf("puzzle %s: scripted reply %q: %w", s.ID, reply, err)
	}
	s.cursor++
	if s.Done() {
		return Solved, nil
	}
	return Advanced, nil
}

func (s *Session) push(uciMove string) error {
	move, err := chess.UCINotation{}.Decode(s.game.Position(), uciMove)
	if err != nil {
		return err
	}
	return s.game.Move(move)
}
