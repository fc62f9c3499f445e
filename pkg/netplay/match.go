package netplay

import (
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
)

// Match is one paired game. The server keeps the authoritative board:
// a relayed move must be legal here before the opponent sees it.
type Match struct {
	ID    string
	White *Player
	Black *Player

	mu           sync.Mutex
	game         *chess.Game
	lastActivity time.Time
	finished     bool
}

func newMatch(id string, white, black *Player) *Match {
	white.Color = chess.White
	black.Color = chess.Black
	return &Match{
		ID:           id,
		White:        white,
		Black:        black,
		game:         chess.NewGame(chess.UseNotation(chess.UCINotation{})),
		lastActivity: time.Now(),
	}
}

// Opponent returns the other player of the pair.
func (m *Match) Opponent(p *Player) *Player {
	if p == m.White {
		return m.Black
	}
	return m.White
}

// TryMove validates and applies one move from p. Moving out of turn or
// illegally is rejected without touching the board.
func (m *Match) TryMove(p *Player, uciMove string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return fmt.Errorf("match %s is over", m.ID)
	}
	if m.game.Position().Turn() != p.Color {
		return fmt.Errorf("not %s's turn", p.Name)
	}
	move, err := chess.UCINotation{}.Decode(m.game.Position(), uciMove)
	if err != nil {
		return fmt.Errorf("illegal move %s", uciMove)
	}
	if err := m.game.Move(move); err != nil {
		return fmt.Errorf("illegal move %s", uciMove)
	}
	m.lastActivity = time.Now()
	return nil
}

// FEN is the authoritative position, for logging.
func (m *Match) FEN() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.FEN()
}

// Finish marks the match done. It returns false when it already was.
func (m *Match) Finish() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return false
	}
	m.finished = true
	return true
}

// IdleSince reports whether the match has seen no moves since the
// given duration, or has finished.
func (m *Match) IdleSince(d time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished || time.Since(m.lastActivity) > d
}
