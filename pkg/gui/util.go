package gui

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ParseMove reads a typed move against the given position. UCI is
// tried first, then SAN, and "1. e4" style numbering is stripped, so
// pasted game fragments work.
func ParseMove(input string, pos *chess.Position) (*chess.Move, error) {
	s := strings.TrimSpace(input)
	if strings.Contains(s, ".") {
		fields := strings.Fields(s)
		if len(fields) > 0 {
			s = fields[len(fields)-1]
		}
		if i := strings.LastIndex(s, "."); i >= 0 && i+1 < len(s) {
			s = s[i+1:]
		}
	}
	if s == "" {
		return nil, fmt.Errorf("empty move")
	}
	if move, err := (chess.UCINotation{}).Decode(pos, s); err == nil {
		return move, nil
	}
	move, err := chess.AlgebraicNotation{}.Decode(pos, s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse move %q", s)
	}
	return move, nil
}

// GameFromFEN builds a UCI-notation game from a position. Snapshots
// handed to engine goroutines come from here so the UI keeps sole
// ownership of the live game.
func GameFromFEN(gamefen string) (*chess.Game, error) {
	fen, err := chess.FEN(gamefen)
	if err != nil {
		return nil, err
	}
	return chess.NewGame(fen, chess.UseNotation(chess.UCINotation{})), nil
}

// inCheck reports whether the side to move is in check, read off the
// SAN of the last move.
func inCheck(game *chess.Game) bool {
	moves := game.Moves()
	if len(moves) == 0 {
		return false
	}
	positions := game.Positions()
	san := chess.AlgebraicNotation{}.Encode(positions[len(positions)-2], moves[len(moves)-1])
	return strings.HasSuffix(san, "+") || strings.HasSuffix(san, "#")
}

// kingSquare finds the king of the given color.
func kingSquare(game *chess.Game, color chess.Color) chess.Square {
	for sq, p := range game.Position().Board().SquareMap() {
		if p.Type() == chess.King && p.Color() == color {
			return sq
		}
	}
	return chess.NoSquare
}

// movesText renders the SAN history as numbered pairs, keeping the
// most recent `pairs` lines.
func movesText(game *chess.Game, pairs int) string {
	moves := game.Moves()
	positions := game.Positions()
	var lines []string
	for i := 0; i < len(moves); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, chess.AlgebraicNotation{}.Encode(positions[i], moves[i]))
		if i+1 < len(moves) {
			line += " " + chess.AlgebraicNotation{}.Encode(positions[i+1], moves[i+1])
		}
		lines = append(lines, line)
	}
	if len(lines) > pairs {
		lines = lines[len(lines)-pairs:]
	}
	return strings.Join(lines, "\n")
}
