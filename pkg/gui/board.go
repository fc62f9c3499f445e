package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"
)

const (
	numrows = 8
	numcols = 8
)

// boardView is the board as a selectable table: ranks down the left,
// files along the bottom, one cell per square. Two selections make a
// move; reselecting the same square cancels.
type boardView struct {
	Table  *tview.Table
	theme  Theme
	orient chess.Color
	game   *chess.Game

	selecting     bool
	lastSelection chess.Square
	highlights    map[chess.Square]bool

	// onMove receives the chosen move in UCI. movable gates selection;
	// when it returns false clicks are ignored.
	onMove  func(uci string)
	movable func() bool
}

func newBoardView(theme Theme) *boardView {
	b := &boardView{
		Table:      tview.NewTable(),
		theme:      theme,
		orient:     chess.White,
		highlights: make(map[chess.Square]bool),
		movable:    func() bool { return false },
	}
	b.Table.SetSelectable(true, true)
	b.Table.Select(0, 0).SetSelectedFunc(b.selected)
	return b
}

// SetGame points the view at a game and clears any selection.
func (b *boardView) SetGame(game *chess.Game) {
	b.game = game
	b.clearSelection()
}

// SetOrientation flips the board so the given color sits at the bottom.
func (b *boardView) SetOrientation(c chess.Color) {
	b.orient = c
}

func (b *boardView) clearSelection() {
	b.selecting = false
	b.lastSelection = chess.NoSquare
	b.highlights = make(map[chess.Square]bool)
}

// selected implements the two-click move entry.
func (b *boardView) selected(row, col int) {
	if b.game == nil || !b.movable() {
		return
	}
	sq := b.posToSquare(row, col)
	if sq == chess.NoSquare {
		return
	}

	if !b.selecting {
		p := b.game.Position().Board().Piece(sq)
		if p == chess.NoPiece || p.Color() != b.game.Position().Turn() {
			return
		}
		b.selecting = true
		b.lastSelection = sq
		b.highlights[sq] = true
		b.Render()
		return
	}

	if sq == b.lastSelection {
		b.clearSelection()
		b.Render()
		return
	}

	uci := fmt.Sprintf("%s%s", b.lastSelection, sq)
	move, ok := b.findValid(uci)
	b.clearSelection()
	b.Render()
	if ok {
		b.onMove(move)
	}
}

// findValid matches the square pair against the legal moves, trying a
// queen promotion when the plain pair is not a move on its own.
func (b *boardView) findValid(uci string) (string, bool) {
	for _, candidate := range []string{uci, uci + "q"} {
		for _, valid := range b.game.ValidMoves() {
			if valid.String() == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}

// posToSquare maps a table cell to a square, honoring orientation.
// Column 0 holds the rank labels, the bottom row the file labels.
func (b *boardView) posToSquare(row, col int) chess.Square {
	if col == 0 || row == numrows {
		return chess.NoSquare
	}
	if b.orient != chess.Black {
		row = numrows - row - 1
	}
	return chess.Square(row*8 + col - 1)
}

// squareBg picks the square's background color.
func (b *boardView) squareBg(sq chess.Square) tcell.Color {
	if b.highlights[sq] {
		return b.theme.SquareHigh
	}
	if b.game != nil && inCheck(b.game) && sq == kingSquare(b.game, b.game.Position().Turn()) {
		return b.theme.SquareCheck
	}
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return b.theme.SquareDark
	}
	return b.theme.SquareLight
}

// Render redraws every cell. Callers draw the screen afterwards.
func (b *boardView) Render() {
	if b.game == nil {
		return
	}
	board := b.game.Position().Board()
	for r := 0; r <= numrows; r++ {
		for f := 0; f <= numcols; f++ {
			if r == numrows && f == 0 {
				continue
			}
			if f == 0 { // rank labels
				rank := chess.Rank(numrows - r - 1)
				if b.orient == chess.Black {
					rank = chess.Rank(r)
				}
				cell := tview.NewTableCell(rank.String()).
					SetAlign(tview.AlignCenter).
					SetSelectable(false)
				b.Table.SetCell(r, f, cell)
				continue
			}
			if r == numrows { // file labels
				cell := tview.NewTableCell(fmt.Sprintf(" %s", chess.File(f-1))).
					SetAlign(tview.AlignCenter).
					SetSelectable(false)
				b.Table.SetCell(r, f, cell)
				continue
			}

			sq := b.posToSquare(r, f)
			p := board.Piece(sq)
			fg := b.theme.Black
			if p.Color() == chess.White {
				fg = b.theme.White
			}
			cell := tview.NewTableCell(fmt.Sprintf(" %s", p)).
				SetAlign(tview.AlignCenter).
				SetTextColor(fg).
				SetBackgroundColor(b.squareBg(sq))
			b.Table.SetCell(r, f, cell)
		}
	}
}
