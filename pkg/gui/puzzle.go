package gui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qnkhuat/chessdesk/pkg/puzzle"
)

const puzzlePage = "puzzle"

// puzzleScreen plays one fetched puzzle: the player finds the solution
// moves, the scripted opponent replies automatically.
type puzzleScreen struct {
	cl      *Client
	session *puzzle.Session
	board   *boardView

	infoView   *tview.TextView
	statusView *tview.TextView
}

// puzzleFetch tracks one in-flight fetch. cancelled is only touched on
// the UI goroutine, so a cancelled loading screen never resurfaces
// when the fetch completes anyway.
type puzzleFetch struct {
	cancel    context.CancelFunc
	cancelled bool
}

func (f *puzzleFetch) abort() {
	f.cancelled = true
	f.cancel()
}

// startPuzzle fetches a puzzle in the background and opens the screen
// when it arrives.
func startPuzzle(cl *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	fetch := &puzzleFetch{cancel: cancel}
	loading := tview.NewModal().
		SetText("Fetching puzzle...").
		AddButtons([]string{"Cancel"}).
		SetDoneFunc(func(int, string) {
			fetch.abort()
			cl.toMenu(puzzlePage)
		})
	cl.Pages.AddAndSwitchToPage(puzzlePage, loading, true)

	go func() {
		defer cancel()
		p, err := cl.Puzzles.Next(ctx)
		var session *puzzle.Session
		if err == nil {
			session, err = puzzle.NewSession(p)
		}
		cl.App.QueueUpdateDraw(func() {
			if fetch.cancelled {
				return
			}
			if err != nil {
				cl.modal(puzzlePage, fmt.Sprintf("No puzzle: %v", err))
				return
			}
			newPuzzleScreen(cl, session).show()
		})
	}()
}

func newPuzzleScreen(cl *Client, session *puzzle.Session) *puzzleScreen {
	s := &puzzleScreen{
		cl:         cl,
		session:    session,
		board:      newBoardView(cl.Theme),
		infoView:   tview.NewTextView(),
		statusView: tview.NewTextView(),
	}
	s.board.SetGame(session.Game())
	s.board.SetOrientation(session.Turn())
	s.board.onMove = s.tryMove
	s.board.movable = func() bool { return !s.session.Done() }
	s.board.Table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			cl.toMenu(puzzlePage)
		}
	})
	return s
}

func (s *puzzleScreen) show() {
	side := tview.NewGrid().
		SetRows(2, 1, -1).
		AddItem(s.infoView, 0, 0, 1, 1, 0, 0, false).
		AddItem(s.statusView, 1, 0, 1, 1, 0, 0, false)

	layout := tview.NewGrid().
		SetRows(-1, 11, -1).
		SetColumns(-1, 22, 40, -1).
		AddItem(s.board.Table, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 1, 1, 0, 0, false)

	s.cl.Pages.RemovePage(puzzlePage)
	s.cl.Pages.AddAndSwitchToPage(puzzlePage, layout, true)
	s.infoView.SetText(fmt.Sprintf("Puzzle %s (rating %d)\n%s to move",
		s.session.ID, s.session.Rating, s.session.Turn().Name()))
	s.board.Render()
	s.updateProgress()
}

func (s *puzzleScreen) updateProgress() {
	done, total := s.session.Progress()
	s.statusView.SetText(fmt.Sprintf("Solution: %d/%d", done, total))
}

func (s *puzzleScreen) tryMove(uci string) {
	outcome, err := s.session.Try(uci)
	if err != nil {
		s.cl.modal(puzzlePage, fmt.Sprintf("Puzzle aborted: %v", err))
		return
	}
	s.board.Render()
	s.updateProgress()
	switch outcome {
	case puzzle.Wrong:
		s.statusView.SetText("Not the puzzle move, try again")
	case puzzle.Solved:
		s.cl.modal(puzzlePage, "Puzzle solved!")
	}
}
