package gui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"github.com/qnkhuat/chessdesk/pkg/engine"
	"github.com/qnkhuat/chessdesk/pkg/tablebase"
)

type gameMode int

const (
	// modeEngine plays the human (white) against the engine.
	modeEngine gameMode = iota
	// modeAnalysis lets the human move both sides under continuous
	// analysis.
	modeAnalysis
)

const gamePage = "game"

// gameScreen is the local board: engine opponent or free analysis.
type gameScreen struct {
	cl   *Client
	mode gameMode

	game       *chess.Game
	humanColor chess.Color
	board      *boardView

	evalView     *tview.TextView
	variantsView *tview.TextView
	movesView    *tview.TextView
	statusView   *tview.TextView
	input        *tview.InputField

	// gen stamps analysis requests; stale results are dropped.
	gen        int
	engineBusy bool
}

func newGameScreen(cl *Client, mode gameMode) *gameScreen {
	s := &gameScreen{
		cl:         cl,
		mode:       mode,
		game:       chess.NewGame(chess.UseNotation(chess.UCINotation{})),
		humanColor: chess.White,
		board:      newBoardView(cl.Theme),
	}
	s.board.SetGame(s.game)
	s.board.onMove = s.humanMove
	s.board.movable = func() bool {
		if s.game.Outcome() != chess.NoOutcome {
			return false
		}
		return s.mode == modeAnalysis || s.game.Position().Turn() == s.humanColor
	}
	s.board.Table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			s.close()
		}
	})

	s.evalView = tview.NewTextView()
	s.variantsView = tview.NewTextView()
	s.movesView = tview.NewTextView()
	s.statusView = tview.NewTextView()
	s.input = tview.NewInputField().SetLabel("> ")
	s.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := s.input.GetText()
		s.input.SetText("")
		s.typedMove(text)
	})
	return s
}

func (s *gameScreen) show() {
	side := tview.NewGrid().
		SetRows(1, 4, 1, 7, 1, 1).
		AddItem(s.evalView, 0, 0, 1, 1, 0, 0, false).
		AddItem(s.variantsView, 1, 0, 1, 1, 0, 0, false).
		AddItem(tview.NewTextView().SetText("Moves:"), 2, 0, 1, 1, 0, 0, false).
		AddItem(s.movesView, 3, 0, 1, 1, 0, 0, false).
		AddItem(s.statusView, 4, 0, 1, 1, 0, 0, false).
		AddItem(s.input, 5, 0, 1, 1, 0, 0, false)

	layout := tview.NewGrid().
		SetRows(-1, 11, -1).
		SetColumns(-1, 22, 42, -1).
		AddItem(s.board.Table, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 1, 1, 0, 0, false)

	s.cl.Pages.AddAndSwitchToPage(gamePage, layout, true)
	if s.cl.Engine == nil && s.cl.EngineErr != nil {
		s.status(fmt.Sprintf("engine unavailable: %v", s.cl.EngineErr))
	}
	s.board.Render()
	s.kickAnalysis()
}

func (s *gameScreen) close() {
	s.gen++ // drop in-flight analysis
	s.cl.toMenu(gamePage)
}

func (s *gameScreen) status(msg string) {
	s.statusView.SetText(msg)
}

// typedMove handles the input line: "exit" leaves, anything else is
// parsed as a move.
func (s *gameScreen) typedMove(text string) {
	if strings.TrimSpace(strings.ToLower(text)) == "exit" {
		s.close()
		return
	}
	if !s.board.movable() {
		s.status("not your turn")
		return
	}
	move, err := ParseMove(text, s.game.Position())
	if err != nil {
		s.status(err.Error())
		return
	}
	s.humanMove(move.String())
}

// humanMove applies one human move (UCI) and hands the turn over.
func (s *gameScreen) humanMove(uci string) {
	move, err := chess.UCINotation{}.Decode(s.game.Position(), uci)
	if err != nil {
		s.status(fmt.Sprintf("illegal move %s", uci))
		return
	}
	if err := s.game.Move(move); err != nil {
		s.status(fmt.Sprintf("illegal move %s", uci))
		return
	}
	s.status("")
	s.afterMove()
	if s.game.Outcome() == chess.NoOutcome && s.mode == modeEngine &&
		s.game.Position().Turn() != s.humanColor {
		s.engineReply()
	}
}

// afterMove refreshes every panel and fires the background probes.
func (s *gameScreen) afterMove() {
	s.board.Render()
	s.movesView.SetText(movesText(s.game, 7))
	if s.game.Outcome() != chess.NoOutcome {
		s.gen++
		s.cl.modal(gamePage, fmt.Sprintf("Game over: %s by %s", s.game.Outcome(), s.game.Method()))
		return
	}
	s.kickAnalysis()
	s.probeTablebase()
}

// engineReply asks the engine for its move off the UI goroutine. A
// failing engine falls back to a random legal move so the game can
// continue.
func (s *gameScreen) engineReply() {
	if s.engineBusy {
		return
	}
	s.engineBusy = true
	s.status("engine thinking...")

	snap, err := GameFromFEN(s.game.FEN())
	if err != nil {
		s.engineBusy = false
		return
	}
	depth := s.cl.Cfg.EngineDepth
	go func() {
		var uci string
		if s.cl.Engine != nil {
			if move, err := s.cl.Engine.BestMove(snap, depth); err == nil {
				uci = move.String()
			}
		}
		s.cl.App.QueueUpdateDraw(func() {
			s.engineBusy = false
			move := s.decodeOrRandom(uci)
			if move == nil {
				return
			}
			san := chess.AlgebraicNotation{}.Encode(s.game.Position(), move)
			if err := s.game.Move(move); err != nil {
				s.status(fmt.Sprintf("engine move rejected: %v", err))
				return
			}
			s.status(fmt.Sprintf("engine played %s", san))
			s.afterMove()
		})
	}()
}

// decodeOrRandom turns the engine's UCI into a move for the live game,
// or picks a random legal move when the engine produced nothing usable.
func (s *gameScreen) decodeOrRandom(uci string) *chess.Move {
	if uci != "" {
		if move, err := (chess.UCINotation{}).Decode(s.game.Position(), uci); err == nil {
			return move
		}
	}
	valid := s.game.ValidMoves()
	if len(valid) == 0 {
		return nil
	}
	return valid[rand.Intn(len(valid))]
}

// kickAnalysis starts a short multi-PV search for the current
// position. The generation stamp discards results that arrive after
// the board moved on.
func (s *gameScreen) kickAnalysis() {
	if s.cl.Engine == nil {
		return
	}
	s.gen++
	gen := s.gen
	snap, err := GameFromFEN(s.game.FEN())
	if err != nil {
		return
	}
	movetime := time.Duration(s.cl.Cfg.AnalysisMovetimeMS) * time.Millisecond
	go func() {
		analysis, err := s.cl.Engine.Analyze(snap, movetime)
		s.cl.App.QueueUpdateDraw(func() {
			if gen != s.gen {
				return
			}
			if err != nil {
				s.status(fmt.Sprintf("analysis failed: %v", err))
				return
			}
			s.renderAnalysis(analysis)
		})
	}()
}

func (s *gameScreen) renderAnalysis(a *engine.Analysis) {
	best, ok := a.Best()
	if !ok {
		s.evalView.SetText("Eval: ---")
		s.variantsView.SetText("")
		return
	}
	eval := fmt.Sprintf("Eval: %s %s", best.Score, engine.Thermometer(best.CP, 15))
	if !best.Mate {
		eval += fmt.Sprintf(" %.0f%%", engine.WinProb(best.CP)*100)
	}
	s.evalView.SetText(eval)
	var lines []string
	for _, v := range a.Variants[1:] {
		line := v.Line
		if len(line) > 34 {
			line = line[:34]
		}
		lines = append(lines, fmt.Sprintf("%-9s %s", v.Score, line))
	}
	s.variantsView.SetText(strings.Join(lines, "\n"))
}

// probeTablebase classifies the position once it is inside tablebase
// range, mirroring the after-move syzygy check.
func (s *gameScreen) probeTablebase() {
	if s.cl.TB == nil {
		return
	}
	pos := s.game.Position()
	if len(pos.Board().SquareMap()) > tablebase.MaxPieces {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := s.cl.TB.Probe(ctx, pos)
		s.cl.App.QueueUpdateDraw(func() {
			if err != nil {
				s.status(fmt.Sprintf("tablebase: %v", err))
				return
			}
			s.status(res.String())
		})
	}()
}
