package gui

import (
	"log"

	"github.com/rivo/tview"

	"github.com/qnkhuat/chessdesk/pkg/config"
	"github.com/qnkhuat/chessdesk/pkg/engine"
	"github.com/qnkhuat/chessdesk/pkg/puzzle"
	"github.com/qnkhuat/chessdesk/pkg/tablebase"
)

// Client is the terminal application: a page stack over one tview
// Application. Every screen mutates game state only on the UI
// goroutine; background work re-enters through QueueUpdateDraw.
type Client struct {
	App   *tview.Application
	Pages *tview.Pages
	Cfg   config.Config
	Theme Theme

	// Engine is nil when the configured binary failed to start; the
	// screens then run engine-less and surface EngineErr as a status.
	Engine    *engine.Engine
	EngineErr error

	TB      *tablebase.Probe
	Puzzles *puzzle.Client
}

// New wires the client from config. An engine that fails to launch is
// reported, not fatal.
func New(cfg config.Config) *Client {
	cl := &Client{
		App:     tview.NewApplication(),
		Pages:   tview.NewPages(),
		Cfg:     cfg,
		Theme:   ThemeByName(cfg),
		TB:      tablebase.New(cfg.TablebaseURL),
		Puzzles: puzzle.NewClient(cfg.PuzzleURL),
	}
	eng, err := engine.New(cfg.EnginePath, cfg.MultiPV)
	if err != nil {
		log.Printf("engine unavailable: %v", err)
		cl.EngineErr = err
	} else {
		cl.Engine = eng
	}
	cl.Pages.AddPage("menu", cl.menu(), true, true)
	return cl
}

// Run blocks until the user quits.
func (cl *Client) Run() error {
	defer func() {
		if cl.Engine != nil {
			cl.Engine.Close()
		}
	}()
	return cl.App.SetRoot(cl.Pages, true).EnableMouse(true).Run()
}

func (cl *Client) menu() tview.Primitive {
	list := tview.NewList().
		AddItem("Play the engine", "Human vs UCI engine", 'e', func() {
			newGameScreen(cl, modeEngine).show()
		}).
		AddItem("Analysis board", "Free board with continuous analysis", 'a', func() {
			newGameScreen(cl, modeAnalysis).show()
		}).
		AddItem("Puzzles", "Tactics from lichess", 'p', func() {
			startPuzzle(cl)
		}).
		AddItem("Play online", "Matchmaking on a chessdesk server", 'o', func() {
			showLogin(cl)
		}).
		AddItem("Quit", "", 'q', func() {
			cl.App.Stop()
		})
	list.SetBorder(true).SetTitle(" chessdesk ")

	grid := tview.NewGrid().
		SetRows(-1, 14, -1).
		SetColumns(-1, 44, -1).
		AddItem(list, 1, 1, 1, 1, 0, 0, true)
	return grid
}

// toMenu tears down a transient page and returns to the menu.
func (cl *Client) toMenu(page string) {
	cl.Pages.RemovePage(page)
	cl.Pages.SwitchToPage("menu")
}

// modal shows a message with a single button returning to the menu.
func (cl *Client) modal(page, text string) {
	m := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Menu"}).
		SetDoneFunc(func(int, string) {
			cl.Pages.RemovePage("modal")
			cl.toMenu(page)
		})
	cl.Pages.AddPage("modal", m, true, true)
}
