package gui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/notnil/chess"
	"github.com/rivo/tview"

	"github.com/qnkhuat/chessdesk/pkg/netplay"
)

const (
	loginPage      = "login"
	lobbyPage      = "lobby"
	onlineGamePage = "online-game"

	onlineClockTime = 10 * time.Minute
)

// showLogin opens the connect form for online play.
func showLogin(cl *Client) {
	form := tview.NewForm()
	form.AddInputField("Server", cl.Cfg.ServerAddr, 30, nil, nil).
		AddInputField("Username", "", 30, nil, nil).
		AddPasswordField("Password", "", 30, '*', nil).
		AddButton("Connect", func() {
			addr := form.GetFormItemByLabel("Server").(*tview.InputField).GetText()
			user := form.GetFormItemByLabel("Username").(*tview.InputField).GetText()
			pass := form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
			connect(cl, addr, user, pass)
		}).
		AddButton("Back", func() {
			cl.toMenu(loginPage)
		})
	form.SetBorder(true).SetTitle(" Play online ")

	grid := tview.NewGrid().
		SetRows(-1, 11, -1).
		SetColumns(-1, 46, -1).
		AddItem(form, 1, 1, 1, 1, 0, 0, true)
	cl.Pages.AddAndSwitchToPage(loginPage, grid, true)
}

// connect dials and logs in off the UI goroutine, then hands over to
// the lobby.
func connect(cl *Client, addr, user, pass string) {
	go func() {
		nc, err := netplay.Dial(addr)
		if err == nil {
			if lerr := nc.Login(user, pass); lerr != nil {
				nc.Close()
				err = lerr
			}
		}
		cl.App.QueueUpdateDraw(func() {
			if err != nil {
				cl.modal(loginPage, fmt.Sprintf("Cannot connect: %v", err))
				return
			}
			s := &onlineSession{cl: cl, nc: nc}
			cl.Pages.RemovePage(loginPage)
			s.showLobby()
			go s.dispatch()
		})
	}()
}

// onlineSession is one logged-in connection plus whatever screen is
// current. All fields are owned by the UI goroutine; dispatch only
// touches them through QueueUpdateDraw.
type onlineSession struct {
	cl *Client
	nc *netplay.Client

	lobbyStatus *tview.TextView
	game        *onlineGame

	// done marks a deliberate close so the read loop ending is not
	// reported as a lost connection.
	done bool
}

// dispatch pumps server messages into the UI goroutine. It exits when
// the connection closes.
func (s *onlineSession) dispatch() {
	for msg := range s.nc.In {
		msg := msg
		s.cl.App.QueueUpdateDraw(func() {
			s.handle(msg)
		})
	}
	s.cl.App.QueueUpdateDraw(func() {
		if !s.done {
			s.end(s.currentPage(), "Connection to server lost")
		}
	})
}

func (s *onlineSession) currentPage() string {
	if s.game != nil {
		return onlineGamePage
	}
	return lobbyPage
}

func (s *onlineSession) handle(msg netplay.Message) {
	switch msg.Kind {
	case netplay.KindMatchFound:
		s.startGame(msg.Arg(0), msg.Arg(1))
	case netplay.KindOpponentMove:
		if s.game != nil {
			s.game.opponentMove(msg.Arg(0))
		}
	case netplay.KindGameOver:
		s.finishGame(fmt.Sprintf("Game over: %s", msg.Arg(0)))
	case netplay.KindError:
		s.status(fmt.Sprintf("server: %s", msg.Arg(0)))
	default:
		s.status(fmt.Sprintf("unexpected %s from server", msg.Kind))
	}
}

func (s *onlineSession) status(text string) {
	if s.game != nil {
		s.game.statusView.SetText(text)
		return
	}
	if s.lobbyStatus != nil {
		s.lobbyStatus.SetText(text)
	}
}

func (s *onlineSession) showLobby() {
	s.lobbyStatus = tview.NewTextView()
	list := tview.NewList().
		AddItem("Quick match", "Pair with the next player in queue", 'm', func() {
			if err := s.nc.StartMatch(); err != nil {
				s.status(err.Error())
				return
			}
			s.status("Waiting for an opponent...")
		}).
		AddItem("Logout", "", 'l', func() {
			s.end(lobbyPage, "")
		})
	list.SetBorder(true).SetTitle(fmt.Sprintf(" Lobby (%s) ", s.nc.Name()))

	grid := tview.NewGrid().
		SetRows(-1, 8, 1, -1).
		SetColumns(-1, 48, -1).
		AddItem(list, 1, 1, 1, 1, 0, 0, true).
		AddItem(s.lobbyStatus, 2, 1, 1, 1, 0, 0, false)
	s.cl.Pages.AddAndSwitchToPage(lobbyPage, grid, true)
}

// end closes the connection and returns to the menu, optionally with a
// parting message.
func (s *onlineSession) end(page, text string) {
	s.done = true
	if s.game != nil {
		s.game.teardown()
		s.game = nil
		s.cl.Pages.RemovePage(onlineGamePage)
	}
	s.nc.Close()
	if text != "" {
		s.cl.modal(page, text)
		return
	}
	s.cl.toMenu(page)
}

// finishGame shows the result and drops back to the menu.
func (s *onlineSession) finishGame(text string) {
	s.done = true
	page := s.currentPage()
	if s.game != nil {
		s.game.teardown()
		s.game = nil
	}
	s.nc.Close()
	s.cl.modal(page, text)
}

// onlineGame is the board against a remote opponent.
type onlineGame struct {
	s        *onlineSession
	game     *chess.Game
	board    *boardView
	myColor  chess.Color
	opponent string

	clock      *netplay.Clock
	clockView  *tview.TextView
	movesView  *tview.TextView
	statusView *tview.TextView
	clockDone  chan struct{}
}

func (s *onlineSession) startGame(color, opponent string) {
	myColor := chess.White
	if color == "black" {
		myColor = chess.Black
	}
	g := &onlineGame{
		s:          s,
		game:       chess.NewGame(chess.UseNotation(chess.UCINotation{})),
		board:      newBoardView(s.cl.Theme),
		myColor:    myColor,
		opponent:   opponent,
		clock:      netplay.NewClock(onlineClockTime, 0),
		clockView:  tview.NewTextView(),
		movesView:  tview.NewTextView(),
		statusView: tview.NewTextView(),
		clockDone:  make(chan struct{}),
	}
	g.board.SetGame(g.game)
	g.board.SetOrientation(myColor)
	g.board.onMove = g.myMove
	g.board.movable = func() bool {
		return g.game.Outcome() == chess.NoOutcome && g.game.Position().Turn() == g.myColor
	}
	g.board.Table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			// Leaving mid-game forfeits.
			g.s.nc.SendGameOver(g.opponent, g.forfeitResult())
			g.s.end(onlineGamePage, "")
		}
	})
	s.game = g
	g.show()
}

func (g *onlineGame) show() {
	side := tview.NewGrid().
		SetRows(1, 1, 1, 7, 1, -1).
		AddItem(tview.NewTextView().SetText(fmt.Sprintf("vs %s (you are %s)", g.opponent, g.myColor.Name())), 0, 0, 1, 1, 0, 0, false).
		AddItem(g.clockView, 1, 0, 1, 1, 0, 0, false).
		AddItem(tview.NewTextView().SetText("Moves:"), 2, 0, 1, 1, 0, 0, false).
		AddItem(g.movesView, 3, 0, 1, 1, 0, 0, false).
		AddItem(g.statusView, 4, 0, 1, 1, 0, 0, false)

	layout := tview.NewGrid().
		SetRows(-1, 11, -1).
		SetColumns(-1, 22, 40, -1).
		AddItem(g.board.Table, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 1, 1, 0, 0, false)
	g.s.cl.Pages.RemovePage(lobbyPage)
	g.s.cl.Pages.AddAndSwitchToPage(onlineGamePage, layout, true)

	g.board.Render()
	if g.myColor == chess.White {
		g.clock.Tick()
		g.statusView.SetText("Your move")
	} else {
		g.statusView.SetText(fmt.Sprintf("Waiting for %s...", g.opponent))
	}
	go g.runClock()
}

// runClock refreshes the clock label once a second until teardown.
func (g *onlineGame) runClock() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			g.s.cl.App.QueueUpdateDraw(func() {
				g.clockView.SetText(fmt.Sprintf("Your time: %s", g.clock))
			})
		case <-g.clockDone:
			return
		}
	}
}

func (g *onlineGame) teardown() {
	close(g.clockDone)
	g.clock.Stop()
}

// myMove applies our move locally and relays it.
func (g *onlineGame) myMove(uci string) {
	move, err := chess.UCINotation{}.Decode(g.game.Position(), uci)
	if err != nil {
		g.statusView.SetText(fmt.Sprintf("illegal move %s", uci))
		return
	}
	if err := g.game.Move(move); err != nil {
		g.statusView.SetText(fmt.Sprintf("illegal move %s", uci))
		return
	}
	g.clock.Pause()
	if err := g.s.nc.SendMove(g.opponent, uci); err != nil {
		g.statusView.SetText(err.Error())
		return
	}
	g.refresh()
	if g.game.Outcome() != chess.NoOutcome {
		g.reportOver()
		return
	}
	g.statusView.SetText(fmt.Sprintf("Waiting for %s...", g.opponent))
}

// opponentMove applies a relayed move. The server already validated
// it; a move that still fails here means the boards diverged, which
// ends the game locally.
func (g *onlineGame) opponentMove(uci string) {
	move, err := chess.UCINotation{}.Decode(g.game.Position(), uci)
	if err == nil {
		err = g.game.Move(move)
	}
	if err != nil {
		g.s.finishGame(fmt.Sprintf("Board out of sync (%s): %v", uci, err))
		return
	}
	g.clock.Tick()
	g.refresh()
	if g.game.Outcome() != chess.NoOutcome {
		g.reportOver()
		return
	}
	g.statusView.SetText("Your move")
}

func (g *onlineGame) refresh() {
	g.board.Render()
	g.movesView.SetText(movesText(g.game, 7))
}

// reportOver tells the server and shows the local result. The server
// deduplicates the two reports.
func (g *onlineGame) reportOver() {
	result := g.game.Outcome().String()
	g.s.nc.SendGameOver(g.opponent, result)
	g.s.finishGame(fmt.Sprintf("Game over: %s by %s", result, g.game.Method()))
}

// forfeitResult scores an abandoned game for the opponent.
func (g *onlineGame) forfeitResult() string {
	if g.myColor == chess.White {
		return "0-1 (abandoned)"
	}
	return "1-0 (abandoned)"
}
