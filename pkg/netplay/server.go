package netplay

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/notnil/chess"
)

// DefaultIdleTimeout is how long a match may sit without a move before
// the sweeper reaps it.
const DefaultIdleTimeout = 30 * time.Minute

// Server pairs logged-in players and relays their moves. One goroutine
// per connection reads, one writes; everything shared sits behind mu.
type Server struct {
	IdleTimeout time.Duration

	mu      sync.Mutex
	players map[string]*Player
	waiting []*Player
	matches map[string]*Match
}

// NewServer returns an empty server.
func NewServer() *Server {
	return &Server{
		IdleTimeout: DefaultIdleTimeout,
		players:     make(map[string]*Player),
		matches:     make(map[string]*Match),
	}
}

// Serve accepts connections on the listener until it is closed.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.HandleConn(conn)
	}
}

// HandleConn runs the read loop for one connection. The first message
// must be LOGIN; everything else before that is rejected.
func (s *Server) HandleConn(conn net.Conn) {
	p := newPlayer(conn)
	go p.handleWrite()
	defer s.dropPlayer(p)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		msg, err := Parse(scanner.Text())
		if err != nil {
			log.Printf("bad message from %s: %v", conn.RemoteAddr(), err)
			p.send(Message{Kind: KindError, Args: []string{"bad message"}})
			continue
		}
		if p.Name == "" && msg.Kind != KindLogin {
			p.send(Message{Kind: KindError, Args: []string{"login first"}})
			continue
		}
		switch msg.Kind {
		case KindLogin:
			s.handleLogin(p, msg.Arg(0))
		case KindStartMatch:
			s.handleStartMatch(p)
		case KindMove:
			s.handleMove(p, msg.Arg(0), msg.Arg(1))
		case KindGameOver:
			s.handleGameOver(p, msg.Arg(2))
		default:
			p.send(Message{Kind: KindError, Args: []string{fmt.Sprintf("unexpected %s", msg.Kind)}})
		}
	}
}

// handleLogin registers the player. Credentials are plaintext and not
// verified against anything; a blank name becomes a guest name. A
// taken name gets a suffix instead of a rejection. One registration
// per connection: a second LOGIN would orphan the first registry
// entry, so it is refused.
func (s *Server) handleLogin(p *Player, name string) {
	if p.Name != "" {
		p.send(Message{Kind: KindError, Args: []string{"already logged in"}})
		return
	}
	s.mu.Lock()
	if name == "" {
		name = petname.Generate(2, "-")
	}
	if _, taken := s.players[name]; taken {
		name = name + "-" + petname.Generate(1, "")
	}
	p.Name = name
	s.players[name] = p
	s.mu.Unlock()

	log.Printf("%s logged in from %s", name, p.Conn.RemoteAddr())
	p.send(Message{Kind: KindWelcome, Args: []string{name}})
}

// handleStartMatch pairs the first two waiters. The earlier waiter
// plays white.
func (s *Server) handleStartMatch(p *Player) {
	s.mu.Lock()
	if p.match != nil || s.isWaiting(p) {
		s.mu.Unlock()
		p.send(Message{Kind: KindError, Args: []string{"already waiting or playing"}})
		return
	}
	if len(s.waiting) == 0 {
		s.waiting = append(s.waiting, p)
		s.mu.Unlock()
		return
	}
	white := s.waiting[0]
	s.waiting = s.waiting[1:]
	m := newMatch(petname.Generate(3, "-"), white, p)
	white.match = m
	p.match = m
	s.matches[m.ID] = m
	s.mu.Unlock()

	log.Printf("match %s: %s (white) vs %s (black)", m.ID, white.Name, p.Name)
	white.send(Message{Kind: KindMatchFound, Args: []string{"white", p.Name}})
	p.send(Message{Kind: KindMatchFound, Args: []string{"black", white.Name}})
}

// handleMove validates the move on the authoritative board and relays
// it to the opponent.
func (s *Server) handleMove(p *Player, opponent, uciMove string) {
	s.mu.Lock()
	m := p.match
	s.mu.Unlock()

	if m == nil {
		p.send(Message{Kind: KindError, Args: []string{"no active match"}})
		return
	}
	other := m.Opponent(p)
	if opponent != "" && opponent != other.Name {
		p.send(Message{Kind: KindError, Args: []string{fmt.Sprintf("unknown opponent %s", opponent)}})
		return
	}
	if err := m.TryMove(p, uciMove); err != nil {
		p.send(Message{Kind: KindError, Args: []string{err.Error()}})
		return
	}
	other.send(Message{Kind: KindOpponentMove, Args: []string{uciMove}})
}

// handleGameOver finishes the match and relays the result.
func (s *Server) handleGameOver(p *Player, result string) {
	s.mu.Lock()
	m := p.match
	s.mu.Unlock()

	if m == nil {
		p.send(Message{Kind: KindError, Args: []string{"no active match"}})
		return
	}
	if m.Finish() {
		m.Opponent(p).send(Message{Kind: KindGameOver, Args: []string{result}})
		log.Printf("match %s over: %s (final %s)", m.ID, result, m.FEN())
	}
	s.removeMatch(m)
}

// CleanIdleMatches sweeps finished and stale matches forever. Run it
// in its own goroutine.
func (s *Server) CleanIdleMatches(interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		s.mu.Lock()
		var stale []*Match
		for _, m := range s.matches {
			if m.IdleSince(s.IdleTimeout) {
				stale = append(stale, m)
			}
		}
		s.mu.Unlock()
		for _, m := range stale {
			log.Printf("reaping idle match %s", m.ID)
			m.Finish()
			s.removeMatch(m)
		}
	}
}

// Counts reports players online and matches running, for the operator
// console.
func (s *Server) Counts() (players, matches int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players), len(s.matches)
}

func (s *Server) isWaiting(p *Player) bool {
	for _, w := range s.waiting {
		if w == p {
			return true
		}
	}
	return false
}

func (s *Server) removeMatch(m *Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, m.ID)
	if m.White.match == m {
		m.White.match = nil
	}
	if m.Black.match == m {
		m.Black.match = nil
	}
}

// dropPlayer cleans up after a closed connection. An opponent left
// mid-game wins by abandonment.
func (s *Server) dropPlayer(p *Player) {
	s.mu.Lock()
	if p.Name != "" {
		delete(s.players, p.Name)
	}
	for i, w := range s.waiting {
		if w == p {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			break
		}
	}
	m := p.match
	s.mu.Unlock()

	if m != nil {
		if m.Finish() {
			result := "1-0"
			if p.Color == chess.White {
				result = "0-1"
			}
			m.Opponent(p).send(Message{Kind: KindGameOver, Args: []string{result + " (abandoned)"}})
			log.Printf("match %s abandoned by %s", m.ID, p.Name)
		}
		s.removeMatch(m)
	}
	p.closeOut()
	p.disconnect()
	if p.Name != "" {
		log.Printf("%s disconnected", p.Name)
	}
}
