package netplay

import (
	"log"
	"net"
	"sync"

	"github.com/notnil/chess"
)

const playerQueueSize = 16

// Player is one logged-in connection on the server side.
type Player struct {
	Conn  net.Conn
	Name  string
	Color chess.Color
	Out   chan Message

	match *Match // guarded by the server lock

	mu     sync.Mutex
	closed bool
}

func newPlayer(conn net.Conn) *Player {
	return &Player{
		Conn: conn,
		Out:  make(chan Message, playerQueueSize),
	}
}

// send queues a message without ever blocking a handler: a player
// whose writer died or whose queue is full just misses the message and
// will be dropped by its own read loop soon enough.
func (p *Player) send(m Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.Out <- m:
	default:
		log.Printf("queue full, dropping %s for %s", m.Kind, p.Name)
	}
}

// closeOut ends the write loop. Safe to call once per player.
func (p *Player) closeOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.Out)
	}
}

// handleWrite drains Out onto the socket. After a write error it keeps
// draining so senders never back up on a dead connection.
func (p *Player) handleWrite() {
	failed := false
	for msg := range p.Out {
		if failed {
			continue
		}
		if _, err := p.Conn.Write(msg.Encode()); err != nil {
			log.Printf("write to %s failed: %v", p.Name, err)
			failed = true
		}
	}
}

func (p *Player) disconnect() {
	p.Conn.Close()
}
