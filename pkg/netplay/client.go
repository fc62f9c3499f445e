package netplay

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"time"
)

const clientQueueSize = 16

// Client is the player side of the protocol. A single goroutine reads
// the socket and forwards parsed messages on In; it never touches game
// state, so the UI goroutine stays the only owner of the board.
type Client struct {
	conn net.Conn
	name string

	// In delivers server messages. It is closed when the connection
	// drops.
	In chan Message
}

// Dial connects and starts the read loop.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netplay: dial %s: %w", addr, err)
	}
	c := &Client{
		conn: conn,
		In:   make(chan Message, clientQueueSize),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		msg, err := Parse(scanner.Text())
		if err != nil {
			log.Printf("dropping bad server message: %v", err)
			continue
		}
		c.In <- msg
	}
	close(c.In)
}

func (c *Client) send(m Message) error {
	if _, err := c.conn.Write(m.Encode()); err != nil {
		return fmt.Errorf("netplay: send %s: %w", m.Kind, err)
	}
	return nil
}

// Login authenticates and waits for the server's verdict. It must be
// called before anything else consumes In. A blank user logs in as a
// server-assigned guest.
func (c *Client) Login(user, pass string) error {
	if err := c.send(Message{Kind: KindLogin, Args: []string{user, pass}}); err != nil {
		return err
	}
	select {
	case msg, ok := <-c.In:
		if !ok {
			return fmt.Errorf("netplay: connection closed during login")
		}
		switch msg.Kind {
		case KindWelcome:
			c.name = msg.Arg(0)
			return nil
		case KindError:
			return fmt.Errorf("netplay: login rejected: %s", msg.Arg(0))
		default:
			return fmt.Errorf("netplay: unexpected %s during login", msg.Kind)
		}
	case <-time.After(10 * time.Second):
		return fmt.Errorf("netplay: login timed out")
	}
}

// Name is the login name the server acknowledged.
func (c *Client) Name() string {
	return c.name
}

// StartMatch asks to be paired. MATCH_FOUND arrives on In.
func (c *Client) StartMatch() error {
	return c.send(Message{Kind: KindStartMatch})
}

// SendMove relays one of our moves to the opponent.
func (c *Client) SendMove(opponent, uciMove string) error {
	return c.send(Message{Kind: KindMove, Args: []string{opponent, uciMove}})
}

// SendGameOver reports the finished game.
func (c *Client) SendGameOver(opponent, result string) error {
	return c.send(Message{Kind: KindGameOver, Args: []string{c.name, opponent, result}})
}

// Close drops the connection; the read loop ends and In is closed.
func (c *Client) Close() error {
	return c.conn.Close()
}
