package netplay

import (
	"net"
	"strings"
	"testing"
	"time"
)

func startServer(t *testing.T) (string, *Server) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer()
	go s.Serve(ln)
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String(), s
}

func dialPlayer(t *testing.T, addr, user string) *Client {
	t.Helper()
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	if err := c.Login(user, ""); err != nil {
		t.Fatalf("login %q: %v", user, err)
	}
	return c
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.In:
		if !ok {
			t.Fatal("connection closed while waiting for message")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func recvKind(t *testing.T, c *Client, kind Kind) Message {
	t.Helper()
	msg := recv(t, c)
	if msg.Kind != kind {
		t.Fatalf("got %s, want %s", msg, kind)
	}
	return msg
}

// pair logs both players into a match and returns them white first.
func pair(t *testing.T, addr string) (white, black *Client, whiteMsg, blackMsg Message) {
	t.Helper()
	a := dialPlayer(t, addr, "")
	b := dialPlayer(t, addr, "")
	if err := a.StartMatch(); err != nil {
		t.Fatalf("start match: %v", err)
	}
	// a must be queued before b pairs with it.
	time.Sleep(50 * time.Millisecond)
	if err := b.StartMatch(); err != nil {
		t.Fatalf("start match: %v", err)
	}
	am := recvKind(t, a, KindMatchFound)
	bm := recvKind(t, b, KindMatchFound)
	if am.Arg(0) == "white" {
		return a, b, am, bm
	}
	return b, a, bm, am
}

func TestLoginAssignsGuestName(t *testing.T) {
	addr, _ := startServer(t)
	c := dialPlayer(t, addr, "")
	if c.Name() == "" {
		t.Error("guest login should be assigned a name")
	}
}

func TestLoginTakenNameGetsSuffix(t *testing.T) {
	addr, _ := startServer(t)
	a := dialPlayer(t, addr, "alice")
	b := dialPlayer(t, addr, "alice")
	if a.Name() != "alice" {
		t.Errorf("first login name = %q", a.Name())
	}
	if b.Name() == "alice" || !strings.HasPrefix(b.Name(), "alice-") {
		t.Errorf("second login name = %q, want alice- prefix", b.Name())
	}
}

func TestSecondLoginRejected(t *testing.T) {
	addr, s := startServer(t)
	c := dialPlayer(t, addr, "first")

	if err := c.Login("second", ""); err == nil {
		t.Fatal("relogin on the same connection should be rejected")
	}
	if c.Name() != "first" {
		t.Errorf("name = %q after rejected relogin", c.Name())
	}
	if players, _ := s.Counts(); players != 1 {
		t.Errorf("players = %d, want 1", players)
	}

	// The single registry entry goes away with the connection.
	c.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if players, _ := s.Counts(); players == 0 {
			break
		}
		if time.Now().After(deadline) {
			players, _ := s.Counts()
			t.Fatalf("players = %d after disconnect, want 0", players)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLoginRequiredFirst(t *testing.T) {
	addr, _ := startServer(t)
	c, err := Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if err := c.StartMatch(); err != nil {
		t.Fatalf("send: %v", err)
	}
	recvKind(t, c, KindError)
}

func TestMatchPairing(t *testing.T) {
	addr, _ := startServer(t)
	white, black, wm, bm := pair(t, addr)
	if wm.Arg(0) != "white" || bm.Arg(0) != "black" {
		t.Fatalf("colors %q / %q", wm.Arg(0), bm.Arg(0))
	}
	if wm.Arg(1) != black.Name() || bm.Arg(1) != white.Name() {
		t.Errorf("opponents %q / %q, want %q / %q",
			wm.Arg(1), bm.Arg(1), black.Name(), white.Name())
	}
}

func TestMoveRelayed(t *testing.T) {
	addr, _ := startServer(t)
	white, black, _, _ := pair(t, addr)

	if err := white.SendMove(black.Name(), "e2e4"); err != nil {
		t.Fatalf("send move: %v", err)
	}
	msg := recvKind(t, black, KindOpponentMove)
	if msg.Arg(0) != "e2e4" {
		t.Errorf("relayed move = %q", msg.Arg(0))
	}

	if err := black.SendMove(white.Name(), "e7e5"); err != nil {
		t.Fatalf("send move: %v", err)
	}
	msg = recvKind(t, white, KindOpponentMove)
	if msg.Arg(0) != "e7e5" {
		t.Errorf("relayed move = %q", msg.Arg(0))
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	addr, _ := startServer(t)
	white, black, _, _ := pair(t, addr)

	// Not white's move to make twice in a row.
	if err := white.SendMove(black.Name(), "e2e4"); err != nil {
		t.Fatalf("send move: %v", err)
	}
	recvKind(t, black, KindOpponentMove)
	if err := white.SendMove(black.Name(), "d2d4"); err != nil {
		t.Fatalf("send move: %v", err)
	}
	recvKind(t, white, KindError)
}

func TestMoveWithoutMatch(t *testing.T) {
	addr, _ := startServer(t)
	c := dialPlayer(t, addr, "")
	if err := c.SendMove("nobody", "e2e4"); err != nil {
		t.Fatalf("send move: %v", err)
	}
	recvKind(t, c, KindError)
}

func TestGameOverRelayed(t *testing.T) {
	addr, _ := startServer(t)
	white, black, _, _ := pair(t, addr)

	if err := white.SendGameOver(black.Name(), "1-0"); err != nil {
		t.Fatalf("send game over: %v", err)
	}
	msg := recvKind(t, black, KindGameOver)
	if msg.Arg(0) != "1-0" {
		t.Errorf("result = %q", msg.Arg(0))
	}
}

func TestAbandonmentForfeits(t *testing.T) {
	addr, _ := startServer(t)
	white, black, _, _ := pair(t, addr)

	white.Close()
	msg := recvKind(t, black, KindGameOver)
	if msg.Arg(0) != "0-1 (abandoned)" {
		t.Errorf("result = %q, want 0-1 (abandoned)", msg.Arg(0))
	}
}
