// Package netplay implements the plaintext online-play protocol: one
// message per line, fields separated by pipes, no framing beyond the
// newline.
//
//	client → server: LOGIN|user|pass, START_MATCH, MOVE|opponent|uci,
//	                 GAME_OVER|user|opponent|result
//	server → client: WELCOME|name, MATCH_FOUND|color|opponent,
//	                 OPPONENT_MOVE|uci, GAME_OVER|result, ERROR|text
package netplay

import (
	"fmt"
	"strings"
)

// Kind is the first pipe field of a message.
type Kind string

const (
	KindLogin        Kind = "LOGIN"
	KindStartMatch   Kind = "START_MATCH"
	KindMove         Kind = "MOVE"
	KindOpponentMove Kind = "OPPONENT_MOVE"
	KindGameOver     Kind = "GAME_OVER"
	KindMatchFound   Kind = "MATCH_FOUND"
	KindWelcome      Kind = "WELCOME"
	KindError        Kind = "ERROR"
)

// minArgs is the arity each kind requires. GAME_OVER is listed at its
// server→client arity; the client→server form carries three fields and
// anything extra stays in the last arg.
var minArgs = map[Kind]int{
	KindLogin:        2,
	KindStartMatch:   0,
	KindMove:         2,
	KindOpponentMove: 1,
	KindGameOver:     1,
	KindMatchFound:   2,
	KindWelcome:      1,
	KindError:        1,
}

// Message is one parsed protocol line.
type Message struct {
	Kind Kind
	Args []string
}

// Arg returns the i-th field or "" when the message is short.
func (m Message) Arg(i int) string {
	if i < 0 || i >= len(m.Args) {
		return ""
	}
	return m.Args[i]
}

// Encode renders the newline-terminated wire form.
func (m Message) Encode() []byte {
	parts := append([]string{string(m.Kind)}, m.Args...)
	return []byte(strings.Join(parts, "|") + "\n")
}

func (m Message) String() string {
	return strings.TrimSuffix(string(m.Encode()), "\n")
}

// Parse decodes one line. Unknown kinds and short messages are
// errors; the connection handler logs them and carries on reading.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Message{}, fmt.Errorf("netplay: empty message")
	}
	parts := strings.Split(line, "|")
	kind := Kind(parts[0])
	want, ok := minArgs[kind]
	if !ok {
		return Message{}, fmt.Errorf("netplay: unknown message %q", parts[0])
	}
	args := parts[1:]
	if len(args) < want {
		return Message{}, fmt.Errorf("netplay: %s wants %d fields, got %d", kind, want, len(args))
	}
	return Message{Kind: kind, Args: args}, nil
}
