// Package puzzle fetches tactics puzzles from the lichess API and
// walks the player through their solutions.
package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Puzzle is the wire shape of /api/puzzle/next: the game PGN up to the
// puzzle position plus the solution in UCI.
type Puzzle struct {
	Game struct {
		PGN string `json:"pgn"`
	} `json:"game"`
	Puzzle struct {
		ID       string   `json:"id"`
		Rating   int      `json:"rating"`
		Solution []string `json:"solution"`
	} `json:"puzzle"`
}

// Client fetches puzzles from one API base URL.
type Client struct {
	base   string
	client *http.Client
}

// NewClient returns a client against base, e.g. "https://lichess.org/api".
func NewClient(base string) *Client {
	return &Client{
		base:   base,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Next fetches a fresh puzzle.
func (c *Client) Next(ctx context.Context) (*Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/puzzle/next", nil)
	if err != nil {
		return nil, fmt.Errorf("puzzle: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("puzzle: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("puzzle: status %s", resp.Status)
	}
	var p Puzzle
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("puzzle: decode: %w", err)
	}
	if len(p.Puzzle.Solution) == 0 {
		return nil, fmt.Errorf("puzzle: %s has no solution moves", p.Puzzle.ID)
	}
	return &p, nil
}
