// Package tablebase classifies low-piece endgames as win/draw/loss by
// probing a lichess-style tablebase service.
package tablebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/notnil/chess"
)

// MaxPieces is the largest position the seven-man tables answer.
const MaxPieces = 7

// ErrTooManyPieces means the position is outside tablebase range. No
// request is made in that case.
var ErrTooManyPieces = errors.New("tablebase: more than 7 pieces on the board")

// Result is the service's verdict for one position, from the
// perspective of the side to move.
type Result struct {
	Category string `json:"category"` // win, cursed-win, draw, blessed-loss, loss
	DTZ      int    `json:"dtz"`
	DTM      int    `json:"dtm"`
}

// WDL maps the category to the syzygy -2..2 scale.
func (r Result) WDL() int {
	switch r.Category {
	case "win":
		return 2
	case "cursed-win":
		return 1
	case "blessed-loss":
		return -1
	case "loss":
		return -2
	default:
		return 0
	}
}

func (r Result) String() string {
	return fmt.Sprintf("(Syzygy) WDL = %d", r.WDL())
}

// Probe queries one tablebase endpoint.
type Probe struct {
	base   string
	client *http.Client
}

// New returns a probe against the given base URL, e.g.
// "https://tablebase.lichess.ovh".
func New(base string) *Probe {
	return &Probe{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Probe looks up the position. Positions with more than MaxPieces
// pieces fail fast with ErrTooManyPieces.
func (p *Probe) Probe(ctx context.Context, pos *chess.Position) (*Result, error) {
	if len(pos.Board().SquareMap()) > MaxPieces {
		return nil, ErrTooManyPieces
	}

	u := fmt.Sprintf("%s/standard?fen=%s", p.base, url.QueryEscape(pos.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("tablebase: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tablebase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tablebase: status %s", resp.Status)
	}
	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("tablebase: decode: %w", err)
	}
	return &res, nil
}
