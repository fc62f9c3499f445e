package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freeeve/uci"
	"github.com/notnil/chess"
)

// Engine is one UCI engine subprocess. All searches go through the
// same process, so callers are serialized on an internal lock: the
// background analysis loop and the play path never overlap searches.
type Engine struct {
	mu      sync.Mutex
	eng     *uci.Engine
	multiPV int
}

// Variant is one line of a multi-PV search. CP and MateIn are from
// white's perspective regardless of the side to move.
type Variant struct {
	CP     int
	Mate   bool
	MateIn int
	Score  string   // formatted, e.g. "+0.35" or "Mate in 3"
	PV     []string // UCI moves
	Line   string   // the PV in SAN, space separated
}

// Analysis holds the variants of one search, best first.
type Analysis struct {
	Variants []Variant
}

// Best returns the top variant and whether one exists.
func (a *Analysis) Best() (Variant, bool) {
	if len(a.Variants) == 0 {
		return Variant{}, false
	}
	return a.Variants[0], true
}

// New launches the engine binary and runs the UCI handshake. Callers
// treat failure as "no engine": the UI keeps running and shows the
// error as a status line.
func New(path string, multiPV int) (*Engine, error) {
	if multiPV < 1 {
		multiPV = 1
	}
	eng, err := uci.NewEngine(path)
	if err != nil {
		return nil, fmt.Errorf("engine: start %q: %w", path, err)
	}
	err = eng.SetOptions(uci.Options{
		MultiPV: multiPV,
		Hash:    128,
		Ponder:  false,
		OwnBook: true,
	})
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("engine: set options: %w", err)
	}
	return &Engine{eng: eng, multiPV: multiPV}, nil
}

// BestMove searches the game's current position to the given depth and
// decodes the engine's choice against that position.
func (e *Engine) BestMove(game *chess.Game, depth int) (*chess.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.eng.SetFEN(game.FEN()); err != nil {
		return nil, fmt.Errorf("engine: position: %w", err)
	}
	res, err := e.eng.GoDepth(depth, uci.HighestDepthOnly)
	if err != nil {
		return nil, fmt.Errorf("engine: go depth %d: %w", depth, err)
	}
	if res.BestMove == "" {
		return nil, errors.New("engine: no best move")
	}
	move, err := chess.UCINotation{}.Decode(game.Position(), res.BestMove)
	if err != nil {
		return nil, fmt.Errorf("engine: bestmove %q: %w", res.BestMove, err)
	}
	return move, nil
}

// Analyze runs a movetime-limited multi-PV search on the game's
// current position. An engine that produced no info lines yields an
// empty Analysis, not an error.
func (e *Engine) Analyze(game *chess.Game, movetime time.Duration) (*Analysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := game.Position()
	if err := e.eng.SetFEN(game.FEN()); err != nil {
		return nil, fmt.Errorf("engine: position: %w", err)
	}
	// A movetime search passes depth 0, so the library's depth-filter
	// option would drop every info line; variantsFromResults keeps the
	// deepest line per PV instead.
	res, err := e.eng.Go(0, "", movetime.Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("engine: go movetime %v: %w", movetime, err)
	}

	analysis := &Analysis{Variants: variantsFromResults(res.Results, pos)}
	if len(analysis.Variants) > e.multiPV {
		analysis.Variants = analysis.Variants[:e.multiPV]
	}
	return analysis, nil
}

// variantsFromResults folds raw info lines into white-perspective
// variants, best first. The engine reports a line for every depth it
// finished, so only the deepest entry per MultiPV index survives.
func variantsFromResults(results []uci.ScoreResult, pos *chess.Position) []Variant {
	deepest := make(map[int]uci.ScoreResult)
	for _, sr := range results {
		if cur, ok := deepest[sr.MultiPV]; ok && cur.Depth >= sr.Depth {
			continue
		}
		deepest[sr.MultiPV] = sr
	}

	var variants []Variant
	for _, sr := range deepest {
		v := Variant{
			CP:   sr.Score,
			Mate: sr.Mate,
			PV:   sr.BestMoves,
		}
		if sr.Mate {
			v.MateIn = sr.Score
			v.CP = 0
		}
		// UCI scores are from the side to move; flip to white's view.
		if pos.Turn() == chess.Black {
			v.CP = -v.CP
			v.MateIn = -v.MateIn
		}
		v.Score = FormatScore(v.CP, v.Mate, v.MateIn)
		v.Line = SANLine(pos, v.PV)
		variants = append(variants, v)
	}
	sortVariants(variants, pos.Turn())
	return variants
}

// Close quits the engine and reaps the subprocess.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eng.Close()
}

// sortVariants orders variants best-for-the-side-to-move first. Mates
// beat any centipawn score.
func sortVariants(vs []Variant, turn chess.Color) {
	sort.Slice(vs, func(i, j int) bool {
		iv, jv := variantValue(vs[i]), variantValue(vs[j])
		if turn == chess.White {
			return iv > jv
		}
		return iv < jv
	})
}

// variantValue collapses a variant to a single white-perspective value
// for ordering. Mate distances are pushed past any reachable cp value,
// shorter mates scoring more extreme.
func variantValue(v Variant) int {
	if !v.Mate {
		return v.CP
	}
	const mateBase = 100000
	if v.MateIn > 0 {
		return mateBase - v.MateIn
	}
	return -mateBase - v.MateIn
}

// SANLine renders a UCI move sequence as SAN starting from pos. It
// stops at the first move that no longer decodes; engines sometimes
// truncate PVs mid-line.
func SANLine(pos *chess.Position, pv []string) string {
	line := ""
	cur := pos
	for _, u := range pv {
		move, err := chess.UCINotation{}.Decode(cur, u)
		if err != nil {
			break
		}
		san := chess.AlgebraicNotation{}.Encode(cur, move)
		if line != "" {
			line += " "
		}
		line += san
		cur = cur.Update(move)
	}
	return line
}
