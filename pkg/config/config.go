package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config carries everything both binaries need. Values come from an
// optional JSON file and can be overridden per-flag in the mains.
type Config struct {
	EnginePath         string     `json:"enginePath"`
	EngineDepth        int        `json:"engineDepth"`
	AnalysisMovetimeMS int        `json:"analysisMovetimeMs"`
	MultiPV            int        `json:"multiPV"`
	PuzzleURL          string     `json:"puzzleUrl"`
	TablebaseURL       string     `json:"tablebaseUrl"`
	ServerAddr         string     `json:"serverAddr"`
	Theme              string     `json:"theme"`
	Themes             []ThemeHex `json:"themes"`
}

// ThemeHex is the serialized form of a UI theme. Colors are hex strings
// so a config file stays editable by hand; the gui package converts
// them to terminal colors.
type ThemeHex struct {
	Name        string `json:"name"`
	SquareDark  string `json:"squareDark"`
	SquareLight string `json:"squareLight"`
	SquareHigh  string `json:"squareHigh"`
	SquareCheck string `json:"squareCheck"`
	White       string `json:"white"`
	Black       string `json:"black"`
}

// Default mirrors the constants the app shipped with before it had a
// config file: stockfish on PATH, depth 10 play, 300ms multi-PV 3
// analysis, lichess for puzzles and tablebase probes.
func Default() Config {
	return Config{
		EnginePath:         "stockfish",
		EngineDepth:        10,
		AnalysisMovetimeMS: 300,
		MultiPV:            3,
		PuzzleURL:          "https://lichess.org/api",
		TablebaseURL:       "https://tablebase.lichess.ovh",
		ServerAddr:         "127.0.0.1:5555",
		Theme:              "basic",
	}
}

// Load reads the config file at path over the defaults. An empty path
// returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
