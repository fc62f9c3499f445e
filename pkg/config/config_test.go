package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePath != "stockfish" || cfg.EngineDepth != 10 || cfg.MultiPV != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PuzzleURL == "" || cfg.TablebaseURL == "" || cfg.ServerAddr == "" {
		t.Error("default endpoints must not be empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"enginePath": "/opt/sf/stockfish", "engineDepth": 18, "theme": "dark"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePath != "/opt/sf/stockfish" || cfg.EngineDepth != 18 || cfg.Theme != "dark" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched fields keep their defaults.
	if cfg.MultiPV != 3 || cfg.ServerAddr != "127.0.0.1:5555" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("bad json should fail")
	}
}
