package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Particles.Count != 16000 || cfg.Ring.Target != 340 || cfg.Placement.AttemptBudget != 15 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Smoothing != 0.02 {
		t.Fatalf("smoothing %v, want 0.02", cfg.Smoothing)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"mode": "batch",
		"renderer": "terminal",
		"particles": {"count": 2000},
		"placement": {"attemptBudget": 20},
		"ring": {"target": 12, "yieldDelayMs": 0}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Particles.Count != 2000 {
		t.Fatalf("count %d, want 2000", cfg.Particles.Count)
	}
	if cfg.Particles.BodyRadius != 10 || cfg.Particles.DustRadius != 55 {
		t.Fatalf("radii not kept from defaults: %+v", cfg.Particles)
	}
	if cfg.Placement.AttemptBudget != 20 || cfg.Placement.InnerRadius != Default().Placement.InnerRadius {
		t.Fatalf("placement %+v", cfg.Placement)
	}
	if mode, _ := cfg.FeedMode(); mode != ring.FeedModeBatch {
		t.Fatalf("mode %v, want batch", mode)
	}
	if be, _ := cfg.RendererBackend(); be != renderer.BackendTypeTerminal {
		t.Fatalf("renderer %v, want terminal", be)
	}
	if len(cfg.FeederOptions()) != 3 {
		t.Fatalf("feeder options %d, want target, yield and workers", len(cfg.FeederOptions()))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	if _, err := Load(writeConfig(t, `{"mode": `)); err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("malformed file: %v", err)
	}
	if _, err := Load(writeConfig(t, `{"mode": "random"}`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("bad mode: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "renderer", mutate: func(c *Config) { c.Renderer = "opengl" }},
		{name: "fps", mutate: func(c *Config) { c.FPS = 0 }},
		{name: "smoothing zero", mutate: func(c *Config) { c.Smoothing = 0 }},
		{name: "smoothing above one", mutate: func(c *Config) { c.Smoothing = 1.5 }},
		{name: "window", mutate: func(c *Config) { c.Window.Height = 0 }},
		{name: "count", mutate: func(c *Config) { c.Particles.Count = 0 }},
		{name: "body radius", mutate: func(c *Config) { c.Particles.BodyRadius = -1 }},
		{name: "boundary", mutate: func(c *Config) { c.Particles.Boundary = 50 }},
		{name: "annulus", mutate: func(c *Config) { c.Placement.OuterRadius = c.Placement.InnerRadius }},
		{name: "budget low", mutate: func(c *Config) { c.Placement.AttemptBudget = 14 }},
		{name: "budget high", mutate: func(c *Config) { c.Placement.AttemptBudget = 21 }},
		{name: "target", mutate: func(c *Config) { c.Ring.Target = -1 }},
		{name: "base size", mutate: func(c *Config) { c.Ring.BaseSize = 0 }},
		{name: "pinch", mutate: func(c *Config) { c.Gesture.MaxPinch = c.Gesture.MinPinch }},
		{name: "gesture fps", mutate: func(c *Config) { c.Gesture.FPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFadeOut(t *testing.T) {
	cfg := Default()
	cfg.FadeOutMs = 250
	if got := cfg.FadeOut(); got != 250*time.Millisecond {
		t.Fatalf("FadeOut() = %v", got)
	}
}

func TestRingOptionsBuildFreshPlacers(t *testing.T) {
	cfg := Default()
	cfg.Placement.AttemptBudget = 18
	r := ring.NewRing(cfg.RingOptions()...)
	first := r.Placer()
	if first == nil {
		t.Fatal("new ring has no placer")
	}
	r.Reset()
	if r.Placer() == first {
		t.Fatal("Reset reused the placer")
	}
}
