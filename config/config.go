// Package config loads the JSON settings of the saturn binary and translates them
// into the functional options each component takes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/gesture"
	"github.com/Aman-3O/Esha-Suprise/engine/particle"
	"github.com/Aman-3O/Esha-Suprise/engine/placement"
	"github.com/Aman-3O/Esha-Suprise/engine/progress"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/transform"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Allowed attempt budgets for sprite placement.
const (
	MinAttemptBudget = 15
	MaxAttemptBudget = 20
)

type WindowCfg struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title,omitempty"`
}

type ParticlesCfg struct {
	Count          int     `json:"count"`
	BodyRadius     float64 `json:"bodyRadius"`
	DustRadius     float64 `json:"dustRadius"`
	MinBodySpeed   float64 `json:"minBodySpeed"`
	BodySpeedRange float64 `json:"bodySpeedRange"`
	DustSpeed      float64 `json:"dustSpeed"`
	Boundary       float64 `json:"boundary"`
	// Workers > 0 splits integration over a worker pool.
	Workers   int `json:"workers,omitempty"`
	ChunkSize int `json:"chunkSize,omitempty"`
}

type PlacementCfg struct {
	InnerRadius   float64 `json:"innerRadius"`
	OuterRadius   float64 `json:"outerRadius"`
	HalfHeight    float64 `json:"halfHeight"`
	MinSeparation float64 `json:"minSeparation"`
	AttemptBudget int     `json:"attemptBudget"`
}

type RingCfg struct {
	Target       int     `json:"target"`
	MaxAttempts  int     `json:"maxAttempts,omitempty"`
	YieldEvery   int     `json:"yieldEvery"`
	YieldDelayMs int     `json:"yieldDelayMs"`
	Workers      int     `json:"workers,omitempty"`
	BaseSize     float64 `json:"baseSize"`
	SpeedFactor  float64 `json:"speedFactor"`
}

type GestureCfg struct {
	MinPinch     float64 `json:"minPinch"`
	MaxPinch     float64 `json:"maxPinch"`
	ScaleMin     float64 `json:"scaleMin"`
	ScaleSpan    float64 `json:"scaleSpan"`
	RotationGain float64 `json:"rotationGain"`
	// Recording is a JSON file of tracker results replayed as the hand input.
	Recording string `json:"recording,omitempty"`
	Loop      bool   `json:"loop,omitempty"`
	FPS       int    `json:"fps"`
}

type Config struct {
	Images    string       `json:"images"`
	Mode      string       `json:"mode"`
	Renderer  string       `json:"renderer"`
	FPS       float64      `json:"fps"`
	Profile   bool         `json:"profile,omitempty"`
	Smoothing float64      `json:"smoothing"`
	FadeOutMs int          `json:"fadeOutMs"`
	Window    WindowCfg    `json:"window"`
	Particles ParticlesCfg `json:"particles"`
	Placement PlacementCfg `json:"placement"`
	Ring      RingCfg      `json:"ring"`
	Gesture   GestureCfg   `json:"gesture"`
}

// Default returns the configuration every component uses when given no options.
func Default() Config {
	return Config{
		Images:    "images",
		Mode:      "sequential",
		Renderer:  "wgpu",
		FPS:       60,
		Smoothing: transform.DefaultSmoothingFactor,
		FadeOutMs: int(progress.DefaultFadeOut / time.Millisecond),
		Window: WindowCfg{
			Width:  1280,
			Height: 720,
			Title:  "Saturn",
		},
		Particles: ParticlesCfg{
			Count:          particle.DefaultCount,
			BodyRadius:     particle.DefaultBodyRadius,
			DustRadius:     particle.DefaultDustRadius,
			MinBodySpeed:   particle.DefaultMinBodySpeed,
			BodySpeedRange: particle.DefaultBodySpeedRange,
			DustSpeed:      particle.DefaultDustSpeed,
			Boundary:       particle.DefaultBoundary,
			ChunkSize:      2048,
		},
		Placement: PlacementCfg{
			InnerRadius:   placement.DefaultInnerRadius,
			OuterRadius:   placement.DefaultOuterRadius,
			HalfHeight:    placement.DefaultHalfHeight,
			MinSeparation: placement.DefaultMinSeparation,
			AttemptBudget: placement.DefaultAttemptBudget,
		},
		Ring: RingCfg{
			Target:       ring.DefaultTarget,
			YieldEvery:   ring.DefaultYieldEvery,
			YieldDelayMs: int(ring.DefaultYieldDelay / time.Millisecond),
			Workers:      4,
			BaseSize:     ring.DefaultBaseSize,
			SpeedFactor:  ring.DefaultSpeedFactor,
		},
		Gesture: GestureCfg{
			MinPinch:     gesture.DefaultMinPinch,
			MaxPinch:     gesture.DefaultMaxPinch,
			ScaleMin:     gesture.DefaultScaleMin,
			ScaleSpan:    gesture.DefaultScaleSpan,
			RotationGain: gesture.DefaultRotationGain,
			Loop:         true,
			FPS:          30,
		},
	}
}

// Load reads the JSON file at path over the defaults and validates the result.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: location of the JSON file
//
// Returns:
//   - Config: the merged configuration
//   - error: read, parse or validation failure
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks ranges and enumerations. Every error wraps ErrInvalid.
func (c Config) Validate() error {
	if _, err := c.FeedMode(); err != nil {
		return err
	}
	if _, err := c.RendererBackend(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return invalid("fps must be > 0, got %v", c.FPS)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return invalid("smoothing must be in (0, 1], got %v", c.Smoothing)
	}
	if c.FadeOutMs < 0 {
		return invalid("fadeOutMs must be >= 0, got %d", c.FadeOutMs)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	p := c.Particles
	if p.Count <= 0 {
		return invalid("particles.count must be > 0, got %d", p.Count)
	}
	if p.BodyRadius <= 0 || p.DustRadius <= 0 {
		return invalid("particle radii must be > 0, got body=%v dust=%v", p.BodyRadius, p.DustRadius)
	}
	if p.Boundary <= p.DustRadius {
		return invalid("particles.boundary %v must exceed dustRadius %v", p.Boundary, p.DustRadius)
	}
	if p.Workers < 0 || p.ChunkSize < 0 {
		return invalid("particles.workers and chunkSize must be >= 0")
	}

	pl := c.Placement
	if pl.InnerRadius < 0 || pl.OuterRadius <= pl.InnerRadius {
		return invalid("placement annulus [%v, %v] is empty", pl.InnerRadius, pl.OuterRadius)
	}
	if pl.MinSeparation < 0 {
		return invalid("placement.minSeparation must be >= 0, got %v", pl.MinSeparation)
	}
	if pl.AttemptBudget < MinAttemptBudget || pl.AttemptBudget > MaxAttemptBudget {
		return invalid("placement.attemptBudget must be in [%d, %d], got %d",
			MinAttemptBudget, MaxAttemptBudget, pl.AttemptBudget)
	}

	r := c.Ring
	if r.Target < 0 || r.MaxAttempts < 0 || r.YieldEvery < 0 || r.YieldDelayMs < 0 || r.Workers < 0 {
		return invalid("ring counts must be >= 0: %+v", r)
	}
	if r.BaseSize <= 0 || r.SpeedFactor <= 0 {
		return invalid("ring.baseSize and ring.speedFactor must be > 0")
	}

	g := c.Gesture
	if g.MaxPinch <= g.MinPinch {
		return invalid("gesture pinch range [%v, %v] is empty", g.MinPinch, g.MaxPinch)
	}
	if g.ScaleMin <= 0 || g.ScaleSpan < 0 {
		return invalid("gesture scale range must be positive, got min=%v span=%v", g.ScaleMin, g.ScaleSpan)
	}
	if g.FPS <= 0 {
		return invalid("gesture.fps must be > 0, got %d", g.FPS)
	}
	return nil
}

// FeedMode parses Mode.
func (c Config) FeedMode() (ring.FeedMode, error) {
	switch c.Mode {
	case "", "sequential":
		return ring.FeedModeSequential, nil
	case "batch":
		return ring.FeedModeBatch, nil
	}
	return ring.FeedModeSequential, invalid("mode must be sequential or batch, got %q", c.Mode)
}

// RendererBackend parses Renderer.
func (c Config) RendererBackend() (renderer.RendererBackendType, error) {
	switch c.Renderer {
	case "", "wgpu":
		return renderer.BackendTypeWGPU, nil
	case "terminal":
		return renderer.BackendTypeTerminal, nil
	}
	return renderer.BackendTypeWGPU, invalid("renderer must be wgpu or terminal, got %q", c.Renderer)
}

func (c Config) FadeOut() time.Duration {
	return time.Duration(c.FadeOutMs) * time.Millisecond
}

func (c Config) GeneratorOptions() []particle.GeneratorBuilderOption {
	p := c.Particles
	return []particle.GeneratorBuilderOption{
		particle.WithCount(p.Count),
		particle.WithBodyRadius(p.BodyRadius),
		particle.WithDustRadius(p.DustRadius),
		particle.WithBodySpeed(p.MinBodySpeed, p.BodySpeedRange),
		particle.WithDustSpeed(p.DustSpeed),
	}
}

func (c Config) IntegratorOptions() []particle.IntegratorBuilderOption {
	return []particle.IntegratorBuilderOption{particle.WithBoundary(c.Particles.Boundary)}
}

func (c Config) PlacerOptions() []placement.PlacerBuilderOption {
	pl := c.Placement
	return []placement.PlacerBuilderOption{
		placement.WithAnnulus(pl.InnerRadius, pl.OuterRadius, pl.HalfHeight),
		placement.WithMinSeparation(pl.MinSeparation),
		placement.WithAttemptBudget(pl.AttemptBudget),
	}
}

// RingOptions builds a fresh placer per ring construction from the placement settings.
func (c Config) RingOptions() []ring.RingBuilderOption {
	placerOptions := c.PlacerOptions()
	return []ring.RingBuilderOption{
		ring.WithPlacerFactory(func() placement.Placer {
			return placement.NewPlacer(placerOptions...)
		}),
		ring.WithBaseSize(c.Ring.BaseSize),
		ring.WithSpeedFactor(c.Ring.SpeedFactor),
	}
}

func (c Config) FeederOptions() []ring.FeederBuilderOption {
	r := c.Ring
	opts := []ring.FeederBuilderOption{
		ring.WithTarget(r.Target),
		ring.WithYield(r.YieldEvery, time.Duration(r.YieldDelayMs)*time.Millisecond),
	}
	if r.MaxAttempts > 0 {
		opts = append(opts, ring.WithMaxAttempts(r.MaxAttempts))
	}
	if r.Workers > 0 {
		opts = append(opts, ring.WithWorkers(r.Workers))
	}
	return opts
}

func (c Config) MapperOptions() []gesture.MapperBuilderOption {
	g := c.Gesture
	return []gesture.MapperBuilderOption{
		gesture.WithPinchRange(g.MinPinch, g.MaxPinch),
		gesture.WithScaleRange(g.ScaleMin, g.ScaleSpan),
		gesture.WithRotationGain(g.RotationGain),
	}
}
