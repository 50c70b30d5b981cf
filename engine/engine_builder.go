package engine

import (
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/gesture"
	"github.com/Aman-3O/Esha-Suprise/engine/progress"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/scene"
	"github.com/Aman-3O/Esha-Suprise/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the frame rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose message loop Run blocks on. Its resize, drag,
// scroll and key callbacks are wired to the driver.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene the driver owns. Required.
//
// Parameters:
//   - s: the Scene to drive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithRenderer sets the renderer frames are submitted to. Without one the
// engine runs headless.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithFeeder sets the ring image feeder started by Run and restarted by Rebuild.
//
// Parameters:
//   - f: the feeder
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFeeder(f ring.Feeder) EngineBuilderOption {
	return func(e *engine) {
		e.feeder = f
	}
}

// WithGestures sets the channel of tracker results and the mapper that turns them
// into target transforms.
//
// Parameters:
//   - results: gesture results, typically from gesture.Tracker.Run
//   - m: the mapper (nil keeps the default mapper)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGestures(results <-chan gesture.Result, m gesture.Mapper) EngineBuilderOption {
	return func(e *engine) {
		e.gestures = results
		if m != nil {
			e.mapper = m
		}
	}
}

// WithIndicator sets the loading indicator drawn by the renderer.
func WithIndicator(i *progress.Indicator) EngineBuilderOption {
	return func(e *engine) {
		e.indicator = i
	}
}

// WithReporters adds progress reporters notified alongside the indicator.
func WithReporters(reporters ...progress.Reporter) EngineBuilderOption {
	return func(e *engine) {
		e.reporters = append(e.reporters, reporters...)
	}
}
