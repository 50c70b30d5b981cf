package renderer

import "github.com/gdamore/tcell/v2"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the WebGPU backend.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithScreen makes the terminal backend draw into screen instead of opening the
// controlling terminal. The renderer takes ownership and finalizes it on Close.
// The screen must already be initialized.
//
// Parameters:
//   - screen: an initialized tcell screen
//
// Returns:
//   - RendererBuilderOption: a function that applies the screen option to a renderer
func WithScreen(screen tcell.Screen) RendererBuilderOption {
	return func(r *renderer) {
		r.screen = screen
	}
}

// WithGlyphs sets the terminal density ramp, from sparsest to densest.
func WithGlyphs(ramp string) RendererBuilderOption {
	return func(r *renderer) {
		if ramp != "" {
			r.glyphs = []rune(ramp)
		}
	}
}
