package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. It requires a window.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeTerminal rasterizes the scene into terminal cells with tcell.
	BackendTypeTerminal
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is implemented by each concrete backend. The Renderer serializes
// calls into it.
type RendererBackend interface {
	// Draw renders one frame.
	Draw(f *Frame) error

	// Resize reconfigures the output for a new size in backend units
	// (pixels for WebGPU, cells for the terminal).
	Resize(width, height int)

	// Size returns the current output size in backend units.
	Size() (width, height int)

	// Aspect returns the width/height ratio the camera should project with.
	Aspect() float32

	// SetInputCallback registers the receiver for backend-originated input.
	SetInputCallback(cb func(Input))

	// SetResizeCallback registers the receiver for backend-originated resizes.
	SetResizeCallback(cb func(width, height int))

	// Release frees every backend resource.
	Release() error
}
