package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Aman-3O/Esha-Suprise/engine/window"

	"github.com/gdamore/tcell/v2"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("renderer: closed")

// Input is a high-level user command produced by a backend or a window.
type Input int

// Inputs understood by the frame driver.
const (
	InputNone Input = iota
	InputOrbitLeft
	InputOrbitRight
	InputOrbitUp
	InputOrbitDown
	InputZoomIn
	InputZoomOut
	InputRebuild
	InputQuit
)

func (in Input) String() string {
	switch in {
	case InputOrbitLeft:
		return "orbit-left"
	case InputOrbitRight:
		return "orbit-right"
	case InputOrbitUp:
		return "orbit-up"
	case InputOrbitDown:
		return "orbit-down"
	case InputZoomIn:
		return "zoom-in"
	case InputZoomOut:
		return "zoom-out"
	case InputRebuild:
		return "rebuild"
	case InputQuit:
		return "quit"
	default:
		return "none"
	}
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	frames uint64
	closed bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	screen               tcell.Screen
	glyphs               []rune
}

// Renderer draws Frames produced by the scene. It is the single rendering
// collaborator of the frame driver: one Render call per tick, a dirty flag on the
// point buffer, and resize reprojection.
type Renderer interface {
	// Render draws f. Frame slices are read only for the duration of the call.
	//
	// Parameters:
	//   - f: the frame snapshot
	//
	// Returns:
	//   - error: backend failure, or ErrClosed after Close
	Render(f *Frame) error

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface
	//   - height: the new height of the surface
	Resize(width, height int)

	// Size returns the current surface size.
	Size() (width, height int)

	// Aspect returns the width/height ratio to project with.
	Aspect() float32

	// SetInputCallback registers a receiver for input the backend reads itself
	// (terminal keys). Backends whose input arrives through a window never call it.
	SetInputCallback(cb func(Input))

	// SetResizeCallback registers a receiver for resizes the backend detects itself.
	SetResizeCallback(cb func(width, height int))

	// Frames returns the number of successfully rendered frames.
	Frames() uint64

	// BackendType returns the backend in use.
	BackendType() RendererBackendType

	// Close releases the backend. Further Render calls return ErrClosed.
	Close() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer backed by the requested backend.
// The WebGPU backend needs win for its surface; the terminal backend ignores it.
//
// Parameters:
//   - backendType: the backend to create
//   - win: the window to present into (WebGPU only)
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: the backend could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeTerminal:
		b, err := newTerminalRendererBackend(r.screen, r.glyphs)
		if err != nil {
			return nil, err
		}
		r.backend = b
	case BackendTypeWGPU:
		if win == nil {
			panic("renderer: NewRenderer requires a non-nil Window for the WebGPU backend")
		}
		msaa := MSAA4x
		if r.pendingMSAA != nil {
			msaa = *r.pendingMSAA
		}
		b, err := newWGPURendererBackend(win, r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, err
		}
		if r.pendingPresentMode != nil {
			b.SetPresentMode(*r.pendingPresentMode)
		}
		b.Resize(win.Width(), win.Height())
		r.backend = b
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", backendType)
	}

	return r, nil
}

func (r *renderer) Render(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.backend.Draw(f); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || width <= 0 || height <= 0 {
		return
	}
	r.backend.Resize(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Size()
}

func (r *renderer) Aspect() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Aspect()
}

func (r *renderer) SetInputCallback(cb func(Input)) {
	r.backend.SetInputCallback(cb)
}

func (r *renderer) SetResizeCallback(cb func(width, height int)) {
	r.backend.SetResizeCallback(cb)
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.backend.Release()
}
