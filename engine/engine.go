package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/gesture"
	"github.com/Aman-3O/Esha-Suprise/engine/profiler"
	"github.com/Aman-3O/Esha-Suprise/engine/progress"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/scene"
	"github.com/Aman-3O/Esha-Suprise/engine/window"
)

// eventBuffer bounds how far a feeder may run ahead of the driver.
const eventBuffer = 64

// engine implements the Engine interface.
// One driver goroutine owns the scene; everything else talks to it through channels.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	inputChannel    chan renderer.Input
	resizeChannel   chan [2]int
	rebuildChannel  chan struct{}

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene

	feeder     ring.Feeder
	events     chan ring.Event
	feedCancel context.CancelFunc

	indicator *progress.Indicator
	reporters []progress.Reporter
	reporter  progress.Reporter

	mapper   gesture.Mapper
	gestures <-chan gesture.Result

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	frame renderer.Frame
}

// Engine is the frame driver. Each tick it integrates the scene, smooths the
// transform and submits a frame to the renderer, while ring images, gesture
// results and user input arrive on their own channels.
type Engine interface {
	// Window returns the underlying window, or nil when running headless or in a terminal.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the driver owns. It must only be mutated from the
	// tick callback.
	Scene() scene.Scene

	// Renderer returns the renderer, or nil when running headless.
	Renderer() renderer.Renderer

	// Indicator returns the loading indicator fed by the ring feeder.
	Indicator() *progress.Indicator

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the frame rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called on the driver goroutine after
	// every frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// HandleInput queues a user command. Safe to call from any goroutine;
	// InputQuit takes effect immediately.
	//
	// Parameters:
	//   - in: the command
	HandleInput(in renderer.Input)

	// Resize queues a surface resize. Only the latest pending size is applied.
	//
	// Parameters:
	//   - width: new width in renderer units
	//   - height: new height in renderer units
	Resize(width, height int)

	// Rebuild queues a scene rebuild and restarts ring loading.
	Rebuild()

	// Run starts the frame driver and blocks until the window closes or Quit is called.
	// The renderer is closed before Run returns.
	Run()

	// Quit signals the driver to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Wires window and renderer callbacks to the driver's channels.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		inputChannel:     make(chan renderer.Input, 64),
		resizeChannel:    make(chan [2]int, 1),
		rebuildChannel:   make(chan struct{}, 1),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil {
		panic("engine: NewEngine requires a non-nil Scene")
	}
	if e.indicator == nil {
		e.indicator = progress.NewIndicator(progress.DefaultFadeOut, nil)
	}
	if e.mapper == nil {
		e.mapper = gesture.NewMapper()
	}
	e.reporter = progress.Multi(append([]progress.Reporter{e.indicator}, e.reporters...)...)

	if e.renderer != nil {
		e.renderer.SetInputCallback(e.HandleInput)
		e.renderer.SetResizeCallback(e.Resize)
		e.scene.Camera().SetAspect(e.renderer.Aspect())
	}

	if e.window != nil {
		ctrl := e.scene.Camera().Controller()
		e.window.SetResizeCallback(e.Resize)
		e.window.SetDragCallback(ctrl.Drag)
		e.window.SetScrollCallback(ctrl.Zoom)
		e.window.SetKeyDownCallback(func(keyCode uint32) {
			if in, ok := InputForKey(keyCode); ok {
				e.HandleInput(in)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Indicator() *progress.Indicator {
	return e.indicator
}

func (e *engine) Run() {
	e.running = true
	e.handle()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	e.running = false

	if e.renderer != nil {
		if err := e.renderer.Close(); err != nil {
			log.Printf("[Engine] closing renderer: %v", err)
		}
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit and asks
// the window loop to stop. Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handle launches the driver goroutine, tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleFrames()
}

// handleFrames is the frame driver. It is the only goroutine that touches the scene.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	// Recover from panics inside the driver to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame driver recovered from panic: %v", r)
			e.signalQuit()
		}
	}()
	defer e.stopFeed()

	e.startFeed()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case ev := <-e.events:
			e.handleEvent(ev)
		case res, ok := <-e.gestures:
			if !ok {
				e.gestures = nil
				continue
			}
			e.mapper.Apply(res, e.scene.Targets())
		case in := <-e.inputChannel:
			e.handleInput(in)
		case size := <-e.resizeChannel:
			e.applyResize(size[0], size[1])
		case <-e.rebuildChannel:
			e.rebuild()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		}
	}
}

// tick runs one frame: integrate, smooth, submit.
func (e *engine) tick(dt float32) {
	e.scene.Step()
	e.scene.Snapshot(&e.frame)
	e.frame.Progress = e.progressState()

	if e.renderer != nil {
		if err := e.renderer.Render(&e.frame); err != nil {
			if !errors.Is(err, renderer.ErrClosed) {
				log.Printf("[Engine] render failed: %v", err)
			}
		} else {
			e.scene.Field().ClearDirty()
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(profiler.Counts{
			Particles: e.scene.Field().Len(),
			Sprites:   e.scene.Ring().Len(),
			Percent:   e.indicator.Percent(),
		})
	}
}

func (e *engine) progressState() renderer.ProgressState {
	p := e.indicator.Percent()
	return renderer.ProgressState{
		Visible: e.indicator.Visible(),
		Percent: p,
		Opacity: float32(e.indicator.Opacity()),
		Label:   progress.Label(p),
	}
}

func (e *engine) handleEvent(ev ring.Event) {
	switch ev.Kind {
	case ring.EventArrival:
		e.scene.AddSprites(ev.Texture, ev.Count)
	case ring.EventProgress:
		e.reporter.Update(ev.Percent)
	case ring.EventDone:
		e.scene.SealRing()
		e.reporter.Complete()
	}
}

func (e *engine) handleInput(in renderer.Input) {
	ctrl := e.scene.Camera().Controller()
	switch in {
	case renderer.InputOrbitLeft:
		ctrl.OrbitLeft()
	case renderer.InputOrbitRight:
		ctrl.OrbitRight()
	case renderer.InputOrbitUp:
		ctrl.OrbitUp()
	case renderer.InputOrbitDown:
		ctrl.OrbitDown()
	case renderer.InputZoomIn:
		ctrl.Zoom(1)
	case renderer.InputZoomOut:
		ctrl.Zoom(-1)
	case renderer.InputRebuild:
		e.rebuild()
	case renderer.InputQuit:
		e.signalQuit()
	}
}

func (e *engine) applyResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	if e.renderer != nil {
		e.renderer.Resize(width, height)
		aspect = e.renderer.Aspect()
	}
	e.scene.Camera().SetAspect(aspect)
}

// rebuild restarts the scene and ring loading from scratch.
func (e *engine) rebuild() {
	log.Printf("[Engine] rebuilding scene")
	e.stopFeed()
	e.scene.Rebuild()
	e.indicator.Reset()
	e.startFeed()
}

// startFeed runs the feeder on its own goroutine with a fresh event channel, so
// events from a cancelled run are never observed.
func (e *engine) startFeed() {
	if e.feeder == nil {
		e.scene.SealRing()
		e.reporter.Complete()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan ring.Event, eventBuffer)
	e.events = events
	e.feedCancel = cancel

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.feeder.Run(ctx, events)
	}()
}

func (e *engine) stopFeed() {
	if e.feedCancel != nil {
		e.feedCancel()
		e.feedCancel = nil
	}
	e.events = nil
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the frame rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called after each frame.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) HandleInput(in renderer.Input) {
	if in == renderer.InputQuit {
		e.signalQuit()
		return
	}
	select {
	case e.inputChannel <- in:
	default:
		// driver is behind; dropping a key repeat is harmless
	}
}

func (e *engine) Resize(width, height int) {
	size := [2]int{width, height}
	select {
	case e.resizeChannel <- size:
	default:
		select {
		case <-e.resizeChannel:
		default:
		}
		select {
		case e.resizeChannel <- size:
		default:
		}
	}
}

func (e *engine) Rebuild() {
	select {
	case e.rebuildChannel <- struct{}{}:
	default:
	}
}
