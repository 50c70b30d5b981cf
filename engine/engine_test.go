package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/gesture"
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/particle"
	"github.com/Aman-3O/Esha-Suprise/engine/progress"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/scene"
)

type fakeRenderer struct {
	mu          sync.Mutex
	width       int
	height      int
	frames      uint64
	points      int
	closed      bool
	panicRender bool
}

var _ renderer.Renderer = &fakeRenderer{}

func (r *fakeRenderer) Render(f *renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicRender {
		panic("backend lost")
	}
	if r.closed {
		return renderer.ErrClosed
	}
	r.frames++
	r.points = len(f.Points) / 3
	return nil
}

func (r *fakeRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *fakeRenderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *fakeRenderer) Aspect() float32 {
	w, h := r.Size()
	return float32(w) / float32(h)
}

func (r *fakeRenderer) SetInputCallback(func(renderer.Input)) {}

func (r *fakeRenderer) SetResizeCallback(func(int, int)) {}

func (r *fakeRenderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *fakeRenderer) BackendType() renderer.RendererBackendType {
	return renderer.BackendTypeTerminal
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeRenderer) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type countingReporter struct {
	mu        sync.Mutex
	updates   int
	completes int
}

func (c *countingReporter) Update(int) {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
}

func (c *countingReporter) Complete() {
	c.mu.Lock()
	c.completes++
	c.mu.Unlock()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestFeeder(t *testing.T, target int) ring.Feeder {
	t.Helper()
	keys := []string{"a.png", "b.png"}
	src := loader.NewLoader(loader.BackendTypeMemory,
		loader.WithAsset(keys[0], encodePNG(t, 8, 4)),
		loader.WithAsset(keys[1], encodePNG(t, 4, 8)),
	)
	return ring.NewFeeder(ring.FeedModeSequential, src, keys,
		ring.WithTarget(target),
		ring.WithYield(0, 0),
	)
}

func newTestScene() scene.Scene {
	return scene.NewScene(scene.WithGenerator(particle.NewGenerator(particle.WithCount(500))))
}

func pinch(distance float64) gesture.Result {
	var h gesture.Hand
	h[gesture.PalmCenter] = gesture.Landmark{X: 0.5, Y: 0.5}
	h[gesture.ThumbTip] = gesture.Landmark{X: 0.4, Y: 0.4}
	h[gesture.IndexTip] = gesture.Landmark{X: 0.4 + distance, Y: 0.4}
	return gesture.Result{Hands: []gesture.Hand{h}}
}

func runWithTimeout(t *testing.T, e Engine, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		e.Quit()
		t.Fatalf("Run did not return within %v", timeout)
	}
}

func TestRunLoadsRingAndAppliesGestures(t *testing.T) {
	r := &fakeRenderer{width: 300, height: 200}
	gestures := make(chan gesture.Result, 1)
	gestures <- pinch(0.16)
	close(gestures)

	rep := &countingReporter{}
	e := NewEngine(
		WithScene(newTestScene()),
		WithRenderer(r),
		WithFeeder(newTestFeeder(t, 6)),
		WithGestures(gestures, nil),
		WithReporters(rep),
		WithTickRate(500),
	)
	if got := e.Scene().Camera().Aspect(); got != 1.5 {
		t.Fatalf("initial camera aspect %v, want 1.5", got)
	}
	e.Resize(800, 400)

	e.SetTickCallback(func(float32) {
		s := e.Scene()
		if s.Ring().Sealed() &&
			math.Abs(s.Targets().Scale-1.25) < 1e-9 &&
			s.Camera().Aspect() == 2 {
			e.Quit()
		}
	})
	runWithTimeout(t, e, 10*time.Second)

	s := e.Scene()
	if got := s.Ring().Len(); got != 6 {
		t.Fatalf("ring holds %d sprites, want 6", got)
	}
	if !e.Indicator().Done() || e.Indicator().Percent() != 100 {
		t.Fatalf("indicator done=%v percent=%d", e.Indicator().Done(), e.Indicator().Percent())
	}
	if rep.completes != 1 || rep.updates == 0 {
		t.Fatalf("reporter saw %d updates and %d completions", rep.updates, rep.completes)
	}
	if s.Transform().Current.Scale <= 1 {
		t.Fatalf("current scale %v did not move toward the pinch target", s.Transform().Current.Scale)
	}
	if r.Frames() == 0 {
		t.Fatal("no frames rendered")
	}
	if r.points != 500 {
		t.Fatalf("renderer saw %d points, want 500", r.points)
	}
	if !r.isClosed() {
		t.Fatal("renderer not closed after Run")
	}
	if w, h := r.Size(); w != 800 || h != 400 {
		t.Fatalf("renderer size %dx%d, want 800x400", w, h)
	}
}

func TestRebuildRestartsFeed(t *testing.T) {
	rep := &countingReporter{}
	e := NewEngine(
		WithScene(newTestScene()),
		WithFeeder(newTestFeeder(t, 3)),
		WithReporters(rep),
		WithTickRate(500),
	)

	var (
		rebuilt    bool
		lastFrames uint64
		restarted  bool
	)
	e.SetTickCallback(func(float32) {
		s := e.Scene()
		switch {
		case !rebuilt:
			if s.Ring().Sealed() {
				rebuilt = true
				lastFrames = s.Frames()
				e.Rebuild()
			}
		case !restarted:
			if s.Frames() <= lastFrames {
				restarted = true
			} else {
				lastFrames = s.Frames()
			}
		default:
			if s.Ring().Sealed() {
				e.Quit()
			}
		}
	})
	runWithTimeout(t, e, 10*time.Second)

	if !restarted {
		t.Fatal("scene was not rebuilt")
	}
	if got := e.Scene().Ring().Len(); got != 3 {
		t.Fatalf("ring holds %d sprites after rebuild, want 3", got)
	}
	if rep.completes != 2 {
		t.Fatalf("reporter completed %d times, want 2", rep.completes)
	}
}

func TestRunWithoutFeederSealsImmediately(t *testing.T) {
	e := NewEngine(WithScene(newTestScene()), WithTickRate(500))
	e.SetTickCallback(func(float32) { e.Quit() })
	runWithTimeout(t, e, 5*time.Second)

	if !e.Scene().Ring().Sealed() || e.Scene().Ring().Len() != 0 {
		t.Fatalf("sealed=%v len=%d", e.Scene().Ring().Sealed(), e.Scene().Ring().Len())
	}
	if !e.Indicator().Done() {
		t.Fatal("indicator not complete")
	}
}

func TestRenderPanicStopsRun(t *testing.T) {
	r := &fakeRenderer{width: 10, height: 10, panicRender: true}
	e := NewEngine(WithScene(newTestScene()), WithRenderer(r), WithTickRate(500))
	runWithTimeout(t, e, 5*time.Second)

	if !r.isClosed() {
		t.Fatal("renderer not closed after recovered panic")
	}
}

func TestQuitInput(t *testing.T) {
	e := NewEngine(WithScene(newTestScene()), WithTickRate(500))
	e.SetTickCallback(func(float32) {
		e.HandleInput(renderer.InputZoomIn)
		e.HandleInput(renderer.InputQuit)
	})
	runWithTimeout(t, e, 5*time.Second)

	// Quit is idempotent.
	e.Quit()
	e.HandleInput(renderer.InputQuit)
}

func TestNewEngineRequiresScene(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewEngine()
}

func TestIndicatorOption(t *testing.T) {
	ind := progress.NewIndicator(time.Millisecond, nil)
	e := NewEngine(WithScene(newTestScene()), WithIndicator(ind))
	if e.Indicator() != ind {
		t.Fatal("indicator option ignored")
	}
}

func TestInputForKey(t *testing.T) {
	tests := []struct {
		key  uint32
		want renderer.Input
		ok   bool
	}{
		{key: common.KeyLeft, want: renderer.InputOrbitLeft, ok: true},
		{key: common.KeyRight, want: renderer.InputOrbitRight, ok: true},
		{key: common.KeyUp, want: renderer.InputOrbitUp, ok: true},
		{key: common.KeyDown, want: renderer.InputOrbitDown, ok: true},
		{key: common.KeyEqual, want: renderer.InputZoomIn, ok: true},
		{key: common.KeyKPAdd, want: renderer.InputZoomIn, ok: true},
		{key: common.KeyMinus, want: renderer.InputZoomOut, ok: true},
		{key: common.KeyKPSubtract, want: renderer.InputZoomOut, ok: true},
		{key: common.KeyR, want: renderer.InputRebuild, ok: true},
		{key: common.KeyQ, want: renderer.InputQuit, ok: true},
		{key: common.KeyEsc, want: renderer.InputQuit, ok: true},
		{key: 65, want: renderer.InputNone, ok: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.key), func(t *testing.T) {
			got, ok := InputForKey(tt.key)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("InputForKey(%d) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}
