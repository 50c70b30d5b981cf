package renderer

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGlyphs is the terminal density ramp, sparsest first.
const DefaultGlyphs = " .·:+*#@"

// cellAspect is the height/width ratio of a terminal cell.
const cellAspect = 2

type terminalRendererBackendImpl struct {
	mu     sync.Mutex
	screen tcell.Screen
	glyphs []rune

	width   int
	height  int
	density []float32
	colors  map[string]mgl32.Vec3 // mean sprite color per texture key

	onInput  func(Input)
	onResize func(width, height int)

	done chan struct{}
	wg   sync.WaitGroup
}

var _ RendererBackend = &terminalRendererBackendImpl{}

// newTerminalRendererBackend opens the terminal (or adopts screen) and starts the
// event goroutine that turns key presses into Inputs.
func newTerminalRendererBackend(screen tcell.Screen, glyphs []rune) (*terminalRendererBackendImpl, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("renderer: open terminal: %w", err)
		}
		if err := s.Init(); err != nil {
			return nil, fmt.Errorf("renderer: init terminal: %w", err)
		}
		screen = s
	}
	if len(glyphs) == 0 {
		glyphs = []rune(DefaultGlyphs)
	}

	b := &terminalRendererBackendImpl{
		screen: screen,
		glyphs: glyphs,
		done:   make(chan struct{}),
	}
	b.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	b.screen.HideCursor()
	b.resizeLocked(screen.Size())

	b.wg.Add(1)
	go b.pollEvents()
	return b, nil
}

func (b *terminalRendererBackendImpl) pollEvents() {
	defer b.wg.Done()
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-b.done:
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			// the event may be stale; the screen knows the current size
			w, h := b.screen.Size()
			b.mu.Lock()
			b.resizeLocked(w, h)
			cb := b.onResize
			b.mu.Unlock()
			b.screen.Sync()
			if cb != nil {
				cb(w, h)
			}
		case *tcell.EventKey:
			in := keyInput(ev)
			if in == InputNone {
				continue
			}
			b.mu.Lock()
			cb := b.onInput
			b.mu.Unlock()
			if cb != nil {
				cb(in)
			}
		}
	}
}

// keyInput maps a terminal key to an Input.
func keyInput(ev *tcell.EventKey) Input {
	switch ev.Key() {
	case tcell.KeyLeft:
		return InputOrbitLeft
	case tcell.KeyRight:
		return InputOrbitRight
	case tcell.KeyUp:
		return InputOrbitUp
	case tcell.KeyDown:
		return InputOrbitDown
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return InputQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case '+', '=':
			return InputZoomIn
		case '-', '_':
			return InputZoomOut
		case 'r', 'R':
			return InputRebuild
		case 'q', 'Q':
			return InputQuit
		case 'h':
			return InputOrbitLeft
		case 'l':
			return InputOrbitRight
		case 'k':
			return InputOrbitUp
		case 'j':
			return InputOrbitDown
		}
	}
	return InputNone
}

func (b *terminalRendererBackendImpl) resizeLocked(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
	if n := b.width * b.height; cap(b.density) < n {
		b.density = make([]float32, n)
	} else {
		b.density = b.density[:n]
	}
}

func (b *terminalRendererBackendImpl) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width == b.width && height == b.height {
		return
	}
	b.resizeLocked(width, height)
}

func (b *terminalRendererBackendImpl) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *terminalRendererBackendImpl) Aspect() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.height == 0 {
		return 1
	}
	return float32(b.width) / float32(b.height*cellAspect)
}

func (b *terminalRendererBackendImpl) SetInputCallback(cb func(Input)) {
	b.mu.Lock()
	b.onInput = cb
	b.mu.Unlock()
}

func (b *terminalRendererBackendImpl) SetResizeCallback(cb func(width, height int)) {
	b.mu.Lock()
	b.onResize = cb
	b.mu.Unlock()
}

// project maps a model-space point to a cell. ok is false when the point is
// behind the camera or outside the viewport.
func project(mvp mgl32.Mat4, p mgl32.Vec3, width, height int) (col, row int, depth float32, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	x, y, z := clip.X()/w, clip.Y()/w, clip.Z()/w
	if x < -1 || x > 1 || y < -1 || y > 1 || z < 0 || z > 1 {
		return 0, 0, 0, false
	}
	col = int((x + 1) / 2 * float32(width))
	row = int((1 - y) / 2 * float32(height))
	col = min(col, width-1)
	row = min(row, height-1)
	return col, row, w, true
}

// fogFactor is the exponential-squared fog visibility at distance d.
func fogFactor(density, d float32) float32 {
	f := density * d
	return float32(math.Exp(-float64(f * f)))
}

func shade(c mgl32.Vec3, k float32) tcell.Color {
	k = mgl32.Clamp(k, 0, 1)
	return tcell.NewRGBColor(int32(c[0]*k*255), int32(c[1]*k*255), int32(c[2]*k*255))
}

func (b *terminalRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w, h := b.screen.Size(); w != b.width || h != b.height {
		b.resizeLocked(w, h)
	}

	b.screen.Clear()
	if b.width == 0 || b.height == 0 {
		b.screen.Show()
		return nil
	}

	for i := range b.density {
		b.density[i] = 0
	}

	mvp := f.MVP()
	for i := 0; i+2 < len(f.Points); i += 3 {
		p := mgl32.Vec3{f.Points[i], f.Points[i+1], f.Points[i+2]}
		col, row, depth, ok := project(mvp, p, b.width, b.height)
		if !ok {
			continue
		}
		b.density[row*b.width+col] += fogFactor(f.FogDensity, depth)
	}

	top := len(b.glyphs) - 1
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			d := b.density[row*b.width+col]
			if d <= 0 {
				continue
			}
			idx := min(top, 1+int(d))
			style := tcell.StyleDefault.
				Background(tcell.ColorBlack).
				Foreground(shade(f.PointColor, 0.4+0.2*d))
			b.screen.SetContent(col, row, b.glyphs[idx], nil, style)
		}
	}

	b.drawSprites(f, mvp)
	b.drawProgress(f.Progress)

	b.screen.Show()
	return nil
}

func (b *terminalRendererBackendImpl) drawSprites(f *Frame, mvp mgl32.Mat4) {
	groupScale := f.Model.Col(1).Vec3().Len()
	focal := f.Projection.At(1, 1)

	for i := range f.Sprites {
		sp := &f.Sprites[i]
		col, row, depth, ok := project(mvp, sp.Position, b.width, b.height)
		if !ok {
			continue
		}

		// projected half extents in cells
		halfH := sp.Scale.Y() * groupScale * focal / depth * float32(b.height) / 4
		halfW := sp.Scale.X() * groupScale * focal / depth * float32(b.height) / 4 * cellAspect
		hh, hw := int(halfH), int(halfW)

		color := b.spriteColor(sp)
		style := tcell.StyleDefault.
			Background(tcell.ColorBlack).
			Foreground(shade(color, sp.Opacity*fogFactor(f.FogDensity, depth)))

		for y := row - hh; y <= row+hh; y++ {
			if y < 0 || y >= b.height {
				continue
			}
			for x := col - hw; x <= col+hw; x++ {
				if x < 0 || x >= b.width {
					continue
				}
				b.screen.SetContent(x, y, '█', nil, style)
			}
		}
	}
}

func (b *terminalRendererBackendImpl) drawProgress(p ProgressState) {
	if !p.Visible || p.Label == "" {
		return
	}
	style := tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(shade(mgl32.Vec3{1, 1, 1}, p.Opacity))
	x := 1
	for _, r := range p.Label {
		if x >= b.width {
			break
		}
		b.screen.SetContent(x, 0, r, nil, style)
		x++
	}
}

func (b *terminalRendererBackendImpl) Release() error {
	close(b.done)
	// Fini makes PollEvent return nil, which ends the event goroutine.
	b.screen.Fini()
	b.wg.Wait()
	return nil
}

// spriteColor returns the mean color of the sprite's texture, computed once per key.
func (b *terminalRendererBackendImpl) spriteColor(sp *SpriteInstance) mgl32.Vec3 {
	if sp.Texture == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	key := sp.Key
	if key == "" {
		key = sp.Texture.Key
	}
	if c, ok := b.colors[key]; ok {
		return c
	}
	r, g, bl := sp.Texture.MeanColor()
	c := mgl32.Vec3{float32(r) / 255, float32(g) / 255, float32(bl) / 255}
	if b.colors == nil {
		b.colors = make(map[string]mgl32.Vec3)
	}
	b.colors[key] = c
	return c
}
