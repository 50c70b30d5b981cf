package ring

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/placement"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func seededRing(seed uint64) Ring {
	return NewRing(WithPlacerFactory(func() placement.Placer {
		return placement.NewPlacer(placement.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}))
}

func TestSpeedDecreasesWithRadius(t *testing.T) {
	r := seededRing(1)
	r.Add(&loader.Texture{Key: "a.png"}, 200)

	sprites := append([]Sprite(nil), r.Sprites()...)
	sort.Slice(sprites, func(i, j int) bool { return sprites[i].Radius < sprites[j].Radius })

	for i, s := range sprites {
		if math.Abs(s.Speed*s.Radius-DefaultSpeedFactor) > 1e-12 {
			t.Fatalf("sprite %d: speed*radius = %v, want %v", i, s.Speed*s.Radius, DefaultSpeedFactor)
		}
		if i > 0 && sprites[i-1].Radius < s.Radius && !(sprites[i-1].Speed > s.Speed) {
			t.Fatalf("speed not strictly decreasing: r=%v v=%v then r=%v v=%v",
				sprites[i-1].Radius, sprites[i-1].Speed, s.Radius, s.Speed)
		}
	}
}

func TestSpriteScaleFollowsAspect(t *testing.T) {
	p := placement.Placement{Distance: 20, Angle: 0.5}
	tests := []struct {
		name string
		tex  *loader.Texture
		want [2]float64
	}{
		{
			name: "wide",
			tex:  &loader.Texture{Key: "w.png", TextureStagingData: common.TextureStagingData{Width: 40, Height: 20}},
			want: [2]float64{6, 3},
		},
		{
			name: "tall",
			tex:  &loader.Texture{Key: "t.png", TextureStagingData: common.TextureStagingData{Width: 10, Height: 20}},
			want: [2]float64{1.5, 3},
		},
		{name: "unknown size", tex: &loader.Texture{Key: "u.png"}, want: [2]float64{3, 3}},
		{name: "missing", tex: nil, want: [2]float64{3, 3}},
	}

	for _, tt := range tests {
		s := NewSprite(tt.tex, p, DefaultBaseSize, DefaultSpeedFactor)
		if s.Scale.X() != tt.want[0] || s.Scale.Y() != tt.want[1] {
			t.Fatalf("%s: scale %v, want %v", tt.name, s.Scale, tt.want)
		}
		if s.Speed != DefaultSpeedFactor/20 {
			t.Fatalf("%s: speed %v", tt.name, s.Speed)
		}
	}
}

func TestAdvanceKeepsOrbit(t *testing.T) {
	r := seededRing(2)
	r.Add(&loader.Texture{Key: "a.png"}, 30)
	before := append([]Sprite(nil), r.Sprites()...)

	for i := 0; i < 500; i++ {
		r.Advance()
	}

	for i, s := range r.Sprites() {
		if math.Abs(math.Hypot(s.Position.X(), s.Position.Z())-before[i].Radius) > 1e-9 {
			t.Fatalf("sprite %d left its radius", i)
		}
		if s.Position.Y() != before[i].Y {
			t.Fatalf("sprite %d y moved from %v to %v", i, before[i].Y, s.Position.Y())
		}
		if math.Abs(s.Angle-(before[i].Angle+500*before[i].Speed)) > 1e-9 {
			t.Fatalf("sprite %d angle %v", i, s.Angle)
		}
	}
}

func TestSealAndReset(t *testing.T) {
	r := seededRing(3)
	if n := r.Add(nil, 5); n != 5 || r.Len() != 5 {
		t.Fatalf("added %d, len %d", n, r.Len())
	}
	if r.Placer().Len() != 5 {
		t.Fatalf("placed set holds %d points", r.Placer().Len())
	}

	r.Seal()
	if !r.Sealed() || r.Placer() != nil {
		t.Fatal("sealed ring still holds a placer")
	}
	if n := r.Add(nil, 3); n != 0 || r.Len() != 5 {
		t.Fatalf("sealed ring accepted sprites: added %d, len %d", n, r.Len())
	}

	r.Reset()
	if r.Sealed() || r.Len() != 0 || r.Placer().Len() != 0 {
		t.Fatal("reset did not reopen an empty ring")
	}
}

func collect(t *testing.T, f Feeder) []Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ch := make(chan Event)
	go func() {
		f.Run(ctx, ch)
		close(ch)
	}()

	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	if ctx.Err() != nil {
		t.Fatal("feeder did not finish in time")
	}
	return out
}

func summarize(t *testing.T, events []Event) (sprites int, arrivals map[string]int) {
	t.Helper()
	if len(events) == 0 || events[len(events)-1].Kind != EventDone {
		t.Fatalf("last event is not EventDone: %+v", events)
	}
	arrivals = make(map[string]int)
	last := -1
	for _, ev := range events {
		switch ev.Kind {
		case EventArrival:
			sprites += ev.Count
			arrivals[ev.Texture.Key] += ev.Count
		case EventProgress:
			if ev.Percent < last || ev.Percent < 0 || ev.Percent > 100 {
				t.Fatalf("progress went from %d to %d", last, ev.Percent)
			}
			last = ev.Percent
		}
	}
	if last != 100 {
		t.Fatalf("final progress %d, want 100", last)
	}
	return sprites, arrivals
}

func TestSequentialSkipsFailures(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory,
		loader.WithAsset("a.png", pngBytes(t, 2, 2)),
		loader.WithAsset("b.png", []byte("corrupt")),
		loader.WithAsset("c.png", pngBytes(t, 4, 2)),
	)
	f := NewFeeder(FeedModeSequential, src, []string{"a.png", "b.png", "c.png"},
		WithTarget(10), WithYield(3, time.Millisecond))

	sprites, arrivals := summarize(t, collect(t, f))
	if sprites != 10 {
		t.Fatalf("created %d sprites, want 10", sprites)
	}
	if arrivals["b.png"] != 0 {
		t.Fatal("broken image produced sprites")
	}
	if arrivals["a.png"] != 5 || arrivals["c.png"] != 5 {
		t.Fatalf("arrivals %v, want 5 each from a.png and c.png", arrivals)
	}
}

func TestSequentialTerminatesWhenEverythingFails(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory)
	f := NewFeeder(FeedModeSequential, src, []string{"x.png", "y.png"}, WithTarget(340), WithYield(0, 0))

	sprites, _ := summarize(t, collect(t, f))
	if sprites != 0 {
		t.Fatalf("created %d sprites from missing images", sprites)
	}
}

func TestSequentialAttemptCap(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory, loader.WithAsset("a.png", pngBytes(t, 1, 1)))
	f := NewFeeder(FeedModeSequential, src, []string{"a.png"}, WithTarget(100), WithMaxAttempts(5), WithYield(0, 0))

	sprites, _ := summarize(t, collect(t, f))
	if sprites != 5 {
		t.Fatalf("created %d sprites, want 5", sprites)
	}
}

func TestSequentialAttemptCapIgnoresKnownFailures(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory,
		loader.WithAsset("a.png", pngBytes(t, 1, 1)),
		loader.WithAsset("b.png", []byte("corrupt")),
	)
	f := NewFeeder(FeedModeSequential, src, []string{"a.png", "b.png"},
		WithTarget(100), WithMaxAttempts(4), WithYield(0, 0))

	// a, b (fails), a, b skipped, a: four loads, three sprites
	sprites, _ := summarize(t, collect(t, f))
	if sprites != 3 {
		t.Fatalf("created %d sprites, want 3", sprites)
	}
}

func TestSequentialYieldsEveryN(t *testing.T) {
	const delay = 40 * time.Millisecond
	src := loader.NewLoader(loader.BackendTypeMemory, loader.WithAsset("a.png", pngBytes(t, 1, 1)))
	f := NewFeeder(FeedModeSequential, src, []string{"a.png"}, WithTarget(6), WithYield(3, delay))

	ch := make(chan Event)
	start := time.Now()
	go func() {
		f.Run(context.Background(), ch)
		close(ch)
	}()

	var arrivals []time.Time
	for ev := range ch {
		if ev.Kind == EventArrival {
			arrivals = append(arrivals, time.Now())
		}
	}
	elapsed := time.Since(start)

	if len(arrivals) != 6 {
		t.Fatalf("arrivals = %d, want 6", len(arrivals))
	}
	// the receiver timestamps slightly after the feeder starts pausing
	if gap := arrivals[3].Sub(arrivals[2]); gap < delay/2 {
		t.Fatalf("gap after the third sprite = %v, want about %v", gap, delay)
	}
	if gap := arrivals[2].Sub(arrivals[1]); gap >= delay {
		t.Fatalf("paused after the second sprite (%v)", gap)
	}
	if elapsed < 2*delay {
		t.Fatalf("run took %v, want at least two pauses of %v", elapsed, delay)
	}
}

func TestEmptyKeysCompleteImmediately(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory)
	for _, mode := range []FeedMode{FeedModeSequential, FeedModeBatch} {
		events := collect(t, NewFeeder(mode, src, nil))
		if sprites, _ := summarize(t, events); sprites != 0 {
			t.Fatalf("mode %d: %d sprites from no keys", mode, sprites)
		}
	}
}

func TestBatchSharesTargetPerImage(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory,
		loader.WithAsset("a.png", pngBytes(t, 1, 1)),
		loader.WithAsset("b.png", pngBytes(t, 1, 1)),
		loader.WithAsset("c.png", pngBytes(t, 1, 1)),
	)
	f := NewFeeder(FeedModeBatch, src, []string{"a.png", "b.png", "c.png", "gone.png"}, WithTarget(10))

	sprites, arrivals := summarize(t, collect(t, f))
	if sprites != 6 {
		t.Fatalf("created %d sprites, want 3 images * floor(10/4)", sprites)
	}
	for _, k := range []string{"a.png", "b.png", "c.png"} {
		if arrivals[k] != 2 {
			t.Fatalf("%s contributed %d sprites, want 2", k, arrivals[k])
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := loader.NewLoader(loader.BackendTypeMemory, loader.WithAsset("a.png", pngBytes(t, 1, 1)))
	for _, mode := range []FeedMode{FeedModeSequential, FeedModeBatch} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})
		go func() {
			NewFeeder(mode, src, []string{"a.png"}).Run(ctx, make(chan Event))
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("mode %d: Run blocked after cancellation", mode)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct{ done, total, want int }{
		{0, 340, 0},
		{1, 340, 0},
		{2, 340, 1},
		{170, 340, 50},
		{340, 340, 100},
		{5, 0, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Fatalf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}
