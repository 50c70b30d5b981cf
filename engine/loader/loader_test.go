package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoadDecodesAndMemoizes(t *testing.T) {
	l := NewLoader(BackendTypeMemory,
		WithAsset("wide.png", encodePNG(t, 40, 20)),
		WithAsset("photo.jpg", encodeJPEG(t, 16, 32)),
	)
	ctx := context.Background()

	tests := []struct {
		key    string
		w, h   uint32
		aspect float64
	}{
		{key: "wide.png", w: 40, h: 20, aspect: 2},
		{key: "photo.jpg", w: 16, h: 32, aspect: 0.5},
	}

	for _, tt := range tests {
		tex, err := l.Load(ctx, tt.key)
		if err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		if tex.Width != tt.w || tex.Height != tt.h {
			t.Fatalf("%s: size %dx%d, want %dx%d", tt.key, tex.Width, tex.Height, tt.w, tt.h)
		}
		if len(tex.Pixels) != int(tt.w*tt.h*4) {
			t.Fatalf("%s: %d pixel bytes", tt.key, len(tex.Pixels))
		}
		if tex.Aspect() != tt.aspect {
			t.Fatalf("%s: aspect %v, want %v", tt.key, tex.Aspect(), tt.aspect)
		}

		again, err := l.Load(ctx, tt.key)
		if err != nil || again != tex {
			t.Fatalf("%s: second load returned %p, %v; want cached %p", tt.key, again, err, tex)
		}
		if l.Get(tt.key) != tex {
			t.Fatalf("%s: Get did not return the cached texture", tt.key)
		}
	}

	if l.Len() != 2 || len(l.Textures()) != 2 {
		t.Fatalf("cache holds %d textures, want 2", l.Len())
	}
}

func TestLoadFailuresAreMemoized(t *testing.T) {
	l := NewLoader(BackendTypeMemory,
		WithAsset("broken.png", []byte("not a png")),
		WithAsset("anim.gif", []byte("GIF89a")),
	)
	ctx := context.Background()

	tests := []struct {
		key     string
		wantErr error
	}{
		{key: "missing.png", wantErr: ErrNotFound},
		{key: "anim.gif", wantErr: ErrUnsupportedFormat},
		{key: "broken.png"},
	}

	for _, tt := range tests {
		_, err := l.Load(ctx, tt.key)
		if err == nil {
			t.Fatalf("%s: expected an error", tt.key)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Fatalf("%s: error %v, want %v", tt.key, err, tt.wantErr)
		}
		if !l.Failed(tt.key) {
			t.Fatalf("%s: failure not memoized", tt.key)
		}
		if _, again := l.Load(ctx, tt.key); again == nil || again.Error() != err.Error() {
			t.Fatalf("%s: second load returned %v, want %v", tt.key, again, err)
		}
		if l.Get(tt.key) != nil {
			t.Fatalf("%s: failed key present in cache", tt.key)
		}
	}
}

type countingBackend struct {
	opens   atomic.Int32
	release chan struct{}
	data    []byte
}

func (b *countingBackend) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	b.opens.Add(1)
	<-b.release
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func TestConcurrentLoadsFetchOnce(t *testing.T) {
	l := NewLoader(BackendTypeMemory).(*loader)
	backend := &countingBackend{release: make(chan struct{}), data: encodePNG(t, 4, 4)}
	l.backend = backend

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*Texture, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tex, err := l.Load(context.Background(), "shared.png")
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
			}
			results[i] = tex
		}(i)
	}
	close(backend.release)
	wg.Wait()

	if n := backend.opens.Load(); n != 1 {
		t.Fatalf("backend opened %d times, want 1", n)
	}
	for i, tex := range results {
		if tex != results[0] {
			t.Fatalf("caller %d got a different texture", i)
		}
	}
}

func TestCancelledLoadIsNotMemoized(t *testing.T) {
	l := NewLoader(BackendTypeMemory, WithAsset("a.png", encodePNG(t, 2, 2)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, "a.png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error %v, want context.Canceled", err)
	}
	if l.Failed("a.png") {
		t.Fatal("cancellation memoized as failure")
	}
	if _, err := l.Load(context.Background(), "a.png"); err != nil {
		t.Fatalf("load after cancellation: %v", err)
	}
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	l := NewLoader(BackendTypeMemory).(*loader)
	backend := &countingBackend{release: make(chan struct{}), data: encodePNG(t, 4, 4)}
	l.backend = backend

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "shared.png")
		first <- err
	}()
	for backend.opens.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "shared.png")
		second <- err
	}()

	cancel()
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled caller: %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled caller kept waiting on the shared fetch")
	}

	close(backend.release)
	if err := <-second; err != nil {
		t.Fatalf("live caller: %v", err)
	}
	if l.Get("shared.png") == nil || l.Failed("shared.png") {
		t.Fatal("shared fetch was not memoized")
	}
	if n := backend.opens.Load(); n != 1 {
		t.Fatalf("backend opened %d times, want 1", n)
	}
}

func TestFileBackendAndScanDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"a.png":  encodePNG(t, 8, 4),
		"B.JPG":  encodeJPEG(t, 8, 8),
		"c.webp": []byte("RIFF"),
		"d.txt":  []byte("notes"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	keys, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	want := []string{"B.JPG", "a.png", "c.webp"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}

	l := NewLoader(BackendTypeFile, WithRoot(dir))
	tex, err := l.Load(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("load a.png: %v", err)
	}
	if tex.Aspect() != 2 {
		t.Fatalf("aspect %v, want 2", tex.Aspect())
	}
	if _, err := l.Load(context.Background(), "c.webp"); err == nil {
		t.Fatal("truncated webp decoded without error")
	}
	if _, err := l.Load(context.Background(), "gone.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing file error %v, want ErrNotFound", err)
	}

	if _, err := ScanDir(filepath.Join(dir, "does-not-exist")); err == nil {
		t.Fatal("ScanDir on a missing directory returned no error")
	}
}

func TestAspectDefaults(t *testing.T) {
	var nilTex *Texture
	if nilTex.Aspect() != DefaultAspect {
		t.Fatalf("nil texture aspect %v", nilTex.Aspect())
	}
	if (&Texture{}).Aspect() != DefaultAspect {
		t.Fatal("empty texture aspect is not the default")
	}
}
