package common

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClampAndApproach(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{v: -1, lo: 0, hi: 1, want: 0},
		{v: 0.5, lo: 0, hi: 1, want: 0.5},
		{v: 3, lo: 0, hi: 1, want: 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}

	if got := Approach(1, 2, 0.02); math.Abs(got-1.02) > 1e-12 {
		t.Fatalf("Approach = %v, want 1.02", got)
	}
	if got := Approach(1, 2, 0); got != 1 {
		t.Fatalf("zero factor moved the value to %v", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := Perspective(math.Pi/2, 1, near, far)

	for _, tt := range []struct {
		z    float32
		want float32
	}{
		{z: -near, want: 0},
		{z: -far, want: 1},
	} {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, tt.z, 1})
		if d := clip.Z() / clip.W(); math.Abs(float64(d-tt.want)) > 1e-5 {
			t.Fatalf("depth at z=%v is %v, want %v", tt.z, d, tt.want)
		}
	}
}

func TestAssemblyMatrixIdentityAndScale(t *testing.T) {
	if m := AssemblyMatrix(1, 0, 0); !m.ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("AssemblyMatrix(1, 0, 0) = %v", m)
	}
	p := AssemblyMatrix(2, 0, math.Pi/2).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{0, 0, -2, 1}
	for i := range p {
		if math.Abs(float64(p[i]-want[i])) > 1e-5 {
			t.Fatalf("scaled and rotated point = %v, want %v", p, want)
		}
	}
}

func TestMeanColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	img.Set(1, 0, color.RGBA{B: 100, A: 255})

	r, g, b := NewTextureStagingData(img).MeanColor()
	if r != 100 || g != 0 || b != 50 {
		t.Fatalf("MeanColor = %d %d %d, want 100 0 50", r, g, b)
	}

	r, g, b = NewTextureStagingData(image.NewRGBA(image.Rect(0, 0, 1, 1))).MeanColor()
	if r != 255 || g != 255 || b != 255 {
		t.Fatalf("transparent MeanColor = %d %d %d, want white", r, g, b)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "b", "c"); got != "b" {
		t.Fatalf("Coalesce = %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Fatalf("Coalesce = %d", got)
	}
}
