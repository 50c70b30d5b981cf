package renderer

import (
	"github.com/Aman-3O/Esha-Suprise/engine/loader"

	"github.com/go-gl/mathgl/mgl32"
)

// Frame style defaults.
const (
	// DefaultPointSize is the world-space size of a field point.
	DefaultPointSize float32 = 0.4
	// DefaultFogDensity is the exponential-squared fog density.
	DefaultFogDensity float32 = 0.002
)

// DefaultPointColor is #fff6bd.
var DefaultPointColor = mgl32.Vec3{1, 0xf6 / 255.0, 0xbd / 255.0}

// SpriteInstance is one ring billboard in assembly-local space.
type SpriteInstance struct {
	Key      string
	Texture  *loader.Texture
	Position mgl32.Vec3
	Scale    mgl32.Vec2
	Opacity  float32
}

// ProgressState is the loading indicator as it should appear this frame.
type ProgressState struct {
	Visible bool
	Percent int
	Opacity float32
	Label   string
}

// Frame is the per-tick snapshot handed to a Renderer. Slices are owned by the
// producer and are only valid for the duration of Render.
type Frame struct {
	// Points holds xyz triples for the particle field.
	Points []float32
	// PointsDirty reports that Points changed since the last rendered frame.
	PointsDirty bool
	PointColor  mgl32.Vec3
	PointSize   float32

	Sprites []SpriteInstance

	// Model is the assembly transform applied to points and sprites.
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4

	FogDensity float32

	Progress ProgressState
}

// ViewProjection returns Projection * View.
func (f *Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Mul4(f.View)
}

// MVP returns Projection * View * Model.
func (f *Frame) MVP() mgl32.Mat4 {
	return f.Projection.Mul4(f.View).Mul4(f.Model)
}
