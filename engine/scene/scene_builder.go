package scene

import (
	"github.com/Aman-3O/Esha-Suprise/engine/camera"
	"github.com/Aman-3O/Esha-Suprise/engine/particle"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/transform"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithGenerator sets the particle field generator.
//
// Parameters:
//   - g: the generator used on every build
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGenerator(g particle.Generator) SceneBuilderOption {
	return func(s *scene) {
		s.generator = g
	}
}

// WithIntegrator sets the kinematics integrator.
//
// Parameters:
//   - in: the integrator stepped every frame
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithIntegrator(in particle.Integrator) SceneBuilderOption {
	return func(s *scene) {
		s.integrator = in
	}
}

// WithRing sets the sprite ring.
func WithRing(r ring.Ring) SceneBuilderOption {
	return func(s *scene) {
		s.ring = r
	}
}

// WithCamera sets the scene camera.
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = c
	}
}

// WithInitialTransform sets the starting current and target transform.
func WithInitialTransform(st transform.State) SceneBuilderOption {
	return func(s *scene) {
		s.initial = st
	}
}

// WithSmoothingFactor sets the fraction of the remaining gap closed each frame.
// Values outside (0, 1] fall back to transform.DefaultSmoothingFactor.
func WithSmoothingFactor(f float64) SceneBuilderOption {
	return func(s *scene) {
		s.smoothingFactor = f
	}
}

// WithPointStyle sets the field point color and size.
//
// Parameters:
//   - color: linear RGB in [0, 1]
//   - size: world-space point size
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPointStyle(color mgl32.Vec3, size float32) SceneBuilderOption {
	return func(s *scene) {
		s.pointColor = color
		s.pointSize = size
	}
}

// WithFogDensity sets the exponential-squared fog density.
func WithFogDensity(d float32) SceneBuilderOption {
	return func(s *scene) {
		s.fogDensity = d
	}
}

// WithSpriteOpacity sets the opacity of every ring sprite.
func WithSpriteOpacity(o float32) SceneBuilderOption {
	return func(s *scene) {
		s.spriteOpacity = o
	}
}
