package scene

import (
	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/camera"
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/particle"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/transform"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the root of the assembly: it owns the particle field, the ring of
// image sprites, the transform pair and the camera. A Scene is not safe for
// concurrent use; the frame driver is its only writer.
type Scene interface {
	// Build generates the particle field and empties the ring. It is called once by
	// NewScene and again by Rebuild.
	Build()

	// Rebuild discards sprites and placements and regenerates the field. Counts and
	// radius bounds are identical to the previous build; positions are not.
	Rebuild()

	// Step advances one frame: integrate the field, advance the ring, smooth the
	// transform toward its target and update the camera.
	Step()

	// AddSprites places count sprites for tex on the ring.
	//
	// Parameters:
	//   - tex: the loaded texture
	//   - count: how many sprites to place for it
	//
	// Returns:
	//   - int: the number of sprites actually added
	AddSprites(tex *loader.Texture, count int) int

	// SealRing marks ring construction complete and drops the placement set.
	SealRing()

	// Field returns the particle field.
	Field() *particle.Field

	// Ring returns the sprite ring.
	Ring() ring.Ring

	// Transform returns the current/target transform pair.
	Transform() *transform.Smoother

	// Targets returns the target transform, the only part a gesture mapper may write.
	Targets() *transform.State

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Snapshot writes the renderable state into dst, reusing its slices.
	// Snapshot leaves dst.Progress untouched.
	//
	// Parameters:
	//   - dst: the frame to fill
	Snapshot(dst *renderer.Frame)

	// Frames returns the number of Step calls since the last build.
	Frames() uint64
}

// scene implements the Scene interface.
type scene struct {
	generator  particle.Generator
	integrator particle.Integrator
	ring       ring.Ring
	smoother   *transform.Smoother
	camera     camera.Camera

	initial         transform.State
	smoothingFactor float64

	pointColor    mgl32.Vec3
	pointSize     float32
	fogDensity    float32
	spriteOpacity float32

	field  *particle.Field
	frames uint64
}

var _ Scene = &scene{}

// NewScene creates a Scene and builds it.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Scene: the built scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		initial:         transform.InitialState,
		smoothingFactor: transform.DefaultSmoothingFactor,
		pointColor:      renderer.DefaultPointColor,
		pointSize:       renderer.DefaultPointSize,
		fogDensity:      renderer.DefaultFogDensity,
		spriteOpacity:   ring.DefaultOpacity,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.generator == nil {
		s.generator = particle.NewGenerator()
	}
	if s.integrator == nil {
		s.integrator = particle.NewIntegrator()
	}
	if s.ring == nil {
		s.ring = ring.NewRing()
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	s.smoother = transform.NewSmoother(s.initial, s.smoothingFactor)

	s.Build()
	return s
}

func (s *scene) Build() {
	s.field = s.generator.Generate()
	s.ring.Reset()
	s.frames = 0
}

func (s *scene) Rebuild() {
	s.Build()
}

func (s *scene) Step() {
	s.integrator.Step(s.field)
	s.ring.Advance()
	s.smoother.Step()
	s.camera.Update()
	s.frames++
}

func (s *scene) AddSprites(tex *loader.Texture, count int) int {
	return s.ring.Add(tex, count)
}

func (s *scene) SealRing() {
	s.ring.Seal()
}

func (s *scene) Field() *particle.Field {
	return s.field
}

func (s *scene) Ring() ring.Ring {
	return s.ring
}

func (s *scene) Transform() *transform.Smoother {
	return s.smoother
}

func (s *scene) Targets() *transform.State {
	return s.smoother.Targets()
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Frames() uint64 {
	return s.frames
}

func (s *scene) Snapshot(dst *renderer.Frame) {
	dst.Points = s.field.Positions
	dst.PointsDirty = s.field.Dirty()
	dst.PointColor = s.pointColor
	dst.PointSize = s.pointSize
	dst.FogDensity = s.fogDensity

	cur := s.smoother.Current
	dst.Model = common.AssemblyMatrix(float32(cur.Scale), float32(cur.RotationX), float32(cur.RotationY))
	dst.View = s.camera.ViewMatrix()
	dst.Projection = s.camera.ProjectionMatrix()

	sprites := s.ring.Sprites()
	dst.Sprites = dst.Sprites[:0]
	for i := range sprites {
		sp := &sprites[i]
		dst.Sprites = append(dst.Sprites, renderer.SpriteInstance{
			Key:      sp.ImageKey,
			Texture:  sp.Texture,
			Position: mgl32.Vec3{float32(sp.Position[0]), float32(sp.Position[1]), float32(sp.Position[2])},
			Scale:    mgl32.Vec2{float32(sp.Scale[0]), float32(sp.Scale[1])},
			Opacity:  s.spriteOpacity,
		})
	}
}
