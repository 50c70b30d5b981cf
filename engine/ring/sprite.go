package ring

import (
	"math"

	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/placement"

	"github.com/go-gl/mathgl/mgl64"
)

// Sprite defaults.
const (
	// DefaultSpeedFactor is k in speed = k / radius.
	DefaultSpeedFactor = 3.0 * 0.005
	// DefaultBaseSize is the sprite height in world units.
	DefaultBaseSize = 3.0
	// DefaultOpacity is the sprite opacity.
	DefaultOpacity = 0.85
)

// Sprite is a billboard image orbiting the Y axis at a fixed radius and height.
type Sprite struct {
	ImageKey string
	Texture  *loader.Texture

	Radius float64
	Angle  float64
	Y      float64
	Speed  float64

	// Scale is the billboard size (baseSize * aspect, baseSize).
	Scale mgl64.Vec2

	// Position is recomputed from Angle, Radius and Y on every Advance.
	Position mgl64.Vec3

	// Forced reports that the sprite's placement bypassed the separation check.
	Forced bool
}

// NewSprite builds a sprite at a committed placement. Its angular speed is
// speedFactor / placement distance, so inner sprites orbit faster.
//
// Parameters:
//   - tex: the decoded texture (nil renders with the default aspect)
//   - p: the placement produced by the placer
//   - baseSize: the sprite height
//   - speedFactor: the proportionality constant k
//
// Returns:
//   - Sprite: the new sprite
func NewSprite(tex *loader.Texture, p placement.Placement, baseSize, speedFactor float64) Sprite {
	var key string
	if tex != nil {
		key = tex.Key
	}
	return Sprite{
		ImageKey: key,
		Texture:  tex,
		Radius:   p.Distance,
		Angle:    p.Angle,
		Y:        p.Position.Y(),
		Speed:    Speed(speedFactor, p.Distance),
		Scale:    mgl64.Vec2{baseSize * tex.Aspect(), baseSize},
		Position: p.Position,
		Forced:   p.Forced,
	}
}

// Speed returns the angular speed of a sprite orbiting at radius.
func Speed(k, radius float64) float64 {
	return k / radius
}

// Advance moves the sprite one frame along its orbit.
func (s *Sprite) Advance() {
	s.Angle += s.Speed
	s.Position = mgl64.Vec3{math.Cos(s.Angle) * s.Radius, s.Y, math.Sin(s.Angle) * s.Radius}
}
