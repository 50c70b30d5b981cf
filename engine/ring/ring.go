// Package ring manages the orbiting ring of image sprites: placing them as their
// images arrive, advancing them every frame, and feeding images from the cache.
package ring

import (
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/placement"
)

// Ring is the sprite collection of the scene.
// While construction is open it owns a placer whose placed set keeps new sprites apart;
// Seal discards that set once every sprite has arrived.
type Ring interface {
	// Add places count sprites for tex and appends them to the ring.
	// Adding to a sealed ring is a no-op.
	//
	// Parameters:
	//   - tex: the texture the sprites display
	//   - count: how many sprites to place
	//
	// Returns:
	//   - int: the number of sprites added
	Add(tex *loader.Texture, count int) int

	// Advance moves every sprite one frame along its orbit.
	Advance()

	// Sprites returns the live sprite slice. Callers must not retain it across frames.
	Sprites() []Sprite

	// Len returns the number of sprites.
	Len() int

	// Seal ends construction and discards the placed set.
	Seal()

	// Sealed reports whether construction has ended.
	Sealed() bool

	// Reset removes every sprite and reopens construction with a fresh placed set.
	Reset()

	// Placer returns the placer used during construction, or nil once sealed.
	Placer() placement.Placer
}

// ring implements the Ring interface.
type ring struct {
	sprites []Sprite

	newPlacer func() placement.Placer
	placer    placement.Placer

	baseSize    float64
	speedFactor float64
}

var _ Ring = &ring{}

// NewRing creates an open ring with a default placer.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Ring: the new, empty ring
func NewRing(options ...RingBuilderOption) Ring {
	r := &ring{
		baseSize:    DefaultBaseSize,
		speedFactor: DefaultSpeedFactor,
		newPlacer: func() placement.Placer {
			return placement.NewPlacer()
		},
	}

	for _, opt := range options {
		opt(r)
	}

	r.placer = r.newPlacer()
	return r
}

func (r *ring) Add(tex *loader.Texture, count int) int {
	if r.placer == nil {
		return 0
	}
	for i := 0; i < count; i++ {
		r.sprites = append(r.sprites, NewSprite(tex, r.placer.Place(), r.baseSize, r.speedFactor))
	}
	return max(count, 0)
}

func (r *ring) Advance() {
	for i := range r.sprites {
		r.sprites[i].Advance()
	}
}

func (r *ring) Sprites() []Sprite {
	return r.sprites
}

func (r *ring) Len() int {
	return len(r.sprites)
}

func (r *ring) Seal() {
	r.placer = nil
}

func (r *ring) Sealed() bool {
	return r.placer == nil
}

func (r *ring) Reset() {
	r.sprites = nil
	r.placer = r.newPlacer()
}

func (r *ring) Placer() placement.Placer {
	return r.placer
}
