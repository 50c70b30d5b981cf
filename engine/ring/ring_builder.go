package ring

import "github.com/Aman-3O/Esha-Suprise/engine/placement"

// RingBuilderOption is a functional option for configuring a Ring.
type RingBuilderOption func(*ring)

// WithPlacerFactory sets the constructor used for the placer on creation and on every Reset.
//
// Parameters:
//   - factory: returns a fresh placer with an empty placed set
//
// Returns:
//   - RingBuilderOption: option function to apply
func WithPlacerFactory(factory func() placement.Placer) RingBuilderOption {
	return func(r *ring) {
		r.newPlacer = factory
	}
}

// WithBaseSize sets the sprite height in world units.
func WithBaseSize(size float64) RingBuilderOption {
	return func(r *ring) {
		r.baseSize = size
	}
}

// WithSpeedFactor sets k in speed = k / radius.
func WithSpeedFactor(k float64) RingBuilderOption {
	return func(r *ring) {
		r.speedFactor = k
	}
}
