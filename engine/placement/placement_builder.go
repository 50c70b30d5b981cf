package placement

import "math/rand/v2"

// Default annulus geometry and rejection parameters.
const (
	DefaultInnerRadius   = 15.0
	DefaultOuterRadius   = 40.0
	DefaultHalfHeight    = 1.0
	DefaultMinSeparation = 3.0
	DefaultAttemptBudget = 15
)

// PlacerBuilderOption is a functional option for configuring a Placer.
type PlacerBuilderOption func(*placer)

// WithAnnulus sets the annulus geometry.
//
// Parameters:
//   - inner: inner radius measured from the Y axis
//   - outer: outer radius measured from the Y axis
//   - halfHeight: vertical half extent, y is drawn from [-halfHeight, halfHeight)
//
// Returns:
//   - PlacerBuilderOption: option function to apply
func WithAnnulus(inner, outer, halfHeight float64) PlacerBuilderOption {
	return func(p *placer) {
		p.innerRadius = inner
		p.outerRadius = outer
		p.halfHeight = halfHeight
	}
}

// WithMinSeparation sets the minimum distance between non-forced placements.
//
// Parameters:
//   - d: minimum separation in world units
//
// Returns:
//   - PlacerBuilderOption: option function to apply
func WithMinSeparation(d float64) PlacerBuilderOption {
	return func(p *placer) {
		p.minSeparation = d
	}
}

// WithAttemptBudget sets how many candidates are drawn before the last one is forced.
// Values below 1 are raised to 1.
//
// Parameters:
//   - n: attempts per placement
//
// Returns:
//   - PlacerBuilderOption: option function to apply
func WithAttemptBudget(n int) PlacerBuilderOption {
	return func(p *placer) {
		p.attemptBudget = n
	}
}

// WithRand sets the random source, mainly so tests can use a fixed seed.
//
// Parameters:
//   - rng: the random source to draw candidates from
//
// Returns:
//   - PlacerBuilderOption: option function to apply
func WithRand(rng *rand.Rand) PlacerBuilderOption {
	return func(p *placer) {
		p.rng = rng
	}
}
