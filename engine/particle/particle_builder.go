package particle

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Field defaults.
const (
	DefaultCount          = 16000
	DefaultBodyFraction   = 0.3
	DefaultBodyRadius     = 10.0
	DefaultDustRadius     = 55.0
	DefaultMinBodySpeed   = 0.0005
	DefaultBodySpeedRange = 0.0005
	DefaultDustSpeed      = 0.01
	DefaultBoundary       = 70.0
)

// GeneratorBuilderOption is a functional option for configuring a Generator.
type GeneratorBuilderOption func(*generator)

// WithCount sets the total number of particles.
//
// Parameters:
//   - n: total particle count (body + dust)
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithCount(n int) GeneratorBuilderOption {
	return func(g *generator) {
		g.count = n
	}
}

// WithBodyRadius sets the radius of the body shell.
func WithBodyRadius(r float64) GeneratorBuilderOption {
	return func(g *generator) {
		g.bodyRadius = r
	}
}

// WithDustRadius sets the radius of the sphere dust particles start on.
func WithDustRadius(r float64) GeneratorBuilderOption {
	return func(g *generator) {
		g.dustRadius = r
	}
}

// WithBodySpeed sets the angular speed range of body particles to [min, min+spread).
//
// Parameters:
//   - min: smallest angular speed in radians per frame
//   - spread: width of the speed range
//
// Returns:
//   - GeneratorBuilderOption: option function to apply
func WithBodySpeed(min, spread float64) GeneratorBuilderOption {
	return func(g *generator) {
		g.minSpeed = min
		g.speedRange = spread
	}
}

// WithDustSpeed sets the width of the per-axis dust velocity range, centered on zero.
func WithDustSpeed(s float64) GeneratorBuilderOption {
	return func(g *generator) {
		g.dustSpeed = s
	}
}

// WithRand sets the random source.
func WithRand(rng *rand.Rand) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = rng
	}
}

// IntegratorBuilderOption is a functional option for configuring an Integrator.
type IntegratorBuilderOption func(*integrator)

// WithBoundary sets the per-axis magnitude at which dust velocity components reflect.
//
// Parameters:
//   - b: boundary in world units
//
// Returns:
//   - IntegratorBuilderOption: option function to apply
func WithBoundary(b float64) IntegratorBuilderOption {
	return func(in *integrator) {
		in.boundary = b
	}
}

// WithWorkerPool splits large fields into chunks integrated on the given pool.
// Each chunk touches a disjoint range of particles and Step waits for all of them.
//
// Parameters:
//   - pool: the worker pool to submit chunks to
//   - chunkSize: particles per submitted task
//
// Returns:
//   - IntegratorBuilderOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool, chunkSize int) IntegratorBuilderOption {
	return func(in *integrator) {
		in.pool = pool
		in.chunkSize = chunkSize
	}
}
