package particle

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Generator builds a new particle field.
type Generator interface {
	// Generate samples a fresh field. Each call produces new positions with the same
	// population sizes and radius bounds.
	//
	// Returns:
	//   - *Field: the generated field, marked dirty
	Generate() *Field

	// Count returns the total number of particles generated per field.
	Count() int

	// BodyCount returns how many of those particles belong to the body shell.
	BodyCount() int
}

// generator implements the Generator interface.
type generator struct {
	rng *rand.Rand

	count        int
	bodyFraction float64

	bodyRadius float64
	dustRadius float64

	minSpeed   float64
	speedRange float64
	dustSpeed  float64
}

var _ Generator = &generator{}

// NewGenerator creates a Generator for 16000 particles, 30% of them on a body shell of
// radius 10 and the rest on a dust sphere of radius 55.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Generator: the configured generator
func NewGenerator(options ...GeneratorBuilderOption) Generator {
	g := &generator{
		count:        DefaultCount,
		bodyFraction: DefaultBodyFraction,
		bodyRadius:   DefaultBodyRadius,
		dustRadius:   DefaultDustRadius,
		minSpeed:     DefaultMinBodySpeed,
		speedRange:   DefaultBodySpeedRange,
		dustSpeed:    DefaultDustSpeed,
	}

	for _, opt := range options {
		opt(g)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.count < 0 {
		g.count = 0
	}

	return g
}

func (g *generator) Count() int {
	return g.count
}

func (g *generator) BodyCount() int {
	return int(math.Floor(float64(g.count) * g.bodyFraction))
}

func (g *generator) Generate() *Field {
	bodyCount := g.BodyCount()
	f := &Field{
		Positions: make([]float32, g.count*3),
		States:    make([]Kinematics, g.count),
		BodyCount: bodyCount,
		DustCount: g.count - bodyCount,
	}

	for i := 0; i < g.count; i++ {
		i3 := i * 3
		if i < bodyCount {
			p := SpherePoint(g.rng, g.bodyRadius)
			f.Positions[i3] = float32(p.X())
			f.Positions[i3+1] = float32(p.Y())
			f.Positions[i3+2] = float32(p.Z())
			f.States[i] = &Body{
				Angle:  math.Atan2(p.Z(), p.X()),
				Radius: math.Hypot(p.X(), p.Z()),
				Y:      p.Y(),
				Speed:  g.minSpeed + g.rng.Float64()*g.speedRange,
			}
			continue
		}

		p := SpherePoint(g.rng, g.dustRadius)
		f.Positions[i3] = float32(p.X())
		f.Positions[i3+1] = float32(p.Y())
		f.Positions[i3+2] = float32(p.Z())
		f.States[i] = &Dust{
			Velocity: mgl64.Vec3{
				(g.rng.Float64() - 0.5) * g.dustSpeed,
				(g.rng.Float64() - 0.5) * g.dustSpeed,
				(g.rng.Float64() - 0.5) * g.dustSpeed,
			},
		}
	}

	f.MarkDirty()
	return f
}

// SpherePoint samples a point uniformly on the surface of a sphere centered at the origin
// using the inverse CDF of the polar angle.
//
// Parameters:
//   - rng: random source
//   - radius: sphere radius
//
// Returns:
//   - mgl64.Vec3: the sampled point
func SpherePoint(rng *rand.Rand, radius float64) mgl64.Vec3 {
	theta := 2 * math.Pi * rng.Float64()
	phi := math.Acos(2*rng.Float64() - 1)
	return mgl64.Vec3{
		radius * math.Sin(phi) * math.Cos(theta),
		radius * math.Sin(phi) * math.Sin(theta),
		radius * math.Cos(phi),
	}
}
