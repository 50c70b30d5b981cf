package placement

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Placement is the outcome of placing one point in the annulus.
type Placement struct {
	// Position is the committed Cartesian position (cos(angle)*distance, y, sin(angle)*distance).
	Position mgl64.Vec3

	// Angle is the sampled angle around the Y axis in radians.
	Angle float64

	// Distance is the sampled distance from the Y axis.
	Distance float64

	// Attempts is how many candidates were drawn, including the accepted one.
	Attempts int

	// Forced reports that every candidate was rejected and the last one was accepted anyway.
	Forced bool
}

// Placer assigns collision-aware positions inside an annulus using bounded rejection sampling.
// Every accepted point joins the placed set so later placements keep their distance from it.
// When the attempt budget runs out the last candidate is accepted regardless, so placement
// is best effort and always makes progress.
type Placer interface {
	// Place samples candidates until one keeps the minimum separation from every placed point,
	// or the attempt budget is exhausted.
	//
	// Returns:
	//   - Placement: the committed placement
	Place() Placement

	// Placed returns a copy of every committed position in placement order.
	//
	// Returns:
	//   - []mgl64.Vec3: the placed set
	Placed() []mgl64.Vec3

	// Len returns the number of committed positions.
	//
	// Returns:
	//   - int: placed set size
	Len() int

	// Forced returns how many placements bypassed the separation check.
	//
	// Returns:
	//   - int: forced placement count
	Forced() int

	// Reset discards the placed set.
	Reset()

	// InnerRadius returns the inner radius of the annulus.
	InnerRadius() float64

	// OuterRadius returns the outer radius of the annulus.
	OuterRadius() float64

	// HalfHeight returns the vertical half extent of the annulus.
	HalfHeight() float64

	// MinSeparation returns the minimum distance enforced between non-forced placements.
	MinSeparation() float64

	// AttemptBudget returns the number of candidates drawn before forcing.
	AttemptBudget() int
}

// placer implements the Placer interface.
type placer struct {
	rng *rand.Rand

	innerRadius float64
	outerRadius float64
	halfHeight  float64

	minSeparation float64
	attemptBudget int

	placed []mgl64.Vec3
	forced int
}

var _ Placer = &placer{}

// NewPlacer creates a Placer with the default annulus (inner 15, outer 40, half height 1),
// a minimum separation of 3 and an attempt budget of 15.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Placer: the new placer with an empty placed set
func NewPlacer(options ...PlacerBuilderOption) Placer {
	p := &placer{
		innerRadius:   DefaultInnerRadius,
		outerRadius:   DefaultOuterRadius,
		halfHeight:    DefaultHalfHeight,
		minSeparation: DefaultMinSeparation,
		attemptBudget: DefaultAttemptBudget,
	}

	for _, opt := range options {
		opt(p)
	}

	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if p.outerRadius < p.innerRadius {
		panic("placement: outer radius must not be smaller than inner radius")
	}
	if p.attemptBudget < 1 {
		p.attemptBudget = 1
	}

	return p
}

func (p *placer) Place() Placement {
	var candidate Placement
	for attempt := 1; attempt <= p.attemptBudget; attempt++ {
		candidate = p.sample()
		candidate.Attempts = attempt
		if !p.tooClose(candidate.Position) {
			p.placed = append(p.placed, candidate.Position)
			return candidate
		}
	}

	candidate.Forced = true
	p.forced++
	p.placed = append(p.placed, candidate.Position)
	return candidate
}

func (p *placer) Placed() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(p.placed))
	copy(out, p.placed)
	return out
}

func (p *placer) Len() int {
	return len(p.placed)
}

func (p *placer) Forced() int {
	return p.forced
}

func (p *placer) Reset() {
	p.placed = nil
	p.forced = 0
}

func (p *placer) InnerRadius() float64 {
	return p.innerRadius
}

func (p *placer) OuterRadius() float64 {
	return p.outerRadius
}

func (p *placer) HalfHeight() float64 {
	return p.halfHeight
}

func (p *placer) MinSeparation() float64 {
	return p.minSeparation
}

func (p *placer) AttemptBudget() int {
	return p.attemptBudget
}

// sample draws one candidate. The square root on the radial draw keeps the
// density uniform over the annulus area rather than over the radius.
func (p *placer) sample() Placement {
	angle := p.rng.Float64() * 2 * math.Pi
	distance := math.Sqrt(p.rng.Float64())*(p.outerRadius-p.innerRadius) + p.innerRadius
	y := (p.rng.Float64()*2 - 1) * p.halfHeight

	return Placement{
		Position: mgl64.Vec3{math.Cos(angle) * distance, y, math.Sin(angle) * distance},
		Angle:    angle,
		Distance: distance,
	}
}

// tooClose reports whether pos is within minSeparation of any placed point.
func (p *placer) tooClose(pos mgl64.Vec3) bool {
	limit := p.minSeparation * p.minSeparation
	for _, q := range p.placed {
		d := pos.Sub(q)
		if d.Dot(d) < limit {
			return true
		}
	}
	return false
}
