package gesture

import (
	"math"

	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/engine/transform"
)

// Mapper converts per-frame detections into transform targets.
type Mapper interface {
	// Apply maps one detection result onto target. With no hand the targets are left as
	// they are and tracking resets, so the next hand reseeds the palm baseline.
	//
	// Parameters:
	//   - r: the detection result for one camera frame
	//   - target: the target transform, the only state the mapper may write
	Apply(r Result, target *transform.State)

	// Tracking reports whether the previous frame had a hand.
	Tracking() bool

	// Scale maps a thumb-to-index pinch distance to a target scale.
	//
	// Parameters:
	//   - pinch: normalized distance between thumb tip and index tip
	//
	// Returns:
	//   - float64: target scale in [scaleMin, scaleMin+scaleSpan]
	Scale(pinch float64) float64
}

// mapper implements the Mapper interface.
type mapper struct {
	minDist   float64
	maxDist   float64
	scaleMin  float64
	scaleSpan float64
	gain      float64

	tracking bool
	lastX    float64
	lastY    float64
}

var _ Mapper = &mapper{}

// NewMapper creates a Mapper with pinch range [0.02, 0.3], scale range [0.5, 2.0]
// and rotation gain 1.5.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Mapper: the configured mapper, not yet tracking
func NewMapper(options ...MapperBuilderOption) Mapper {
	m := &mapper{
		minDist:   DefaultMinPinch,
		maxDist:   DefaultMaxPinch,
		scaleMin:  DefaultScaleMin,
		scaleSpan: DefaultScaleSpan,
		gain:      DefaultRotationGain,
		lastX:     0.5,
		lastY:     0.5,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.maxDist <= m.minDist {
		panic("gesture: max pinch distance must exceed min pinch distance")
	}

	return m
}

func (m *mapper) Tracking() bool {
	return m.tracking
}

func (m *mapper) Scale(pinch float64) float64 {
	norm := common.Clamp((pinch-m.minDist)/(m.maxDist-m.minDist), 0, 1)
	return m.scaleMin + norm*m.scaleSpan
}

func (m *mapper) Apply(r Result, target *transform.State) {
	if len(r.Hands) == 0 {
		m.tracking = false
		return
	}

	h := r.Hands[0]
	thumb, index, palm := h[ThumbTip], h[IndexTip], h[PalmCenter]

	target.Scale = m.Scale(math.Hypot(thumb.X-index.X, thumb.Y-index.Y))

	if !m.tracking {
		m.lastX, m.lastY = palm.X, palm.Y
		m.tracking = true
	}
	dx := palm.X - m.lastX
	dy := palm.Y - m.lastY

	target.RotationY -= dx * m.gain
	target.RotationX += dy * m.gain

	m.lastX, m.lastY = palm.X, palm.Y
}
