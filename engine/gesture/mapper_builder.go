package gesture

// Mapper defaults.
const (
	DefaultMinPinch     = 0.02
	DefaultMaxPinch     = 0.3
	DefaultScaleMin     = 0.5
	DefaultScaleSpan    = 1.5
	DefaultRotationGain = 1.5
)

// MapperBuilderOption is a functional option for configuring a Mapper.
type MapperBuilderOption func(*mapper)

// WithPinchRange sets the pinch distances mapped to the smallest and largest scale.
//
// Parameters:
//   - min: pinch distance at or below which scale is smallest
//   - max: pinch distance at or above which scale is largest
//
// Returns:
//   - MapperBuilderOption: option function to apply
func WithPinchRange(min, max float64) MapperBuilderOption {
	return func(m *mapper) {
		m.minDist = min
		m.maxDist = max
	}
}

// WithScaleRange sets the output scale to [min, min+span].
func WithScaleRange(min, span float64) MapperBuilderOption {
	return func(m *mapper) {
		m.scaleMin = min
		m.scaleSpan = span
	}
}

// WithRotationGain sets the radians of rotation per unit of palm travel.
func WithRotationGain(g float64) MapperBuilderOption {
	return func(m *mapper) {
		m.gain = g
	}
}
