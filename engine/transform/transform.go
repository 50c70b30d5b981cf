// Package transform holds the assembly-wide scale and rotation state and the
// exponential smoothing that moves the rendered state toward the requested one.
package transform

import "github.com/Aman-3O/Esha-Suprise/common"

// DefaultSmoothingFactor is the fraction of the remaining gap closed every frame.
const DefaultSmoothingFactor = 0.02

// State is the uniform scale and two-axis rotation applied to the whole assembly.
type State struct {
	Scale     float64
	RotationX float64
	RotationY float64
}

// InitialState is the resting pose of the assembly before any gesture input.
var InitialState = State{Scale: 1, RotationX: 0.4, RotationY: 0}

// Approach returns s moved toward target by factor on every component independently.
//
// Parameters:
//   - target: the state being approached
//   - factor: fraction of the gap closed
//
// Returns:
//   - State: the stepped state
func (s State) Approach(target State, factor float64) State {
	return State{
		Scale:     common.Approach(s.Scale, target.Scale, factor),
		RotationX: common.Approach(s.RotationX, target.RotationX, factor),
		RotationY: common.Approach(s.RotationY, target.RotationY, factor),
	}
}

// Smoother tracks the current and target transform pair.
// Target is written by input mapping, Current only by Step.
type Smoother struct {
	Current State
	Target  State
	Factor  float64
}

// NewSmoother creates a Smoother resting at initial, with current equal to target.
// A non-positive factor falls back to DefaultSmoothingFactor.
//
// Parameters:
//   - initial: the starting state for both current and target
//   - factor: fraction of the gap closed per Step
//
// Returns:
//   - *Smoother: the new smoother
func NewSmoother(initial State, factor float64) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothingFactor
	}
	return &Smoother{
		Current: initial,
		Target:  initial,
		Factor:  factor,
	}
}

// Step advances Current one frame toward Target and returns the new Current.
func (s *Smoother) Step() State {
	s.Current = s.Current.Approach(s.Target, s.Factor)
	return s.Current
}

// Targets exposes only the target half of the pair for input mappers.
func (s *Smoother) Targets() *State {
	return &s.Target
}

// Reset puts both current and target back at st.
func (s *Smoother) Reset(st State) {
	s.Current = st
	s.Target = st
}
