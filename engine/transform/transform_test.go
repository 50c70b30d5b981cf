package transform

import (
	"math"
	"testing"
)

func TestSmootherMatchesClosedForm(t *testing.T) {
	start := State{Scale: 1, RotationX: 0.4, RotationY: 0}
	target := State{Scale: 2, RotationX: -1.2, RotationY: 3.5}

	s := NewSmoother(start, 0.02)
	s.Target = target

	closed := func(c0, tg float64, n int) float64 {
		return tg - (tg-c0)*math.Pow(1-0.02, float64(n))
	}

	for n := 1; n <= 300; n++ {
		got := s.Step()
		want := State{
			Scale:     closed(start.Scale, target.Scale, n),
			RotationX: closed(start.RotationX, target.RotationX, n),
			RotationY: closed(start.RotationY, target.RotationY, n),
		}
		if math.Abs(got.Scale-want.Scale) > 1e-9 ||
			math.Abs(got.RotationX-want.RotationX) > 1e-9 ||
			math.Abs(got.RotationY-want.RotationY) > 1e-9 {
			t.Fatalf("frame %d: got %+v, want %+v", n, got, want)
		}
	}
}

func TestSmootherRestsAtTarget(t *testing.T) {
	s := NewSmoother(InitialState, DefaultSmoothingFactor)
	for i := 0; i < 10; i++ {
		if got := s.Step(); got != InitialState {
			t.Fatalf("step %d drifted from rest: %+v", i, got)
		}
	}
}

func TestNewSmootherFactorFallback(t *testing.T) {
	for _, f := range []float64{0, -1, 1.5} {
		if got := NewSmoother(InitialState, f).Factor; got != DefaultSmoothingFactor {
			t.Fatalf("factor %v: got %v, want %v", f, got, DefaultSmoothingFactor)
		}
	}
}

func TestTargetsNarrowsToTarget(t *testing.T) {
	s := NewSmoother(InitialState, DefaultSmoothingFactor)
	s.Targets().Scale = 1.5

	if s.Target.Scale != 1.5 {
		t.Fatalf("target scale = %v, want 1.5", s.Target.Scale)
	}
	if s.Current.Scale != 1 {
		t.Fatalf("current scale changed to %v", s.Current.Scale)
	}
}
