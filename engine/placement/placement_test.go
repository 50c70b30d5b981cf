package placement

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestPlacer(seed uint64, options ...PlacerBuilderOption) Placer {
	opts := append([]PlacerBuilderOption{WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))}, options...)
	return NewPlacer(opts...)
}

func TestPlaceStaysInsideAnnulus(t *testing.T) {
	p := newTestPlacer(1)
	for i := 0; i < 400; i++ {
		pl := p.Place()
		r := math.Hypot(pl.Position.X(), pl.Position.Z())
		if r < DefaultInnerRadius-1e-9 || r > DefaultOuterRadius+1e-9 {
			t.Fatalf("placement %d radius %v outside [%v, %v]", i, r, DefaultInnerRadius, DefaultOuterRadius)
		}
		if math.Abs(pl.Position.Y()) > DefaultHalfHeight {
			t.Fatalf("placement %d y %v outside half height", i, pl.Position.Y())
		}
		if math.Abs(r-pl.Distance) > 1e-9 {
			t.Fatalf("placement %d distance %v does not match position radius %v", i, pl.Distance, r)
		}
	}
	if p.Len() != 400 {
		t.Fatalf("placed set size = %d, want 400", p.Len())
	}
}

func TestViolationsOnlyAfterExhaustedBudget(t *testing.T) {
	tests := []struct {
		name   string
		d      float64
		budget int
		count  int
	}{
		{name: "sparse", d: 3, budget: 15, count: 60},
		{name: "dense", d: 3, budget: 15, count: 340},
		{name: "crowded", d: 8, budget: 20, count: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlacer(42, WithMinSeparation(tt.d), WithAttemptBudget(tt.budget))

			results := make([]Placement, 0, tt.count)
			for i := 0; i < tt.count; i++ {
				pl := p.Place()
				if pl.Attempts < 1 || pl.Attempts > tt.budget {
					t.Fatalf("placement %d used %d attempts, budget %d", i, pl.Attempts, tt.budget)
				}
				if pl.Forced && pl.Attempts != tt.budget {
					t.Fatalf("placement %d forced after %d attempts, want %d", i, pl.Attempts, tt.budget)
				}
				results = append(results, pl)
			}

			forced := 0
			for i, later := range results {
				if later.Forced {
					forced++
				}
				for _, earlier := range results[:i] {
					if later.Position.Sub(earlier.Position).Len() >= tt.d {
						continue
					}
					if !later.Forced {
						t.Fatalf("non-forced placement %d is %.3f from an earlier point, min %.3f",
							i, later.Position.Sub(earlier.Position).Len(), tt.d)
					}
				}
			}
			if forced != p.Forced() {
				t.Fatalf("forced count = %d, placer reports %d", forced, p.Forced())
			}
		})
	}
}

func TestPlaceForcesWhenNoRoom(t *testing.T) {
	p := newTestPlacer(7, WithAnnulus(15, 15.01, 0.01), WithMinSeparation(100), WithAttemptBudget(15))

	first := p.Place()
	if first.Forced || first.Attempts != 1 {
		t.Fatalf("first placement = %+v, want an unforced single attempt", first)
	}

	second := p.Place()
	if !second.Forced {
		t.Fatalf("second placement was not forced: %+v", second)
	}
	if second.Attempts != 15 {
		t.Fatalf("second placement attempts = %d, want 15", second.Attempts)
	}
	if p.Len() != 2 || p.Forced() != 1 {
		t.Fatalf("placed=%d forced=%d, want 2 and 1", p.Len(), p.Forced())
	}
}

func TestResetDiscardsPlacedSet(t *testing.T) {
	p := newTestPlacer(3, WithAnnulus(15, 15.01, 0.01), WithMinSeparation(100))
	p.Place()
	p.Place()
	p.Reset()

	if p.Len() != 0 || p.Forced() != 0 {
		t.Fatalf("after reset placed=%d forced=%d", p.Len(), p.Forced())
	}
	if pl := p.Place(); pl.Forced {
		t.Fatalf("placement after reset was forced: %+v", pl)
	}
}

func TestSameSeedSamePlacements(t *testing.T) {
	a := newTestPlacer(99)
	b := newTestPlacer(99)
	for i := 0; i < 50; i++ {
		pa, pb := a.Place(), b.Place()
		if pa != pb {
			t.Fatalf("placement %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}

func TestNewPlacerPanicsOnInvertedAnnulus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for inverted annulus")
		}
	}()
	NewPlacer(WithAnnulus(40, 15, 1))
}
