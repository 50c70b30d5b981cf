package particle

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Integrator advances a particle field by one frame.
type Integrator interface {
	// Step advances every particle once and marks the field dirty.
	//
	// Parameters:
	//   - f: the field to advance in place
	Step(f *Field)

	// Boundary returns the per-axis magnitude at which dust velocity reflects.
	Boundary() float64
}

// integrator implements the Integrator interface.
type integrator struct {
	boundary float64

	pool      worker.DynamicWorkerPool
	chunkSize int
}

var _ Integrator = &integrator{}

// NewIntegrator creates an Integrator with the default dust boundary of 70.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Integrator: the configured integrator
func NewIntegrator(options ...IntegratorBuilderOption) Integrator {
	in := &integrator{
		boundary: DefaultBoundary,
	}

	for _, opt := range options {
		opt(in)
	}

	return in
}

func (in *integrator) Boundary() float64 {
	return in.boundary
}

func (in *integrator) Step(f *Field) {
	n := f.Len()
	if in.pool == nil || in.chunkSize <= 0 || n <= in.chunkSize {
		in.stepRange(f, 0, n)
		f.MarkDirty()
		return
	}

	// Chunks cover disjoint index ranges, so tasks never write the same slot.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += in.chunkSize {
		end := min(start+in.chunkSize, n)
		wg.Add(1)
		lo, hi := start, end
		in.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				in.stepRange(f, lo, hi)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	f.MarkDirty()
}

// stepRange advances particles [lo, hi).
func (in *integrator) stepRange(f *Field, lo, hi int) {
	pos := f.Positions
	for i := lo; i < hi; i++ {
		i3 := i * 3
		switch k := f.States[i].(type) {
		case *Body:
			k.Angle += k.Speed
			pos[i3] = float32(math.Cos(k.Angle) * k.Radius)
			pos[i3+2] = float32(math.Sin(k.Angle) * k.Radius)
		case *Dust:
			for axis := 0; axis < 3; axis++ {
				pos[i3+axis] += float32(k.Velocity[axis])
				if math.Abs(float64(pos[i3+axis])) > in.boundary {
					k.Velocity[axis] = -k.Velocity[axis]
				}
			}
		}
	}
}
