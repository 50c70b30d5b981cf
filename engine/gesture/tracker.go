package gesture

import (
	"context"
	"log"
	"time"
)

// Detector is the external hand-landmark model.
type Detector interface {
	// Detect finds hands in one frame.
	//
	// Parameters:
	//   - ctx: context bounding the detection
	//   - f: the camera frame
	//
	// Returns:
	//   - Result: zero or more detected hands
	//   - error: ErrNoVideoFrame or a detector failure
	Detect(ctx context.Context, f Frame) (Result, error)
}

// Tracker feeds camera frames through a Detector and forwards the results.
type Tracker interface {
	// Run consumes frames until ctx is cancelled or frames is closed.
	// Frames without a size are skipped and detector errors drop only that frame.
	//
	// Parameters:
	//   - ctx: context bounding the run
	//   - frames: captured camera frames
	//   - results: receives one Result per successfully processed frame
	Run(ctx context.Context, frames <-chan Frame, results chan<- Result)
}

// tracker implements the Tracker interface.
type tracker struct {
	detector Detector
	verbose  bool
}

var _ Tracker = &tracker{}

// NewTracker creates a Tracker around detector.
//
// Parameters:
//   - detector: the landmark model
//   - options: functional options applied after the defaults
//
// Returns:
//   - Tracker: the configured tracker
func NewTracker(detector Detector, options ...TrackerBuilderOption) Tracker {
	if detector == nil {
		panic("gesture: NewTracker requires a non-nil Detector")
	}
	t := &tracker{detector: detector}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *tracker) Run(ctx context.Context, frames <-chan Frame, results chan<- Result) {
	for {
		var f Frame
		select {
		case <-ctx.Done():
			return
		case fr, ok := <-frames:
			if !ok {
				return
			}
			f = fr
		}

		if !f.Valid() {
			continue
		}

		res, err := t.detector.Detect(ctx, f)
		if err != nil {
			if t.verbose {
				log.Printf("[Gesture] frame %d skipped: %v", f.Timestamp, err)
			}
			continue
		}

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
}

// TrackerBuilderOption is a functional option for configuring a Tracker.
type TrackerBuilderOption func(*tracker)

// WithVerbose logs frames dropped because of detector errors.
func WithVerbose(v bool) TrackerBuilderOption {
	return func(t *tracker) {
		t.verbose = v
	}
}

// FrameTicker emits empty frames of the given size at a fixed interval until ctx is done.
// It stands in for a camera when the detector does not read pixels.
//
// Parameters:
//   - ctx: context bounding the ticker
//   - interval: time between frames
//   - width, height: reported frame size
//
// Returns:
//   - <-chan Frame: the frame stream, closed when ctx is done
func FrameTicker(ctx context.Context, interval time.Duration, width, height int) <-chan Frame {
	out := make(chan Frame)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var n int64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- Frame{Width: width, Height: height, Timestamp: n}:
					n++
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
