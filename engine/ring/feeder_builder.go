package ring

import "time"

// Feeder defaults.
const (
	DefaultTarget     = 340
	DefaultYieldEvery = 3
	DefaultYieldDelay = 10 * time.Millisecond
)

// FeederBuilderOption is a functional option for configuring a Feeder.
type FeederBuilderOption func(*feeder)

// WithTarget sets the total number of sprites to create.
//
// Parameters:
//   - n: target sprite count
//
// Returns:
//   - FeederBuilderOption: option function to apply
func WithTarget(n int) FeederBuilderOption {
	return func(f *feeder) {
		f.target = n
	}
}

// WithMaxAttempts caps the number of sequential Load calls. Keys already known to
// fail are skipped without counting against the cap. Zero selects target * len(keys), which always reaches the target when any key loads.
//
// Parameters:
//   - n: attempt cap
//
// Returns:
//   - FeederBuilderOption: option function to apply
func WithMaxAttempts(n int) FeederBuilderOption {
	return func(f *feeder) {
		f.maxAttempts = n
	}
}

// WithYield pauses sequential loading for delay after every n created sprites.
// Either value at zero disables the pause.
//
// Parameters:
//   - n: sprites between pauses
//   - delay: pause length
//
// Returns:
//   - FeederBuilderOption: option function to apply
func WithYield(n int, delay time.Duration) FeederBuilderOption {
	return func(f *feeder) {
		f.yieldEvery = n
		f.yieldDelay = delay
	}
}

// WithWorkers bounds the batch worker pool. Zero uses one worker per key.
//
// Parameters:
//   - n: maximum concurrent loads
//
// Returns:
//   - FeederBuilderOption: option function to apply
func WithWorkers(n int) FeederBuilderOption {
	return func(f *feeder) {
		f.workers = n
	}
}
