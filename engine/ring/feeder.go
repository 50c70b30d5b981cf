package ring

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Aman-3O/Esha-Suprise/engine/loader"
)

// FeedMode selects how images are requested from the cache.
type FeedMode int

const (
	// FeedModeSequential loads one image at a time, one sprite per successful load,
	// cycling through the key list until the target is reached.
	FeedModeSequential FeedMode = iota
	// FeedModeBatch requests every image at once; each arrival contributes an equal share.
	FeedModeBatch
)

// EventKind tags a feeder event.
type EventKind int

const (
	// EventProgress carries a percent update.
	EventProgress EventKind = iota
	// EventArrival carries a loaded texture and how many sprites to place for it.
	EventArrival
	// EventDone is sent once, last, when loading has finished.
	EventDone
)

// Event is emitted by a Feeder. Events are delivered in order on a single channel,
// so an arrival is always observed before the progress that counts it.
type Event struct {
	Kind    EventKind
	Texture *loader.Texture
	Count   int
	Percent int
}

// Feeder streams ring images from the cache to the frame driver.
type Feeder interface {
	// Run loads images and emits events until the target is reached, loading gives up,
	// or ctx is cancelled. EventDone is sent last unless ctx was cancelled. Run does not
	// close events.
	//
	// Parameters:
	//   - ctx: context bounding the run
	//   - events: channel receiving progress, arrival and done events
	Run(ctx context.Context, events chan<- Event)

	// Mode returns the feed mode.
	Mode() FeedMode

	// Target returns the total number of sprites requested.
	Target() int
}

// feeder implements the Feeder interface.
type feeder struct {
	mode   FeedMode
	source loader.Loader
	keys   []string

	target      int
	maxAttempts int
	yieldEvery  int
	yieldDelay  time.Duration
	workers     int
}

var _ Feeder = &feeder{}

// NewFeeder creates a Feeder over keys served by source.
//
// Parameters:
//   - mode: sequential or batch
//   - source: the image cache
//   - keys: the image keys, used in order
//   - options: functional options applied after the defaults
//
// Returns:
//   - Feeder: the configured feeder
func NewFeeder(mode FeedMode, source loader.Loader, keys []string, options ...FeederBuilderOption) Feeder {
	if source == nil {
		panic("ring: NewFeeder requires a non-nil Loader")
	}
	f := &feeder{
		mode:       mode,
		source:     source,
		keys:       append([]string(nil), keys...),
		target:     DefaultTarget,
		yieldEvery: DefaultYieldEvery,
		yieldDelay: DefaultYieldDelay,
	}

	for _, opt := range options {
		opt(f)
	}

	return f
}

func (f *feeder) Mode() FeedMode {
	return f.mode
}

func (f *feeder) Target() int {
	return f.target
}

func (f *feeder) Run(ctx context.Context, events chan<- Event) {
	var finished bool
	switch f.mode {
	case FeedModeBatch:
		finished = f.runBatch(ctx, events)
	default:
		finished = f.runSequential(ctx, events)
	}
	if !finished {
		return
	}
	if emit(ctx, events, Event{Kind: EventProgress, Percent: 100}) {
		emit(ctx, events, Event{Kind: EventDone, Percent: 100})
	}
}

// Percent converts a done/total ratio into a rounded percentage in [0, 100].
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	p := int(math.Round(float64(done) / float64(total) * 100))
	return min(max(p, 0), 100)
}

// emit sends ev unless ctx is cancelled first.
func emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// distinct counts the unique keys.
func distinct(keys []string) int {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}

// runSequential returns false if ctx was cancelled.
func (f *feeder) runSequential(ctx context.Context, events chan<- Event) bool {
	if len(f.keys) == 0 || f.target <= 0 {
		return true
	}

	maxAttempts := f.maxAttempts
	if maxAttempts <= 0 {
		maxAttempts = f.target * len(f.keys)
	}
	unique := distinct(f.keys)
	failed := make(map[string]struct{})

	// attempts counts Load calls; known failures are skipped without spending one.
	created, attempts, next := 0, 0, 0
	for created < f.target {
		if len(failed) == unique {
			log.Printf("[Ring] every image failed to load, stopping at %d/%d sprites", created, f.target)
			break
		}
		if attempts >= maxAttempts {
			log.Printf("[Ring] attempt limit %d reached, stopping at %d/%d sprites", maxAttempts, created, f.target)
			break
		}

		key := f.keys[next%len(f.keys)]
		next++
		if _, bad := failed[key]; bad {
			continue
		}

		if !emit(ctx, events, Event{Kind: EventProgress, Percent: Percent(created, f.target)}) {
			return false
		}

		attempts++
		tex, err := f.source.Load(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Printf("[Loader] could not load %s: %v", key, err)
			failed[key] = struct{}{}
			continue
		}

		if !emit(ctx, events, Event{Kind: EventArrival, Texture: tex, Count: 1}) {
			return false
		}
		created++

		if f.yieldEvery > 0 && created%f.yieldEvery == 0 && f.yieldDelay > 0 {
			select {
			case <-time.After(f.yieldDelay):
			case <-ctx.Done():
				return false
			}
		}
	}
	return true
}
