package progress

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Chime plays a short tone when loading completes. Audio is optional: if the
// speaker cannot be initialized the chime stays silent.
type Chime struct {
	sampleRate beep.SampleRate
	frequency  float64
	duration   time.Duration
	volume     float64
	ready      bool
}

var _ Reporter = &Chime{}

// NewChime initializes the speaker and returns a Chime.
//
// Parameters:
//   - options: functional options applied before the speaker is initialized
//
// Returns:
//   - *Chime: the chime; silent when audio initialization failed
func NewChime(options ...ChimeBuilderOption) *Chime {
	c := &Chime{
		sampleRate: beep.SampleRate(44100),
		frequency:  880,
		duration:   150 * time.Millisecond,
		volume:     -1,
	}
	for _, opt := range options {
		opt(c)
	}

	if err := speaker.Init(c.sampleRate, c.sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Progress] audio disabled: %v", err)
		return c
	}
	c.ready = true
	return c
}

// Update is a no-op: the chime only reacts to completion.
func (c *Chime) Update(int) {}

// Complete plays the tone.
func (c *Chime) Complete() {
	if !c.ready {
		return
	}
	tone, err := generators.SineTone(c.sampleRate, c.frequency)
	if err != nil {
		log.Printf("[Progress] chime: %v", err)
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(c.sampleRate.N(c.duration), tone),
		Base:     2,
		Volume:   c.volume,
	})
}

// Ready reports whether audio output is available.
func (c *Chime) Ready() bool {
	return c.ready
}

// Close releases the speaker.
func (c *Chime) Close() {
	if c.ready {
		speaker.Close()
		c.ready = false
	}
}

// ChimeBuilderOption is a functional option for configuring a Chime.
type ChimeBuilderOption func(*Chime)

// WithTone sets the chime frequency in Hz and its length.
func WithTone(frequency float64, duration time.Duration) ChimeBuilderOption {
	return func(c *Chime) {
		c.frequency = frequency
		c.duration = duration
	}
}

// WithVolume sets the chime volume as a base-2 exponent (0 is unchanged, -1 is half).
func WithVolume(v float64) ChimeBuilderOption {
	return func(c *Chime) {
		c.volume = v
	}
}
