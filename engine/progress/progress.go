// Package progress reports asset loading progress to the user.
package progress

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultFadeOut is how long the indicator stays visible after completion.
const DefaultFadeOut = 1500 * time.Millisecond

// Label formats the indicator text for percent.
func Label(percent int) string {
	return fmt.Sprintf("Wait Something Loading... %d%%", percent)
}

// Reporter receives loading progress.
type Reporter interface {
	// Update reports the current completion percentage, clamped to [0, 100].
	Update(percent int)

	// Complete signals that loading finished. It is called once.
	Complete()
}

// Multi fans updates out to every reporter in order. Nil reporters are skipped.
func Multi(reporters ...Reporter) Reporter {
	var rs multiReporter
	for _, r := range reporters {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return rs
}

type multiReporter []Reporter

func (m multiReporter) Update(percent int) {
	for _, r := range m {
		r.Update(percent)
	}
}

func (m multiReporter) Complete() {
	for _, r := range m {
		r.Complete()
	}
}

// logReporter writes a line per distinct percentage.
type logReporter struct {
	last int
}

// NewLogReporter creates a Reporter that logs each new percentage once.
func NewLogReporter() Reporter {
	return &logReporter{last: -1}
}

func (l *logReporter) Update(percent int) {
	percent = clampPercent(percent)
	if percent == l.last {
		return
	}
	l.last = percent
	log.Printf("[Loader] %s", Label(percent))
}

func (l *logReporter) Complete() {
	log.Printf("[Loader] loading complete")
}

// Indicator is the on-screen progress state read by renderers.
// It is safe for concurrent use: the driver writes it while a renderer reads it.
type Indicator struct {
	mu sync.RWMutex

	percent     int
	complete    bool
	completedAt time.Time

	fadeOut time.Duration
	now     func() time.Time
}

var _ Reporter = &Indicator{}

// NewIndicator creates a visible Indicator at 0%.
//
// Parameters:
//   - fadeOut: time after completion until the indicator is hidden
//   - now: clock used for the fade (nil uses time.Now)
//
// Returns:
//   - *Indicator: the new indicator
func NewIndicator(fadeOut time.Duration, now func() time.Time) *Indicator {
	if now == nil {
		now = time.Now
	}
	return &Indicator{fadeOut: fadeOut, now: now}
}

func (i *Indicator) Update(percent int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.percent = clampPercent(percent)
}

func (i *Indicator) Complete() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.complete {
		return
	}
	i.percent = 100
	i.complete = true
	i.completedAt = i.now()
}

// Reset shows the indicator again at 0%.
func (i *Indicator) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.percent = 0
	i.complete = false
	i.completedAt = time.Time{}
}

// Percent returns the last reported percentage.
func (i *Indicator) Percent() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.percent
}

// Done reports whether loading has finished.
func (i *Indicator) Done() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.complete
}

// Opacity is 1 while loading, then falls linearly to 0 over the fade-out.
func (i *Indicator) Opacity() float64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.complete {
		return 1
	}
	if i.fadeOut <= 0 {
		return 0
	}
	elapsed := i.now().Sub(i.completedAt)
	if elapsed >= i.fadeOut {
		return 0
	}
	return 1 - float64(elapsed)/float64(i.fadeOut)
}

// Visible reports whether the indicator should still be drawn.
func (i *Indicator) Visible() bool {
	return i.Opacity() > 0
}

func clampPercent(p int) int {
	return min(max(p, 0), 100)
}
