package gesture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// replayDetector plays back recorded results, one per valid frame.
type replayDetector struct {
	mu      sync.Mutex
	results []Result
	next    int
	loop    bool
}

var _ Detector = &replayDetector{}

// NewReplayDetector creates a Detector that returns results in order.
// Past the end it loops when loop is set and reports no hands otherwise.
//
// Parameters:
//   - results: the recorded detections
//   - loop: whether to restart from the first result
//
// Returns:
//   - Detector: the replay detector
func NewReplayDetector(results []Result, loop bool) Detector {
	return &replayDetector{results: results, loop: loop}
}

func (d *replayDetector) Detect(_ context.Context, f Frame) (Result, error) {
	if !f.Valid() {
		return Result{}, ErrNoVideoFrame
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= len(d.results) {
		if !d.loop || len(d.results) == 0 {
			return Result{}, nil
		}
		d.next = 0
	}
	r := d.results[d.next]
	d.next++
	return r, nil
}

// LoadRecording reads a JSON-lines recording, one Result object per line.
// Blank lines are ignored.
//
// Parameters:
//   - r: the recording stream
//
// Returns:
//   - []Result: the decoded results in order
//   - error: error naming the first line that fails to decode
func LoadRecording(r io.Reader) ([]Result, error) {
	var out []Result
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var res Result
		if err := json.Unmarshal(b, &res); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		out = append(out, res)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return out, nil
}
