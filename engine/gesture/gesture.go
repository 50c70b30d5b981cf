// Package gesture turns hand-landmark detections into zoom and rotation targets.
// Landmark detection itself is an external collaborator behind the Detector interface.
package gesture

import "errors"

// Landmark indices used by the mapper. They follow the 21-point hand model of the detector.
const (
	ThumbTip     = 4
	IndexTip     = 8
	PalmCenter   = 9
	NumLandmarks = 21
)

// ErrNoVideoFrame is returned by detectors asked to run before a valid frame exists.
var ErrNoVideoFrame = errors.New("gesture: no video frame")

// Landmark is a normalized image-space point. X and Y are in [0, 1]; Z is relative depth.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Hand is the ordered landmark sequence of one detected hand.
type Hand [NumLandmarks]Landmark

// Result is the detector output for one camera frame.
type Result struct {
	Hands []Hand `json:"hands"`
}

// Frame is one captured camera frame handed to a Detector.
type Frame struct {
	Width     int
	Height    int
	Timestamp int64
	Data      []byte
}

// Valid reports whether the frame has a non-zero size.
func (f Frame) Valid() bool {
	return f.Width > 0 && f.Height > 0
}
