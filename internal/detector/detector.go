package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/mapping"
)

// Reading is the per-frame extraction result consumed by the pointer
// pipeline. When HandPresent is false the remaining fields are undefined.
// PinchOK guards PinchDistance separately: a hand can be visible while the
// fingertips needed for the pinch measurement are occluded.
type Reading struct {
	HandPresent   bool
	Pointer       mapping.Point // normalized, origin bottom-left, mirrored X
	PinchDistance float64
	PinchOK       bool
	Confidence    float64
}

// Detector defines the interface for hand extraction implementations.
type Detector interface {
	// Detect analyzes a video frame and returns a pointer reading.
	// No detected hand is not an error: it returns a Reading with
	// HandPresent false.
	Detect(frame *gocv.Mat) (Reading, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand extraction.
type Config struct {
	// MinConfidence is the minimum detection confidence (0.0-1.0) below
	// which a hand is reported as absent.
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
