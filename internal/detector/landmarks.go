// Package detector provides hand extraction interfaces and types for the
// Mudra pointer pipeline.
package detector

import (
	"math"

	"github.com/ayusman/mudra/internal/mapping"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates, in
// MediaPipe's image-normalized frame (origin top-left, Y down).
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance2D calculates the planar Euclidean distance between two points,
// ignoring depth. Pinch distance uses the image plane only: the Z estimate
// is too noisy to contribute anything but jitter.
func distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Reading converts the landmarks into a pointer reading. The index
// fingertip drives the pointer; the thumb-to-index fingertip distance is
// the pinch signal. Camera coordinates (origin top-left, Y down, unmirrored)
// are converted to pointer space (origin bottom-left, Y up, mirrored X so
// moving the hand right moves the pointer right).
func (h *HandLandmarks) Reading() Reading {
	tip := h.Points[IndexTip]

	return Reading{
		HandPresent: true,
		Pointer: mapping.Point{
			X: clampUnit(1 - tip.X),
			Y: clampUnit(1 - tip.Y),
		},
		PinchDistance: distance2D(h.Points[ThumbTip], h.Points[IndexTip]),
		PinchOK:       true,
		Confidence:    h.Score,
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
