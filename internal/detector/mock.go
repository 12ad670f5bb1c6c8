package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the readings frame by frame.
type MockDetector struct {
	mu      sync.Mutex
	reading Reading
	queue   []Reading
	err     error
	calls   int
}

// NewMockDetector creates a new MockDetector reporting no hand.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetReading sets the reading returned by Detect once the queue is drained.
func (m *MockDetector) SetReading(r Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reading = r
}

// QueueReadings appends readings returned by successive Detect calls, in
// order, before falling back to the standing reading.
func (m *MockDetector) QueueReadings(rs ...Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, rs...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued reading, the standing reading, or the
// pre-configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return Reading{}, m.err
	}
	if len(m.queue) > 0 {
		r := m.queue[0]
		m.queue = m.queue[1:]
		return r, nil
	}
	return m.reading, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchedHandLandmarks returns a preset HandLandmarks with the thumb and
// index fingertips touching, as seen mid-pinch.
func PinchedHandLandmarks() HandLandmarks {
	lm := openHandBase()
	// Bring the thumb tip onto the index tip.
	lm.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.42, Z: 0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.355, Z: 0.01}
	return lm
}

// OpenHandLandmarks returns a preset HandLandmarks with all fingers
// extended and the thumb well away from the index finger.
func OpenHandLandmarks() HandLandmarks {
	return openHandBase()
}

func openHandBase() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}
