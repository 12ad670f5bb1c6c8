// Package gesture converts a continuous pinch-distance signal into discrete,
// debounced pointer events with an explicit interaction state.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/mapping"
)

// State is the machine's current interaction state.
type State string

const (
	// StateIdle means no hand is present or tracking has not engaged.
	StateIdle State = "idle"
	// StateTracking means the hand is present and the cursor follows it.
	StateTracking State = "tracking"
	// StatePressHold means a press is engaged but the hand has not moved
	// enough to count as a drag.
	StatePressHold State = "press_hold"
	// StateDragging means a press is engaged and the hand moved past the
	// drag threshold.
	StateDragging State = "dragging"
	// StateClutch is a reserved freeze state. It behaves like Tracking but
	// absorbs pinch input without pressing; nothing transitions into it
	// today.
	StateClutch State = "clutch"
)

// EventKind tags an emitted pointer event.
type EventKind int

const (
	// EventMove reports a new pointer position.
	EventMove EventKind = iota + 1
	// EventPressStart reports the button going down.
	EventPressStart
	// EventPressEnd reports the button going up.
	EventPressEnd
	// EventClick reports a press that ended quickly and nearly in place.
	// The press reported by the preceding EventPressStart is complete.
	EventClick
)

// String returns the event kind's wire name.
func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventPressStart:
		return "press_start"
	case EventPressEnd:
		return "press_end"
	case EventClick:
		return "click"
	}
	return "unknown"
}

// Event is a single discrete pointer event. Point is meaningful for
// EventMove; the remaining kinds act at the current pointer position.
type Event struct {
	Kind  EventKind
	Point mapping.Point
}

// Frame is one processed sample fed to the machine. Pinch is only valid
// when PinchOK is true; an unavailable pinch reading is treated the same
// as an absent hand.
type Frame struct {
	HandPresent bool
	Pinch       float64
	PinchOK     bool
	Point       mapping.Point
	Timestamp   float64
}

// Config holds the machine's thresholds. All distances are in normalized
// units, all durations in seconds.
type Config struct {
	// PinchThreshold is the pinch distance below which a press engages.
	PinchThreshold float64
	// PinchHysteresis widens the release threshold: an engaged pinch only
	// releases once the distance exceeds PinchThreshold+PinchHysteresis,
	// preventing flicker right at the boundary.
	PinchHysteresis float64
	// DebounceTime is the minimum duration a pinch crossing must hold
	// before it is acted on, and the minimum spacing between state
	// transitions (transitions into Idle are exempt).
	DebounceTime float64
	// ClickDistance is the maximum displacement from the press origin for
	// a release to count as a click.
	ClickDistance float64
	// ClickTimeout is the maximum press duration for a click.
	ClickTimeout float64
	// DragThreshold is the displacement from the press origin past which
	// a held press becomes a drag.
	DragThreshold float64
}

// DefaultConfig returns thresholds tuned for normalized webcam coordinates.
func DefaultConfig() Config {
	return Config{
		PinchThreshold:  0.05,
		PinchHysteresis: 0.02,
		DebounceTime:    0.1,
		ClickDistance:   0.02,
		ClickTimeout:    0.3,
		DragThreshold:   0.01,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("gesture: pinch threshold must be positive, got %f", c.PinchThreshold)
	}
	if c.PinchHysteresis < 0 {
		return fmt.Errorf("gesture: pinch hysteresis must be non-negative, got %f", c.PinchHysteresis)
	}
	if c.DebounceTime < 0 {
		return fmt.Errorf("gesture: debounce time must be non-negative, got %f", c.DebounceTime)
	}
	if c.ClickDistance <= 0 || c.ClickTimeout <= 0 || c.DragThreshold <= 0 {
		return fmt.Errorf("gesture: click/drag thresholds must be positive")
	}
	return nil
}

// Machine tracks the interaction state across frames. It is owned by a
// single pipeline goroutine and is not safe for concurrent use.
type Machine struct {
	cfg   Config
	state State
	pinch pinchDetector

	// Transition context, valid while in PressHold or Dragging.
	pressOrigin mapping.Point
	pressStart  float64

	lastTransition float64
	hasTransition  bool
}

// NewMachine creates a machine in the Idle state.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Machine{cfg: cfg, state: StateIdle}, nil
}

// State returns the current interaction state.
func (m *Machine) State() State {
	return m.state
}

// Reset returns the machine to Idle and clears all timers and context.
// It emits nothing; a caller that needs release cleanup should feed a
// hand-absent frame instead.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.pinch = pinchDetector{}
	m.clearPress()
	m.hasTransition = false
	m.lastTransition = 0
}

// Step advances the machine by one frame and returns at most one event.
func (m *Machine) Step(f Frame) (Event, bool) {
	if !f.HandPresent || !f.PinchOK {
		return m.handleAbsence(f.Timestamp)
	}

	pinched := m.pinch.update(f.Pinch, f.Timestamp, m.cfg)

	switch m.state {
	case StateIdle:
		if m.canTransition(f.Timestamp) {
			m.transition(StateTracking, f.Timestamp)
			return Event{Kind: EventMove, Point: f.Point}, true
		}
		return Event{}, false

	case StateTracking:
		if pinched && m.canTransition(f.Timestamp) {
			m.transition(StatePressHold, f.Timestamp)
			m.pressOrigin = f.Point
			m.pressStart = f.Timestamp
			return Event{Kind: EventPressStart, Point: f.Point}, true
		}
		return Event{Kind: EventMove, Point: f.Point}, true

	case StatePressHold:
		if !pinched {
			if !m.canTransition(f.Timestamp) {
				return Event{}, false
			}
			ev := m.classifyRelease(f)
			m.transition(StateTracking, f.Timestamp)
			m.clearPress()
			return ev, true
		}
		if f.Point.Distance(m.pressOrigin) > m.cfg.DragThreshold && m.canTransition(f.Timestamp) {
			// Becoming a drag emits nothing by itself; movement follows
			// on subsequent frames.
			m.transition(StateDragging, f.Timestamp)
		}
		return Event{}, false

	case StateDragging:
		if !pinched && m.canTransition(f.Timestamp) {
			m.transition(StateTracking, f.Timestamp)
			m.clearPress()
			return Event{Kind: EventPressEnd, Point: f.Point}, true
		}
		return Event{Kind: EventMove, Point: f.Point}, true

	case StateClutch:
		if !pinched && m.canTransition(f.Timestamp) {
			m.transition(StateTracking, f.Timestamp)
		}
		return Event{}, false
	}

	return Event{}, false
}

// handleAbsence forces the machine to Idle. A press in flight is released
// first so no event stream ever leaves a button logically down. Transitions
// into Idle are never delayed by the transition debounce.
func (m *Machine) handleAbsence(ts float64) (Event, bool) {
	pressed := m.state == StatePressHold || m.state == StateDragging

	m.transition(StateIdle, ts)
	m.pinch = pinchDetector{}
	m.clearPress()

	if pressed {
		return Event{Kind: EventPressEnd}, true
	}
	return Event{}, false
}

// classifyRelease decides between a click and a plain release when a press
// ends from PressHold.
func (m *Machine) classifyRelease(f Frame) Event {
	displacement := f.Point.Distance(m.pressOrigin)
	elapsed := f.Timestamp - m.pressStart

	if displacement < m.cfg.ClickDistance && elapsed < m.cfg.ClickTimeout {
		return Event{Kind: EventClick, Point: f.Point}
	}
	return Event{Kind: EventPressEnd, Point: f.Point}
}

func (m *Machine) canTransition(ts float64) bool {
	return !m.hasTransition || ts-m.lastTransition >= m.cfg.DebounceTime
}

func (m *Machine) transition(s State, ts float64) {
	if s == m.state {
		return
	}
	m.state = s
	m.lastTransition = ts
	m.hasTransition = true
}

func (m *Machine) clearPress() {
	m.pressOrigin = mapping.Point{}
	m.pressStart = 0
}
