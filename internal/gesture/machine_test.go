package gesture

import (
	"testing"

	"github.com/ayusman/mudra/internal/mapping"
)

// instantConfig disables time debounce so tests can drive transitions
// frame by frame.
func instantConfig() Config {
	cfg := DefaultConfig()
	cfg.DebounceTime = 0
	return cfg
}

func newTestMachine(t *testing.T, cfg Config) *Machine {
	t.Helper()
	m, err := NewMachine(cfg)
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}
	return m
}

// step feeds a hand-present frame and returns the emitted event, if any.
func step(m *Machine, pinch float64, p mapping.Point, ts float64) (Event, bool) {
	return m.Step(Frame{HandPresent: true, Pinch: pinch, PinchOK: true, Point: p, Timestamp: ts})
}

const (
	openDist    = 0.2  // well above any pinch threshold
	pinchedDist = 0.01 // well below
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero debounce valid", func(c *Config) { c.DebounceTime = 0 }, false},
		{"zero threshold", func(c *Config) { c.PinchThreshold = 0 }, true},
		{"negative hysteresis", func(c *Config) { c.PinchHysteresis = -0.01 }, true},
		{"negative debounce", func(c *Config) { c.DebounceTime = -1 }, true},
		{"zero click distance", func(c *Config) { c.ClickDistance = 0 }, true},
		{"negative drag threshold", func(c *Config) { c.DragThreshold = -0.01 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMachine_IdleToTracking(t *testing.T) {
	m := newTestMachine(t, instantConfig())

	ev, ok := step(m, openDist, mapping.Point{X: 0.5, Y: 0.5}, 0)
	if !ok || ev.Kind != EventMove {
		t.Fatalf("first valid frame: got (%v, %v), want Move", ev, ok)
	}
	if m.State() != StateTracking {
		t.Errorf("state = %v, want Tracking", m.State())
	}
}

func TestMachine_ClickVsDrag(t *testing.T) {
	tests := []struct {
		name     string
		release  mapping.Point
		wantKind EventKind
	}{
		// Displacement ~0.007 < 0.02 and elapsed 0.1 < 0.3: a click.
		{"near release is click", mapping.Point{X: 0.505, Y: 0.505}, EventClick},
		// Displacement ~0.14 > 0.02: a plain release.
		{"far release is press end", mapping.Point{X: 0.6, Y: 0.6}, EventPressEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, instantConfig())
			origin := mapping.Point{X: 0.5, Y: 0.5}

			step(m, openDist, origin, -0.1) // Idle -> Tracking
			ev, ok := step(m, pinchedDist, origin, 0)
			if !ok || ev.Kind != EventPressStart {
				t.Fatalf("pinch: got (%v, %v), want PressStart", ev, ok)
			}

			ev, ok = step(m, openDist, tt.release, 0.1)
			if !ok || ev.Kind != tt.wantKind {
				t.Fatalf("release: got (%v, %v), want %v", ev, ok, tt.wantKind)
			}
			if m.State() != StateTracking {
				t.Errorf("state after release = %v, want Tracking", m.State())
			}
		})
	}
}

func TestMachine_SlowReleaseIsNotClick(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	origin := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, origin, 0)
	step(m, pinchedDist, origin, 0.1)

	// Held in place past the click timeout.
	ev, ok := step(m, openDist, origin, 0.5)
	if !ok || ev.Kind != EventPressEnd {
		t.Errorf("slow release: got (%v, %v), want PressEnd", ev, ok)
	}
}

func TestMachine_DragLifecycle(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	origin := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, origin, 0)
	step(m, pinchedDist, origin, 0.1)

	// Move past the drag threshold while pinched: becomes a drag with no
	// event on the transition frame itself.
	ev, ok := step(m, pinchedDist, mapping.Point{X: 0.52, Y: 0.5}, 0.2)
	if ok {
		t.Fatalf("drag transition emitted %v, want nothing", ev)
	}
	if m.State() != StateDragging {
		t.Fatalf("state = %v, want Dragging", m.State())
	}

	// While dragging, movement flows through.
	ev, ok = step(m, pinchedDist, mapping.Point{X: 0.55, Y: 0.5}, 0.3)
	if !ok || ev.Kind != EventMove {
		t.Fatalf("dragging move: got (%v, %v), want Move", ev, ok)
	}

	// Unpinch ends the drag with a plain release, never a click.
	ev, ok = step(m, openDist, mapping.Point{X: 0.55, Y: 0.5}, 0.4)
	if !ok || ev.Kind != EventPressEnd {
		t.Fatalf("drag release: got (%v, %v), want PressEnd", ev, ok)
	}
	if m.State() != StateTracking {
		t.Errorf("state = %v, want Tracking", m.State())
	}
}

func TestMachine_HysteresisPreventsFlutter(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	step(m, pinchedDist, p, 0.1) // PressStart

	// Oscillate narrowly around the engage threshold (0.05). Both values
	// are below the release threshold (0.07), so the press must hold.
	ts := 0.2
	for i := 0; i < 20; i++ {
		dist := 0.049
		if i%2 == 1 {
			dist = 0.051
		}
		ev, ok := m.Step(Frame{HandPresent: true, Pinch: dist, PinchOK: true, Point: p, Timestamp: ts})
		if ok && (ev.Kind == EventPressStart || ev.Kind == EventPressEnd || ev.Kind == EventClick) {
			t.Fatalf("frame %d: boundary flutter emitted %v", i, ev.Kind)
		}
		ts += 0.02
	}

	if s := m.State(); s != StatePressHold && s != StateDragging {
		t.Errorf("state = %v, want PressHold or Dragging", s)
	}
}

func TestMachine_DebounceRejectsTransientPinch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebounceTime = 0.1
	m := newTestMachine(t, cfg)
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)

	// Pinch becomes true at t=0.2 but reverts at t=0.25, before the
	// debounce window elapses: no PressStart may ever fire.
	for _, fr := range []struct {
		dist float64
		ts   float64
	}{
		{pinchedDist, 0.2},
		{pinchedDist, 0.25},
		{openDist, 0.26},
		{openDist, 0.4},
	} {
		ev, ok := step(m, fr.dist, p, fr.ts)
		if ok && ev.Kind == EventPressStart {
			t.Fatalf("transient pinch at t=%.2f triggered PressStart", fr.ts)
		}
	}

	if m.State() != StateTracking {
		t.Errorf("state = %v, want Tracking", m.State())
	}
}

func TestMachine_SustainedPinchPressesAfterDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebounceTime = 0.1
	m := newTestMachine(t, cfg)
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)

	if ev, ok := step(m, pinchedDist, p, 0.2); ok && ev.Kind == EventPressStart {
		t.Fatal("press fired before debounce window elapsed")
	}
	// Window elapsed: 0.3 - 0.2 >= 0.1.
	ev, ok := step(m, pinchedDist, p, 0.3)
	if !ok || ev.Kind != EventPressStart {
		t.Fatalf("sustained pinch: got (%v, %v), want PressStart", ev, ok)
	}
}

func TestMachine_HandLossReleasesPress(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	step(m, pinchedDist, p, 0.1)

	ev, ok := m.Step(Frame{HandPresent: false, Timestamp: 0.2})
	if !ok || ev.Kind != EventPressEnd {
		t.Fatalf("hand loss: got (%v, %v), want PressEnd", ev, ok)
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want Idle", m.State())
	}

	// Repeating absence emits nothing further.
	if ev, ok := m.Step(Frame{HandPresent: false, Timestamp: 0.3}); ok {
		t.Errorf("second absent frame emitted %v", ev)
	}
}

func TestMachine_MissingPinchReadingTreatedAsAbsence(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	step(m, pinchedDist, p, 0.1)

	ev, ok := m.Step(Frame{HandPresent: true, PinchOK: false, Point: p, Timestamp: 0.2})
	if !ok || ev.Kind != EventPressEnd {
		t.Fatalf("missing pinch: got (%v, %v), want PressEnd", ev, ok)
	}
	if m.State() != StateIdle {
		t.Errorf("state = %v, want Idle", m.State())
	}
}

func TestMachine_HandLossNeverDelayed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebounceTime = 0.5
	m := newTestMachine(t, cfg)
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	// Hand disappears immediately after the Tracking transition; Idle is
	// exempt from the transition debounce.
	m.Step(Frame{HandPresent: false, Timestamp: 0.01})
	if m.State() != StateIdle {
		t.Errorf("state = %v, want Idle without delay", m.State())
	}
}

func TestMachine_ClutchAbsorbsPinch(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	m.state = StateClutch

	// Pinching in clutch emits nothing and does not press.
	if ev, ok := step(m, pinchedDist, p, 0.1); ok {
		t.Fatalf("clutch pinch emitted %v", ev)
	}
	if m.State() != StateClutch {
		t.Fatalf("state = %v, want Clutch while pinched", m.State())
	}

	// The pinch releases with hysteresis; once decided unpinched, clutch
	// returns to Tracking.
	step(m, openDist, p, 0.2)
	if m.State() != StateTracking {
		t.Errorf("state = %v, want Tracking after unpinch", m.State())
	}
}

func TestMachine_Reset(t *testing.T) {
	m := newTestMachine(t, instantConfig())
	p := mapping.Point{X: 0.5, Y: 0.5}

	step(m, openDist, p, 0)
	step(m, pinchedDist, p, 0.1)

	m.Reset()
	if m.State() != StateIdle {
		t.Fatalf("state after reset = %v, want Idle", m.State())
	}

	// A fresh session starts cleanly from Idle.
	ev, ok := step(m, openDist, p, 10)
	if !ok || ev.Kind != EventMove {
		t.Errorf("first frame after reset: got (%v, %v), want Move", ev, ok)
	}
}

// TestMachine_PressReleasePairing feeds a long deterministic pseudo-random
// frame sequence and checks that every press is matched by exactly one
// release (a click counts as the release of its press, and hand loss forces
// one).
func TestMachine_PressReleasePairing(t *testing.T) {
	m := newTestMachine(t, DefaultConfig())

	var presses, releases int
	seed := uint64(0x9E3779B97F4A7C15)
	next := func() uint64 {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return seed
	}

	ts := 0.0
	for i := 0; i < 5000; i++ {
		ts += 0.016
		r := next()

		// Pinch follows a slow square wave (so it survives the debounce
		// window) with noise; hand presence and pinch availability drop
		// out at random.
		pinch := 0.2
		if (i/40)%2 == 0 {
			pinch = 0.01
		}
		pinch += float64(r%10) / 1000.0

		f := Frame{
			HandPresent: r%23 != 0, // occasional hand loss
			PinchOK:     r%29 != 0, // occasional missing pinch reading
			Pinch:       pinch,
			Point: mapping.Point{
				X: float64(r%1000) / 1000.0,
				Y: float64((r>>10)%1000) / 1000.0,
			},
			Timestamp: ts,
		}

		ev, ok := m.Step(f)
		if !ok {
			continue
		}
		switch ev.Kind {
		case EventPressStart:
			presses++
		case EventPressEnd, EventClick:
			releases++
		}
		if releases > presses {
			t.Fatalf("frame %d: release without a preceding press", i)
		}
	}

	// Force cleanup of any press still in flight.
	ts += 0.016
	if ev, ok := m.Step(Frame{HandPresent: false, Timestamp: ts}); ok && (ev.Kind == EventPressEnd || ev.Kind == EventClick) {
		releases++
	}

	if presses == 0 {
		t.Fatal("sequence produced no presses; test input is too tame")
	}
	if presses != releases {
		t.Errorf("presses = %d, releases = %d, want equal", presses, releases)
	}
}
