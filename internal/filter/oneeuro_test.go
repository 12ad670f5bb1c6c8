package filter

import (
	"math"
	"testing"
)

func TestNewOneEuro_Validation(t *testing.T) {
	tests := []struct {
		name                        string
		minCutoff, beta, derivCutoff float64
		wantErr                     bool
	}{
		{"defaults", DefaultMinCutoff, DefaultBeta, DefaultDerivCutoff, false},
		{"zero beta ok", 1.0, 0, 1.0, false},
		{"zero minCutoff", 0, 0.007, 1.0, true},
		{"negative minCutoff", -1, 0.007, 1.0, true},
		{"zero derivCutoff", 1.0, 0.007, 0, true},
		{"negative beta", 1.0, -0.1, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOneEuro(tt.minCutoff, tt.beta, tt.derivCutoff)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOneEuro() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOneEuro_FirstSamplePassesThrough(t *testing.T) {
	f, _ := NewOneEuro(DefaultMinCutoff, DefaultBeta, DefaultDerivCutoff)
	if got := f.Filter("pos.x", 0.25, 10.0); got != 0.25 {
		t.Errorf("first sample = %f, want 0.25", got)
	}
}

func TestOneEuro_ConvergesOnStaticInput(t *testing.T) {
	f, _ := NewOneEuro(DefaultMinCutoff, DefaultBeta, DefaultDerivCutoff)

	f.Filter("pos.x", 0.0, 0.0)
	var got float64
	ts := 0.0
	for i := 0; i < 500; i++ {
		ts += 1.0 / 60.0
		got = f.Filter("pos.x", 1.0, ts)
	}

	if math.Abs(got-1.0) > 1e-3 {
		t.Errorf("after 500 static samples got %f, want convergence to 1.0", got)
	}
}

func TestOneEuro_NonPositiveDTReturnsRaw(t *testing.T) {
	f, _ := NewOneEuro(DefaultMinCutoff, DefaultBeta, DefaultDerivCutoff)

	f.Filter("pos.x", 0.5, 1.0)
	f.Filter("pos.x", 0.6, 1.1)

	// Zero delta.
	if got := f.Filter("pos.x", 0.7, 1.1); got != 0.7 {
		t.Errorf("zero dt = %f, want raw 0.7", got)
	}
	// Negative delta.
	if got := f.Filter("pos.x", 0.8, 0.9); got != 0.8 {
		t.Errorf("negative dt = %f, want raw 0.8", got)
	}

	// A division by zero would poison the derivative estimate; the next
	// valid sample must still be finite.
	got := f.Filter("pos.x", 0.6, 1.2)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("filter corrupted: %f", got)
	}
}

func TestOneEuro_FastMotionTracksCloser(t *testing.T) {
	// With beta > 0 a fast-moving signal raises the cutoff, so the filter
	// should lag a fast ramp less (proportionally) than a near-beta-free
	// configuration does.
	adaptive, _ := NewOneEuro(1.0, 0.5, 1.0)
	rigid, _ := NewOneEuro(1.0, 0.0, 1.0)

	ts := 0.0
	value := 0.0
	var lagAdaptive, lagRigid float64
	adaptive.Filter("x", value, ts)
	rigid.Filter("x", value, ts)

	for i := 0; i < 60; i++ {
		ts += 1.0 / 60.0
		value += 0.05 // fast sweep
		lagAdaptive = value - adaptive.Filter("x", value, ts)
		lagRigid = value - rigid.Filter("x", value, ts)
	}

	if lagAdaptive >= lagRigid {
		t.Errorf("adaptive lag %f should be smaller than rigid lag %f", lagAdaptive, lagRigid)
	}
}

func TestOneEuro_Reset(t *testing.T) {
	f, _ := NewOneEuro(DefaultMinCutoff, DefaultBeta, DefaultDerivCutoff)

	f.Filter("pos.x", 0.0, 0.0)
	f.Filter("pos.x", 1.0, 1.0/60.0)
	f.Reset()

	if got := f.Filter("pos.x", 0.3, 5.0); got != 0.3 {
		t.Errorf("after reset = %f, want 0.3", got)
	}
}

func TestSmoothingAlpha_Range(t *testing.T) {
	// Alpha must always be a valid blend weight in (0, 1).
	for _, cutoff := range []float64{0.1, 1.0, 10.0, 100.0} {
		for _, dt := range []float64{1.0 / 120.0, 1.0 / 60.0, 0.1, 1.0} {
			a := smoothingAlpha(cutoff, dt)
			if a <= 0 || a >= 1 {
				t.Errorf("smoothingAlpha(%f, %f) = %f, want in (0,1)", cutoff, dt, a)
			}
		}
	}
}
