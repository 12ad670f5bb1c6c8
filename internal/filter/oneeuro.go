package filter

import (
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/mapping"
)

// Default One-Euro parameters, tuned for normalized hand coordinates at
// webcam frame rates.
const (
	DefaultMinCutoff   = 1.0
	DefaultBeta        = 0.007
	DefaultDerivCutoff = 1.0
)

// OneEuro is a One-Euro filter: a low-pass filter whose cutoff frequency
// adapts to the signal's estimated speed. Slow motion gets heavy smoothing
// for jitter rejection; fast motion raises the cutoff to minimize lag.
type OneEuro struct {
	minCutoff   float64
	beta        float64
	derivCutoff float64
	states      map[string]*euroState
}

type euroState struct {
	value float64
	deriv float64
	ts    float64
}

// NewOneEuro creates a One-Euro filter. minCutoff is the cutoff frequency
// (Hz) at rest, beta scales the cutoff with signal speed, and derivCutoff
// is the cutoff for the derivative estimate. minCutoff and derivCutoff
// must be positive; beta must be non-negative.
func NewOneEuro(minCutoff, beta, derivCutoff float64) (*OneEuro, error) {
	if minCutoff <= 0 {
		return nil, fmt.Errorf("oneeuro: minCutoff must be positive, got %f", minCutoff)
	}
	if derivCutoff <= 0 {
		return nil, fmt.Errorf("oneeuro: derivCutoff must be positive, got %f", derivCutoff)
	}
	if beta < 0 {
		return nil, fmt.Errorf("oneeuro: beta must be non-negative, got %f", beta)
	}
	return &OneEuro{
		minCutoff:   minCutoff,
		beta:        beta,
		derivCutoff: derivCutoff,
		states:      make(map[string]*euroState),
	}, nil
}

// Filter returns the smoothed value for key. The first sample for a key
// seeds state and passes through. Samples with dt <= 0 return the raw
// value and leave state untouched, so out-of-order timestamps can never
// corrupt the filter.
func (f *OneEuro) Filter(key string, value, ts float64) float64 {
	s, ok := f.states[key]
	if !ok {
		f.states[key] = &euroState{value: value, ts: ts}
		return value
	}

	dt := ts - s.ts
	if dt <= 0 {
		return value
	}

	// Low-pass the numeric derivative, then let its magnitude set the
	// adaptive cutoff for the value itself.
	dx := (value - s.value) / dt
	s.deriv += smoothingAlpha(f.derivCutoff, dt) * (dx - s.deriv)

	cutoff := f.minCutoff + f.beta*math.Abs(s.deriv)
	s.value += smoothingAlpha(cutoff, dt) * (value - s.value)
	s.ts = ts
	return s.value
}

// FilterPoint smooths a 2D point keyed as key.x and key.y.
func (f *OneEuro) FilterPoint(key string, p mapping.Point, ts float64) mapping.Point {
	return filterPoint(f, key, p, ts)
}

// Reset discards all per-key state.
func (f *OneEuro) Reset() {
	f.states = make(map[string]*euroState)
}

// smoothingAlpha derives the low-pass blend weight for a cutoff frequency
// and sample interval: alpha = 1/(1 + tau/dt), tau = 1/(2*pi*cutoff).
func smoothingAlpha(cutoff, dt float64) float64 {
	tau := 1.0 / (2.0 * math.Pi * cutoff)
	return 1.0 / (1.0 + tau/dt)
}
