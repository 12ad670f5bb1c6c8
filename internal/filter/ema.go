package filter

import (
	"fmt"
	"math"

	"github.com/ayusman/mudra/internal/mapping"
)

// Timing constants for the adaptive EMA.
const (
	// refTick is the reference frame interval (1/60s) that the smoothing
	// factor is normalized against, so smoothing strength stays
	// perceptually constant across variable frame rates.
	refTick = 1.0 / 60.0
	// maxDelta caps the elapsed time used to scale the smoothing factor,
	// so a long stall does not snap the output to the raw value.
	maxDelta = 0.1
)

// EMA is an exponential moving average whose smoothing factor adapts to the
// elapsed time between samples.
type EMA struct {
	base   float64
	states map[string]*emaState
}

type emaState struct {
	value float64
	ts    float64
}

// NewEMA creates an adaptive EMA with the given base smoothing factor.
// The factor is the per-reference-tick blend weight and must be in (0, 1].
func NewEMA(base float64) (*EMA, error) {
	if base <= 0 || base > 1 {
		return nil, fmt.Errorf("ema: base factor must be in (0, 1], got %f", base)
	}
	return &EMA{
		base:   base,
		states: make(map[string]*emaState),
	}, nil
}

// Filter returns the smoothed value for key. Samples with dt <= 0 pass
// through without touching filter state.
func (f *EMA) Filter(key string, value, ts float64) float64 {
	s, ok := f.states[key]
	if !ok {
		f.states[key] = &emaState{value: value, ts: ts}
		return value
	}

	dt := ts - s.ts
	if dt <= 0 {
		return value
	}

	alpha := f.base * math.Min(dt, maxDelta) / refTick
	if alpha > 1 {
		alpha = 1
	}

	s.value = s.value*(1-alpha) + value*alpha
	s.ts = ts
	return s.value
}

// FilterPoint smooths a 2D point keyed as key.x and key.y.
func (f *EMA) FilterPoint(key string, p mapping.Point, ts float64) mapping.Point {
	return filterPoint(f, key, p, ts)
}

// Reset discards all per-key state.
func (f *EMA) Reset() {
	f.states = make(map[string]*emaState)
}
