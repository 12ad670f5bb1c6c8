// Package filter smooths noisy hand-tracking signals before they reach the
// gesture pipeline. Two interchangeable algorithms are provided: an adaptive
// exponential moving average and a One-Euro filter. Both track independent
// state per named signal key, created lazily on first sample.
package filter

import "github.com/ayusman/mudra/internal/mapping"

// Smoother filters named scalar signals over time. Timestamps are monotonic
// seconds; callers must deliver samples in non-decreasing timestamp order.
// Implementations are not safe for concurrent use.
type Smoother interface {
	// Filter returns the smoothed value for the signal identified by key.
	// The first sample for a key passes through unfiltered and seeds state.
	Filter(key string, value, ts float64) float64

	// FilterPoint smooths a 2D point as two independent scalar signals
	// derived from key.
	FilterPoint(key string, p mapping.Point, ts float64) mapping.Point

	// Reset discards all per-key state.
	Reset()
}

// filterPoint implements FilterPoint on top of a Smoother's scalar Filter.
func filterPoint(s Smoother, key string, p mapping.Point, ts float64) mapping.Point {
	return mapping.Point{
		X: s.Filter(key+".x", p.X, ts),
		Y: s.Filter(key+".y", p.Y, ts),
	}
}
