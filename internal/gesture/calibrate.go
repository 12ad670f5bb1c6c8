package gesture

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MinCalibrationSamples is the minimum number of samples required per pose.
const MinCalibrationSamples = 5

// Calibration is a suggested pinch configuration derived from recorded
// samples of a user's open and closed hand.
type Calibration struct {
	// Threshold is the suggested pinch-engage distance.
	Threshold float64 `json:"threshold"`
	// Hysteresis is the suggested release margin above Threshold.
	Hysteresis float64 `json:"hysteresis"`
	// Separation scores how well the two sample distributions are
	// separated (distance between means over pooled spread). Values
	// below ~2 indicate the poses are hard to tell apart.
	Separation float64 `json:"separation"`
}

// Calibrate derives a pinch threshold from recorded pinch distances: open
// holds samples of the relaxed hand, closed holds samples with thumb and
// index touching. The threshold lands at the midpoint between the two
// distributions, with hysteresis covering a quarter of the gap.
func Calibrate(open, closed []float64) (Calibration, error) {
	if len(open) < MinCalibrationSamples || len(closed) < MinCalibrationSamples {
		return Calibration{}, fmt.Errorf("calibrate: need at least %d samples per pose, got %d open / %d closed",
			MinCalibrationSamples, len(open), len(closed))
	}

	meanOpen := stat.Mean(open, nil)
	meanClosed := stat.Mean(closed, nil)
	if meanClosed >= meanOpen {
		return Calibration{}, fmt.Errorf("calibrate: closed-hand distances (mean %.4f) must be smaller than open-hand distances (mean %.4f)",
			meanClosed, meanOpen)
	}

	sdOpen := stat.StdDev(open, nil)
	sdClosed := stat.StdDev(closed, nil)

	gap := meanOpen - meanClosed
	spread := sdOpen + sdClosed

	separation := gap
	if spread > 0 {
		separation = gap / spread
	}

	return Calibration{
		Threshold:  meanClosed + gap/2,
		Hysteresis: gap / 4,
		Separation: separation,
	}, nil
}
