package gesture

// pinchDetector turns the continuous pinch-distance signal into a debounced
// boolean. Two mechanisms reject noise at the threshold boundary:
//
// Hysteresis: a pinch engages when the distance drops below the threshold
// but only releases once it rises above threshold+hysteresis, so a signal
// sitting right at the boundary cannot toggle.
//
// Time debounce: a raw crossing must hold continuously for the debounce
// duration before the decided value flips. While a crossing is being waited
// out, the previously decided answer is returned unchanged.
type pinchDetector struct {
	pinched bool

	onsetActive   bool
	onsetStart    float64
	releaseActive bool
	releaseStart  float64
}

// update feeds one pinch-distance sample and returns the decided pinched
// state. The zero value starts unpinched with no pending crossings.
func (d *pinchDetector) update(distance, ts float64, cfg Config) bool {
	var raw bool
	if d.pinched {
		raw = distance < cfg.PinchThreshold+cfg.PinchHysteresis
	} else {
		raw = distance < cfg.PinchThreshold
	}

	if raw == d.pinched {
		// The raw signal agrees with the decided state; any pending
		// crossing was transient noise.
		d.onsetActive = false
		d.releaseActive = false
		return d.pinched
	}

	if raw {
		if !d.onsetActive {
			d.onsetActive = true
			d.onsetStart = ts
		}
		d.releaseActive = false
		if ts-d.onsetStart >= cfg.DebounceTime {
			d.pinched = true
			d.onsetActive = false
		}
	} else {
		if !d.releaseActive {
			d.releaseActive = true
			d.releaseStart = ts
		}
		d.onsetActive = false
		if ts-d.releaseStart >= cfg.DebounceTime {
			d.pinched = false
			d.releaseActive = false
		}
	}

	return d.pinched
}
