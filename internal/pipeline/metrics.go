package pipeline

import "time"

// Report is a periodic health summary of the pipeline.
type Report struct {
	// FPS is the number of frames fully processed per second over the
	// report window.
	FPS float64 `json:"fps"`
	// AvgLatencyMs is the mean extraction latency over the window, in
	// milliseconds.
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	// Dropped is the number of frames rejected by admission control
	// during the window.
	Dropped int64 `json:"dropped"`
}

// metricsWindow accumulates processed-frame counts and extraction latency
// until a report interval has elapsed. It is touched only from the
// serialized pipeline goroutine.
type metricsWindow struct {
	start   time.Time
	frames  int
	latency time.Duration
	dropped int64
}

func newMetricsWindow() *metricsWindow {
	return &metricsWindow{start: time.Now()}
}

// add records one processed frame plus any drops observed since the
// previous one. Drops accumulate in the window until a report carries
// them out; they are never discarded between reports.
func (w *metricsWindow) add(latency time.Duration, dropped int64) {
	w.frames++
	w.latency += latency
	w.dropped += dropped
}

// reportIfDue emits a report and resets the window once the interval has
// elapsed and at least one frame was processed.
func (w *metricsWindow) reportIfDue(interval time.Duration) (Report, bool) {
	elapsed := time.Since(w.start)
	if elapsed < interval || w.frames == 0 {
		return Report{}, false
	}

	rep := Report{
		FPS:          float64(w.frames) / elapsed.Seconds(),
		AvgLatencyMs: w.latency.Seconds() / float64(w.frames) * 1000,
		Dropped:      w.dropped,
	}

	w.start = time.Now()
	w.frames = 0
	w.latency = 0
	w.dropped = 0

	return rep, true
}
