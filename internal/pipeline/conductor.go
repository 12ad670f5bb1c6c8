package pipeline

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
)

const (
	// DefaultDeadZone is the minimum screen-space distance (in pixels)
	// a mapped pointer must travel before another Move is emitted.
	DefaultDeadZone = 1.0

	// DefaultReportInterval is how often metrics reports are produced.
	DefaultReportInterval = time.Second
)

// Frame is a captured camera frame handed to the conductor. Handle is an
// opaque reference understood by the configured Extractor (typically a
// *gocv.Mat). Timestamp is monotonic seconds from the capture clock.
type Frame struct {
	Handle    any
	Timestamp float64
}

// Extractor turns a captured frame into a hand reading. Extract may block
// for the duration of inference; the conductor calls it from a dedicated
// goroutine with at most one call in flight.
type Extractor interface {
	Extract(f Frame) (detector.Reading, error)
}

// Config carries the conductor's collaborators and tuning knobs.
type Config struct {
	Extractor Extractor
	Smoother  filter.Smoother
	Machine   *gesture.Machine

	// Screens returns the current display layout. Queried once per
	// processed frame so hotplugged monitors are picked up.
	Screens func() mapping.Geometry

	// Emit receives pointer events in processing order, from a single
	// goroutine. Optional.
	Emit func(gesture.Event)

	// OnReport receives periodic metrics, from the same goroutine as
	// Emit. Optional.
	OnReport func(Report)

	// DeadZone is the Move suppression radius in screen pixels. Zero
	// selects DefaultDeadZone; a negative value disables suppression.
	DeadZone float64

	// ReportInterval is the metrics window length. Zero selects
	// DefaultReportInterval.
	ReportInterval time.Duration
}

type stageResult struct {
	reading detector.Reading
	ts      float64
	latency time.Duration
}

// Conductor drives frames through extraction, stabilization, gesture
// recognition and coordinate mapping. Admission is single-flight: while
// an extraction is in flight, offered frames are dropped rather than
// queued, so a slow inference backend degrades frame rate instead of
// growing latency. The stages after extraction run on one goroutine, so
// filter and machine state need no locking.
type Conductor struct {
	cfg Config

	busy    atomic.Bool
	dropped atomic.Int64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	results chan stageResult
	wg      sync.WaitGroup

	// Serialized state, owned by the run goroutine.
	window   *metricsWindow
	lastEmit mapping.Point
	hasEmit  bool
	deadZone float64
}

// NewConductor validates cfg and returns an idle conductor. Call Start
// before offering frames.
func NewConductor(cfg Config) (*Conductor, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}
	if cfg.Smoother == nil {
		return nil, fmt.Errorf("pipeline: smoother is required")
	}
	if cfg.Machine == nil {
		return nil, fmt.Errorf("pipeline: gesture machine is required")
	}
	if cfg.Screens == nil {
		return nil, fmt.Errorf("pipeline: screens provider is required")
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = DefaultReportInterval
	}

	deadZone := cfg.DeadZone
	switch {
	case deadZone == 0:
		deadZone = DefaultDeadZone
	case deadZone < 0:
		deadZone = 0
	}

	return &Conductor{cfg: cfg, deadZone: deadZone}, nil
}

// Start launches the processing goroutine. Calling Start on a running
// conductor is a no-op.
func (c *Conductor) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}

	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})
	c.results = make(chan stageResult, 1)
	c.busy.Store(false)
	c.dropped.Store(0)
	c.running = true

	go c.run()
}

// Stop drains the in-flight frame, stops the processing goroutine and
// resets the filter and gesture state so a restart begins from scratch.
// Safe to call more than once.
func (c *Conductor) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopCh)
	c.mu.Unlock()

	c.wg.Wait()
	<-c.done

	c.busy.Store(false)
	c.cfg.Smoother.Reset()
	c.cfg.Machine.Reset()
	c.hasEmit = false
}

// OnFrame offers a frame to the pipeline. It returns true when the frame
// was admitted; false when the conductor is stopped or an extraction is
// already in flight. The caller keeps ownership of rejected frames and
// must release their resources.
func (c *Conductor) OnFrame(f Frame) bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return false
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.dropped.Add(1)
		return false
	}

	c.wg.Add(1)
	go c.extract(f)
	return true
}

// Busy reports whether an extraction is currently in flight.
func (c *Conductor) Busy() bool {
	return c.busy.Load()
}

func (c *Conductor) extract(f Frame) {
	defer c.wg.Done()

	start := time.Now()
	reading, err := c.cfg.Extractor.Extract(f)
	latency := time.Since(start)

	// The gate reopens as soon as inference returns. The remaining
	// stages are cheap and run serialized, so the next frame's
	// extraction can overlap them.
	c.busy.Store(false)

	if err != nil {
		log.Printf("Pipeline: extraction failed: %v", err)
		reading = detector.Reading{}
	}

	select {
	case c.results <- stageResult{reading: reading, ts: f.Timestamp, latency: latency}:
	case <-c.stopCh:
	}
}

func (c *Conductor) run() {
	defer close(c.done)
	c.window = newMetricsWindow()

	for {
		select {
		case <-c.stopCh:
			return
		case r := <-c.results:
			c.process(r)
		}
	}
}

func (c *Conductor) process(r stageResult) {
	frame := gesture.Frame{Timestamp: r.ts}
	if r.reading.HandPresent {
		frame.HandPresent = true
		frame.Point = c.cfg.Smoother.FilterPoint("pointer", r.reading.Pointer, r.ts)
		if r.reading.PinchOK {
			frame.PinchOK = true
			frame.Pinch = c.cfg.Smoother.Filter("pinch", r.reading.PinchDistance, r.ts)
		}
	}

	if ev, ok := c.cfg.Machine.Step(frame); ok {
		c.emit(ev)
	}

	c.window.add(r.latency, c.dropped.Swap(0))
	if rep, due := c.window.reportIfDue(c.cfg.ReportInterval); due {
		if c.cfg.OnReport != nil {
			c.cfg.OnReport(rep)
		}
	}
}

// emit maps Move events into screen space and applies dead-zone
// suppression; press and click events pass through untouched.
func (c *Conductor) emit(ev gesture.Event) {
	if ev.Kind == gesture.EventMove {
		geo := c.cfg.Screens()
		mapped := geo.Map(ev.Point)
		mapped = mapping.Clamp(mapped, geo.RectContaining(mapped))

		if c.hasEmit && mapped.Distance(c.lastEmit) < c.deadZone {
			return
		}
		c.lastEmit = mapped
		c.hasEmit = true
		ev.Point = mapped
	}

	if c.cfg.Emit != nil {
		c.cfg.Emit(ev)
	}
}
