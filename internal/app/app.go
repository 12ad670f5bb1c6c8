// Package app provides the main application logic for the Mudra pointer control system.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/actuate"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"

	"gocv.io/x/gocv"
)

// Capture timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Metrics retention constants.
const (
	// MetricsRetention bounds how long persisted snapshots are kept.
	MetricsRetention = 24 * time.Hour
	// metricsPruneInterval is how often old snapshots are pruned. The
	// first report after startup always prunes.
	metricsPruneInterval = time.Hour
)

// ActuatorEnv names the environment variable that selects a helper-tool
// actuator (its value is the tool, e.g. "xdotool") instead of robotgo.
const ActuatorEnv = "MUDRA_ACTUATOR"

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64

	// Actuator receives pointer events. Defaults to the robotgo-backed
	// actuator when nil.
	Actuator actuate.Actuator

	// Events receives live pointer events and pipeline reports for
	// connected UI clients. Optional.
	Events *server.EventsHandler

	// OnReport observes pipeline reports, for surfaces outside the
	// HTTP feed such as the tray status line. Optional.
	OnReport func(pipeline.Report)

	// Screens overrides display discovery, mainly for tests. Defaults
	// to querying the OS.
	Screens func() mapping.Geometry
}

// App is the main application that turns camera frames into pointer control.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	actuator actuate.Actuator
	screens  func() mapping.Geometry

	mu        sync.RWMutex
	conductor *pipeline.Conductor
	profile   *store.Profile
	enabled   bool
	stopCh    chan struct{}
	start     time.Time
	lastPrune time.Time
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(motionThreshold),
		actuator: config.Actuator,
		screens:  config.Screens,
		start:    time.Now(),
	}
	if a.actuator == nil {
		a.actuator = defaultActuator()
	}
	if a.screens == nil {
		a.screens = actuate.Screens
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables pointer control.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether pointer control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Conductor returns the current frame pipeline. It is nil until a
// profile has been applied.
func (a *App) Conductor() *pipeline.Conductor {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.conductor
}

// Profile returns the currently applied tuning profile.
func (a *App) Profile() *store.Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile
}

// LoadProfile resolves the profile the pipeline should run with: the
// stored active profile when one is configured, otherwise the built-in
// default.
func (a *App) LoadProfile() (*store.Profile, error) {
	if a.config.Store == nil {
		return store.DefaultProfile(), nil
	}

	id, err := a.config.Store.Settings().Get(store.SettingActiveProfile)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.DefaultProfile(), nil
		}
		return nil, err
	}

	p, err := a.config.Store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Active profile %s no longer exists, using defaults", id)
			return store.DefaultProfile(), nil
		}
		return nil, err
	}
	return p, nil
}

// ApplyProfile rebuilds the processing pipeline around the given tuning
// profile. A running pipeline is swapped in place; captured frames keep
// flowing to the new conductor.
func (a *App) ApplyProfile(p *store.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}

	cond, err := a.buildConductor(p)
	if err != nil {
		return err
	}

	a.mu.Lock()
	old := a.conductor
	a.conductor = cond
	a.profile = p
	running := a.stopCh != nil
	a.mu.Unlock()

	if running {
		cond.Start()
	}
	if old != nil {
		old.Stop()
	}

	log.Printf("Applied profile %q (%s filter)", p.Name, p.Filter)
	return nil
}

// buildConductor assembles the frame pipeline for a profile.
func (a *App) buildConductor(p *store.Profile) (*pipeline.Conductor, error) {
	var smoother filter.Smoother
	var err error
	switch p.Filter {
	case store.FilterEMA:
		smoother, err = filter.NewEMA(p.FilterBase)
	case store.FilterOneEuro:
		smoother, err = filter.NewOneEuro(p.MinCutoff, p.Beta, p.DerivCutoff)
	default:
		err = fmt.Errorf("unknown filter algorithm %q", p.Filter)
	}
	if err != nil {
		return nil, err
	}

	machine, err := gesture.NewMachine(gesture.Config{
		PinchThreshold:  p.PinchThreshold,
		PinchHysteresis: p.PinchHysteresis,
		DebounceTime:    p.DebounceTime,
		ClickDistance:   p.ClickDistance,
		ClickTimeout:    p.ClickTimeout,
		DragThreshold:   p.DragThreshold,
	})
	if err != nil {
		return nil, err
	}

	return pipeline.NewConductor(pipeline.Config{
		Extractor: &detectorExtractor{app: a},
		Smoother:  smoother,
		Machine:   machine,
		Screens:   a.screens,
		Emit:      a.handleEvent,
		OnReport:  a.handleReport,
		DeadZone:  p.DeadZone,
	})
}

// handleEvent drives the actuator and mirrors the event to UI clients.
func (a *App) handleEvent(ev gesture.Event) {
	if !a.IsEnabled() {
		return
	}

	if err := actuate.Apply(a.actuator, ev); err != nil {
		log.Printf("Actuation failed: %v", err)
	}

	if a.config.Events != nil {
		a.config.Events.Broadcast("pointer", map[string]any{
			"kind": ev.Kind.String(),
			"x":    ev.Point.X,
			"y":    ev.Point.Y,
		})
	}
}

// defaultActuator picks the cursor driver: robotgo unless the
// environment names a helper tool to shell out to instead.
func defaultActuator() actuate.Actuator {
	if tool := os.Getenv(ActuatorEnv); tool != "" {
		log.Printf("Using %s helper actuator", tool)
		return actuate.NewExecActuator(tool, 0)
	}
	return actuate.NewRobotgoActuator()
}

// handleReport persists pipeline health snapshots, prunes aged ones, and
// mirrors the report to UI clients.
func (a *App) handleReport(rep pipeline.Report) {
	if a.config.Store != nil {
		m := &store.Metric{FPS: rep.FPS, AvgLatencyMs: rep.AvgLatencyMs, Dropped: rep.Dropped}
		if err := a.config.Store.Metrics().Insert(m); err != nil {
			log.Printf("Failed to persist metrics: %v", err)
		}

		a.mu.Lock()
		pruneDue := time.Since(a.lastPrune) >= metricsPruneInterval
		if pruneDue {
			a.lastPrune = time.Now()
		}
		a.mu.Unlock()
		if pruneDue {
			if _, err := a.config.Store.Metrics().Prune(MetricsRetention); err != nil {
				log.Printf("Failed to prune metrics: %v", err)
			}
		}
	}

	if a.config.Events != nil {
		a.config.Events.Broadcast("report", rep)
	}
	if a.config.OnReport != nil {
		a.config.OnReport(rep)
	}
}

// Start begins the capture pipeline.
func (a *App) Start() error {
	profile, err := a.LoadProfile()
	if err != nil {
		return err
	}
	if a.Profile() == nil {
		if err := a.ApplyProfile(profile); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	a.conductor.Start()
	a.stopCh = make(chan struct{})
	go a.runLoop(a.stopCh)

	log.Println("Pointer pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	cond := a.conductor

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	det := a.detector
	a.mu.Unlock()

	if cond != nil {
		cond.Stop()
	}
	if det != nil {
		if err := det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pointer pipeline stopped")
}

// detectorExtractor bridges the conductor's extraction stage to the hand
// detector. It owns the frame for the duration of the call.
type detectorExtractor struct {
	app *App
}

func (e *detectorExtractor) Extract(f pipeline.Frame) (detector.Reading, error) {
	frame, ok := f.Handle.(*gocv.Mat)
	if !ok || frame == nil {
		return detector.Reading{}, errors.New("frame handle is not a camera frame")
	}
	defer frame.Close()

	return e.app.Detector().Detect(frame)
}
