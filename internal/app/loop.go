package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
)

// runLoop is the capture loop that feeds camera frames to the conductor.
// It manages the transitions between idle and active modes based on
// motion detection.
//
// Loop logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Offer the frame to the conductor; frames it rejects are released here
// 4. After 2s without motion, switch back to idle mode
func (a *App) runLoop(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip capture entirely while control is disabled.
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.mu.RLock()
			cond := a.conductor
			a.mu.RUnlock()
			if cond == nil {
				frame.Close()
				continue
			}

			// The conductor takes ownership of admitted frames; the
			// extractor releases them after inference.
			ts := time.Since(a.start).Seconds()
			if !cond.OnFrame(pipeline.Frame{Handle: frame, Timestamp: ts}) {
				frame.Close()
			}
		}
	}
}
