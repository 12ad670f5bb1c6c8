package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// CalibrateHandler derives pinch thresholds for a profile from recorded
// pinch-distance samples.
type CalibrateHandler struct {
	store *store.Store
}

// NewCalibrateHandler creates a new CalibrateHandler with the given store.
func NewCalibrateHandler(s *store.Store) *CalibrateHandler {
	return &CalibrateHandler{store: s}
}

type calibrateRequest struct {
	// OpenSamples holds pinch distances recorded with the hand relaxed.
	OpenSamples []float64 `json:"open_samples"`
	// ClosedSamples holds pinch distances recorded with thumb and index
	// touching.
	ClosedSamples []float64 `json:"closed_samples"`
	// Apply writes the derived thresholds back to the profile when true;
	// otherwise the call only previews them.
	Apply bool `json:"apply"`
}

type calibrateResponse struct {
	Calibration gesture.Calibration `json:"calibration"`
	Profile     *store.Profile      `json:"profile"`
}

// ServeHTTP handles POST /api/profiles/{id}/calibrate.
func (h *CalibrateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected path: /api/profiles/{id}/calibrate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	id := strings.TrimSuffix(path, "/calibrate")
	if id == "" || id == path {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cal, err := gesture.Calibrate(req.OpenSamples, req.ClosedSamples)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Apply {
		profile.PinchThreshold = cal.Threshold
		profile.PinchHysteresis = cal.Hysteresis
		if err := h.store.Profiles().Update(profile); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	writeJSON(w, http.StatusOK, calibrateResponse{Calibration: cal, Profile: profile})
}
