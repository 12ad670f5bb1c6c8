package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func calibrateBody(apply bool) string {
	return fmt.Sprintf(
		`{"open_samples": [0.20, 0.21, 0.19, 0.22, 0.20],
		  "closed_samples": [0.02, 0.01, 0.02, 0.03, 0.02],
		  "apply": %v}`, apply)
}

func TestCalibrateHandler_Preview(t *testing.T) {
	s := newTestStore(t)
	handler := NewCalibrateHandler(s)

	p := seedProfile(t, s, "calibratable")

	req := httptest.NewRequest(http.MethodPost,
		"/api/profiles/"+p.ID+"/calibrate", bytes.NewBufferString(calibrateBody(false)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp calibrateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Calibration.Threshold <= 0.02 || resp.Calibration.Threshold >= 0.20 {
		t.Errorf("threshold = %v, want between the sample means", resp.Calibration.Threshold)
	}

	// Preview must not touch the stored profile.
	got, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PinchThreshold != p.PinchThreshold {
		t.Errorf("stored threshold changed on preview: %v", got.PinchThreshold)
	}
}

func TestCalibrateHandler_Apply(t *testing.T) {
	s := newTestStore(t)
	handler := NewCalibrateHandler(s)

	p := seedProfile(t, s, "calibratable")

	req := httptest.NewRequest(http.MethodPost,
		"/api/profiles/"+p.ID+"/calibrate", bytes.NewBufferString(calibrateBody(true)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp calibrateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	got, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PinchThreshold != resp.Calibration.Threshold {
		t.Errorf("stored threshold = %v, want %v", got.PinchThreshold, resp.Calibration.Threshold)
	}
	if got.PinchHysteresis != resp.Calibration.Hysteresis {
		t.Errorf("stored hysteresis = %v, want %v", got.PinchHysteresis, resp.Calibration.Hysteresis)
	}
}

func TestCalibrateHandler_Errors(t *testing.T) {
	s := newTestStore(t)
	handler := NewCalibrateHandler(s)

	p := seedProfile(t, s, "calibratable")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "/api/profiles/" + p.ID + "/calibrate", "", http.StatusMethodNotAllowed},
		{"missing profile", http.MethodPost, "/api/profiles/ghost/calibrate", calibrateBody(false), http.StatusNotFound},
		{"malformed json", http.MethodPost, "/api/profiles/" + p.ID + "/calibrate", `{"open`, http.StatusBadRequest},
		{"too few samples", http.MethodPost, "/api/profiles/" + p.ID + "/calibrate",
			`{"open_samples": [0.2], "closed_samples": [0.01]}`, http.StatusBadRequest},
		{"inverted samples", http.MethodPost, "/api/profiles/" + p.ID + "/calibrate",
			`{"open_samples": [0.01, 0.01, 0.01, 0.01, 0.01],
			  "closed_samples": [0.2, 0.2, 0.2, 0.2, 0.2]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
