package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func TestMetricsHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewMetricsHandler(s)

	for i := 0; i < 3; i++ {
		m := &store.Metric{FPS: float64(10 + i), AvgLatencyMs: 25, Dropped: 0}
		if err := s.Metrics().Insert(m); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp listMetricsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(resp.Metrics))
	}
	if resp.Metrics[0].FPS != 12 {
		t.Errorf("first metric FPS = %v, want 12 (newest)", resp.Metrics[0].FPS)
	}
}

func TestMetricsHandler_Errors(t *testing.T) {
	s := newTestStore(t)
	handler := NewMetricsHandler(s)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"wrong method", http.MethodPost, "/api/metrics", http.StatusMethodNotAllowed},
		{"bad limit", http.MethodGet, "/api/metrics?limit=zero", http.StatusBadRequest},
		{"negative limit", http.MethodGet, "/api/metrics?limit=-5", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
