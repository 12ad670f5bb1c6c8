package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// DefaultMetricsLimit bounds how many snapshots a metrics query returns
// when the caller does not ask for a specific count.
const DefaultMetricsLimit = 60

// MetricsHandler serves persisted pipeline health snapshots.
type MetricsHandler struct {
	store *store.Store
}

// NewMetricsHandler creates a new MetricsHandler with the given store.
func NewMetricsHandler(s *store.Store) *MetricsHandler {
	return &MetricsHandler{store: s}
}

type listMetricsResponse struct {
	Metrics []*store.Metric `json:"metrics"`
}

// ServeHTTP handles GET /api/metrics?limit=N, newest first.
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultMetricsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	metrics, err := h.store.Metrics().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list metrics")
		return
	}

	if metrics == nil {
		metrics = []*store.Metric{}
	}
	writeJSON(w, http.StatusOK, listMetricsResponse{Metrics: metrics})
}
