package handler

import (
	"fmt"
	"net/http"

	"github.com/supakit/supakit/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
// GET /api/v1/admin/metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "supakit_tokens_issued_total %d\n", snap.TokensIssued)

	writeMetric(w, "supakit_auth_attempts_total{status=\"success\"} %d\n", snap.AuthSuccess)
	writeMetric(w, "supakit_auth_attempts_total{status=\"failure\"} %d\n", snap.AuthFailure)

	writeMetric(w, "supakit_items_created_total %d\n", snap.ItemsCreated)
	writeMetric(w, "supakit_items_updated_total %d\n", snap.ItemsUpdated)
	writeMetric(w, "supakit_items_deleted_total %d\n", snap.ItemsDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
