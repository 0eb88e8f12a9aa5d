package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aawaaz/casedesk/internal/models"
	"go.uber.org/zap"
)

const version = "1.0.0"

var startTime = time.Now()

// Pinger is anything the readiness check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints
type HealthHandler struct {
	backend Pinger
	store   Pinger
	logger  *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend, store Pinger, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{backend: backend, store: store, logger: logger}
}

// Check handles GET /hi (liveness probe, no backend call)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /console/health. It probes the backend's /hi and the
// session store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:  "ready",
		Version: version,
		Uptime:  time.Since(startTime).String(),
		Backend: "reachable",
		Storage: "connected",
	}

	if err := h.backend.Ping(r.Context()); err != nil {
		h.logger.Warnw("Backend health check failed", "error", err)
		status.Backend = "unreachable"
		status.Status = "not ready"
	}
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warnw("Session store health check failed", "error", err)
		status.Storage = "disconnected"
		status.Status = "not ready"
	}

	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status)
}
