package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks connectivity to a storage backend
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store   Pinger
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		version: version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
	Uptime  string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"api": "healthy"}
	status, code := "ok", http.StatusOK

	if err := h.ping(r.Context()); err != nil {
		checks["storage"] = "unhealthy: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "healthy"
	}

	respondJSON(w, HealthResponse{
		Status:  status,
		Version: h.version,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Checks:  checks,
	}, code)
}

// GetReadiness handles GET /health/ready
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		respondDetail(w, "storage not ready", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, map[string]string{"status": "ready"}, http.StatusOK)
}

// GetLiveness handles GET /health/live
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "alive"}, http.StatusOK)
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.store.Ping(ctx)
}
