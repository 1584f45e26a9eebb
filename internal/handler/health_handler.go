package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger func(ctx context.Context) error

// ReadinessReporter reports whether bootstrap has finished.
type ReadinessReporter interface {
	Ready() bool
}

// Health is the body of the health endpoints.
type Health struct {
	Status    string    `json:"status"`
	Ready     bool      `json:"ready"`
	Storage   string    `json:"storage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage   Pinger
	readiness ReadinessReporter
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(storage Pinger, readiness ReadinessReporter) *HealthHandler {
	return &HealthHandler{storage: storage, readiness: readiness}
}

// Live answers as long as the process serves HTTP.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, Health{
		Status:    "ok",
		Ready:     h.readiness.Ready(),
		Timestamp: time.Now().UTC(),
	})
}

// Check godoc
// @Summary Service health
// @Description Reports bootstrap state and storage reachability.
// @Tags health
// @Produce json
// @Success 200 {object} Response{data=Health}
// @Failure 503 {object} Response{data=Health}
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	health := Health{
		Status:    "ok",
		Ready:     h.readiness.Ready(),
		Storage:   "ok",
		Timestamp: time.Now().UTC(),
	}
	if err := h.storage(ctx); err != nil {
		health.Storage = "unavailable"
	}
	if !health.Ready || health.Storage != "ok" {
		health.Status = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: health, Error: "service unavailable"})
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: health})
}
