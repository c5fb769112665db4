package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/ports"
)

// Pinger is implemented by storage backends that can verify connectivity.
// A nil Pinger means the backend is local files and always reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready: checks the storage backend
// and reports the device link state. A disconnected reader is normal
// operation, only unreachable storage degrades readiness.
type ReadinessHandler struct {
	storage Pinger
	driver  string
	device  ports.DeviceManager
}

func NewReadinessHandler(storage Pinger, driver string, device ports.DeviceManager) *ReadinessHandler {
	return &ReadinessHandler{storage: storage, driver: driver, device: device}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Device       ports.DeviceStatus          `json:"device"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if h.storage == nil {
		deps[h.driver] = dependencyStatus{Status: "ok"}
	} else if err := h.storage.Ping(ctx); err != nil {
		deps[h.driver] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps[h.driver] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Device:       h.device.Status(),
		Dependencies: deps,
	})
}
