package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
)

// defaultNotificationBatch bounds one GET /v1/notifications response.
const defaultNotificationBatch = 100

// DeviceHandler drives the serial worker and exposes its notification feed.
type DeviceHandler struct {
	device ports.DeviceManager
	source ports.NotificationSource
}

func NewDeviceHandler(device ports.DeviceManager, source ports.NotificationSource) *DeviceHandler {
	return &DeviceHandler{device: device, source: source}
}

type connectRequest struct {
	Port string `json:"port" validate:"required"`
}

// Connect handles POST /v1/device/connect. The offline batch sync runs in
// the background; its outcome arrives on the notification feed.
func (h *DeviceHandler) Connect(c echo.Context) error {
	var req connectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.device.Connect(req.Port); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.device.Status())
}

// Disconnect handles POST /v1/device/disconnect.
func (h *DeviceHandler) Disconnect(c echo.Context) error {
	if err := h.device.Disconnect(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.device.Status())
}

// Pause handles POST /v1/device/pause.
func (h *DeviceHandler) Pause(c echo.Context) error {
	if err := h.device.Pause(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.device.Status())
}

// Resume handles POST /v1/device/resume.
func (h *DeviceHandler) Resume(c echo.Context) error {
	if err := h.device.Resume(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.device.Status())
}

// Status handles GET /v1/device/status.
func (h *DeviceHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.device.Status())
}

// Capture handles POST /v1/device/capture: the next scanned card is
// reported on the notification feed instead of registered as a punch.
func (h *DeviceHandler) Capture(c echo.Context) error {
	if err := h.device.ArmCapture(); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "capture armed"})
}

// Ports handles GET /v1/ports.
func (h *DeviceHandler) Ports(c echo.Context) error {
	ports, err := h.device.ListPorts()
	if err != nil {
		return err
	}
	if ports == nil {
		ports = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"ports": ports})
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

// Notifications handles GET /v1/notifications: drains up to ?max pending
// notifications in emission order. An empty feed returns an empty list.
func (h *DeviceHandler) Notifications(c echo.Context) error {
	max := defaultNotificationBatch
	if raw := c.QueryParam("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "max must be a positive integer")
		}
		max = n
	}

	batch := h.source.Drain(max)
	if batch == nil {
		batch = []domain.Notification{}
	}
	return c.JSON(http.StatusOK, notificationsResponse{Notifications: batch})
}
