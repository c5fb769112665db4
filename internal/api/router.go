package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/api/handler"
	"github.com/pontonfc/ponto-system/internal/api/middleware"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

// Dependencies collects everything the router wires into handlers. The
// services are built in main so storage backends stay swappable.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string

	Auth      ports.AuthService
	Employees ports.EmployeeService
	Reports   ports.ReportService
	Device    ports.DeviceManager
	Source    ports.NotificationSource
	State     *state.State

	// Storage is nil for the local file backend.
	Storage       handler.Pinger
	StorageDriver string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("ponto"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	employeeHandler := handler.NewEmployeeHandler(deps.Employees)
	recordsHandler := handler.NewRecordsHandler(deps.State)
	reportHandler := handler.NewReportHandler(deps.Reports)
	deviceHandler := handler.NewDeviceHandler(deps.Device, deps.Source)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Storage, deps.StorageDriver, deps.Device)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Operator routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.GET("/ports", deviceHandler.Ports)
	v1.POST("/device/connect", deviceHandler.Connect)
	v1.POST("/device/disconnect", deviceHandler.Disconnect)
	v1.POST("/device/pause", deviceHandler.Pause)
	v1.POST("/device/resume", deviceHandler.Resume)
	v1.POST("/device/capture", deviceHandler.Capture)
	v1.GET("/device/status", deviceHandler.Status)
	v1.GET("/notifications", deviceHandler.Notifications)

	v1.GET("/employees", employeeHandler.List)
	v1.POST("/employees", employeeHandler.Register)
	v1.DELETE("/employees/:uid", employeeHandler.Remove)

	v1.GET("/records/:uid", recordsHandler.ByEmployee)
	v1.GET("/records/:uid/:date", recordsHandler.ByDay)

	v1.GET("/reports/:month", reportHandler.Month)
	v1.GET("/reports/:month/export", reportHandler.Export)

	return e
}
