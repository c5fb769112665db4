package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for registry operations.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

type registerEmployeeRequest struct {
	UID  string `json:"uid" validate:"required"`
	Name string `json:"name" validate:"required,max=100"`
}

// List handles GET /v1/employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.List(c.Request().Context()))
}

// Register handles POST /v1/employees.
func (h *EmployeeHandler) Register(c echo.Context) error {
	var req registerEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	emp, err := h.service.Register(c.Request().Context(), req.UID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, emp)
}

// Remove handles DELETE /v1/employees/:uid. With ?purge=true the
// employee's attendance history is deleted as well.
func (h *EmployeeHandler) Remove(c echo.Context) error {
	purge := c.QueryParam("purge") == "true"
	if err := h.service.Remove(c.Request().Context(), c.Param("uid"), purge); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
