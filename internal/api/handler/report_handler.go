package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/ports"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves monthly worked-hours summaries and the XLSX export.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type monthResponse struct {
	Month     string                 `json:"month"`
	Employees []ports.EmployeeReport `json:"employees"`
}

// Month handles GET /v1/reports/:month.
func (h *ReportHandler) Month(c echo.Context) error {
	month := c.Param("month")
	reports, err := h.service.Month(c.Request().Context(), month)
	if err != nil {
		return err
	}
	if reports == nil {
		reports = []ports.EmployeeReport{}
	}
	return c.JSON(http.StatusOK, monthResponse{Month: month, Employees: reports})
}

// Export handles GET /v1/reports/:month/export, returning the workbook as
// an attachment download.
func (h *ReportHandler) Export(c echo.Context) error {
	data, filename, err := h.service.ExportMonth(c.Request().Context(), c.Param("month"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentTypeXLSX, data)
}
