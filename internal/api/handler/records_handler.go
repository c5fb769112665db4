package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

// RecordsHandler serves read-only views of the attendance ledger straight
// from the shared state snapshot; there is no business logic behind these
// endpoints.
type RecordsHandler struct {
	state *state.State
}

func NewRecordsHandler(st *state.State) *RecordsHandler {
	return &RecordsHandler{state: st}
}

type employeeRecordsResponse struct {
	UID  string                      `json:"uid"`
	Name string                      `json:"name"`
	Days map[string]domain.DayRecord `json:"days"`
}

type dayRecordResponse struct {
	UID    string           `json:"uid"`
	Name   string           `json:"name"`
	Date   string           `json:"date"`
	Events domain.DayRecord `json:"events"`
}

// ByEmployee handles GET /v1/records/:uid.
func (h *RecordsHandler) ByEmployee(c echo.Context) error {
	uid := domain.NormalizeUID(c.Param("uid"))

	var (
		name       string
		registered bool
		days       map[string]domain.DayRecord
	)
	h.state.View(func(d *state.Data) {
		name, registered = d.Employees[uid]
		days = make(map[string]domain.DayRecord, len(d.Records[uid]))
		for date, day := range d.Records[uid] {
			days[date] = day.Clone()
		}
	})

	if !registered && len(days) == 0 {
		return domain.ErrEmployeeNotFound
	}
	return c.JSON(http.StatusOK, employeeRecordsResponse{UID: uid, Name: name, Days: days})
}

// ByDay handles GET /v1/records/:uid/:date. A registered employee with no
// punches on the day yields an empty events object, not a 404.
func (h *RecordsHandler) ByDay(c echo.Context) error {
	uid := domain.NormalizeUID(c.Param("uid"))
	date := c.Param("date")

	var (
		name       string
		registered bool
		events     domain.DayRecord
	)
	h.state.View(func(d *state.Data) {
		name, registered = d.Employees[uid]
		if day, ok := d.Records[uid][date]; ok {
			events = day.Clone()
		}
	})

	if !registered && events == nil {
		return domain.ErrEmployeeNotFound
	}
	if events == nil {
		events = domain.DayRecord{}
	}
	return c.JSON(http.StatusOK, dayRecordResponse{UID: uid, Name: name, Date: date, Events: events})
}
