package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

func recordsFixture() *state.State {
	return state.New(
		domain.Registry{"04A1B2C3": "Ana Souza"},
		domain.Ledger{
			"04A1B2C3": {
				"2026-03-02": {domain.EventEntrada: "08:01"},
			},
		},
	)
}

func TestRecordsHandler_ByEmployee(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/v1/records/04a1b2c3", "")
	c.SetParamNames("uid")
	c.SetParamValues("04a1b2c3")

	if err := NewRecordsHandler(recordsFixture()).ByEmployee(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp employeeRecordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UID != "04A1B2C3" || resp.Name != "Ana Souza" {
		t.Fatalf("unexpected identity: %+v", resp)
	}
	if resp.Days["2026-03-02"][domain.EventEntrada] != "08:01" {
		t.Fatalf("unexpected days: %v", resp.Days)
	}
}

func TestRecordsHandler_ByEmployee_Unknown(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/v1/records/DEADBEEF", "")
	c.SetParamNames("uid")
	c.SetParamValues("DEADBEEF")

	if err := NewRecordsHandler(recordsFixture()).ByEmployee(c); err != domain.ErrEmployeeNotFound {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestRecordsHandler_ByDay_EmptyDayIsNotAnError(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/v1/records/04A1B2C3/2026-03-10", "")
	c.SetParamNames("uid", "date")
	c.SetParamValues("04A1B2C3", "2026-03-10")

	if err := NewRecordsHandler(recordsFixture()).ByDay(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dayRecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Events) != 0 {
		t.Fatalf("expected empty events, got %v", resp.Events)
	}
}
