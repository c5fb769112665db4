package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

type stubEmployeeService struct {
	listFn     func(ctx context.Context) []domain.Employee
	registerFn func(ctx context.Context, uid, name string) (domain.Employee, error)
	removeFn   func(ctx context.Context, uid string, purge bool) error
}

func (s *stubEmployeeService) List(ctx context.Context) []domain.Employee {
	return s.listFn(ctx)
}

func (s *stubEmployeeService) Register(ctx context.Context, uid, name string) (domain.Employee, error) {
	return s.registerFn(ctx, uid, name)
}

func (s *stubEmployeeService) Remove(ctx context.Context, uid string, purge bool) error {
	return s.removeFn(ctx, uid, purge)
}

func TestEmployeeHandler_List(t *testing.T) {
	stub := &stubEmployeeService{
		listFn: func(ctx context.Context) []domain.Employee {
			return []domain.Employee{{UID: "04A1B2C3", Name: "Ana Souza"}}
		},
	}
	c, rec := newTestContext(t, http.MethodGet, "/v1/employees", "")

	if err := NewEmployeeHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []domain.Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].UID != "04A1B2C3" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestEmployeeHandler_Register_Created(t *testing.T) {
	stub := &stubEmployeeService{
		registerFn: func(ctx context.Context, uid, name string) (domain.Employee, error) {
			return domain.Employee{UID: "04A1B2C3", Name: name}, nil
		},
	}
	c, rec := newTestContext(t, http.MethodPost, "/v1/employees", `{"uid":"04a1b2c3","name":"Ana Souza"}`)

	if err := NewEmployeeHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestEmployeeHandler_Register_MissingName(t *testing.T) {
	c, _ := newTestContext(t, http.MethodPost, "/v1/employees", `{"uid":"04A1B2C3"}`)

	err := NewEmployeeHandler(&stubEmployeeService{}).Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestEmployeeHandler_Remove_PurgeFlag(t *testing.T) {
	var gotUID string
	var gotPurge bool
	stub := &stubEmployeeService{
		removeFn: func(ctx context.Context, uid string, purge bool) error {
			gotUID, gotPurge = uid, purge
			return nil
		},
	}
	c, rec := newTestContext(t, http.MethodDelete, "/v1/employees/04A1B2C3?purge=true", "")
	c.SetParamNames("uid")
	c.SetParamValues("04A1B2C3")

	if err := NewEmployeeHandler(stub).Remove(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotUID != "04A1B2C3" || !gotPurge {
		t.Fatalf("unexpected call: uid=%q purge=%v", gotUID, gotPurge)
	}
}

func TestEmployeeHandler_Remove_NotFound(t *testing.T) {
	stub := &stubEmployeeService{
		removeFn: func(ctx context.Context, uid string, purge bool) error {
			return domain.ErrEmployeeNotFound
		},
	}
	c, _ := newTestContext(t, http.MethodDelete, "/v1/employees/DEADBEEF", "")
	c.SetParamNames("uid")
	c.SetParamValues("DEADBEEF")

	if err := NewEmployeeHandler(stub).Remove(c); err != domain.ErrEmployeeNotFound {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}
