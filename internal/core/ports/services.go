package ports

import (
	"context"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

// PunchService registers one live scan at a time.
type PunchService interface {
	// Register applies debounce and slot assignment for uid. On rejection
	// it returns one of the domain sentinel errors (ErrEmptyUID,
	// ErrRepeatedTouch, ErrUnknownUID, ErrDayComplete).
	Register(ctx context.Context, uid string) (domain.Punch, error)
}

// EmployeeService manages the card registry.
type EmployeeService interface {
	List(ctx context.Context) []domain.Employee
	Register(ctx context.Context, uid, name string) (domain.Employee, error)
	// Remove deletes the registry entry; when purge is true the employee's
	// attendance records are deleted as well.
	Remove(ctx context.Context, uid string, purge bool) error
}

// DaySummary is one row of a monthly report.
type DaySummary struct {
	Date   string           `json:"date"`
	Events domain.DayRecord `json:"events"`
	// WorkedMinutes is (saida−entrada)−(volta_intervalo−saida_intervalo),
	// clamped at zero; 0 when entrada or saida is missing.
	WorkedMinutes int `json:"worked_minutes"`
}

// EmployeeReport aggregates one employee's month.
type EmployeeReport struct {
	UID          string       `json:"uid"`
	Name         string       `json:"name"`
	Days         []DaySummary `json:"days"`
	TotalMinutes int          `json:"total_minutes"`
}

// ReportService computes monthly summaries and renders the XLSX export.
type ReportService interface {
	Month(ctx context.Context, month string) ([]EmployeeReport, error)
	// ExportMonth writes the month's workbook and returns the XLSX bytes
	// and a suggested file name.
	ExportMonth(ctx context.Context, month string) (data []byte, filename string, err error)
}

// AuthService authenticates the operator and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}
