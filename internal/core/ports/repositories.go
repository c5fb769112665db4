package ports

import (
	"context"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

// EmployeeRepository persists the UID → name registry as one snapshot.
// Save must be atomic: a reader never observes a partially written registry.
type EmployeeRepository interface {
	Load(ctx context.Context) (domain.Registry, error)
	Save(ctx context.Context, reg domain.Registry) error
}

// AttendanceRepository persists the attendance ledger as one snapshot,
// with the same atomic-replace requirement.
type AttendanceRepository interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}
