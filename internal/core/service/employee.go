package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/ports"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

// ErrEmptyName rejects a registration without a display name.
var ErrEmptyName = errors.New("name is required")

// EmployeeService owns registry mutations. It is the only writer of the
// registry besides the initial load.
type EmployeeService struct {
	state     *state.State
	employees ports.EmployeeRepository
	records   ports.AttendanceRepository
	log       zerolog.Logger
}

func NewEmployeeService(st *state.State, employees ports.EmployeeRepository, records ports.AttendanceRepository, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{state: st, employees: employees, records: records, log: log}
}

// List returns the registry sorted by display name, then UID.
func (s *EmployeeService) List(ctx context.Context) []domain.Employee {
	reg := s.state.Employees()
	out := make([]domain.Employee, 0, len(reg))
	for uid, name := range reg {
		out = append(out, domain.Employee{UID: uid, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// Register adds a new card to the registry and persists it.
func (s *EmployeeService) Register(ctx context.Context, uid, name string) (domain.Employee, error) {
	uid = domain.NormalizeUID(uid)
	name = strings.TrimSpace(name)

	if name == "" {
		return domain.Employee{}, ErrEmptyName
	}
	if !domain.ValidUID(uid) {
		return domain.Employee{}, domain.ErrInvalidUID
	}

	var reject, saveErr error
	s.state.Update(func(d *state.Data) {
		if _, exists := d.Employees[uid]; exists {
			reject = domain.ErrEmployeeExists
			return
		}
		d.Employees[uid] = name
		saveErr = s.employees.Save(ctx, d.Employees)
	})

	if reject != nil {
		return domain.Employee{}, reject
	}
	if saveErr != nil {
		return domain.Employee{}, fmt.Errorf("save registry: %w", saveErr)
	}

	s.log.Info().Str("uid", uid).Str("name", name).Msg("employee registered")
	return domain.Employee{UID: uid, Name: name}, nil
}

// Remove deletes a registry entry; with purge it also deletes the
// employee's attendance records.
func (s *EmployeeService) Remove(ctx context.Context, uid string, purge bool) error {
	uid = domain.NormalizeUID(uid)

	var reject, saveErr error
	s.state.Update(func(d *state.Data) {
		if _, exists := d.Employees[uid]; !exists {
			reject = domain.ErrEmployeeNotFound
			return
		}
		delete(d.Employees, uid)
		saveErr = s.employees.Save(ctx, d.Employees)

		if purge && saveErr == nil {
			delete(d.Records, uid)
			saveErr = s.records.Save(ctx, d.Records)
		}
	})

	if reject != nil {
		return reject
	}
	if saveErr != nil {
		return fmt.Errorf("save after removal: %w", saveErr)
	}

	s.log.Info().Str("uid", uid).Bool("purge", purge).Msg("employee removed")
	return nil
}
