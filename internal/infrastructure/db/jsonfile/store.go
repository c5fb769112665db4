// Package jsonfile persists the registry and ledger as JSON documents
// with atomic replace semantics: write to a temp file, rename over the
// target, so a reader never observes a partially written snapshot.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

// EmployeeStore implements ports.EmployeeRepository on one JSON file.
type EmployeeStore struct {
	path string
}

func NewEmployeeStore(path string) *EmployeeStore {
	return &EmployeeStore{path: path}
}

func (s *EmployeeStore) Load(_ context.Context) (domain.Registry, error) {
	reg := make(domain.Registry)
	if err := readJSON(s.path, &reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *EmployeeStore) Save(_ context.Context, reg domain.Registry) error {
	return writeAtomic(s.path, reg)
}

// AttendanceStore implements ports.AttendanceRepository on one JSON file.
type AttendanceStore struct {
	path string
}

func NewAttendanceStore(path string) *AttendanceStore {
	return &AttendanceStore{path: path}
}

func (s *AttendanceStore) Load(_ context.Context) (domain.Ledger, error) {
	ledger := make(domain.Ledger)
	if err := readJSON(s.path, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *AttendanceStore) Save(_ context.Context, ledger domain.Ledger) error {
	return writeAtomic(s.path, ledger)
}

// readJSON fills v from path; a missing file leaves v at its default.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
