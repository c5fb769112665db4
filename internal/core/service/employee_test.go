package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/core/domain"
	"github.com/pontonfc/ponto-system/internal/core/state"
)

type stubEmployeeRepo struct {
	saveErr   error
	saveCalls int
	lastSaved domain.Registry
}

func (r *stubEmployeeRepo) Load(_ context.Context) (domain.Registry, error) {
	return make(domain.Registry), nil
}

func (r *stubEmployeeRepo) Save(_ context.Context, reg domain.Registry) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCalls++
	r.lastSaved = reg.Clone()
	return nil
}

func newEmployeeFixture() (*EmployeeService, *state.State, *stubEmployeeRepo, *stubAttendanceRepo) {
	st := state.New(nil, nil)
	empRepo := &stubEmployeeRepo{}
	attRepo := &stubAttendanceRepo{}
	return NewEmployeeService(st, empRepo, attRepo, zerolog.Nop()), st, empRepo, attRepo
}

func TestEmployeeRegister(t *testing.T) {
	svc, st, repo, _ := newEmployeeFixture()

	emp, err := svc.Register(context.Background(), " 04a1b2c3 ", " Ana ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.UID != "04A1B2C3" || emp.Name != "Ana" {
		t.Errorf("unexpected employee: %+v", emp)
	}
	if repo.saveCalls != 1 || repo.lastSaved["04A1B2C3"] != "Ana" {
		t.Errorf("registry not persisted: %+v", repo.lastSaved)
	}
	if st.Employees()["04A1B2C3"] != "Ana" {
		t.Error("registry not updated in state")
	}
}

func TestEmployeeRegister_Rejections(t *testing.T) {
	svc, _, _, _ := newEmployeeFixture()

	if _, err := svc.Register(context.Background(), "04A1B2C3", "  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v, want ErrEmptyName", err)
	}

	for _, uid := range []string{"", "XYZ123", "04A1B2", "04A1B2C", "0123456789ABCDEF0123AB"} {
		if _, err := svc.Register(context.Background(), uid, "Ana"); !errors.Is(err, domain.ErrInvalidUID) {
			t.Errorf("uid %q: got %v, want ErrInvalidUID", uid, err)
		}
	}

	if _, err := svc.Register(context.Background(), "04A1B2C3", "Ana"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := svc.Register(context.Background(), "04a1b2c3", "Outra Ana"); !errors.Is(err, domain.ErrEmployeeExists) {
		t.Errorf("duplicate: got %v, want ErrEmployeeExists", err)
	}
}

func TestEmployeeRemove(t *testing.T) {
	svc, st, _, attRepo := newEmployeeFixture()
	st.Update(func(d *state.Data) {
		d.Employees["04A1B2C3"] = "Ana"
		d.Records.Day("04A1B2C3", "2025-03-10").Fill("08:00")
	})

	if err := svc.Remove(context.Background(), "missing0", false); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Errorf("got %v, want ErrEmployeeNotFound", err)
	}

	if err := svc.Remove(context.Background(), "04A1B2C3", false); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(st.Employees()) != 0 {
		t.Error("registry entry not removed")
	}
	// Records survive a non-purging removal.
	if _, ok := st.Records()["04A1B2C3"]; !ok {
		t.Error("records must survive removal without purge")
	}
	if attRepo.saveCalls != 0 {
		t.Error("ledger must not be saved without purge")
	}
}

func TestEmployeeRemove_Purge(t *testing.T) {
	svc, st, _, attRepo := newEmployeeFixture()
	st.Update(func(d *state.Data) {
		d.Employees["04A1B2C3"] = "Ana"
		d.Records.Day("04A1B2C3", "2025-03-10").Fill("08:00")
	})

	if err := svc.Remove(context.Background(), "04A1B2C3", true); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := st.Records()["04A1B2C3"]; ok {
		t.Error("records must be purged")
	}
	if attRepo.saveCalls != 1 {
		t.Errorf("ledger save calls = %d, want 1", attRepo.saveCalls)
	}
}

func TestEmployeeList_SortedByName(t *testing.T) {
	svc, st, _, _ := newEmployeeFixture()
	st.Update(func(d *state.Data) {
		d.Employees["DEADBEEF"] = "bruno"
		d.Employees["04A1B2C3"] = "Ana"
		d.Employees["CAFEBABE"] = "Ana" // same name, ordered by UID
	})

	list := svc.List(context.Background())
	if len(list) != 3 {
		t.Fatalf("got %d employees, want 3", len(list))
	}
	if list[0].UID != "04A1B2C3" || list[1].UID != "CAFEBABE" || list[2].UID != "DEADBEEF" {
		t.Errorf("unexpected order: %+v", list)
	}
}
