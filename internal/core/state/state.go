// Package state holds the process-wide mutable attendance data behind a
// single coarse lock. The serial worker and the HTTP handlers both go
// through this container; nothing else may retain references to the maps
// inside it.
package state

import (
	"sync"
	"time"

	"github.com/pontonfc/ponto-system/internal/core/domain"
)

// Data is the shared attendance state. It is only ever touched inside an
// Update or View closure.
type Data struct {
	Employees domain.Registry
	Records   domain.Ledger
	// LastPunch is the debounce cache: uid → wall-clock time of the most
	// recent live punch attempt. Not persisted; reset on process restart.
	LastPunch map[string]time.Time
}

// State wraps Data with one RWMutex.
type State struct {
	mu   sync.RWMutex
	data Data
}

// New creates a State seeded with the given registry and ledger.
// Nil maps are replaced with empty ones.
func New(employees domain.Registry, records domain.Ledger) *State {
	if employees == nil {
		employees = make(domain.Registry)
	}
	if records == nil {
		records = make(domain.Ledger)
	}
	return &State{data: Data{
		Employees: employees,
		Records:   records,
		LastPunch: make(map[string]time.Time),
	}}
}

// Update runs fn with exclusive access to the shared data.
func (s *State) Update(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// View runs fn with shared read access. fn must not mutate the data and
// must not let references escape; copy what it needs.
func (s *State) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Employees returns a copy of the registry.
func (s *State) Employees() domain.Registry {
	var out domain.Registry
	s.View(func(d *Data) { out = d.Employees.Clone() })
	return out
}

// Records returns a deep copy of the ledger.
func (s *State) Records() domain.Ledger {
	var out domain.Ledger
	s.View(func(d *Data) { out = d.Records.Clone() })
	return out
}
