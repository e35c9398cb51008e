// Package memory provides an in-memory Store implementation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[string]store.Employee
	shifts    map[string]engine.Shift
	holidays  map[string]engine.Holiday
	brackets  map[deduction.Type][]deduction.Bracket
	entries   map[string]store.PayrollEntry
}

func New() *Memory {
	return &Memory{
		employees: make(map[string]store.Employee),
		shifts:    make(map[string]engine.Shift),
		holidays:  make(map[string]engine.Holiday),
		brackets:  make(map[deduction.Type][]deduction.Bracket),
		entries:   make(map[string]store.PayrollEntry),
	}
}

var _ store.Store = (*Memory)(nil)

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) CreateEmployee(_ context.Context, e store.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[e.ID]; ok {
		return store.ErrDuplicateID
	}
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]store.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (m *Memory) CreateShift(_ context.Context, s engine.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[s.ID]; ok {
		return store.ErrDuplicateID
	}
	m.shifts[s.ID] = s
	return nil
}

func (m *Memory) ListShifts(_ context.Context, employeeID string, from, to time.Time) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Shift
	for _, s := range m.shifts {
		if s.EmployeeID != employeeID {
			continue
		}
		if s.ScheduledStart.Before(from) || !s.ScheduledStart.Before(to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledStart.Before(result[j].ScheduledStart)
	})
	return result, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) CreateHoliday(_ context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[h.ID]; ok {
		return store.ErrDuplicateID
	}
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, year int) ([]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Holiday
	for _, h := range m.holidays {
		if h.Year == year {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.holidays, id)
	return nil
}

// =============================================================================
// BRACKETS
// =============================================================================

func (m *Memory) ReplaceBrackets(_ context.Context, t deduction.Type, brackets []deduction.Bracket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brackets[t] = append([]deduction.Bracket(nil), brackets...)
	return nil
}

func (m *Memory) ListBrackets(_ context.Context, t deduction.Type) ([]deduction.Bracket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]deduction.Bracket(nil), m.brackets[t]...), nil
}

// =============================================================================
// PAYROLL ENTRIES
// =============================================================================

// SavePayrollRun replaces the period's entries under a single lock, so
// the batch is atomic by construction.
func (m *Memory) SavePayrollRun(_ context.Context, periodStart, periodEnd time.Time, entries []store.PayrollEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.entries {
		if e.PeriodStart.Equal(periodStart) && e.PeriodEnd.Equal(periodEnd) {
			delete(m.entries, id)
		}
	}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return nil
}

func (m *Memory) ListEntries(_ context.Context, periodStart, periodEnd time.Time) ([]store.PayrollEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []store.PayrollEntry
	for _, e := range m.entries {
		if e.PeriodStart.Equal(periodStart) && e.PeriodEnd.Equal(periodEnd) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *Memory) ListEntriesForEmployee(_ context.Context, employeeID string) ([]store.PayrollEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []store.PayrollEntry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PeriodStart.Before(result[j].PeriodStart) })
	return result, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[string]store.Employee)
	m.shifts = make(map[string]engine.Shift)
	m.holidays = make(map[string]engine.Holiday)
	m.brackets = make(map[deduction.Type][]deduction.Bracket)
	m.entries = make(map[string]store.PayrollEntry)
	return nil
}

func (m *Memory) Close() error { return nil }
