/*
Package store defines the persistence interfaces for the payroll back
office.

PURPOSE:
  The computation engine is pure and owns no storage; this package is
  the contract between the surrounding back office and a database. It
  covers the engine's read inputs (employees, shifts, holidays, bracket
  tables) and the one derived artifact worth persisting: finalized
  payroll entries.

ATOMIC RUNS:
  SavePayrollRun persists every entry of a payroll run or none of them.
  A payroll period must never be left half-processed: if any entry
  fails, the whole run rolls back and can be retried. Re-running a
  period replaces the period's previous entries in the same atomic
  step, so a run is idempotent at the period level.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for tests and embedded use

SEE ALSO:
  - api/: The payroll-run orchestrator built on this interface
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when creating a record whose ID is
	// already taken.
	ErrDuplicateID = errors.New("duplicate record id")
)

// =============================================================================
// RECORDS
// =============================================================================

// Employee is the payroll view of an employee: identity plus the two
// values the engine needs (hourly rate, configured rest day).
type Employee struct {
	ID             string
	Name           string
	BranchID       string
	HourlyRate     decimal.Decimal
	RestDayWeekday time.Weekday
	CreatedAt      time.Time
}

// PayrollEntry is one employee's finalized result for one period:
// the gross breakdown, the statutory deductions, and the net.
type PayrollEntry struct {
	ID          string
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time

	BasicPay     decimal.Decimal
	HolidayPay   decimal.Decimal
	NightDiffPay decimal.Decimal
	RestDayPay   decimal.Decimal
	GrossPay     decimal.Decimal

	SSS            decimal.Decimal
	PhilHealth     decimal.Decimal
	PagIbig        decimal.Decimal
	WithholdingTax decimal.Decimal

	NetPay    decimal.Decimal
	CreatedAt time.Time
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the full persistence surface the back office needs.
type Store interface {
	// Employees
	CreateEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// Shifts
	CreateShift(ctx context.Context, s engine.Shift) error
	ListShifts(ctx context.Context, employeeID string, from, to time.Time) ([]engine.Shift, error)

	// Holidays
	CreateHoliday(ctx context.Context, h engine.Holiday) error
	ListHolidays(ctx context.Context, year int) ([]engine.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error

	// Deduction bracket tables
	ReplaceBrackets(ctx context.Context, t deduction.Type, brackets []deduction.Bracket) error
	ListBrackets(ctx context.Context, t deduction.Type) ([]deduction.Bracket, error)

	// Payroll entries
	// SavePayrollRun atomically replaces the period's entries with the
	// given batch: either every entry is persisted or none is.
	SavePayrollRun(ctx context.Context, periodStart, periodEnd time.Time, entries []PayrollEntry) error
	ListEntries(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollEntry, error)
	ListEntriesForEmployee(ctx context.Context, employeeID string) ([]PayrollEntry, error)

	// Reset wipes all data. Used by demo scenarios and tests.
	Reset(ctx context.Context) error

	Close() error
}
