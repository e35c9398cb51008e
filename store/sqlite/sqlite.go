/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists the back office's reference data (employees, shifts,
  holidays, bracket tables) and the finalized payroll entries. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

ATOMIC PAYROLL RUNS:
  SavePayrollRun runs inside one SQL transaction: it deletes the
  period's previous entries and inserts the new batch, committing only
  if every insert succeeds. A failed run leaves the previous state
  untouched, so a period is never half-processed.

ENCODING:
  - Instants are stored as RFC3339 text (offset preserved)
  - Money and rates are stored as decimal text, never as REAL; a
    round-trip through the database must not lose a cent

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block and a single writer runs at
  a time. A sync.RWMutex guards the connection for the same reason.

USAGE:
  st, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		hourly_rate TEXT NOT NULL,
		rest_day_weekday INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		scheduled_start TEXT NOT NULL,
		scheduled_end TEXT NOT NULL,
		actual_start TEXT,
		actual_end TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_employee_start
		ON shifts(employee_id, scheduled_start);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		tier TEXT NOT NULL,
		year INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(year);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_date_name ON holidays(date, name);

	CREATE TABLE IF NOT EXISTS deduction_brackets (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		min_salary TEXT NOT NULL,
		max_salary TEXT,
		rate TEXT NOT NULL DEFAULT '0',
		employee_contribution TEXT NOT NULL DEFAULT '0',
		max_contribution TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_brackets_type ON deduction_brackets(type);

	CREATE TABLE IF NOT EXISTS payroll_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		basic_pay TEXT NOT NULL,
		holiday_pay TEXT NOT NULL,
		night_diff_pay TEXT NOT NULL,
		rest_day_pay TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		sss TEXT NOT NULL,
		philhealth TEXT NOT NULL,
		pagibig TEXT NOT NULL,
		withholding_tax TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, period_start, period_end)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_period
		ON payroll_entries(period_start, period_end);
	CREATE INDEX IF NOT EXISTS idx_entries_employee
		ON payroll_entries(employee_id, period_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) CreateEmployee(ctx context.Context, e store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, branch_id, hourly_rate, rest_day_weekday, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.BranchID, e.HourlyRate.String(), int(e.RestDayWeekday), fmtTime(e.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return store.ErrDuplicateID
	}
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, branch_id, hourly_rate, rest_day_weekday, created_at
		FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, branch_id, hourly_rate, rest_day_weekday, created_at
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []store.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*store.Employee, error) {
	var e store.Employee
	var rate, createdAt string
	var weekday int
	if err := row.Scan(&e.ID, &e.Name, &e.BranchID, &rate, &weekday, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if e.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("employee %s: bad hourly_rate: %w", e.ID, err)
	}
	e.RestDayWeekday = time.Weekday(weekday)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) CreateShift(ctx context.Context, sh engine.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, employee_id, branch_id, scheduled_start, scheduled_end, actual_start, actual_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.EmployeeID, sh.BranchID,
		fmtTime(sh.ScheduledStart), fmtTime(sh.ScheduledEnd),
		fmtTimePtr(sh.ActualStart), fmtTimePtr(sh.ActualEnd))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return store.ErrDuplicateID
	}
	return err
}

func (s *Store) ListShifts(ctx context.Context, employeeID string, from, to time.Time) ([]engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, branch_id, scheduled_start, scheduled_end, actual_start, actual_end
		FROM shifts
		WHERE employee_id = ? AND scheduled_start >= ? AND scheduled_start < ?
		ORDER BY scheduled_start`,
		employeeID, fmtTime(from), fmtTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.Shift
	for rows.Next() {
		var sh engine.Shift
		var schedStart, schedEnd string
		var actStart, actEnd sql.NullString
		if err := rows.Scan(&sh.ID, &sh.EmployeeID, &sh.BranchID, &schedStart, &schedEnd, &actStart, &actEnd); err != nil {
			return nil, err
		}
		if sh.ScheduledStart, err = parseTime(schedStart); err != nil {
			return nil, err
		}
		if sh.ScheduledEnd, err = parseTime(schedEnd); err != nil {
			return nil, err
		}
		if sh.ActualStart, err = parseTimePtr(actStart); err != nil {
			return nil, err
		}
		if sh.ActualEnd, err = parseTimePtr(actEnd); err != nil {
			return nil, err
		}
		result = append(result, sh)
	}
	return result, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) CreateHoliday(ctx context.Context, h engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, tier, year)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, fmtTime(h.Date), h.Name, string(h.Tier), h.Year)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
		return store.ErrDuplicateID
	}
	return err
}

func (s *Store) ListHolidays(ctx context.Context, year int) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, tier, year FROM holidays
		WHERE year = ? ORDER BY date`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.Holiday
	for rows.Next() {
		var h engine.Holiday
		var date, tier string
		if err := rows.Scan(&h.ID, &date, &h.Name, &tier, &h.Year); err != nil {
			return nil, err
		}
		if h.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		h.Tier = engine.HolidayTier(tier)
		result = append(result, h)
	}
	return result, rows.Err()
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// =============================================================================
// BRACKETS
// =============================================================================

// ReplaceBrackets swaps a deduction type's whole table atomically.
// Bracket tables are always replaced wholesale - partial edits could
// leave a table overlapping mid-update.
func (s *Store) ReplaceBrackets(ctx context.Context, t deduction.Type, brackets []deduction.Bracket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deduction_brackets WHERE type = ?`, string(t)); err != nil {
		return err
	}

	for _, b := range brackets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO deduction_brackets (type, min_salary, max_salary, rate, employee_contribution, max_contribution, active)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(t), b.MinSalary.String(), decPtr(b.MaxSalary),
			b.Rate.String(), b.EmployeeContribution.String(), decPtr(b.MaxContribution), b.Active)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListBrackets(ctx context.Context, t deduction.Type) ([]deduction.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT min_salary, max_salary, rate, employee_contribution, max_contribution, active
		FROM deduction_brackets WHERE type = ? ORDER BY CAST(min_salary AS REAL)`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []deduction.Bracket
	for rows.Next() {
		b := deduction.Bracket{Type: t}
		var minSalary, rate, contribution string
		var maxSalary, maxContribution sql.NullString
		if err := rows.Scan(&minSalary, &maxSalary, &rate, &contribution, &maxContribution, &b.Active); err != nil {
			return nil, err
		}
		if b.MinSalary, err = decimal.NewFromString(minSalary); err != nil {
			return nil, err
		}
		if b.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, err
		}
		if b.EmployeeContribution, err = decimal.NewFromString(contribution); err != nil {
			return nil, err
		}
		if b.MaxSalary, err = decNullable(maxSalary); err != nil {
			return nil, err
		}
		if b.MaxContribution, err = decNullable(maxContribution); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// =============================================================================
// PAYROLL ENTRIES
// =============================================================================

// SavePayrollRun atomically replaces the period's entries: the delete
// and every insert commit together or not at all.
func (s *Store) SavePayrollRun(ctx context.Context, periodStart, periodEnd time.Time, entries []store.PayrollEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM payroll_entries WHERE period_start = ? AND period_end = ?`,
		fmtTime(periodStart), fmtTime(periodEnd))
	if err != nil {
		return err
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payroll_entries (
				id, employee_id, period_start, period_end,
				basic_pay, holiday_pay, night_diff_pay, rest_day_pay, gross_pay,
				sss, philhealth, pagibig, withholding_tax, net_pay, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.EmployeeID, fmtTime(periodStart), fmtTime(periodEnd),
			e.BasicPay.String(), e.HolidayPay.String(), e.NightDiffPay.String(),
			e.RestDayPay.String(), e.GrossPay.String(),
			e.SSS.String(), e.PhilHealth.String(), e.PagIbig.String(),
			e.WithholdingTax.String(), e.NetPay.String(), fmtTime(e.CreatedAt))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListEntries(ctx context.Context, periodStart, periodEnd time.Time) ([]store.PayrollEntry, error) {
	return s.queryEntries(ctx, `
		SELECT id, employee_id, period_start, period_end,
			basic_pay, holiday_pay, night_diff_pay, rest_day_pay, gross_pay,
			sss, philhealth, pagibig, withholding_tax, net_pay, created_at
		FROM payroll_entries WHERE period_start = ? AND period_end = ?
		ORDER BY employee_id`,
		fmtTime(periodStart), fmtTime(periodEnd))
}

func (s *Store) ListEntriesForEmployee(ctx context.Context, employeeID string) ([]store.PayrollEntry, error) {
	return s.queryEntries(ctx, `
		SELECT id, employee_id, period_start, period_end,
			basic_pay, holiday_pay, night_diff_pay, rest_day_pay, gross_pay,
			sss, philhealth, pagibig, withholding_tax, net_pay, created_at
		FROM payroll_entries WHERE employee_id = ?
		ORDER BY period_start`,
		employeeID)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]store.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []store.PayrollEntry
	for rows.Next() {
		var e store.PayrollEntry
		var periodStart, periodEnd, createdAt string
		var cols [10]string
		if err := rows.Scan(&e.ID, &e.EmployeeID, &periodStart, &periodEnd,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
			&cols[5], &cols[6], &cols[7], &cols[8], &cols[9], &createdAt); err != nil {
			return nil, err
		}

		targets := []*decimal.Decimal{
			&e.BasicPay, &e.HolidayPay, &e.NightDiffPay, &e.RestDayPay, &e.GrossPay,
			&e.SSS, &e.PhilHealth, &e.PagIbig, &e.WithholdingTax, &e.NetPay,
		}
		for i, col := range cols {
			if *targets[i], err = decimal.NewFromString(col); err != nil {
				return nil, fmt.Errorf("entry %s: bad money column: %w", e.ID, err)
			}
		}

		if e.PeriodStart, err = parseTime(periodStart); err != nil {
			return nil, err
		}
		if e.PeriodEnd, err = parseTime(periodEnd); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset wipes all data. Used by demo scenarios and tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"employees", "shifts", "holidays", "deduction_brackets", "payroll_entries"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

// fmtTime normalizes to UTC so the stored RFC3339 text sorts and
// compares chronologically regardless of the offset the caller held.
func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func decNullable(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
