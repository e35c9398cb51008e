/*
handlers.go - HTTP API handlers for the payroll back office

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                  List all employees
    POST   /api/employees                  Create employee
    GET    /api/employees/{id}             Get employee details
    GET    /api/employees/{id}/shifts      Shift history (period query)
    POST   /api/employees/{id}/shifts      Record a shift
    GET    /api/employees/{id}/payslips    Persisted entries

  Holidays:
    GET    /api/holidays?year=             List holidays for a year
    POST   /api/holidays                   Create holiday
    POST   /api/holidays/defaults?year=    Seed the national calendar
    DELETE /api/holidays/{id}              Delete holiday

  Brackets:
    GET    /api/brackets/{type}            Current table (preset fallback)
    PUT    /api/brackets/{type}            Replace table (validated)

  Payroll:
    POST   /api/payroll/preview            Compute one employee, no persist
    POST   /api/payroll/runs               Run and persist a full period
    GET    /api/payroll/entries            Entries for a period

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (interface; sqlite in production)
  - Calculator: The pure computation engine
  - Toggles: Which statutory deductions apply

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate ID)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - payroll.go: Computation and run orchestration
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/philippines"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      store.Store
	Config     engine.Config
	Calculator *engine.Calculator
	Toggles    deduction.Toggles

	// PeriodsPerMonth scales a period's basic pay to the monthly salary
	// the deduction tables are defined against (2 = semi-monthly).
	PeriodsPerMonth int

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and the
// Philippine statutory configuration.
func NewHandler(st store.Store) *Handler {
	cfg := philippines.Config()
	return &Handler{
		Store:           st,
		Config:          cfg,
		Calculator:      engine.NewCalculator(cfg),
		Toggles:         philippines.AllToggles(),
		PeriodsPerMonth: 2,
	}
}

// deductionEngine builds the deduction engine from stored bracket
// tables, falling back to the statutory presets for any type the store
// has no rows for.
func (h *Handler) deductionEngine(ctx context.Context) (*deduction.Engine, error) {
	eng := philippines.NewDeductionEngine(h.Toggles)

	load := func(t deduction.Type, into *deduction.Table) error {
		brackets, err := h.Store.ListBrackets(ctx, t)
		if err != nil {
			return err
		}
		if len(brackets) == 0 {
			return nil
		}
		table, err := deduction.NewTable(t, brackets)
		if err != nil {
			return fmt.Errorf("stored %s table invalid: %w", t, err)
		}
		*into = table
		return nil
	}

	if err := load(deduction.TypeSSS, &eng.SSS); err != nil {
		return nil, err
	}
	if err := load(deduction.TypePhilHealth, &eng.PhilHealth); err != nil {
		return nil, err
	}
	if err := load(deduction.TypePagIbig, &eng.PagIbig); err != nil {
		return nil, err
	}
	if err := load(deduction.TypeTax, &eng.Tax); err != nil {
		return nil, err
	}
	return eng, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || rate.IsNegative() {
		writeError(w, http.StatusBadRequest, "hourly_rate must be a non-negative decimal string", err)
		return
	}

	restDay := h.Config.RestDayWeekday
	if req.RestDayWeekday != nil {
		if *req.RestDayWeekday < 0 || *req.RestDayWeekday > 6 {
			writeError(w, http.StatusBadRequest, "rest_day_weekday must be 0-6", nil)
			return
		}
		restDay = time.Weekday(*req.RestDayWeekday)
	}

	emp := store.Employee{
		ID:             req.ID,
		Name:           req.Name,
		BranchID:       req.BranchID,
		HourlyRate:     rate,
		RestDayWeekday: restDay,
		CreatedAt:      time.Now().UTC(),
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}

	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Employee ID already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns an employee's shifts for the requested period.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	from, to, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	shifts, err := h.Store.ListShifts(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift records a shift for an employee. The interval is
// validated up front so malformed records never reach the database.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	shift, err := shiftFromRequest(employeeID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}
	if err := engine.ValidateShift(shift); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift interval", err)
		return
	}

	if err := h.Store.CreateShift(r.Context(), shift); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Shift ID already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

func shiftFromRequest(employeeID string, req CreateShiftRequest) (engine.Shift, error) {
	start, err := time.Parse(time.RFC3339, req.ScheduledStart)
	if err != nil {
		return engine.Shift{}, fmt.Errorf("invalid scheduled_start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.ScheduledEnd)
	if err != nil {
		return engine.Shift{}, fmt.Errorf("invalid scheduled_end: %w", err)
	}

	shift := engine.Shift{
		ID:             req.ID,
		EmployeeID:     employeeID,
		BranchID:       req.BranchID,
		ScheduledStart: start,
		ScheduledEnd:   end,
	}
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}

	if req.ActualStart != nil {
		t, err := time.Parse(time.RFC3339, *req.ActualStart)
		if err != nil {
			return engine.Shift{}, fmt.Errorf("invalid actual_start: %w", err)
		}
		shift.ActualStart = &t
	}
	if req.ActualEnd != nil {
		t, err := time.Parse(time.RFC3339, *req.ActualEnd)
		if err != nil {
			return engine.Shift{}, fmt.Errorf("invalid actual_end: %w", err)
		}
		shift.ActualEnd = &t
	}
	return shift, nil
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holidays of a year (default: current year).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r, time.Now().In(h.Config.Location).Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	holidays, err := h.Store.ListHolidays(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:   hol.ID,
			Date: hol.Date.Format("2006-01-02"),
			Name: hol.Name,
			Tier: string(hol.Tier),
			Year: hol.Year,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday creates a holiday record.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, h.Config.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}
	tier := engine.HolidayTier(req.Tier)
	switch tier {
	case engine.TierRegular, engine.TierSpecialNonWorking, engine.TierSpecialWorking:
	default:
		writeError(w, http.StatusBadRequest, "tier must be regular, special_non_working, or special_working", nil)
		return
	}

	hol := engine.Holiday{
		ID:   req.ID,
		Date: date,
		Name: req.Name,
		Tier: tier,
		Year: date.Year(),
	}
	if hol.ID == "" {
		hol.ID = uuid.NewString()
	}

	if err := h.Store.CreateHoliday(r.Context(), hol); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Holiday already exists", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID: hol.ID, Date: req.Date, Name: hol.Name, Tier: req.Tier, Year: hol.Year,
	})
}

// AddDefaultHolidays seeds the national holiday calendar for a year.
// Dates already present are left untouched.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r, time.Now().In(h.Config.Location).Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	added := 0
	for _, hol := range philippines.NationalHolidays(year) {
		err := h.Store.CreateHoliday(r.Context(), hol)
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed holidays", err)
			return
		}
		added++
	}
	writeJSON(w, http.StatusOK, map[string]int{"year": year, "added": added})
}

// DeleteHoliday removes a holiday record.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.Store.DeleteHoliday(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BRACKET HANDLERS
// =============================================================================

// GetBrackets returns the active table for a deduction type. When the
// store holds no rows the statutory preset is returned, marked as such.
func (h *Handler) GetBrackets(w http.ResponseWriter, r *http.Request) {
	dtype, ok := bracketTypeParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown bracket type", nil)
		return
	}

	brackets, err := h.Store.ListBrackets(r.Context(), dtype)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list brackets", err)
		return
	}

	source := "store"
	if len(brackets) == 0 {
		brackets = presetBrackets(dtype)
		source = "preset"
	}

	table, err := deduction.NewTable(dtype, brackets)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored table invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"table":  factory.ToBracketTableJSON(table),
	})
}

// PutBrackets replaces the table for a deduction type. The table is
// validated before anything is written.
func (h *Handler) PutBrackets(w http.ResponseWriter, r *http.Request) {
	dtype, ok := bracketTypeParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown bracket type", nil)
		return
	}

	var tj factory.BracketTableJSON
	if err := json.NewDecoder(r.Body).Decode(&tj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	tj.Type = string(dtype)

	table, err := factory.FromBracketTableJSON(tj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid bracket table", err)
		return
	}

	if err := h.Store.ReplaceBrackets(r.Context(), dtype, table.Brackets); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to replace brackets", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToBracketTableJSON(table))
}

func bracketTypeParam(r *http.Request) (deduction.Type, bool) {
	switch t := deduction.Type(chi.URLParam(r, "type")); t {
	case deduction.TypeSSS, deduction.TypePhilHealth, deduction.TypePagIbig, deduction.TypeTax:
		return t, true
	default:
		return "", false
	}
}

func presetBrackets(t deduction.Type) []deduction.Bracket {
	switch t {
	case deduction.TypeSSS:
		return philippines.SSSBrackets()
	case deduction.TypePhilHealth:
		return philippines.PhilHealthBrackets()
	case deduction.TypePagIbig:
		return philippines.PagIbigBrackets()
	default:
		return philippines.TaxBrackets()
	}
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// ResetDatabase wipes all data (dev/demo only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func parsePeriodQuery(r *http.Request) (from, to time.Time, err error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to query parameters are required")
	}
	if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
	}
	if to, err = time.Parse(time.RFC3339, toStr); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

func parseYearQuery(r *http.Request, fallback int) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
