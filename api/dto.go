/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  All money fields are JSON strings ("3208.33"), not numbers. A float64
  round-trip can corrupt a cent-exact amount; strings keep the decimal
  representation intact end to end.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: BracketTableJSON used for bracket endpoints
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BranchID       string `json:"branch_id,omitempty"`
	HourlyRate     string `json:"hourly_rate"`
	RestDayWeekday int    `json:"rest_day_weekday"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BranchID       string `json:"branch_id,omitempty"`
	HourlyRate     string `json:"hourly_rate"`
	RestDayWeekday *int   `json:"rest_day_weekday,omitempty"`
}

// =============================================================================
// SHIFTS AND HOLIDAYS
// =============================================================================

// ShiftDTO represents a shift record.
type ShiftDTO struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	BranchID       string  `json:"branch_id,omitempty"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	ActualStart    *string `json:"actual_start,omitempty"`
	ActualEnd      *string `json:"actual_end,omitempty"`
}

// CreateShiftRequest is the request to record a shift.
type CreateShiftRequest struct {
	ID             string  `json:"id,omitempty"`
	BranchID       string  `json:"branch_id,omitempty"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	ActualStart    *string `json:"actual_start,omitempty"`
	ActualEnd      *string `json:"actual_end,omitempty"`
}

// HolidayDTO represents a holiday record.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
	Tier string `json:"tier"`
	Year int    `json:"year"`
}

// CreateHolidayRequest is the request to record a holiday.
type CreateHolidayRequest struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// ComputeRequest asks for a single employee's computation over a period.
type ComputeRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// RunRequest asks for a full payroll run over a period.
type RunRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// DailySegmentDTO is one aggregated calendar day.
type DailySegmentDTO struct {
	Date       string `json:"date"`
	Hours      string `json:"hours"`
	NightHours string `json:"night_hours"`
	Tier       string `json:"tier"`
	RestDay    bool   `json:"rest_day"`
}

// PayBreakdownDTO is the categorized gross pay.
type PayBreakdownDTO struct {
	BasicPay     string            `json:"basic_pay"`
	HolidayPay   string            `json:"holiday_pay"`
	NightDiffPay string            `json:"night_diff_pay"`
	RestDayPay   string            `json:"rest_day_pay"`
	TotalGross   string            `json:"total_gross"`
	Days         []DailySegmentDTO `json:"days"`
	Skipped      []SkippedShiftDTO `json:"skipped,omitempty"`
}

// SkippedShiftDTO reports a shift rejected by validation.
type SkippedShiftDTO struct {
	ShiftID string `json:"shift_id"`
	Reason  string `json:"reason"`
}

// DeductionDTO is the statutory deduction breakdown.
type DeductionDTO struct {
	SSS            string   `json:"sss"`
	PhilHealth     string   `json:"philhealth"`
	PagIbig        string   `json:"pagibig"`
	WithholdingTax string   `json:"withholding_tax"`
	Total          string   `json:"total"`
	Gaps           []string `json:"gaps,omitempty"`
}

// PayslipDTO is the full per-employee computation result.
type PayslipDTO struct {
	EmployeeID   string          `json:"employee_id"`
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
	Gross        PayBreakdownDTO `json:"gross"`
	MonthlyBasic string          `json:"monthly_basic"`
	Deductions   DeductionDTO    `json:"deductions"`
	NetPay       string          `json:"net_pay"`
}

// PayrollEntryDTO is a persisted payroll entry.
type PayrollEntryDTO struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	BasicPay       string `json:"basic_pay"`
	HolidayPay     string `json:"holiday_pay"`
	NightDiffPay   string `json:"night_diff_pay"`
	RestDayPay     string `json:"rest_day_pay"`
	GrossPay       string `json:"gross_pay"`
	SSS            string `json:"sss"`
	PhilHealth     string `json:"philhealth"`
	PagIbig        string `json:"pagibig"`
	WithholdingTax string `json:"withholding_tax"`
	NetPay         string `json:"net_pay"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// RunResultDTO summarizes a payroll run.
type RunResultDTO struct {
	PeriodStart   string            `json:"period_start"`
	PeriodEnd     string            `json:"period_end"`
	EmployeeCount int               `json:"employee_count"`
	TotalGross    string            `json:"total_gross"`
	TotalNet      string            `json:"total_net"`
	Entries       []PayrollEntryDTO `json:"entries"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPayBreakdownDTO(r *engine.PayResult) PayBreakdownDTO {
	dto := PayBreakdownDTO{
		BasicPay:     r.BasicPay.StringFixed(2),
		HolidayPay:   r.HolidayPay.StringFixed(2),
		NightDiffPay: r.NightDiffPay.StringFixed(2),
		RestDayPay:   r.RestDayPay.StringFixed(2),
		TotalGross:   r.TotalGross.StringFixed(2),
	}
	for _, day := range r.Days {
		dto.Days = append(dto.Days, DailySegmentDTO{
			Date:       day.Date.String(),
			Hours:      day.Hours.String(),
			NightHours: day.NightHours.String(),
			Tier:       string(day.Tier),
			RestDay:    day.RestDay,
		})
	}
	for _, sk := range r.Skipped {
		dto.Skipped = append(dto.Skipped, SkippedShiftDTO{ShiftID: sk.ShiftID, Reason: sk.Err.Error()})
	}
	return dto
}

func toEmployeeDTO(e store.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:             e.ID,
		Name:           e.Name,
		BranchID:       e.BranchID,
		HourlyRate:     e.HourlyRate.String(),
		RestDayWeekday: int(e.RestDayWeekday),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

func toShiftDTO(s engine.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		BranchID:       s.BranchID,
		ScheduledStart: s.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   s.ScheduledEnd.Format(time.RFC3339),
	}
	if s.ActualStart != nil {
		v := s.ActualStart.Format(time.RFC3339)
		dto.ActualStart = &v
	}
	if s.ActualEnd != nil {
		v := s.ActualEnd.Format(time.RFC3339)
		dto.ActualEnd = &v
	}
	return dto
}

func toEntryDTO(e store.PayrollEntry) PayrollEntryDTO {
	return PayrollEntryDTO{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		PeriodStart:    e.PeriodStart.Format(time.RFC3339),
		PeriodEnd:      e.PeriodEnd.Format(time.RFC3339),
		BasicPay:       e.BasicPay.StringFixed(2),
		HolidayPay:     e.HolidayPay.StringFixed(2),
		NightDiffPay:   e.NightDiffPay.StringFixed(2),
		RestDayPay:     e.RestDayPay.StringFixed(2),
		GrossPay:       e.GrossPay.StringFixed(2),
		SSS:            e.SSS.StringFixed(2),
		PhilHealth:     e.PhilHealth.StringFixed(2),
		PagIbig:        e.PagIbig.StringFixed(2),
		WithholdingTax: e.WithholdingTax.StringFixed(2),
		NetPay:         e.NetPay.StringFixed(2),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}
