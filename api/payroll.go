/*
payroll.go - Payroll computation and run orchestration

PURPOSE:
  Bridges the stored records (employees, shifts, holidays, bracket
  tables) and the pure computation packages. Two entry points:

  Preview: compute one employee over a period and return the payslip
           without touching the database. Safe to call repeatedly.

  Run:     compute every employee over a period and persist the results
           as one atomic batch. Re-running a period replaces its
           previous entries, so a run is idempotent per period.

MONTHLY BASIS:
  Deduction tables are defined against a monthly basic salary. A period
  shorter than a month is scaled up by PeriodsPerMonth before the
  deduction engine runs (2 for the usual semi-monthly cutoff).

SKIPPED SHIFTS AND GAPS:
  A malformed shift or a bracket-table gap never fails a run. Both are
  carried through to the response (and the log) so the back office can
  fix the record and re-run the period.

SEE ALSO:
  - engine/calc.go: The gross-pay computation
  - deduction/engine.go: The statutory deduction computation
  - store/store.go: SavePayrollRun atomicity contract
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// PreviewPayroll computes one employee's payslip for a period without
// persisting anything.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Employee not found", err)
		return
	}

	deductions, err := h.deductionEngine(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load deduction tables", err)
		return
	}

	payslip, _, err := h.computeEmployee(r.Context(), *emp, periodStart, periodEnd, deductions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Computation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, payslip)
}

// RunPayroll computes and persists every employee's entry for a period
// as one atomic batch.
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	result, err := h.runPeriod(r.Context(), periodStart, periodEnd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Payroll run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListEntries returns the persisted entries for a period.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	from, to, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	entries, err := h.Store.ListEntries(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]PayrollEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListPayslips returns all persisted entries of one employee.
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.Store.ListEntriesForEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}

	dtos := make([]PayrollEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ORCHESTRATION
// =============================================================================

// runPeriod computes every employee and persists the batch atomically.
func (h *Handler) runPeriod(ctx context.Context, periodStart, periodEnd time.Time) (*RunResultDTO, error) {
	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	deductions, err := h.deductionEngine(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deduction tables: %w", err)
	}

	result := &RunResultDTO{
		PeriodStart: periodStart.Format(time.RFC3339),
		PeriodEnd:   periodEnd.Format(time.RFC3339),
	}
	totalGross := decimal.Zero
	totalNet := decimal.Zero

	var batch []store.PayrollEntry
	for _, emp := range employees {
		payslip, entry, err := h.computeEmployee(ctx, emp, periodStart, periodEnd, deductions)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
		}
		for _, sk := range payslip.Gross.Skipped {
			log.Printf("[Payroll] Skipped shift %s for employee %s: %s", sk.ShiftID, emp.ID, sk.Reason)
		}
		for _, gap := range payslip.Deductions.Gaps {
			log.Printf("[Payroll] Bracket gap for employee %s: no %s bracket covers the salary", emp.ID, gap)
		}

		batch = append(batch, entry)
		totalGross = totalGross.Add(entry.GrossPay)
		totalNet = totalNet.Add(entry.NetPay)
		result.Entries = append(result.Entries, toEntryDTO(entry))
	}

	if err := h.Store.SavePayrollRun(ctx, periodStart, periodEnd, batch); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}

	result.EmployeeCount = len(batch)
	result.TotalGross = totalGross.StringFixed(2)
	result.TotalNet = totalNet.StringFixed(2)
	return result, nil
}

// computeEmployee runs the full pipeline for one employee: shifts in,
// gross breakdown, monthly estimate, deductions, net.
func (h *Handler) computeEmployee(ctx context.Context, emp store.Employee, periodStart, periodEnd time.Time, deductions *deduction.Engine) (PayslipDTO, store.PayrollEntry, error) {
	shifts, err := h.Store.ListShifts(ctx, emp.ID, periodStart, periodEnd)
	if err != nil {
		return PayslipDTO{}, store.PayrollEntry{}, fmt.Errorf("list shifts: %w", err)
	}
	holidays, err := h.holidaysForPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		return PayslipDTO{}, store.PayrollEntry{}, fmt.Errorf("list holidays: %w", err)
	}

	restDay := emp.RestDayWeekday
	gross, err := h.Calculator.Compute(engine.Input{
		Shifts:         shifts,
		HourlyRate:     emp.HourlyRate,
		Holidays:       holidays,
		RestDayWeekday: &restDay,
	})
	if err != nil {
		return PayslipDTO{}, store.PayrollEntry{}, fmt.Errorf("compute gross: %w", err)
	}

	monthlyBasic := engine.EstimateMonthlyBasic(gross, h.PeriodsPerMonth)

	// The statutory tables floor at a minimum contribution, so a zero
	// salary must skip them entirely; otherwise an idle period would
	// owe deductions with no pay to cover them.
	var breakdown deduction.Breakdown
	if monthlyBasic.IsPositive() {
		breakdown = deductions.Compute(monthlyBasic)
	}

	// Deductions are monthly amounts; the period carries its share.
	share := decimal.NewFromInt(int64(h.PeriodsPerMonth))
	sss := breakdown.SSS.Div(share).Round(2)
	philHealth := breakdown.PhilHealth.Div(share).Round(2)
	pagIbig := breakdown.PagIbig.Div(share).Round(2)
	tax := breakdown.WithholdingTax.Div(share).Round(2)
	totalDeductions := sss.Add(philHealth).Add(pagIbig).Add(tax)
	net := gross.TotalGross.Sub(totalDeductions)

	entry := store.PayrollEntry{
		ID:             uuid.NewString(),
		EmployeeID:     emp.ID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		BasicPay:       gross.BasicPay,
		HolidayPay:     gross.HolidayPay,
		NightDiffPay:   gross.NightDiffPay,
		RestDayPay:     gross.RestDayPay,
		GrossPay:       gross.TotalGross,
		SSS:            sss,
		PhilHealth:     philHealth,
		PagIbig:        pagIbig,
		WithholdingTax: tax,
		NetPay:         net,
		CreatedAt:      time.Now().UTC(),
	}

	payslip := PayslipDTO{
		EmployeeID:   emp.ID,
		PeriodStart:  periodStart.Format(time.RFC3339),
		PeriodEnd:    periodEnd.Format(time.RFC3339),
		Gross:        toPayBreakdownDTO(gross),
		MonthlyBasic: monthlyBasic.StringFixed(2),
		Deductions: DeductionDTO{
			SSS:            sss.StringFixed(2),
			PhilHealth:     philHealth.StringFixed(2),
			PagIbig:        pagIbig.StringFixed(2),
			WithholdingTax: tax.StringFixed(2),
			Total:          totalDeductions.StringFixed(2),
			Gaps:           gapStrings(breakdown.Gaps),
		},
		NetPay: net.StringFixed(2),
	}
	return payslip, entry, nil
}

// holidaysForPeriod collects the holiday records of every year the
// period touches. Periods never span more than two years in practice,
// but the loop costs nothing.
func (h *Handler) holidaysForPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]engine.Holiday, error) {
	startYear := periodStart.In(h.Config.Location).Year()
	endYear := periodEnd.In(h.Config.Location).Year()

	var holidays []engine.Holiday
	for year := startYear; year <= endYear; year++ {
		list, err := h.Store.ListHolidays(ctx, year)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, list...)
	}
	return holidays, nil
}

func gapStrings(gaps []deduction.Type) []string {
	if len(gaps) == 0 {
		return nil
	}
	out := make([]string, len(gaps))
	for i, g := range gaps {
		out[i] = string(g)
	}
	return out
}

func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period_start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period_end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("period_end must be after period_start")
	}
	return start, end, nil
}
