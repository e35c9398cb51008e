/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, shifts,
	and holiday records that demonstrate specific payroll features.

AVAILABLE SCENARIOS:

	day-shift-crew:   Ordinary weekday shifts, no premiums
	night-shift-crew: Graveyard shifts crossing midnight (night diff)
	holiday-period:   A period containing a regular holiday and a
	                  special non-working day, including rest-day work

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Seed the national holiday calendar for the scenario year
 3. Create employees with hourly rates and rest days
 4. Record shifts across the demo period

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "night-shift-crew"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: CRUD handlers the loaders reuse
  - philippines/holidays.go: The seeded calendar
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/philippines"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "day-shift-crew",
		Name:        "Day Shift Crew",
		Description: "Ordinary 09:00-17:00 weekday shifts, no premiums",
	},
	{
		ID:          "night-shift-crew",
		Name:        "Night Shift Crew",
		Description: "22:00-06:00 graveyard shifts crossing midnight",
	},
	{
		ID:          "holiday-period",
		Name:        "Holiday Period",
		Description: "December cutoff with a regular holiday, a special day, and rest-day work",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, map[string]any{"loaded": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loaded": true, "id": h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loader, ok := scenarioLoaders[req.ID]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ID), nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := loader(ctx, h); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "id": req.ID})
}

var scenarioLoaders = map[string]func(context.Context, *Handler) error{
	"day-shift-crew":   loadDayShiftScenario,
	"night-shift-crew": loadNightShiftScenario,
	"holiday-period":   loadHolidayScenario,
}

// =============================================================================
// LOADERS
// =============================================================================

// loadDayShiftScenario seeds two employees working an ordinary week.
func loadDayShiftScenario(ctx context.Context, h *Handler) error {
	loc := h.Config.Location

	if err := seedEmployees(ctx, h,
		demoEmployee("emp-ana", "Ana Reyes", "branch-makati", "100", time.Sunday),
		demoEmployee("emp-ben", "Ben Santos", "branch-makati", "125.50", time.Sunday),
	); err != nil {
		return err
	}

	// Mon Dec 1 through Fri Dec 5, 2025: straight 09:00-17:00 days.
	for day := 1; day <= 5; day++ {
		for _, id := range []string{"emp-ana", "emp-ben"} {
			start := time.Date(2025, time.December, day, 9, 0, 0, 0, loc)
			if err := seedShift(ctx, h, id, start, start.Add(8*time.Hour)); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadNightShiftScenario seeds a graveyard crew whose shifts cross
// midnight and sit fully inside the night window.
func loadNightShiftScenario(ctx context.Context, h *Handler) error {
	loc := h.Config.Location

	if err := seedEmployees(ctx, h,
		demoEmployee("emp-cora", "Cora Dizon", "branch-cebu", "100", time.Sunday),
	); err != nil {
		return err
	}

	// Mon Dec 1 through Thu Dec 4, 2025: 22:00 to 06:00 next day.
	for day := 1; day <= 4; day++ {
		start := time.Date(2025, time.December, day, 22, 0, 0, 0, loc)
		if err := seedShift(ctx, h, "emp-cora", start, start.Add(8*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// loadHolidayScenario seeds a December cutoff touching Christmas
// (regular holiday), Dec 8 (special non-working), and a Sunday.
func loadHolidayScenario(ctx context.Context, h *Handler) error {
	loc := h.Config.Location

	for _, hol := range philippines.NationalHolidays(2025) {
		if err := h.Store.CreateHoliday(ctx, hol); err != nil {
			return err
		}
	}

	if err := seedEmployees(ctx, h,
		demoEmployee("emp-dina", "Dina Cruz", "branch-makati", "150", time.Sunday),
	); err != nil {
		return err
	}

	// Dec 8 (special non-working), Dec 21 (Sunday rest day), Dec 25
	// (Christmas), plus two ordinary days.
	for _, day := range []int{8, 21, 22, 23, 25} {
		start := time.Date(2025, time.December, day, 9, 0, 0, 0, loc)
		if err := seedShift(ctx, h, "emp-dina", start, start.Add(8*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEED HELPERS
// =============================================================================

func demoEmployee(id, name, branch, rate string, restDay time.Weekday) store.Employee {
	return store.Employee{
		ID:             id,
		Name:           name,
		BranchID:       branch,
		HourlyRate:     decimal.RequireFromString(rate),
		RestDayWeekday: restDay,
		CreatedAt:      time.Now().UTC(),
	}
}

func seedEmployees(ctx context.Context, h *Handler, employees ...store.Employee) error {
	for _, e := range employees {
		if err := h.Store.CreateEmployee(ctx, e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.ID, err)
		}
	}
	return nil
}

func seedShift(ctx context.Context, h *Handler, employeeID string, start, end time.Time) error {
	shift := engine.Shift{
		ID:             fmt.Sprintf("%s-%s", employeeID, start.Format("20060102-1504")),
		EmployeeID:     employeeID,
		ScheduledStart: start,
		ScheduledEnd:   end,
	}
	if err := h.Store.CreateShift(ctx, shift); err != nil {
		return fmt.Errorf("seed shift %s: %w", shift.ID, err)
	}
	return nil
}
