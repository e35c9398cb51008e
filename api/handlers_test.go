package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()
	h := api.NewHandler(memory.New())
	return h, api.NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return v
}

func createEmployee(t *testing.T, router http.Handler, id, rate string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: id, Name: "Test Employee", HourlyRate: rate,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create employee: status %d: %s", rec.Code, rec.Body.String())
	}
}

func createShift(t *testing.T, router http.Handler, employeeID, start, end string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/employees/"+employeeID+"/shifts", api.CreateShiftRequest{
		ScheduledStart: start, ScheduledEnd: end,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create shift: status %d: %s", rec.Code, rec.Body.String())
	}
}

// =============================================================================
// EMPLOYEE ENDPOINT TESTS
// =============================================================================

func TestEmployeeEndpoints_CreateGetList(t *testing.T) {
	// GIVEN: A fresh server
	// WHEN: Creating an employee and reading it back
	// THEN: 201 then 200 with the same record; listing returns it

	_, router := newTestServer(t)
	createEmployee(t, router, "emp-1", "100")

	rec := doJSON(t, router, http.MethodGet, "/api/employees/emp-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	got := decode[api.EmployeeDTO](t, rec)
	if got.ID != "emp-1" || got.HourlyRate != "100" {
		t.Errorf("unexpected employee %+v", got)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/employees", nil)
	list := decode[[]api.EmployeeDTO](t, rec)
	if len(list) != 1 {
		t.Errorf("expected 1 employee, got %d", len(list))
	}
}

func TestEmployeeEndpoints_Failures(t *testing.T) {
	// GIVEN: A server with one employee
	// WHEN: Creating a duplicate, a bad rate, and getting a missing ID
	// THEN: 409, 400, and 404 respectively

	_, router := newTestServer(t)
	createEmployee(t, router, "emp-1", "100")

	rec := doJSON(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Dup", HourlyRate: "100",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		Name: "Bad Rate", HourlyRate: "lots",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad rate: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/employees/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: expected 404, got %d", rec.Code)
	}
}

// =============================================================================
// SHIFT ENDPOINT TESTS
// =============================================================================

func TestShiftEndpoints_CreateAndValidate(t *testing.T) {
	// GIVEN: An employee
	// WHEN: Recording a valid shift and a reversed one
	// THEN: 201 then 400; the reversed interval never reaches storage

	_, router := newTestServer(t)
	createEmployee(t, router, "emp-1", "100")
	createShift(t, router, "emp-1", "2025-03-03T09:00:00+08:00", "2025-03-03T17:00:00+08:00")

	rec := doJSON(t, router, http.MethodPost, "/api/employees/emp-1/shifts", api.CreateShiftRequest{
		ScheduledStart: "2025-03-04T17:00:00+08:00",
		ScheduledEnd:   "2025-03-04T09:00:00+08:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reversed shift: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet,
		"/api/employees/emp-1/shifts?from=2025-03-01T00:00:00%2B08:00&to=2025-03-16T00:00:00%2B08:00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d: %s", rec.Code, rec.Body.String())
	}
	shifts := decode[[]api.ShiftDTO](t, rec)
	if len(shifts) != 1 {
		t.Errorf("expected 1 stored shift, got %d", len(shifts))
	}
}

func TestShiftEndpoints_UnknownEmployee(t *testing.T) {
	// GIVEN: No employees
	// WHEN: Recording a shift
	// THEN: 404

	_, router := newTestServer(t)
	rec := doJSON(t, router, http.MethodPost, "/api/employees/ghost/shifts", api.CreateShiftRequest{
		ScheduledStart: "2025-03-03T09:00:00+08:00",
		ScheduledEnd:   "2025-03-03T17:00:00+08:00",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// =============================================================================
// HOLIDAY ENDPOINT TESTS
// =============================================================================

func TestHolidayEndpoints_SeedDefaultsIdempotent(t *testing.T) {
	// GIVEN: A fresh server
	// WHEN: Seeding the 2025 national calendar twice
	// THEN: 12 added the first time, 0 the second; listing shows 12

	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/holidays/defaults?year=2025", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed: status %d", rec.Code)
	}
	first := decode[map[string]int](t, rec)
	if first["added"] != 12 {
		t.Errorf("expected 12 added, got %d", first["added"])
	}

	rec = doJSON(t, router, http.MethodPost, "/api/holidays/defaults?year=2025", nil)
	second := decode[map[string]int](t, rec)
	if second["added"] != 0 {
		t.Errorf("expected 0 added on reseed, got %d", second["added"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/holidays?year=2025", nil)
	holidays := decode[[]api.HolidayDTO](t, rec)
	if len(holidays) != 12 {
		t.Errorf("expected 12 holidays, got %d", len(holidays))
	}
}

func TestHolidayEndpoints_CreateRejectsBadTier(t *testing.T) {
	// GIVEN: A fresh server
	// WHEN: Creating a holiday with an unknown tier
	// THEN: 400

	_, router := newTestServer(t)
	rec := doJSON(t, router, http.MethodPost, "/api/holidays", api.CreateHolidayRequest{
		Date: "2025-05-01", Name: "Labor Day", Tier: "super",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// =============================================================================
// BRACKET ENDPOINT TESTS
// =============================================================================

func TestBracketEndpoints_PresetFallbackAndReplace(t *testing.T) {
	// GIVEN: A store with no bracket rows
	// WHEN: Reading the tax table, then replacing it, then re-reading
	// THEN: Source flips from preset to store

	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/brackets/tax", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	got := decode[map[string]json.RawMessage](t, rec)
	if string(got["source"]) != `"preset"` {
		t.Errorf("expected preset source, got %s", got["source"])
	}

	rec = doJSON(t, router, http.MethodPut, "/api/brackets/tax", map[string]any{
		"brackets": []map[string]any{
			{"min_salary": "0", "max_salary": "500000", "rate": "0", "active": true},
			{"min_salary": "500000", "rate": "10", "active": true},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/brackets/tax", nil)
	got = decode[map[string]json.RawMessage](t, rec)
	if string(got["source"]) != `"store"` {
		t.Errorf("expected store source after replace, got %s", got["source"])
	}
}

func TestBracketEndpoints_InvalidTableRejected(t *testing.T) {
	// GIVEN: A gapped tax table
	// WHEN: Uploading it
	// THEN: 400; nothing is stored

	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPut, "/api/brackets/tax", map[string]any{
		"brackets": []map[string]any{
			{"min_salary": "0", "max_salary": "250000", "rate": "0", "active": true},
			{"min_salary": "300000", "rate": "15", "active": true},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/brackets/tax", nil)
	got := decode[map[string]json.RawMessage](t, rec)
	if string(got["source"]) != `"preset"` {
		t.Errorf("invalid upload should leave the preset in place, got %s", got["source"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/brackets/medicare", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type: expected 400, got %d", rec.Code)
	}
}

// =============================================================================
// SCENARIO ENDPOINT TESTS
// =============================================================================

func TestScenarioEndpoints_LoadAndTrack(t *testing.T) {
	// GIVEN: A fresh server
	// WHEN: Loading the night-shift scenario
	// THEN: The store holds its employee and the current scenario is
	//       tracked; an unknown scenario is 404

	_, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ID: "night-shift-crew"})
	if rec.Code != http.StatusOK {
		t.Fatalf("load: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/employees", nil)
	employees := decode[[]api.EmployeeDTO](t, rec)
	if len(employees) != 1 || employees[0].ID != "emp-cora" {
		t.Errorf("expected the scenario employee, got %+v", employees)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/current", nil)
	current := decode[map[string]any](t, rec)
	if current["id"] != "night-shift-crew" {
		t.Errorf("current scenario not tracked: %+v", current)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ID: "nope"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown scenario: expected 404, got %d", rec.Code)
	}
}
