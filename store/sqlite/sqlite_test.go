package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/deduction"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/store"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func testEmployee(id string) store.Employee {
	return store.Employee{
		ID:             id,
		Name:           "Ana Reyes",
		BranchID:       "branch-1",
		HourlyRate:     d("123.45"),
		RestDayWeekday: time.Saturday,
		CreatedAt:      utc(2025, time.January, 1, 0),
	}
}

func testEntry(id, employeeID string, periodStart, periodEnd time.Time) store.PayrollEntry {
	return store.PayrollEntry{
		ID:             id,
		EmployeeID:     employeeID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		BasicPay:       d("8000"),
		HolidayPay:     d("800"),
		NightDiffPay:   d("80.50"),
		RestDayPay:     d("0"),
		GrossPay:       d("8880.50"),
		SSS:            d("360"),
		PhilHealth:     d("250"),
		PagIbig:        d("100"),
		WithholdingTax: d("0"),
		NetPay:         d("8170.50"),
		CreatedAt:      utc(2025, time.March, 16, 8),
	}
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestEmployee_RoundTrip(t *testing.T) {
	// GIVEN: An employee with a fractional rate and a custom rest day
	// WHEN: Creating then reading back
	// THEN: Every field survives, the rate to the exact cent

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateEmployee(ctx, testEmployee("emp-1")); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ana Reyes" || got.BranchID != "branch-1" {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.HourlyRate.Equal(d("123.45")) {
		t.Errorf("rate changed in round trip: %s", got.HourlyRate)
	}
	if got.RestDayWeekday != time.Saturday {
		t.Errorf("rest day changed: %v", got.RestDayWeekday)
	}
}

func TestEmployee_NotFoundAndDuplicate(t *testing.T) {
	// GIVEN: A store with one employee
	// WHEN: Getting a missing ID and re-creating the same ID
	// THEN: ErrNotFound and ErrDuplicateID respectively

	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetEmployee(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.CreateEmployee(ctx, testEmployee("emp-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateEmployee(ctx, testEmployee("emp-1")); !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

// =============================================================================
// SHIFT TESTS
// =============================================================================

func TestShifts_PeriodFilterAndActualTimes(t *testing.T) {
	// GIVEN: Shifts inside and outside a period, one with actual times
	// WHEN: Listing [Mar 1, Mar 16)
	// THEN: Only the in-period shifts return, ordered, with the actual
	//       pair intact

	s := newTestStore(t)
	ctx := context.Background()

	actualStart := utc(2025, time.March, 5, 9)
	actualEnd := utc(2025, time.March, 5, 18)
	inPeriod := engine.Shift{
		ID: "s-in", EmployeeID: "emp-1",
		ScheduledStart: utc(2025, time.March, 5, 9), ScheduledEnd: utc(2025, time.March, 5, 17),
		ActualStart: &actualStart, ActualEnd: &actualEnd,
	}
	early := engine.Shift{
		ID: "s-early", EmployeeID: "emp-1",
		ScheduledStart: utc(2025, time.February, 20, 9), ScheduledEnd: utc(2025, time.February, 20, 17),
	}
	otherEmployee := engine.Shift{
		ID: "s-other", EmployeeID: "emp-2",
		ScheduledStart: utc(2025, time.March, 5, 9), ScheduledEnd: utc(2025, time.March, 5, 17),
	}

	for _, sh := range []engine.Shift{inPeriod, early, otherEmployee} {
		if err := s.CreateShift(ctx, sh); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListShifts(ctx, "emp-1", utc(2025, time.March, 1, 0), utc(2025, time.March, 16, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "s-in" {
		t.Fatalf("expected only s-in, got %+v", got)
	}
	if got[0].ActualStart == nil || !got[0].ActualStart.Equal(actualStart) {
		t.Errorf("actual start lost in round trip: %v", got[0].ActualStart)
	}
	if got[0].ActualEnd == nil || !got[0].ActualEnd.Equal(actualEnd) {
		t.Errorf("actual end lost in round trip: %v", got[0].ActualEnd)
	}
}

func TestShifts_MixedOffsetsFilterByInstant(t *testing.T) {
	// GIVEN: Shifts written with a +08:00 wall clock and a UTC one
	// WHEN: Listing a period given in a third representation
	// THEN: Filtering follows the instants, not the offset text

	s := newTestStore(t)
	ctx := context.Background()

	manila := time.FixedZone("PST-PH", 8*60*60)
	local := engine.Shift{
		ID: "s-local", EmployeeID: "emp-1",
		// 2025-03-05 09:00 +08:00 = 2025-03-05 01:00 UTC
		ScheduledStart: time.Date(2025, time.March, 5, 9, 0, 0, 0, manila),
		ScheduledEnd:   time.Date(2025, time.March, 5, 17, 0, 0, 0, manila),
	}
	zulu := engine.Shift{
		ID: "s-zulu", EmployeeID: "emp-1",
		// 2025-03-20 01:00 UTC sits past the March 16 cutoff
		ScheduledStart: utc(2025, time.March, 20, 1),
		ScheduledEnd:   utc(2025, time.March, 20, 9),
	}
	for _, sh := range []engine.Shift{local, zulu} {
		if err := s.CreateShift(ctx, sh); err != nil {
			t.Fatal(err)
		}
	}

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, manila)
	to := time.Date(2025, time.March, 16, 0, 0, 0, 0, manila)
	got, err := s.ListShifts(ctx, "emp-1", from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "s-local" {
		t.Fatalf("expected only s-local in [Mar 1, Mar 16), got %+v", got)
	}
	if !got[0].ScheduledStart.Equal(local.ScheduledStart) {
		t.Errorf("instant changed in round trip: %v", got[0].ScheduledStart)
	}

	// The same period expressed in UTC selects the same rows.
	got, err = s.ListShifts(ctx, "emp-1", from.UTC(), to.UTC())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "s-local" {
		t.Errorf("UTC-expressed period mis-ranged: %+v", got)
	}
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestHolidays_YearScopedWithDelete(t *testing.T) {
	// GIVEN: Holidays in two years
	// WHEN: Listing 2025 and deleting one
	// THEN: Year filter applies; deleting a missing ID is ErrNotFound

	s := newTestStore(t)
	ctx := context.Background()

	for _, h := range []engine.Holiday{
		{ID: "h-2025", Date: utc(2025, time.December, 25, 0), Name: "Christmas Day", Tier: engine.TierRegular, Year: 2025},
		{ID: "h-2026", Date: utc(2026, time.December, 25, 0), Name: "Christmas Day", Tier: engine.TierRegular, Year: 2026},
	} {
		if err := s.CreateHoliday(ctx, h); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListHolidays(ctx, 2025)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "h-2025" {
		t.Fatalf("expected only h-2025, got %+v", got)
	}

	if err := s.DeleteHoliday(ctx, "h-2025"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteHoliday(ctx, "h-2025"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestHolidays_DuplicateDateNameRejected(t *testing.T) {
	// GIVEN: A holiday already recorded for a date and name
	// WHEN: Inserting the same date and name under a new ID
	// THEN: ErrDuplicateID from the unique index

	s := newTestStore(t)
	ctx := context.Background()

	first := engine.Holiday{ID: "h-1", Date: utc(2025, time.May, 1, 0), Name: "Labor Day", Tier: engine.TierRegular, Year: 2025}
	if err := s.CreateHoliday(ctx, first); err != nil {
		t.Fatal(err)
	}

	dup := first
	dup.ID = "h-2"
	if err := s.CreateHoliday(ctx, dup); !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

// =============================================================================
// BRACKET TESTS
// =============================================================================

func TestBrackets_ReplaceAndList(t *testing.T) {
	// GIVEN: A stored table
	// WHEN: Replacing it with a different one
	// THEN: Only the replacement remains; nil bounds survive the trip

	s := newTestStore(t)
	ctx := context.Background()

	max1 := d("1500")
	cap1 := d("100")
	original := []deduction.Bracket{
		{Type: deduction.TypePagIbig, MinSalary: d("0"), MaxSalary: &max1, Rate: d("1"), MaxContribution: &cap1, Active: true},
		{Type: deduction.TypePagIbig, MinSalary: d("1500.01"), Rate: d("2"), MaxContribution: &cap1, Active: true},
	}
	if err := s.ReplaceBrackets(ctx, deduction.TypePagIbig, original); err != nil {
		t.Fatal(err)
	}

	replacement := []deduction.Bracket{
		{Type: deduction.TypePagIbig, MinSalary: d("0"), Rate: d("3"), Active: true},
	}
	if err := s.ReplaceBrackets(ctx, deduction.TypePagIbig, replacement); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListBrackets(ctx, deduction.TypePagIbig)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bracket after replace, got %d", len(got))
	}
	if got[0].MaxSalary != nil || got[0].MaxContribution != nil {
		t.Errorf("nil bounds did not survive: %+v", got[0])
	}
	if !got[0].Rate.Equal(d("3")) {
		t.Errorf("rate changed: %s", got[0].Rate)
	}
}

func TestBrackets_TypesAreIsolated(t *testing.T) {
	// GIVEN: Tables stored for two types
	// WHEN: Replacing one type
	// THEN: The other type's table is untouched

	s := newTestStore(t)
	ctx := context.Background()

	sss := []deduction.Bracket{{Type: deduction.TypeSSS, MinSalary: d("0"), EmployeeContribution: d("360"), Active: true}}
	tax := []deduction.Bracket{{Type: deduction.TypeTax, MinSalary: d("0"), Rate: d("0"), Active: true}}

	if err := s.ReplaceBrackets(ctx, deduction.TypeSSS, sss); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceBrackets(ctx, deduction.TypeTax, tax); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceBrackets(ctx, deduction.TypeSSS, nil); err != nil {
		t.Fatal(err)
	}

	gotTax, err := s.ListBrackets(ctx, deduction.TypeTax)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotTax) != 1 {
		t.Errorf("tax table disturbed by sss replace: %d rows", len(gotTax))
	}
}

// =============================================================================
// PAYROLL RUN TESTS
// =============================================================================

func TestSavePayrollRun_ReplacesPeriodAtomically(t *testing.T) {
	// GIVEN: A period saved with two entries
	// WHEN: Re-running the period with one corrected entry
	// THEN: Only the re-run's entry remains; another period's entries
	//       are untouched

	s := newTestStore(t)
	ctx := context.Background()

	p1Start, p1End := utc(2025, time.March, 1, 0), utc(2025, time.March, 16, 0)
	p2Start, p2End := utc(2025, time.March, 16, 0), utc(2025, time.April, 1, 0)

	first := []store.PayrollEntry{
		testEntry("e-1", "emp-1", p1Start, p1End),
		testEntry("e-2", "emp-2", p1Start, p1End),
	}
	if err := s.SavePayrollRun(ctx, p1Start, p1End, first); err != nil {
		t.Fatal(err)
	}
	other := []store.PayrollEntry{testEntry("e-3", "emp-1", p2Start, p2End)}
	if err := s.SavePayrollRun(ctx, p2Start, p2End, other); err != nil {
		t.Fatal(err)
	}

	rerun := testEntry("e-4", "emp-1", p1Start, p1End)
	rerun.GrossPay = d("9000.25")
	if err := s.SavePayrollRun(ctx, p1Start, p1End, []store.PayrollEntry{rerun}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEntries(ctx, p1Start, p1End)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "e-4" {
		t.Fatalf("expected only the re-run entry, got %+v", got)
	}
	if !got[0].GrossPay.Equal(d("9000.25")) {
		t.Errorf("gross changed in round trip: %s", got[0].GrossPay)
	}

	untouched, err := s.ListEntries(ctx, p2Start, p2End)
	if err != nil {
		t.Fatal(err)
	}
	if len(untouched) != 1 || untouched[0].ID != "e-3" {
		t.Errorf("other period disturbed: %+v", untouched)
	}
}

func TestSavePayrollRun_FailureRollsBackWholeBatch(t *testing.T) {
	// GIVEN: A batch whose second entry violates the per-period unique
	//        constraint
	// WHEN: Saving
	// THEN: The save fails and the period's previous entries are intact

	s := newTestStore(t)
	ctx := context.Background()

	pStart, pEnd := utc(2025, time.March, 1, 0), utc(2025, time.March, 16, 0)
	if err := s.SavePayrollRun(ctx, pStart, pEnd, []store.PayrollEntry{
		testEntry("e-1", "emp-1", pStart, pEnd),
	}); err != nil {
		t.Fatal(err)
	}

	bad := []store.PayrollEntry{
		testEntry("e-2", "emp-1", pStart, pEnd),
		testEntry("e-3", "emp-1", pStart, pEnd), // same employee+period as e-2
	}
	if err := s.SavePayrollRun(ctx, pStart, pEnd, bad); err == nil {
		t.Fatal("expected the batch to fail")
	}

	got, err := s.ListEntries(ctx, pStart, pEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "e-1" {
		t.Fatalf("previous run not preserved after rollback: %+v", got)
	}
}

func TestListEntries_PeriodMatchesAcrossOffsets(t *testing.T) {
	// GIVEN: A run saved with the period in Manila wall-clock time
	// WHEN: Listing the period expressed in UTC
	// THEN: The same instant finds the entries

	s := newTestStore(t)
	ctx := context.Background()

	manila := time.FixedZone("PST-PH", 8*60*60)
	pStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, manila)
	pEnd := time.Date(2025, time.March, 16, 0, 0, 0, 0, manila)

	if err := s.SavePayrollRun(ctx, pStart, pEnd, []store.PayrollEntry{
		testEntry("e-1", "emp-1", pStart, pEnd),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEntries(ctx, pStart.UTC(), pEnd.UTC())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "e-1" {
		t.Errorf("UTC-expressed period missed the run: %+v", got)
	}
}

func TestListEntriesForEmployee_OrderedByPeriod(t *testing.T) {
	// GIVEN: Two periods saved out of order for one employee
	// WHEN: Listing the employee's entries
	// THEN: Ordered by period start

	s := newTestStore(t)
	ctx := context.Background()

	p1Start, p1End := utc(2025, time.March, 1, 0), utc(2025, time.March, 16, 0)
	p2Start, p2End := utc(2025, time.March, 16, 0), utc(2025, time.April, 1, 0)

	if err := s.SavePayrollRun(ctx, p2Start, p2End, []store.PayrollEntry{testEntry("e-late", "emp-1", p2Start, p2End)}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePayrollRun(ctx, p1Start, p1End, []store.PayrollEntry{testEntry("e-early", "emp-1", p1Start, p1End)}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEntriesForEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "e-early" || got[1].ID != "e-late" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

// =============================================================================
// MAINTENANCE
// =============================================================================

func TestReset_WipesEverything(t *testing.T) {
	// GIVEN: A store with records in every table
	// WHEN: Resetting
	// THEN: All lists come back empty

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateEmployee(ctx, testEmployee("emp-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateHoliday(ctx, engine.Holiday{ID: "h-1", Date: utc(2025, time.May, 1, 0), Name: "Labor Day", Tier: engine.TierRegular, Year: 2025}); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	employees, err := s.ListEmployees(ctx)
	if err != nil {
		t.Fatal(err)
	}
	holidays, err := s.ListHolidays(ctx, 2025)
	if err != nil {
		t.Fatal(err)
	}
	if len(employees) != 0 || len(holidays) != 0 {
		t.Errorf("reset left data behind: %d employees, %d holidays", len(employees), len(holidays))
	}
}
