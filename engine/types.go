/*
Package engine provides the core payroll computation engine.

PURPOSE:
  This package contains jurisdiction-agnostic types and algorithms for
  turning raw shift records into an exact wage breakdown. Holiday tiers,
  premium multipliers, and the night-differential window are injected
  configuration, so the same engine computes pay for alternate years or
  jurisdictions without code changes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: Raw scheduled/actual work interval (read-only input)
  - Holiday: A calendar date with a pay tier (read-only input)
  - DailySegment: One calendar day's aggregated hours (derived, ephemeral)
  - PayResult: The categorized, cent-rounded pay breakdown
  - Config / RateMatrix: Injected rate configuration

DESIGN PRINCIPLES:
  1. Purity: Compute is a pure function of its inputs. No I/O, no logging,
     no shared mutable state. Safe for concurrent use.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors.
     All money is rounded to 2 decimals exactly once, at the end.
  3. Containment: A malformed shift is skipped and reported in the result;
     it never aborts the rest of the computation.

USAGE:
  calc := engine.NewCalculator(philippines.Config())
  result, err := calc.Compute(engine.Input{
      Shifts:     shifts,
      HourlyRate: decimal.NewFromInt(100),
      Holidays:   holidays,
  })

SEE ALSO:
  - calc.go: Rate matrix application and pay categorization
  - segment.go: Midnight-boundary segmentation
  - nightdiff.go: Night-differential overlap arithmetic
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOLIDAY TIER
// =============================================================================

// HolidayTier classifies a calendar date for premium pay purposes.
type HolidayTier string

const (
	// TierNormal is an ordinary working day (no holiday record).
	TierNormal HolidayTier = "normal"

	// TierRegular is a regular holiday: paid even when not worked,
	// double pay when worked.
	TierRegular HolidayTier = "regular"

	// TierSpecialNonWorking is a special non-working day: no pay when
	// not worked, 130% when worked.
	TierSpecialNonWorking HolidayTier = "special_non_working"

	// TierSpecialWorking is a special working day: treated as an
	// ordinary working day for pay purposes.
	TierSpecialWorking HolidayTier = "special_working"
)

// =============================================================================
// INPUT RECORDS
// =============================================================================

// Shift is a single scheduled work interval, possibly with clocked
// actual times. When BOTH actual values are present they are used
// exclusively; otherwise the scheduled pair is used. Actual and
// scheduled times are never mixed.
type Shift struct {
	ID         string
	EmployeeID string
	BranchID   string

	ScheduledStart time.Time
	ScheduledEnd   time.Time

	ActualStart *time.Time
	ActualEnd   *time.Time
}

// EffectiveInterval resolves the interval the engine should compute on.
func (s Shift) EffectiveInterval() (start, end time.Time) {
	if s.ActualStart != nil && s.ActualEnd != nil {
		return *s.ActualStart, *s.ActualEnd
	}
	return s.ScheduledStart, s.ScheduledEnd
}

// Holiday is a calendar date carrying a pay tier.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
	Tier HolidayTier
	Year int
}

// =============================================================================
// DATE - Calendar-day key in the reference timezone
// =============================================================================

// Date identifies one calendar day. It is the grouping key for daily
// aggregation and holiday lookup; using a struct key avoids timezone
// ambiguity that time.Time map keys would carry.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of an instant in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	local := t.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// StartOfDay returns midnight of the date in the given location.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week for this date.
func (d Date) Weekday(loc *time.Location) time.Weekday {
	return d.StartOfDay(loc).Weekday()
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return d.StartOfDay(time.UTC).Format("2006-01-02")
}

// =============================================================================
// DERIVED RECORDS
// =============================================================================

// Segment is one day-bounded slice of a shift. Segments never cross a
// calendar midnight; the segments of a shift always partition its
// interval exactly.
type Segment struct {
	Start time.Time
	End   time.Time
	Date  Date
}

// Duration returns the segment length.
func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

// DailySegment is the per-calendar-day aggregation of all segments of
// all shifts. NightHours is a subset of Hours, not additive.
type DailySegment struct {
	Date       Date
	Hours      decimal.Decimal
	NightHours decimal.Decimal
	Tier       HolidayTier
	RestDay    bool
}

// =============================================================================
// RESULT
// =============================================================================

// PayResult is the categorized pay breakdown for a set of shifts.
// All money fields are rounded to 2 decimals; TotalGross is the exact
// sum of the four rounded components.
type PayResult struct {
	BasicPay     decimal.Decimal
	HolidayPay   decimal.Decimal
	NightDiffPay decimal.Decimal
	RestDayPay   decimal.Decimal
	TotalGross   decimal.Decimal

	// Days lists the aggregated daily segments the breakdown was
	// computed from, ordered by date.
	Days []DailySegment

	// Skipped lists shifts rejected by validation. A skipped shift
	// never aborts the computation of the remaining shifts.
	Skipped []SkippedShift
}

// SkippedShift records a shift that failed validation and the reason.
type SkippedShift struct {
	ShiftID string
	Err     error
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// RateRow holds the pay multipliers for one holiday tier.
type RateRow struct {
	// NotWorked is the statutory pay multiplier for an unworked day of
	// the tier (1.0 on a regular holiday). The calculator prices worked
	// shifts only, so this column is carried through configuration for
	// a future unworked-holiday pay pass but is not read today.
	NotWorked     decimal.Decimal
	Worked        decimal.Decimal
	WorkedRestDay decimal.Decimal
}

// RateMatrix maps a holiday tier to its multiplier row. Tiers missing
// from the matrix fall back to the TierNormal row.
type RateMatrix map[HolidayTier]RateRow

// Config is the injected rate configuration for a Calculator.
type Config struct {
	// Location is the reference timezone for midnight boundaries,
	// holiday dates, and weekday classification.
	Location *time.Location

	// Rates is the holiday/rest-day multiplier matrix.
	Rates RateMatrix

	// NightWindow is the clock window earning the night premium.
	NightWindow NightWindow

	// NightDiffRate is the premium fraction layered on top of the
	// applied multiplier (e.g. 0.10 for a 10% premium).
	NightDiffRate decimal.Decimal

	// RestDayWeekday is the default weekly rest day. Inputs may
	// override it per employee.
	RestDayWeekday time.Weekday
}

// Input is one payroll computation request: an employee's shifts for a
// period plus the calendar data the period needs.
type Input struct {
	Shifts     []Shift
	HourlyRate decimal.Decimal
	Holidays   []Holiday

	// RestDayWeekday overrides Config.RestDayWeekday when non-nil.
	RestDayWeekday *time.Weekday
}
