/*
calc.go - Rate matrix application and pay categorization

PURPOSE:
  The top of the computation pipeline. For each shift: validate, split
  at midnights, measure night-window overlap; then aggregate per date
  and price each day against the injected rate matrix.

RATE MATRIX:
  Multipliers of the hourly rate per holiday tier (see the jurisdiction
  preset packages for concrete values). Per day the Worked multiplier
  applies, overridden by the WorkedRestDay multiplier when the date is
  the employee's rest day.

CATEGORIZATION:
  regularPay = hours x hourlyRate x multiplier. The straight amount
  (hours x hourlyRate) is booked to BasicPay; the excess above it goes
  to HolidayPay for holiday tiers, to RestDayPay for a worked rest day
  on a normal date, and nowhere otherwise (multiplier 1.0).

NIGHT PREMIUM:
  nightDiffPay = nightHours x hourlyRate x multiplier x NightDiffRate.
  The premium compounds with whatever multiplier already applies to the
  day; it is not a flat fraction of the base rate.

ROUNDING:
  Components accumulate unrounded, are rounded to 2 decimals once at
  the end, and TotalGross is the exact sum of the rounded components.
  Identical inputs therefore always produce bit-identical output.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes pay breakdowns against a fixed rate configuration.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator, filling configuration defaults:
// UTC location, the statutory 22:00-06:00 night window, and Sunday as
// the rest day.
func NewCalculator(cfg Config) *Calculator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.NightWindow == (NightWindow{}) {
		cfg.NightWindow = DefaultNightWindow
	}
	return &Calculator{cfg: cfg}
}

// Compute turns the input's shifts into a categorized pay breakdown.
// Malformed shifts are skipped and listed in the result; they never
// abort the computation of the remaining shifts.
func (c *Calculator) Compute(in Input) (*PayResult, error) {
	if _, ok := c.cfg.Rates[TierNormal]; !ok {
		return nil, ErrBadRateConfig
	}
	if in.HourlyRate.IsNegative() {
		return nil, ErrBadRateConfig
	}

	loc := c.cfg.Location
	cal := NewHolidayCalendar(in.Holidays, loc)
	rest := RestDayRule{Weekday: c.cfg.RestDayWeekday}
	if in.RestDayWeekday != nil {
		rest.Weekday = *in.RestDayWeekday
	}

	result := &PayResult{}

	var segments []Segment
	for _, shift := range in.Shifts {
		if err := ValidateShift(shift); err != nil {
			result.Skipped = append(result.Skipped, SkippedShift{ShiftID: shift.ID, Err: err})
			continue
		}
		start, end := shift.EffectiveInterval()
		segments = append(segments, SplitAtMidnights(start, end, loc)...)
	}

	result.Days = AggregateDaily(segments, c.cfg.NightWindow, cal, rest, loc)

	var basic, holiday, restPay, nightDiff decimal.Decimal
	for _, day := range result.Days {
		mult := c.multiplierFor(day)

		straight := day.Hours.Mul(in.HourlyRate)
		regular := straight.Mul(mult)

		switch {
		case day.Tier != TierNormal:
			basic = basic.Add(straight)
			holiday = holiday.Add(regular.Sub(straight))
		case day.RestDay:
			basic = basic.Add(straight)
			restPay = restPay.Add(regular.Sub(straight))
		default:
			basic = basic.Add(regular)
		}

		premium := day.NightHours.Mul(in.HourlyRate).Mul(mult).Mul(c.cfg.NightDiffRate)
		nightDiff = nightDiff.Add(premium)
	}

	result.BasicPay = basic.Round(2)
	result.HolidayPay = holiday.Round(2)
	result.RestDayPay = restPay.Round(2)
	result.NightDiffPay = nightDiff.Round(2)
	result.TotalGross = result.BasicPay.
		Add(result.HolidayPay).
		Add(result.RestDayPay).
		Add(result.NightDiffPay)

	return result, nil
}

// multiplierFor picks the day's multiplier: the tier's Worked rate,
// overridden by the WorkedRestDay rate on the employee's rest day.
// Tiers missing from the matrix fall back to the normal-tier row.
func (c *Calculator) multiplierFor(day DailySegment) decimal.Decimal {
	row, ok := c.cfg.Rates[day.Tier]
	if !ok {
		row = c.cfg.Rates[TierNormal]
	}
	if day.RestDay {
		return row.WorkedRestDay
	}
	return row.Worked
}

// =============================================================================
// MONTHLY BASIC ESTIMATE
// =============================================================================

// EstimateMonthlyBasic derives the monthly basic salary the deduction
// engine consumes from one period's result. Periods shorter than a
// month are scaled by the period count per month (2 for semi-monthly).
func EstimateMonthlyBasic(result *PayResult, periodsPerMonth int) decimal.Decimal {
	if periodsPerMonth <= 0 {
		periodsPerMonth = 1
	}
	return result.BasicPay.Mul(decimal.NewFromInt(int64(periodsPerMonth)))
}
