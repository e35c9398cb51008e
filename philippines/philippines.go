/*
Package philippines provides the Philippine statutory presets for the
payroll engine.

PURPOSE:
  Concrete configuration for the jurisdiction the engine was built
  around: the DOLE holiday/rest-day pay matrix, the 22:00-06:00 night
  differential window, and the SSS / PhilHealth / Pag-IBIG / withholding
  tax bracket tables. The engine packages stay jurisdiction-agnostic;
  everything country-specific lives here as data.

RATE MATRIX (multiplier of the hourly rate):

  Tier                 Not worked  Worked  Worked on rest day
  regular                  1.0      2.0         2.6
  special_non_working      0        1.3         1.5
  special_working          1.0      1.0         1.3
  normal                   0        1.0         1.3

NIGHT DIFFERENTIAL:
  10% premium for hours worked between 22:00 and 06:00, layered on top
  of whatever holiday/rest-day multiplier already applies.

SEE ALSO:
  - contributions.go: Statutory contribution bracket tables
  - holidays.go: National holiday seed data
  - engine/: The jurisdiction-agnostic computation
*/
package philippines

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
)

// d parses a decimal literal; preset values are compile-time constants
// so a parse failure is a programming error.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Location returns the Philippine reference timezone. The Philippines
// observes no daylight saving, so a fixed UTC+8 zone is exact and does
// not depend on the host's tzdata.
func Location() *time.Location {
	if loc, err := time.LoadLocation("Asia/Manila"); err == nil {
		return loc
	}
	return time.FixedZone("PST-PH", 8*60*60)
}

// RateMatrix returns the DOLE holiday/rest-day multiplier matrix.
func RateMatrix() engine.RateMatrix {
	return engine.RateMatrix{
		engine.TierRegular: {
			NotWorked:     d("1.0"),
			Worked:        d("2.0"),
			WorkedRestDay: d("2.6"),
		},
		engine.TierSpecialNonWorking: {
			NotWorked:     d("0"),
			Worked:        d("1.3"),
			WorkedRestDay: d("1.5"),
		},
		engine.TierSpecialWorking: {
			NotWorked:     d("1.0"),
			Worked:        d("1.0"),
			WorkedRestDay: d("1.3"),
		},
		engine.TierNormal: {
			NotWorked:     d("0"),
			Worked:        d("1.0"),
			WorkedRestDay: d("1.3"),
		},
	}
}

// Config returns the full engine configuration for Philippine payroll:
// Manila time, the DOLE matrix, the statutory night window, a 10%
// night premium, and Sunday as the default rest day.
func Config() engine.Config {
	return engine.Config{
		Location:       Location(),
		Rates:          RateMatrix(),
		NightWindow:    engine.NightWindow{StartHour: 22, EndHour: 6},
		NightDiffRate:  d("0.10"),
		RestDayWeekday: time.Sunday,
	}
}
