/*
holidays.go - Philippine national holiday seed data

PURPOSE:
  Generates the fixed-date national holidays for a year. Movable
  holidays (Maundy Thursday, Good Friday, Eid'l Fitr, Eid'l Adha, and
  the Chinese New Year) are proclaimed annually and must be supplied by
  the caller; the engine only ever does exact date lookups, so extra
  records are simply appended.

National Heroes Day is the last Monday of August and is computed.
*/
package philippines

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/engine"
)

type fixedHoliday struct {
	month time.Month
	day   int
	name  string
	tier  engine.HolidayTier
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "New Year's Day", engine.TierRegular},
	{time.April, 9, "Araw ng Kagitingan", engine.TierRegular},
	{time.May, 1, "Labor Day", engine.TierRegular},
	{time.June, 12, "Independence Day", engine.TierRegular},
	{time.November, 30, "Bonifacio Day", engine.TierRegular},
	{time.December, 25, "Christmas Day", engine.TierRegular},
	{time.December, 30, "Rizal Day", engine.TierRegular},

	{time.August, 21, "Ninoy Aquino Day", engine.TierSpecialNonWorking},
	{time.November, 1, "All Saints' Day", engine.TierSpecialNonWorking},
	{time.December, 8, "Feast of the Immaculate Conception", engine.TierSpecialNonWorking},
	{time.December, 31, "Last Day of the Year", engine.TierSpecialNonWorking},
}

// NationalHolidays returns the fixed-date national holidays of a year,
// plus the computed National Heroes Day, in Manila time.
func NationalHolidays(year int) []engine.Holiday {
	loc := Location()
	holidays := make([]engine.Holiday, 0, len(fixedHolidays)+1)

	for _, fh := range fixedHolidays {
		holidays = append(holidays, engine.Holiday{
			ID:   fmt.Sprintf("ph-%d-%02d-%02d", year, fh.month, fh.day),
			Date: time.Date(year, fh.month, fh.day, 0, 0, 0, 0, loc),
			Name: fh.name,
			Tier: fh.tier,
			Year: year,
		})
	}

	heroes := nationalHeroesDay(year, loc)
	holidays = append(holidays, engine.Holiday{
		ID:   fmt.Sprintf("ph-%d-heroes", year),
		Date: heroes,
		Name: "National Heroes Day",
		Tier: engine.TierRegular,
		Year: year,
	})

	return holidays
}

// nationalHeroesDay returns the last Monday of August.
func nationalHeroesDay(year int, loc *time.Location) time.Time {
	day := time.Date(year, time.August, 31, 0, 0, 0, 0, loc)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
