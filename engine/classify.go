/*
classify.go - Holiday tier and rest-day classification

PURPOSE:
  Maps calendar dates to the attributes the rate matrix needs:
  which holiday tier (if any) the date carries, and whether it is the
  employee's configured weekly rest day.

HOLIDAY LOOKUP:
  Exact year/month/day match against the supplied holiday list, built
  once into a map so per-date classification is O(1). Dates with no
  record classify as TierNormal.

REST DAY:
  A pure weekday comparison. The rest-day weekday is per-employee (or
  per-branch) configuration, defaulting to Sunday.
*/
package engine

import "time"

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers tier lookups for a fixed set of holidays.
type HolidayCalendar struct {
	byDate map[Date]HolidayTier
}

// NewHolidayCalendar indexes the holiday list by calendar date in the
// given location. Later duplicates for the same date win; callers are
// expected to supply one record per date.
func NewHolidayCalendar(holidays []Holiday, loc *time.Location) *HolidayCalendar {
	byDate := make(map[Date]HolidayTier, len(holidays))
	for _, h := range holidays {
		byDate[DateOf(h.Date, loc)] = h.Tier
	}
	return &HolidayCalendar{byDate: byDate}
}

// TierFor returns the holiday tier of the date, or TierNormal when the
// date has no holiday record.
func (c *HolidayCalendar) TierFor(date Date) HolidayTier {
	if tier, ok := c.byDate[date]; ok {
		return tier
	}
	return TierNormal
}

// =============================================================================
// REST DAY RULE
// =============================================================================

// RestDayRule classifies dates against a configured weekly rest day.
type RestDayRule struct {
	Weekday time.Weekday
}

// IsRestDay reports whether the date falls on the configured weekday.
func (r RestDayRule) IsRestDay(date Date, loc *time.Location) bool {
	return date.Weekday(loc) == r.Weekday
}
