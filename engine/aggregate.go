/*
aggregate.go - Daily aggregation of shift segments

PURPOSE:
  Merges all day-bounded segments from all of an employee's shifts into
  one record per calendar date, summing regular hours and
  night-differential hours. The holiday tier and rest-day flag are
  computed once per date, not per segment, so a date split across two
  shifts is still classified exactly once.

Night hours remain a subset of regular hours: they mark which portion
of the day earns the premium, they are never added on top.
*/
package engine

import (
	"sort"
	"time"
)

// AggregateDaily groups segments by calendar date, summing hours and
// night hours, then classifies each date. The result is ordered by date.
func AggregateDaily(segments []Segment, window NightWindow, cal *HolidayCalendar, rest RestDayRule, loc *time.Location) []DailySegment {
	byDate := make(map[Date]*DailySegment)

	for _, seg := range segments {
		day, ok := byDate[seg.Date]
		if !ok {
			day = &DailySegment{Date: seg.Date}
			byDate[seg.Date] = day
		}
		day.Hours = day.Hours.Add(hoursOf(seg.Duration()))
		day.NightHours = day.NightHours.Add(window.OverlapHours(seg, loc))
	}

	days := make([]DailySegment, 0, len(byDate))
	for date, day := range byDate {
		day.Tier = cal.TierFor(date)
		day.RestDay = rest.IsRestDay(date, loc)
		days = append(days, *day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}
