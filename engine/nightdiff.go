/*
nightdiff.go - Night-differential overlap arithmetic

PURPOSE:
  Computes how many hours of a day-bounded segment fall inside the
  night-premium window (22:00 up to, not including, 06:00 by default).
  The window wraps across midnight, so within any single calendar day it
  appears as two half-open intervals: [00:00, 06:00) and [22:00, 24:00).

WHY INTERVAL OVERLAP:
  Overlap is computed with direct half-open interval intersection, not
  by stepping clock hours and mutating date objects. Hour-stepping
  miscounts partial boundary hours when shifts start off the hour
  (e.g. 21:45); interval arithmetic is exact to the second.

CONTRACT:
  Input segments are already bounded to one calendar day (see
  segment.go). The result is always within [0, segment duration] and is
  monotonic in interval length for intervals inside the window.

SEE ALSO:
  - segment.go: Produces the day-bounded segments
  - calc.go: Applies the premium rate to the overlap hours
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// NIGHT WINDOW
// =============================================================================

// NightWindow is a daily clock window [StartHour:00, EndHour:00).
// StartHour > EndHour means the window wraps across midnight.
type NightWindow struct {
	StartHour int
	EndHour   int
}

// DefaultNightWindow is the statutory 22:00-06:00 premium window.
var DefaultNightWindow = NightWindow{StartHour: 22, EndHour: 6}

// Wraps reports whether the window crosses midnight.
func (w NightWindow) Wraps() bool { return w.StartHour > w.EndHour }

// intervalsOn returns the window's half-open interval(s) intersecting
// the given calendar day.
func (w NightWindow) intervalsOn(date Date, loc *time.Location) []interval {
	dayStart := date.StartOfDay(loc)
	at := func(hour int) time.Time {
		return time.Date(date.Year, date.Month, date.Day, hour, 0, 0, 0, loc)
	}
	nextMidnight := time.Date(date.Year, date.Month, date.Day+1, 0, 0, 0, 0, loc)

	if !w.Wraps() {
		return []interval{{at(w.StartHour), at(w.EndHour)}}
	}

	// Wrapping window: the morning tail and the evening head of the day.
	return []interval{
		{dayStart, at(w.EndHour)},
		{at(w.StartHour), nextMidnight},
	}
}

// OverlapHours returns the fractional hours of the segment inside the
// night window, computed by half-open interval intersection.
func (w NightWindow) OverlapHours(seg Segment, loc *time.Location) decimal.Decimal {
	total := time.Duration(0)
	for _, iv := range w.intervalsOn(seg.Date, loc) {
		total += overlap(interval{seg.Start, seg.End}, iv)
	}
	return hoursOf(total)
}

// =============================================================================
// INTERVAL HELPERS
// =============================================================================

// interval is a half-open time interval [Start, End).
type interval struct {
	Start time.Time
	End   time.Time
}

// overlap returns the duration shared by two half-open intervals.
func overlap(a, b interval) time.Duration {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// hoursOf converts a duration to decimal hours at second precision.
func hoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}
