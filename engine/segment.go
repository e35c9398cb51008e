/*
segment.go - Midnight-boundary shift segmentation

PURPOSE:
  Splits a shift spanning multiple calendar days into day-bounded
  segments so that each day can be classified (holiday tier, rest day)
  and priced independently. A graveyard shift 22:00-06:00 becomes two
  segments on two dates, each carrying its own multiplier.

INVARIANTS:
  - Each segment is wholly contained in one calendar day
  - Segment.Date is the date of Segment.Start
  - Segments are ordered and partition [start, end) exactly:
    concatenated durations always equal the shift duration

Boundaries are computed with time.Date in the reference location rather
than by adding 24h, so DST transitions cannot drift the midnight cut.
*/
package engine

import "time"

// SplitAtMidnights partitions [start, end) at local midnight boundaries
// in the given location. A shift entirely within one day returns exactly
// one segment identical to the input interval.
func SplitAtMidnights(start, end time.Time, loc *time.Location) []Segment {
	var segments []Segment

	cur := start.In(loc)
	end = end.In(loc)

	for cur.Before(end) {
		date := DateOf(cur, loc)
		nextMidnight := time.Date(date.Year, date.Month, date.Day+1, 0, 0, 0, 0, loc)

		segEnd := end
		if nextMidnight.Before(end) {
			segEnd = nextMidnight
		}

		segments = append(segments, Segment{Start: cur, End: segEnd, Date: date})
		cur = segEnd
	}

	return segments
}
