// Package slot implements the availability engine for charging sessions:
// given the intervals already booked on a session for one date, it computes
// the grid-aligned start times a new reservation of a given duration can use,
// and decides whether a specific requested interval conflicts.
//
// All intervals are half-open [start, end) in minutes from midnight, so a
// reservation ending exactly when another begins is not a conflict.
package slot

import "evcharge/backend/services/reservations-service/internal/schedule"

// Interval is an occupied span of a session's day, half-open.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Conflicts reports whether the candidate intersects any existing interval.
func Conflicts(existing []Interval, candidate Interval) bool {
	for _, occupied := range existing {
		if Overlaps(occupied, candidate) {
			return true
		}
	}
	return false
}

// ValidDuration reports whether d is a positive multiple of the granularity.
func ValidDuration(d, granularity int) bool {
	if granularity <= 0 {
		return false
	}
	return d > 0 && d%granularity == 0
}

// Candidates returns, earliest first, every grid start time at which a
// reservation of durationMin fits inside the window without touching any
// existing interval. The grid is fixed to the window, never repacked around
// bookings. An empty result means no availability and is not an error.
func Candidates(existing []Interval, durationMin int, w schedule.Window, granularity int) []int {
	starts := w.GridStarts(granularity)
	candidates := make([]int, 0, len(starts))
	for _, start := range starts {
		end := start + durationMin
		if end > w.Close {
			continue
		}
		if Conflicts(existing, Interval{Start: start, End: end}) {
			continue
		}
		candidates = append(candidates, start)
	}
	return candidates
}
