package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultGranularity is the step between adjacent bookable start times.
const DefaultGranularity = 30

var (
	// ErrMalformedClock indicates text that is not HH:MM.
	ErrMalformedClock = errors.New("schedule: time must be HH:MM")
	// ErrOutsideWindow indicates a time outside the operating hours.
	ErrOutsideWindow = errors.New("schedule: time outside operating hours")
)

// Window is the daily operating window in minutes from midnight,
// half-open [Open, Close).
type Window struct {
	Open  int
	Close int
}

// DefaultWindow covers 09:00-22:00.
var DefaultWindow = Window{Open: 9 * 60, Close: 22 * 60}

// ParseClock converts "HH:MM" into minutes from midnight, accepting only
// times inside the window that sit on the grid of the given granularity.
// The close minute itself is valid because reservations end there.
func (w Window) ParseClock(s string, granularity int) (int, error) {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ErrMalformedClock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrMalformedClock
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrMalformedClock
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrMalformedClock
	}

	total := hour*60 + minute
	if total < w.Open || total > w.Close {
		return 0, ErrOutsideWindow
	}
	if (total-w.Open)%granularity != 0 {
		return 0, ErrOutsideWindow
	}
	return total, nil
}

// FormatClock renders minutes from midnight as zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GridStarts returns every candidate start minute of the window at the given
// granularity, from Open up to the last step strictly before Close.
func (w Window) GridStarts(granularity int) []int {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	var starts []int
	for t := w.Open; t < w.Close; t += granularity {
		starts = append(starts, t)
	}
	return starts
}

// Contains reports whether the half-open interval [start, end) fits fully
// inside the window.
func (w Window) Contains(start, end int) bool {
	return start >= w.Open && end <= w.Close
}
