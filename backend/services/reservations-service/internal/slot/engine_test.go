package slot

import (
	"reflect"
	"testing"

	"evcharge/backend/services/reservations-service/internal/schedule"
)

var window = schedule.Window{Open: 9 * 60, Close: 22 * 60}

func minutes(hhmm string) int {
	m, err := window.ParseClock(hhmm, schedule.DefaultGranularity)
	if err != nil {
		panic(err)
	}
	return m
}

func clocks(starts []int) []string {
	out := make([]string, 0, len(starts))
	for _, s := range starts {
		out = append(out, schedule.FormatClock(s))
	}
	return out
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{600, 660}, Interval{600, 660}, true},
		{"partial overlap", Interval{600, 660}, Interval{630, 690}, true},
		{"contained", Interval{600, 720}, Interval{630, 660}, true},
		{"touching end to start", Interval{600, 660}, Interval{660, 720}, false},
		{"touching start to end", Interval{660, 720}, Interval{600, 660}, false},
		{"disjoint", Interval{600, 660}, Interval{720, 780}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestCandidatesEmptyCalendar(t *testing.T) {
	got := clocks(Candidates(nil, 60, window, 30))

	want := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
		"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
		"18:00", "18:30", "19:00", "19:30", "20:00", "20:30",
		"21:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
}

func TestCandidatesExcludeOverlapping(t *testing.T) {
	existing := []Interval{{minutes("10:00"), minutes("11:00")}}

	got := Candidates(existing, 60, window, 30)

	excluded := map[int]bool{minutes("09:30"): true, minutes("10:00"): true, minutes("10:30"): true}
	for _, start := range got {
		if excluded[start] {
			t.Errorf("candidate %s overlaps 10:00-11:00", schedule.FormatClock(start))
		}
	}

	included := []string{"09:00", "11:00"}
	for _, want := range included {
		found := false
		for _, start := range got {
			if start == minutes(want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("candidate %s missing", want)
		}
	}
}

func TestCandidatesRespectCloseBoundary(t *testing.T) {
	for _, duration := range []int{30, 60, 90, 120} {
		for _, start := range Candidates(nil, duration, window, 30) {
			if start+duration > window.Close {
				t.Errorf("duration %d: candidate %s ends past close", duration, schedule.FormatClock(start))
			}
		}
	}

	// 30-minute bookings reach the last grid cell.
	got := Candidates(nil, 30, window, 30)
	if last := got[len(got)-1]; last != minutes("21:30") {
		t.Fatalf("last 30-minute candidate = %s, want 21:30", schedule.FormatClock(last))
	}
}

func TestCandidatesAreAlwaysAdmittable(t *testing.T) {
	existing := []Interval{
		{minutes("09:30"), minutes("10:30")},
		{minutes("12:00"), minutes("14:00")},
		{minutes("19:00"), minutes("19:30")},
		{minutes("21:00"), minutes("22:00")},
	}

	for _, duration := range []int{30, 60, 90, 120} {
		for _, start := range Candidates(existing, duration, window, 30) {
			if Conflicts(existing, Interval{start, start + duration}) {
				t.Errorf("duration %d: offered candidate %s conflicts", duration, schedule.FormatClock(start))
			}
		}
	}
}

func TestCandidatesIdempotent(t *testing.T) {
	existing := []Interval{
		{minutes("10:00"), minutes("11:30")},
		{minutes("15:00"), minutes("16:00")},
	}

	first := Candidates(existing, 90, window, 30)
	second := Candidates(existing, 90, window, 30)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls differ: %v vs %v", first, second)
	}
}

func TestCandidatesFullDay(t *testing.T) {
	existing := []Interval{{window.Open, window.Close}}
	if got := Candidates(existing, 30, window, 30); len(got) != 0 {
		t.Fatalf("expected no candidates on a full day, got %v", clocks(got))
	}
}

func TestConflictsTouchingIntervals(t *testing.T) {
	existing := []Interval{{minutes("10:00"), minutes("11:00")}}

	if Conflicts(existing, Interval{minutes("11:00"), minutes("12:00")}) {
		t.Error("start at existing end must not conflict")
	}
	if Conflicts(existing, Interval{minutes("09:00"), minutes("10:00")}) {
		t.Error("end at existing start must not conflict")
	}
	if !Conflicts(existing, Interval{minutes("10:30"), minutes("11:30")}) {
		t.Error("overlap into existing must conflict")
	}
}

func TestConflictsExactSemantics(t *testing.T) {
	s, e := minutes("13:00"), minutes("14:00")
	existing := []Interval{{s, e}}

	for start := window.Open; start+60 <= window.Close; start += 30 {
		candidate := Interval{start, start + 60}
		want := start < e && start+60 > s
		if got := Conflicts(existing, candidate); got != want {
			t.Errorf("Conflicts for [%s,%s) = %v, want %v",
				schedule.FormatClock(start), schedule.FormatClock(start+60), got, want)
		}
	}
}

func TestValidDuration(t *testing.T) {
	tests := []struct {
		duration int
		want     bool
	}{
		{30, true},
		{60, true},
		{90, true},
		{120, true},
		{150, true},
		{0, false},
		{-30, false},
		{45, false},
		{31, false},
	}
	for _, tt := range tests {
		if got := ValidDuration(tt.duration, 30); got != tt.want {
			t.Errorf("ValidDuration(%d, 30) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}
