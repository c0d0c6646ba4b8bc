package scheduling

import (
	"fmt"

	"dencare/models"
)

// Interval is a half-open [Start, End) block in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// HasConflict reports whether the candidate interval intersects any
// booked interval.
func HasConflict(candidate Interval, booked []Interval) bool {
	for _, b := range booked {
		if Overlaps(candidate, b) {
			return true
		}
	}
	return false
}

// GenerateSlots returns every candidate start time for the day at the
// given stride, such that a booking of the given duration still ends by
// closing time. Closed days yield nothing.
func GenerateSlots(day models.DayHours, duration, stride int) []int {
	if day.Closed() || duration <= 0 || stride <= 0 {
		return nil
	}
	var starts []int
	for t := day.Open; t+duration <= day.Close; t += stride {
		starts = append(starts, t)
	}
	return starts
}

// FilterAvailable keeps the candidate starts whose interval does not
// conflict with any booked interval.
func FilterAvailable(candidates []int, duration int, booked []Interval) []int {
	var free []int
	for _, start := range candidates {
		if !HasConflict(Interval{Start: start, End: start + duration}, booked) {
			free = append(free, start)
		}
	}
	return free
}

// BookedIntervals extracts the occupied intervals from committed
// appointments.
func BookedIntervals(appts []models.Appointment) []Interval {
	var booked []Interval
	for _, a := range appts {
		if a.Blocks() {
			booked = append(booked, Interval{Start: a.Start, End: a.End()})
		}
	}
	return booked
}

// MinutesToClock renders minutes from midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockToMinutes parses "HH:MM" into minutes from midnight.
func ClockToMinutes(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: malformed time %q", ErrValidation, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrValidation, s)
	}
	return h*60 + m, nil
}
