package engine

import (
	"fmt"
	"time"
)

// parseTimeOfDay accepts wall-clock HH:MM:SS (seconds optional) and returns
// the minute of day. Seconds are accepted on input but discarded: the whole
// engine compares times at minute resolution.
func parseTimeOfDay(value string) (int, error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		t, err = time.Parse("15:04", value)
	}
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// intervalsOverlap reports whether two half-open minute-of-day intervals
// [s1,e1) and [s2,e2) intersect. Abutting intervals do not overlap.
func intervalsOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// minuteOfDay truncates a timestamp to its minute of day in local wall-clock
// terms, matching the minute resolution of schedule open/close times.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
