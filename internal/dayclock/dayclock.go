// Package dayclock defines the "rolling day": the 24-hour accounting window
// anchored at a configurable reset hour rather than midnight. All usage
// queries and the daily rollover are bounded by windows computed here.
package dayclock

import "time"

// Clock abstracts time retrieval so rollover logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// DateLayout is the calendar-date form archived days are keyed by.
const DateLayout = "2006-01-02"

// CurrentWindowStart returns the start of the rolling day containing now:
// resetHour:00:00 today if now's hour has reached resetHour, otherwise
// resetHour:00:00 on the previous calendar day.
func CurrentWindowStart(now time.Time, resetHour int) time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, now.Location())
	if now.Hour() < resetHour {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// CurrentWindow returns the current rolling-day window [start, now).
func CurrentWindow(now time.Time, resetHour int) (start, end time.Time) {
	return CurrentWindowStart(now, resetHour), now
}

// PreviousWindow returns the rolling day that ended at the current window's
// start. This is the window archived by a rollover.
func PreviousWindow(now time.Time, resetHour int) (start, end time.Time) {
	end = CurrentWindowStart(now, resetHour)
	return end.AddDate(0, 0, -1), end
}

// IsRolloverDue reports whether a day boundary has been crossed since the last
// rollover. It is true iff now has reached the current window's start and the
// last rollover happened before it, so it fires exactly once per boundary
// crossing no matter how often it is polled.
func IsRolloverDue(lastRollover, now time.Time, resetHour int) bool {
	windowStart := CurrentWindowStart(now, resetHour)
	return !now.Before(windowStart) && lastRollover.Before(windowStart)
}

// DateOf returns the calendar-date label for the day whose window starts at
// windowStart. An archived day is labelled by its window's start date: a
// 03:00-to-03:00 day spends 21 of its 24 hours on that date.
func DateOf(windowStart time.Time) string {
	return windowStart.Format(DateLayout)
}

// ValidResetHour reports whether hour can be used as a rolling-day boundary.
func ValidResetHour(hour int) bool {
	return hour >= 0 && hour <= 23
}
