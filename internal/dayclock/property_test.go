package dayclock

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestWindowStartInvariants checks that for any instant and any valid reset
// hour, the computed window start lands exactly on resetHour:00:00 and the
// instant always falls inside its own window.
func TestWindowStartInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("window start is resetHour sharp and contains now", prop.ForAll(
		func(unixSec int64, resetHour int) bool {
			now := time.Unix(unixSec, 0).UTC()
			start := CurrentWindowStart(now, resetHour)

			if start.Hour() != resetHour || start.Minute() != 0 || start.Second() != 0 {
				return false
			}
			// now in [start, start+24h)
			if now.Before(start) {
				return false
			}
			return now.Before(start.Add(24 * time.Hour))
		},
		gen.Int64Range(0, 4102444800), // 1970..2100
		gen.IntRange(0, 23),
	))

	properties.Property("previous window abuts the current one", prop.ForAll(
		func(unixSec int64, resetHour int) bool {
			now := time.Unix(unixSec, 0).UTC()
			prevStart, prevEnd := PreviousWindow(now, resetHour)
			if !prevEnd.Equal(CurrentWindowStart(now, resetHour)) {
				return false
			}
			return prevEnd.Sub(prevStart) == 24*time.Hour
		},
		gen.Int64Range(0, 4102444800),
		gen.IntRange(0, 23),
	))

	properties.Property("rollover never due twice for the same boundary", prop.ForAll(
		func(unixSec int64, resetHour int, laterMin int) bool {
			now := time.Unix(unixSec, 0).UTC()
			if !IsRolloverDue(time.Time{}, now, resetHour) {
				return false
			}
			// advancing the last-rollover timestamp to now suppresses the
			// check until the next boundary
			later := now.Add(time.Duration(laterMin) * time.Minute)
			if later.Before(CurrentWindowStart(now, resetHour).Add(24 * time.Hour)) {
				return !IsRolloverDue(now, later, resetHour)
			}
			return IsRolloverDue(now, later, resetHour)
		},
		gen.Int64Range(86400, 4102444800),
		gen.IntRange(0, 23),
		gen.IntRange(0, 48*60),
	))

	properties.TestingRun(t)
}
