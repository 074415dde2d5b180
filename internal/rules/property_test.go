package rules

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestContainmentProperties checks window containment algebra over arbitrary
// valid rules and instants.
func TestContainmentProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	genRule := gopter.CombineGens(
		gen.IntRange(0, 23), gen.IntRange(0, 59),
		gen.IntRange(0, 23), gen.IntRange(0, 59),
	).Map(func(vals []interface{}) TimeRule {
		return TimeRule{
			StartHour:   vals[0].(int),
			StartMinute: vals[1].(int),
			EndHour:     vals[2].(int),
			EndMinute:   vals[3].(int),
		}
	})

	properties.Property("start and end instants are always contained", prop.ForAll(
		func(r TimeRule) bool {
			start := time.Date(2025, 6, 1, r.StartHour, r.StartMinute, 0, 0, time.UTC)
			end := time.Date(2025, 6, 1, r.EndHour, r.EndMinute, 0, 0, time.UTC)
			return r.Contains(start) && r.Contains(end)
		},
		genRule,
	))

	properties.Property("wraparound rule is the complement of the gap between end and start", prop.ForAll(
		func(r TimeRule, hour, minute int) bool {
			start := r.StartHour*60 + r.StartMinute
			end := r.EndHour*60 + r.EndMinute
			if start <= end {
				return true // only exercising wraparound rules here
			}
			now := time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
			cur := hour*60 + minute
			inGap := cur > end && cur < start
			return r.Contains(now) == !inGap
		},
		genRule,
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	))

	properties.Property("codec round trip preserves containment at every hour", prop.ForAll(
		func(r TimeRule) bool {
			decoded, ok := Decode(Encode(AutoHideRules{TimeRules: []TimeRule{r}}))
			if !ok || len(decoded.TimeRules) != 1 {
				return false
			}
			for h := 0; h < 24; h++ {
				at := time.Date(2025, 6, 1, h, 17, 0, 0, time.UTC)
				if r.Contains(at) != decoded.TimeRules[0].Contains(at) {
					return false
				}
			}
			return true
		},
		genRule,
	))

	properties.TestingRun(t)
}
