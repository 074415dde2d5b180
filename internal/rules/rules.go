// Package rules holds the per-app auto-hide rule model: recurring time-of-day
// windows plus daily open and time budgets. Evaluation is pure; the decision
// of whether usage caps are exceeded happens in the evaluator service, which
// feeds current rolling-day usage into these predicates.
package rules

import (
	"fmt"
	"strings"
	"time"
)

// TimeRule is a recurring daily interval during which an app is hidden.
// End before start means the interval wraps past midnight (21:00-03:00).
type TimeRule struct {
	StartHour   int `json:"startHour"`
	StartMinute int `json:"startMinute"`
	EndHour     int `json:"endHour"`
	EndMinute   int `json:"endMinute"`
}

// Valid reports whether every field is in its natural range.
func (r TimeRule) Valid() bool {
	return r.StartHour >= 0 && r.StartHour <= 23 &&
		r.EndHour >= 0 && r.EndHour <= 23 &&
		r.StartMinute >= 0 && r.StartMinute <= 59 &&
		r.EndMinute >= 0 && r.EndMinute <= 59
}

// Contains reports whether now's time of day falls inside the rule's
// interval, inclusive at both ends. Out-of-range stored values never match;
// a corrupt rule must fail toward visible, not hide or crash.
func (r TimeRule) Contains(now time.Time) bool {
	if !r.Valid() {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	start := r.StartHour*60 + r.StartMinute
	end := r.EndHour*60 + r.EndMinute

	if start <= end {
		return current >= start && current <= end
	}
	// Wraps past midnight
	return current >= start || current <= end
}

// String formats the rule as "HH:MM - HH:MM".
func (r TimeRule) String() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
}

// AutoHideRules is the rule set for one app package. Zero-valued caps mean
// unbounded. An app with no stored rule set is never auto-hidden.
type AutoHideRules struct {
	TimeRules []TimeRule `json:"timeRules"`
	MaxOpens  int        `json:"maxOpens"`
	MaxTimeMs int64      `json:"maxTimeMs"`
}

// Empty reports whether the set carries no restriction at all.
func (r AutoHideRules) Empty() bool {
	return len(r.TimeRules) == 0 && r.MaxOpens <= 0 && r.MaxTimeMs <= 0
}

// MatchesTime reports whether any time rule contains now. Order is
// irrelevant; any match hides.
func (r AutoHideRules) MatchesTime(now time.Time) bool {
	for _, tr := range r.TimeRules {
		if tr.Contains(now) {
			return true
		}
	}
	return false
}

// Validate rejects rule sets that must not be written to the store:
// out-of-range window fields or negative budgets. The evaluator tolerates
// such values anyway, but they are caught here at the editing boundary.
func (r AutoHideRules) Validate() error {
	for i, tr := range r.TimeRules {
		if !tr.Valid() {
			return fmt.Errorf("time rule %d out of range: %s", i, tr)
		}
	}
	if r.MaxOpens < 0 {
		return fmt.Errorf("max opens must not be negative: %d", r.MaxOpens)
	}
	if r.MaxTimeMs < 0 {
		return fmt.Errorf("max time must not be negative: %d", r.MaxTimeMs)
	}
	return nil
}

// Summary renders a short human-readable description of the rule set.
func (r AutoHideRules) Summary() string {
	var parts []string

	if n := len(r.TimeRules); n == 1 {
		parts = append(parts, "1 time schedule")
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d time schedules", n))
	}
	if r.MaxOpens > 0 {
		parts = append(parts, fmt.Sprintf("max %d opens/day", r.MaxOpens))
	}
	if r.MaxTimeMs > 0 {
		parts = append(parts, fmt.Sprintf("max %dm/day", r.MaxTimeMs/1000/60))
	}

	if len(parts) == 0 {
		return "no rules"
	}
	return strings.Join(parts, ", ")
}
