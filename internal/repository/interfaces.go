package repository

import (
	"context"

	"voidlauncher/internal/types"
)

// HistoryRepository persists archived rolling days. Entries are append-only
// and immutable; the log is trimmed from the oldest end past retention.
type HistoryRepository interface {
	// AppendDailyEntry archives one day and trims the log in the same
	// transaction. Re-appending the same date replaces the entry, so a
	// retried rollover cannot double-count.
	AppendDailyEntry(ctx context.Context, entry types.DailyData) error

	// DailyHistory returns the last min(days, stored) entries in
	// chronological order. Malformed rows are skipped, never fatal.
	DailyHistory(ctx context.Context, days int) ([]types.DailyData, error)

	// EntryCount returns the number of archived days.
	EntryCount(ctx context.Context) (int, error)
}

// RuleRepository stores per-package auto-hide rule text in its encoded form.
// The repository does not interpret the text; decoding (and tolerance of
// corrupt text) belongs to the evaluator.
type RuleRepository interface {
	// RuleText returns the stored text for a package. A package without
	// rules returns ("", false, nil).
	RuleText(ctx context.Context, pkg string) (string, bool, error)
	SetRuleText(ctx context.Context, pkg, text string) error
	DeleteRules(ctx context.Context, pkg string) error
	// AllRuleTexts returns every stored rule set keyed by package.
	AllRuleTexts(ctx context.Context) (map[string]string, error)
}

// StateRepository persists the rolling-day tracking state across restarts.
type StateRepository interface {
	// TrackingState loads the state, falling back to defaults for any
	// missing or unparsable key.
	TrackingState(ctx context.Context) (types.TrackingState, error)
	SaveTrackingState(ctx context.Context, state types.TrackingState) error
}

// PrefsRepository is the launcher's key-value preference store.
type PrefsRepository interface {
	// Pref returns ("", false, nil) when the key has never been written.
	Pref(ctx context.Context, key string) (string, bool, error)
	SetPref(ctx context.Context, key, value string) error
}
