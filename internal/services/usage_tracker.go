package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"voidlauncher/internal/dayclock"
	repoerrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/types"
	"voidlauncher/internal/usagestats"
)

// lastUsedLookbackDays bounds the LastTimeUsed query.
const lastUsedLookbackDays = 7

// UsageTracker owns the process-wide rolling-day state: reset hour, unlock
// counter, screen-on timestamp and the last rollover time. One mutex guards
// the rollover check together with every counter mutation, so two concurrent
// callers can never both see "rollover due" and archive the same day twice.
//
// Queries never fail on missing usage permission; they report zero usage and
// leave the permission question to HasUsagePermission.
type UsageTracker struct {
	mu       sync.Mutex
	provider usagestats.Provider
	state    repository.StateRepository
	history  repository.HistoryRepository
	clock    dayclock.Clock
	logger   logging.Logger

	loaded  bool
	current types.TrackingState
}

// NewUsageTracker creates a tracker. State is loaded from the repository on
// first use; defaults apply when nothing has been persisted yet.
func NewUsageTracker(provider usagestats.Provider, state repository.StateRepository, history repository.HistoryRepository, clock dayclock.Clock, logger logging.Logger) *UsageTracker {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if clock == nil {
		clock = dayclock.RealClock{}
	}

	return &UsageTracker{
		provider: provider,
		state:    state,
		history:  history,
		clock:    clock,
		logger:   logger,
	}
}

// ensureState lazily loads persisted state. Callers must hold the mutex.
func (t *UsageTracker) ensureState(ctx context.Context) {
	if t.loaded {
		return
	}
	state, err := t.state.TrackingState(ctx)
	if err != nil {
		t.logger.Warn("Failed to load tracking state, starting from defaults", "error", err)
		state = types.DefaultTrackingState()
	}
	t.current = state
	t.loaded = true
}

// maybeRollover archives the finished rolling day and resets the daily
// counters. Callers must hold the mutex. The archive entry is keyed by the
// finished window's date, so a retry after a failed append overwrites the
// same entry instead of double-counting. lastRollover only advances after a
// successful archive; on failure the counters stay put and the next check
// retries.
func (t *UsageTracker) maybeRollover(ctx context.Context, now time.Time) (bool, error) {
	lastRollover := time.UnixMilli(t.current.LastRolloverMs)
	if !dayclock.IsRolloverDue(lastRollover, now, t.current.ResetHour) {
		return false, nil
	}

	prevStart, prevEnd := dayclock.PreviousWindow(now, t.current.ResetHour)
	usage := t.collectUsage(ctx, prevStart, prevEnd)
	records := toRecords(usage)

	entry := types.DailyData{
		Date:         dayclock.DateOf(prevStart),
		ScreenTimeMs: totalTime(records),
		UnlockCount:  t.current.UnlockCount,
		AppUsage:     records,
	}

	// First run and gap days have nothing worth archiving.
	if entry.ScreenTimeMs > 0 || entry.UnlockCount > 0 || len(entry.AppUsage) > 0 {
		if err := t.history.AppendDailyEntry(ctx, entry); err != nil {
			t.logger.Error("Rollover archive failed, keeping counters for retry",
				"error", err, "date", entry.Date)
			return false, err
		}
	}

	t.current.UnlockCount = 0
	t.current.ScreenOnMs = 0
	t.current.LastRolloverMs = now.UnixMilli()
	if err := t.state.SaveTrackingState(ctx, t.current); err != nil {
		// In-memory state already advanced, so this process will not
		// double-archive; only a restart before the next save would.
		t.logger.Warn("Failed to persist tracking state after rollover", "error", err)
	}

	t.logger.Info("Rolled over daily usage",
		"date", entry.Date,
		"screen_ms", entry.ScreenTimeMs,
		"unlocks", entry.UnlockCount,
		"apps", len(entry.AppUsage))
	return true, nil
}

// collectUsage queries the provider over a window. Permission absence and
// provider failures both degrade to an empty result.
func (t *UsageTracker) collectUsage(ctx context.Context, start, end time.Time) map[string]usagestats.AppStats {
	if t.provider == nil || !t.provider.HasPermission() {
		return map[string]usagestats.AppStats{}
	}
	usage, err := t.provider.Query(ctx, start, end)
	if err != nil {
		t.logger.Warn("Usage query failed, reporting empty usage", "error", err)
		return map[string]usagestats.AppStats{}
	}
	return usage
}

// currentUsage runs the rollover check and then queries the current window.
// Callers must hold the mutex.
func (t *UsageTracker) currentUsage(ctx context.Context) map[string]usagestats.AppStats {
	t.ensureState(ctx)
	now := t.clock.Now()
	if _, err := t.maybeRollover(ctx, now); err != nil {
		t.logger.Debug("Rollover deferred", "error", err)
	}
	start, end := dayclock.CurrentWindow(now, t.current.ResetHour)
	return t.collectUsage(ctx, start, end)
}

// TotalScreenTime returns the summed foreground time of all apps over the
// current rolling day, in milliseconds.
func (t *UsageTracker) TotalScreenTime(ctx context.Context) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total int64
	for _, stats := range t.currentUsage(ctx) {
		total += stats.ForegroundTimeMs
	}
	return total
}

// AppUsage returns the current-day usage of a single package. Packages the
// provider has no record of report zero usage, never an error.
func (t *UsageTracker) AppUsage(ctx context.Context, pkg string) types.UsageRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := t.currentUsage(ctx)[pkg]
	return types.UsageRecord{
		PackageName: pkg,
		TimeSpentMs: stats.ForegroundTimeMs,
		OpenCount:   usagestats.EstimateOpenCount(stats.ForegroundTimeMs),
	}
}

// AllAppUsage returns every app seen in the current rolling day, ordered by
// descending foreground time.
func (t *UsageTracker) AllAppUsage(ctx context.Context) []types.UsageRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := toRecords(t.currentUsage(ctx))
	sort.Slice(records, func(i, j int) bool {
		return records[i].TimeSpentMs > records[j].TimeSpentMs
	})
	return records
}

// ScreenUnlockCount returns the unlock counter of the current rolling day.
func (t *UsageTracker) ScreenUnlockCount(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	if _, err := t.maybeRollover(ctx, t.clock.Now()); err != nil {
		t.logger.Debug("Rollover deferred", "error", err)
	}
	return t.current.UnlockCount
}

// TrackScreenOn counts one unlock. The rollover check runs first so the
// unlock lands on the correct day.
func (t *UsageTracker) TrackScreenOn(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	now := t.clock.Now()
	if _, err := t.maybeRollover(ctx, now); err != nil {
		t.logger.Debug("Rollover deferred", "error", err)
	}

	t.current.UnlockCount++
	t.current.ScreenOnMs = now.UnixMilli()
	return t.state.SaveTrackingState(ctx, t.current)
}

// TrackScreenOff clears the screen-on timestamp. Screen time is derived from
// the usage provider, not from on/off deltas; this exists only so unlock
// counting knows the screen state.
func (t *UsageTracker) TrackScreenOff(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	t.current.ScreenOnMs = 0
	return t.state.SaveTrackingState(ctx, t.current)
}

// LastTimeUsed returns the most recent use of a package over the trailing
// week, in epoch milliseconds. Zero when unknown or permission is missing.
func (t *UsageTracker) LastTimeUsed(ctx context.Context, pkg string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	usage := t.collectUsage(ctx, now.AddDate(0, 0, -lastUsedLookbackDays), now)
	return usage[pkg].LastUsedTimestampMs
}

// HasUsagePermission reports whether the usage provider is accessible.
func (t *UsageTracker) HasUsagePermission() bool {
	return t.provider != nil && t.provider.HasPermission()
}

// ResetHour returns the configured rolling-day boundary hour.
func (t *UsageTracker) ResetHour(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	return t.current.ResetHour
}

// SetResetHour changes the rolling-day boundary. The change applies from the
// next rollover check; already-archived days are not re-bucketed.
func (t *UsageTracker) SetResetHour(ctx context.Context, hour int) error {
	if !dayclock.ValidResetHour(hour) {
		return repoerrors.Validation("SetResetHour", "hour", strconv.Itoa(hour), "must be between 0 and 23")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	t.current.ResetHour = hour
	return t.state.SaveTrackingState(ctx, t.current)
}

// CheckRollover runs the rollover check once and reports whether a day was
// archived. This is the explicit trigger used by the periodic reset job.
func (t *UsageTracker) CheckRollover(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureState(ctx)
	return t.maybeRollover(ctx, t.clock.Now())
}

func toRecords(usage map[string]usagestats.AppStats) []types.UsageRecord {
	records := make([]types.UsageRecord, 0, len(usage))
	for pkg, stats := range usage {
		if stats.ForegroundTimeMs <= 0 {
			continue
		}
		records = append(records, types.UsageRecord{
			PackageName: pkg,
			TimeSpentMs: stats.ForegroundTimeMs,
			OpenCount:   usagestats.EstimateOpenCount(stats.ForegroundTimeMs),
		})
	}
	return records
}

func totalTime(records []types.UsageRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.TimeSpentMs
	}
	return total
}
