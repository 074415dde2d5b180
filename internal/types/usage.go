package types

// UsageRecord represents usage data for a single app over the current rolling day.
// Records are derived from the usage data source on each query and never persisted
// individually; only day-level rollups reach storage.
type UsageRecord struct {
	PackageName string `json:"package"`
	TimeSpentMs int64  `json:"time"`
	OpenCount   int    `json:"opens"`
}

// DailyData is one archived rolling day. Entries are immutable once archived.
type DailyData struct {
	Date         string        `json:"date"` // YYYY-MM-DD
	ScreenTimeMs int64         `json:"screenTime"`
	UnlockCount  int           `json:"unlocks"`
	AppUsage     []UsageRecord `json:"apps"`
}

// WeeklySummary aggregates the archived days of one ISO week.
// Computed on demand, never persisted.
type WeeklySummary struct {
	WeekLabel       string `json:"weekLabel"` // e.g. "2025-W03"
	TotalScreenTime int64  `json:"totalScreenTime"`
	AvgScreenTime   int64  `json:"avgScreenTime"`
	TotalUnlocks    int    `json:"totalUnlocks"`
	AvgUnlocks      int    `json:"avgUnlocks"`
	DaysCount       int    `json:"daysCount"`
}

// MonthlySummary aggregates the archived days of one calendar month.
type MonthlySummary struct {
	MonthLabel      string `json:"monthLabel"` // e.g. "Jan 2025"
	TotalScreenTime int64  `json:"totalScreenTime"`
	AvgScreenTime   int64  `json:"avgScreenTime"`
	TotalUnlocks    int    `json:"totalUnlocks"`
	AvgUnlocks      int    `json:"avgUnlocks"`
	DaysCount       int    `json:"daysCount"`
}

// TrackingState is the process-wide rolling-day state. It persists across
// restarts and is mutated only by screen events and the rollover check.
type TrackingState struct {
	ResetHour      int   `json:"resetHour"`    // 0-23
	LastRolloverMs int64 `json:"lastRollover"` // epoch millis, 0 on first run
	UnlockCount    int   `json:"unlockCount"`  // reset to 0 at rollover
	ScreenOnMs     int64 `json:"screenOn"`     // epoch millis, 0 when screen is off
}

// DefaultResetHour is the rolling-day boundary used until the user picks one.
const DefaultResetHour = 3 // 3:00 AM

// DefaultTrackingState returns the state used on first access.
func DefaultTrackingState() TrackingState {
	return TrackingState{ResetHour: DefaultResetHour}
}
