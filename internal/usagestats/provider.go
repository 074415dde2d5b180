// Package usagestats defines the contract with the OS usage-stats provider.
// The provider itself lives on the platform side; the engine only needs a
// time-range query and a permission check, and must degrade to empty results
// whenever access is not granted.
package usagestats

import (
	"context"
	"time"
)

// AppStats is the per-package answer to a usage query.
type AppStats struct {
	ForegroundTimeMs    int64
	LastUsedTimestampMs int64
}

// Provider is the usage data source. Query returns per-package foreground
// time for [start, end); packages with zero foreground time are omitted.
// Implementations must return an empty map, not an error, when the usage
// permission has not been granted.
type Provider interface {
	HasPermission() bool
	Query(ctx context.Context, start, end time.Time) (map[string]AppStats, error)
}

// openCountWindowMs is the assumed average foreground stretch per launch.
const openCountWindowMs = 5 * 60 * 1000

// EstimateOpenCount approximates the number of launches from total foreground
// time: one open per five minutes of use, at least one when any time was
// spent. The usage provider reports durations but not launch counts, so this
// is a heuristic, not ground truth. It also cannot distinguish "never opened"
// from "opened but used under a second": both report zero.
func EstimateOpenCount(timeSpentMs int64) int {
	if timeSpentMs <= 0 {
		return 0
	}
	n := int(timeSpentMs / openCountWindowMs)
	if n < 1 {
		return 1
	}
	return n
}
