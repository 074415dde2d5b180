package usagestats

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"voidlauncher/internal/infrastructure/logging"
)

// FeedProvider reads foreground sessions from a JSON file maintained by the
// platform side (an array of ForegroundSession objects). A missing or
// unreadable feed is treated exactly like a denied permission: queries answer
// empty, never fail. Malformed sessions are skipped individually.
type FeedProvider struct {
	path   string
	logger logging.Logger
}

// NewFeedProvider creates a provider backed by the session feed at path.
func NewFeedProvider(path string, logger logging.Logger) *FeedProvider {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &FeedProvider{path: path, logger: logger}
}

// HasPermission reports whether the feed file is readable.
func (p *FeedProvider) HasPermission() bool {
	if p.path == "" {
		return false
	}
	f, err := os.Open(p.path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// Query loads the feed and sums session time overlapping [start, end) per
// package.
func (p *FeedProvider) Query(ctx context.Context, start, end time.Time) (map[string]AppStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(map[string]AppStats)

	data, err := os.ReadFile(p.path)
	if err != nil {
		// Treat like permission absence: empty results, not an error
		return result, nil
	}

	var sessions []ForegroundSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		p.logger.Warn("Usage feed is not valid JSON, treating as empty", "path", p.path, "error", err)
		return result, nil
	}

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()

	for _, s := range sessions {
		if s.PackageName == "" || s.EndMs <= s.StartMs {
			continue
		}
		overlapStart := max64(s.StartMs, startMs)
		overlapEnd := min64(s.EndMs, endMs)
		if overlapEnd <= overlapStart {
			continue
		}

		stats := result[s.PackageName]
		stats.ForegroundTimeMs += overlapEnd - overlapStart
		if overlapEnd > stats.LastUsedTimestampMs {
			stats.LastUsedTimestampMs = overlapEnd
		}
		result[s.PackageName] = stats
	}

	return result, nil
}
