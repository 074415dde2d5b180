package usagestats

import (
	"context"
	"sync"
	"time"
)

// ForegroundSession is one continuous stretch of an app being the visible app.
type ForegroundSession struct {
	PackageName string `json:"package"`
	StartMs     int64  `json:"startMs"`
	EndMs       int64  `json:"endMs"`
}

// StaticProvider answers usage queries from an in-memory session list. It
// backs tests and any deployment where the platform feeds sessions directly
// instead of exposing a live stats service.
type StaticProvider struct {
	mu         sync.RWMutex
	sessions   []ForegroundSession
	permission bool
}

// NewStaticProvider returns a provider with permission granted and no data.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{permission: true}
}

// SetPermission toggles the simulated permission grant.
func (p *StaticProvider) SetPermission(granted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permission = granted
}

// AddSession records a foreground session. Sessions with EndMs <= StartMs are
// ignored.
func (p *StaticProvider) AddSession(s ForegroundSession) {
	if s.EndMs <= s.StartMs {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, s)
}

func (p *StaticProvider) HasPermission() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.permission
}

// Query sums the session time overlapping [start, end) per package. Without
// permission it returns an empty map and no error.
func (p *StaticProvider) Query(ctx context.Context, start, end time.Time) (map[string]AppStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]AppStats)
	if !p.permission {
		return result, nil
	}

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()

	for _, s := range p.sessions {
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

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
