package services

import (
	"context"
	"fmt"
	"time"

	"voidlauncher/internal/database"
	"voidlauncher/internal/dayclock"
	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/types"
)

// HistoryService reads the archived daily log and computes weekly and
// monthly rollups on demand. Summaries are never persisted.
type HistoryService struct {
	repo   repository.HistoryRepository
	logger logging.Logger
}

// NewHistoryService creates a history service over the given repository.
func NewHistoryService(repo repository.HistoryRepository, logger logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// DailyHistory returns the last min(days, stored) archived days in
// chronological order.
func (s *HistoryService) DailyHistory(ctx context.Context, days int) ([]types.DailyData, error) {
	return s.repo.DailyHistory(ctx, days)
}

// WeeklySummaries groups the archived log by ISO week and returns the last
// `weeks` groups in chronological order. Entries whose date no longer parses
// are skipped.
func (s *HistoryService) WeeklySummaries(ctx context.Context, weeks int) ([]types.WeeklySummary, error) {
	if weeks < 1 {
		return []types.WeeklySummary{}, nil
	}

	entries, err := s.repo.DailyHistory(ctx, database.DefaultRetentionDays)
	if err != nil {
		return nil, err
	}

	groups := s.groupBy(entries, func(day time.Time) string {
		year, week := day.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	})

	summaries := make([]types.WeeklySummary, 0, len(groups))
	for _, g := range lastN(groups, weeks) {
		summaries = append(summaries, types.WeeklySummary{
			WeekLabel:       g.label,
			TotalScreenTime: g.totalScreenTime,
			AvgScreenTime:   g.totalScreenTime / int64(g.days),
			TotalUnlocks:    g.totalUnlocks,
			AvgUnlocks:      g.totalUnlocks / g.days,
			DaysCount:       g.days,
		})
	}
	return summaries, nil
}

// MonthlySummaries groups the archived log by calendar month and returns the
// last `months` groups in chronological order.
func (s *HistoryService) MonthlySummaries(ctx context.Context, months int) ([]types.MonthlySummary, error) {
	if months < 1 {
		return []types.MonthlySummary{}, nil
	}

	entries, err := s.repo.DailyHistory(ctx, database.DefaultRetentionDays)
	if err != nil {
		return nil, err
	}

	groups := s.groupBy(entries, func(day time.Time) string {
		return day.Format("Jan 2006")
	})

	summaries := make([]types.MonthlySummary, 0, len(groups))
	for _, g := range lastN(groups, months) {
		summaries = append(summaries, types.MonthlySummary{
			MonthLabel:      g.label,
			TotalScreenTime: g.totalScreenTime,
			AvgScreenTime:   g.totalScreenTime / int64(g.days),
			TotalUnlocks:    g.totalUnlocks,
			AvgUnlocks:      g.totalUnlocks / g.days,
			DaysCount:       g.days,
		})
	}
	return summaries, nil
}

type summaryGroup struct {
	label           string
	totalScreenTime int64
	totalUnlocks    int
	days            int
}

// groupBy folds chronological entries into groups keyed by labelFor. Entries
// arrive oldest first, so groups come out in chronological order too.
func (s *HistoryService) groupBy(entries []types.DailyData, labelFor func(time.Time) string) []summaryGroup {
	var groups []summaryGroup
	index := make(map[string]int)

	for _, entry := range entries {
		day, err := time.Parse(dayclock.DateLayout, entry.Date)
		if err != nil {
			s.logger.Warn("Skipping history entry with unparsable date", "date", entry.Date)
			continue
		}

		label := labelFor(day)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, summaryGroup{label: label})
		}
		groups[i].totalScreenTime += entry.ScreenTimeMs
		groups[i].totalUnlocks += entry.UnlockCount
		groups[i].days++
	}
	return groups
}

func lastN(groups []summaryGroup, n int) []summaryGroup {
	if len(groups) <= n {
		return groups
	}
	return groups[len(groups)-n:]
}

// FormatDuration renders milliseconds the way the stats screens show them:
// "2h 15m", "45m", or "< 1m" below a minute.
func FormatDuration(ms int64) string {
	minutes := ms / 60_000
	hours := minutes / 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "< 1m"
	}
}
