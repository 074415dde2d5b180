package services

import (
	"context"
	"testing"

	"voidlauncher/internal/types"
)

func day(date string, screenMs int64, unlocks int) types.DailyData {
	return types.DailyData{Date: date, ScreenTimeMs: screenMs, UnlockCount: unlocks}
}

func TestHistoryService_WeeklySummaryAveraging(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	// Mon/Tue/Wed of ISO week 2025-W03.
	repo.Seed(
		day("2025-01-13", 60_000, 2),
		day("2025-01-14", 120_000, 4),
		day("2025-01-15", 0, 0),
	)
	svc := NewHistoryService(repo, nil)

	summaries, err := svc.WeeklySummaries(context.Background(), 4)
	if err != nil {
		t.Fatalf("WeeklySummaries failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}

	got := summaries[0]
	if got.WeekLabel != "2025-W03" {
		t.Errorf("week label = %s, want 2025-W03", got.WeekLabel)
	}
	if got.TotalScreenTime != 180_000 || got.AvgScreenTime != 60_000 {
		t.Errorf("screen time total/avg = %d/%d, want 180000/60000",
			got.TotalScreenTime, got.AvgScreenTime)
	}
	if got.TotalUnlocks != 6 || got.AvgUnlocks != 2 {
		t.Errorf("unlocks total/avg = %d/%d, want 6/2", got.TotalUnlocks, got.AvgUnlocks)
	}
	if got.DaysCount != 3 {
		t.Errorf("days count = %d, want 3", got.DaysCount)
	}
}

func TestHistoryService_WeeklyGroupingSplitsAtISOWeek(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	// Sunday 2025-01-12 closes W02; Monday 2025-01-13 opens W03.
	repo.Seed(
		day("2025-01-12", 30_000, 1),
		day("2025-01-13", 60_000, 2),
	)
	svc := NewHistoryService(repo, nil)

	summaries, err := svc.WeeklySummaries(context.Background(), 10)
	if err != nil {
		t.Fatalf("WeeklySummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].WeekLabel != "2025-W02" || summaries[1].WeekLabel != "2025-W03" {
		t.Errorf("week labels = %s, %s, want 2025-W02, 2025-W03",
			summaries[0].WeekLabel, summaries[1].WeekLabel)
	}
}

func TestHistoryService_WeeklyTruncatesToLastN(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	repo.Seed(
		day("2025-01-06", 10_000, 1), // W02
		day("2025-01-13", 20_000, 2), // W03
		day("2025-01-20", 30_000, 3), // W04
	)
	svc := NewHistoryService(repo, nil)

	summaries, err := svc.WeeklySummaries(context.Background(), 2)
	if err != nil {
		t.Fatalf("WeeklySummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].WeekLabel != "2025-W03" || summaries[1].WeekLabel != "2025-W04" {
		t.Errorf("kept weeks = %s, %s, want the two newest", summaries[0].WeekLabel, summaries[1].WeekLabel)
	}
}

func TestHistoryService_MonthlySummaries(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	repo.Seed(
		day("2025-01-30", 100_000, 5),
		day("2025-01-31", 50_000, 3),
		day("2025-02-01", 70_000, 1),
	)
	svc := NewHistoryService(repo, nil)

	summaries, err := svc.MonthlySummaries(context.Background(), 12)
	if err != nil {
		t.Fatalf("MonthlySummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	jan := summaries[0]
	if jan.MonthLabel != "Jan 2025" {
		t.Errorf("month label = %s, want Jan 2025", jan.MonthLabel)
	}
	if jan.TotalScreenTime != 150_000 || jan.AvgScreenTime != 75_000 {
		t.Errorf("Jan screen total/avg = %d/%d, want 150000/75000", jan.TotalScreenTime, jan.AvgScreenTime)
	}
	if jan.TotalUnlocks != 8 || jan.AvgUnlocks != 4 || jan.DaysCount != 2 {
		t.Errorf("Jan unlocks = %+v, want total 8 avg 4 over 2 days", jan)
	}

	feb := summaries[1]
	if feb.MonthLabel != "Feb 2025" || feb.DaysCount != 1 || feb.TotalScreenTime != 70_000 {
		t.Errorf("Feb summary = %+v", feb)
	}
}

func TestHistoryService_SkipsUnparsableDates(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	repo.Seed(
		day("2025-01-13", 60_000, 2),
		day("not-a-date", 999_999, 99),
	)
	svc := NewHistoryService(repo, nil)

	summaries, err := svc.WeeklySummaries(context.Background(), 10)
	if err != nil {
		t.Fatalf("WeeklySummaries failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].TotalScreenTime != 60_000 {
		t.Errorf("garbage entry leaked into summaries: %+v", summaries)
	}
}

func TestHistoryService_ZeroRequestReturnsEmpty(t *testing.T) {
	t.Parallel()

	repo := NewMockHistoryRepository()
	repo.Seed(day("2025-01-13", 60_000, 2))
	svc := NewHistoryService(repo, nil)

	weekly, err := svc.WeeklySummaries(context.Background(), 0)
	if err != nil || len(weekly) != 0 {
		t.Errorf("WeeklySummaries(0) = %v, %v, want empty", weekly, err)
	}
	monthly, err := svc.MonthlySummaries(context.Background(), 0)
	if err != nil || len(monthly) != 0 {
		t.Errorf("MonthlySummaries(0) = %v, %v, want empty", monthly, err)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ms   int64
		want string
	}{
		{0, "< 1m"},
		{59_000, "< 1m"},
		{60_000, "1m"},
		{45 * 60_000, "45m"},
		{2*3_600_000 + 15*60_000, "2h 15m"},
		{3_600_000, "1h 0m"},
		{26 * 3_600_000, "26h 0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
