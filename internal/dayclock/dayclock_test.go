package dayclock

import (
	"testing"
	"time"
)

func TestCurrentWindowStart_BeforeResetHour(t *testing.T) {
	t.Parallel()

	// 02:59 with a 3 AM reset belongs to the window that started yesterday
	now := time.Date(2025, 1, 15, 2, 59, 0, 0, time.UTC)
	start := CurrentWindowStart(now, 3)

	want := time.Date(2025, 1, 14, 3, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("CurrentWindowStart = %v, want %v", start, want)
	}
}

func TestCurrentWindowStart_AfterResetHour(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 3, 1, 0, 0, time.UTC)
	start := CurrentWindowStart(now, 3)

	want := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("CurrentWindowStart = %v, want %v", start, want)
	}
}

func TestCurrentWindowStart_ExactlyAtResetHour(t *testing.T) {
	t.Parallel()

	// At resetHour:00:00 sharp the new window has already begun
	now := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)
	start := CurrentWindowStart(now, 3)

	if !start.Equal(now) {
		t.Errorf("CurrentWindowStart = %v, want %v", start, now)
	}
}

func TestCurrentWindowStart_MidnightReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	start := CurrentWindowStart(now, 0)

	if !start.Equal(now) {
		t.Errorf("CurrentWindowStart with resetHour 0 = %v, want %v", start, now)
	}
}

func TestPreviousWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	start, end := PreviousWindow(now, 3)

	wantStart := time.Date(2025, 1, 14, 3, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("PreviousWindow = [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

func TestIsRolloverDue_FiresOncePerBoundary(t *testing.T) {
	t.Parallel()

	// Just crossed the 3 AM boundary, last rollover yesterday
	now := time.Date(2025, 1, 15, 3, 0, 1, 0, time.UTC)
	lastRollover := time.Date(2025, 1, 14, 3, 0, 2, 0, time.UTC)

	if !IsRolloverDue(lastRollover, now, 3) {
		t.Fatal("expected rollover due after crossing boundary")
	}

	// After a rollover advanced lastRollover past the boundary, no further
	// check within the same day reports due
	lastRollover = now
	for _, later := range []time.Time{
		now.Add(time.Second),
		now.Add(12 * time.Hour),
		time.Date(2025, 1, 16, 2, 59, 59, 0, time.UTC),
	} {
		if IsRolloverDue(lastRollover, later, 3) {
			t.Errorf("rollover reported due again at %v", later)
		}
	}

	// The next boundary makes it due again
	next := time.Date(2025, 1, 16, 3, 0, 0, 0, time.UTC)
	if !IsRolloverDue(lastRollover, next, 3) {
		t.Error("expected rollover due at next boundary")
	}
}

func TestIsRolloverDue_FirstRun(t *testing.T) {
	t.Parallel()

	// Zero last-rollover timestamp forces an immediate rollover check
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	if !IsRolloverDue(time.Time{}, now, 3) {
		t.Error("expected rollover due on first run")
	}
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 14, 3, 0, 0, 0, time.UTC)
	if got := DateOf(start); got != "2025-01-14" {
		t.Errorf("DateOf = %q, want 2025-01-14", got)
	}
}

func TestValidResetHour(t *testing.T) {
	t.Parallel()

	cases := []struct {
		hour int
		want bool
	}{
		{0, true}, {3, true}, {23, true},
		{-1, false}, {24, false}, {100, false},
	}
	for _, c := range cases {
		if got := ValidResetHour(c.hour); got != c.want {
			t.Errorf("ValidResetHour(%d) = %v, want %v", c.hour, got, c.want)
		}
	}
}
