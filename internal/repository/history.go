package repository

import (
	"context"
	"fmt"
	"time"

	"voidlauncher/internal/dayclock"
	repoerrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/types"
)

// AppendDailyEntry archives one rolling day: the day row, its per-app
// snapshots and the retention trim run in a single transaction. The insert is
// an upsert keyed by date, so a rollover retried after a partial failure
// overwrites its own entry instead of duplicating it.
func (r *SQLiteRepository) AppendDailyEntry(ctx context.Context, entry types.DailyData) error {
	start := time.Now()

	if _, err := time.Parse(dayclock.DateLayout, entry.Date); err != nil {
		valErr := repoerrors.Validation("AppendDailyEntry", "date", entry.Date, "not a YYYY-MM-DD date")
		logging.LogError(r.logger, valErr, "AppendDailyEntry", map[string]any{
			"date": entry.Date,
		})
		return valErr
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return repoerrors.New("AppendDailyEntry", err, repoerrors.ErrCodeTransaction)
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO daily_history (date, screen_time_ms, unlock_count)
			VALUES (?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				screen_time_ms = excluded.screen_time_ms,
				unlock_count = excluded.unlock_count`,
			entry.Date, entry.ScreenTimeMs, entry.UnlockCount)
		if err != nil {
			return r.appendError("upsert day", entry.Date, err)
		}

		// Replace, don't merge: a retried archive must not keep stale apps.
		_, err = tx.ExecContext(ctx, `DELETE FROM app_usage_snapshots WHERE date = ?`, entry.Date)
		if err != nil {
			return r.appendError("clear snapshots", entry.Date, err)
		}

		for _, app := range entry.AppUsage {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO app_usage_snapshots (date, package, time_ms, open_count)
				VALUES (?, ?, ?, ?)`,
				entry.Date, app.PackageName, app.TimeSpentMs, app.OpenCount)
			if err != nil {
				return r.appendError("insert snapshot", entry.Date, err)
			}
		}

		// Trim past retention. Snapshots follow via ON DELETE CASCADE.
		_, err = tx.ExecContext(ctx, `
			DELETE FROM daily_history
			WHERE date NOT IN (
				SELECT date FROM daily_history ORDER BY date DESC LIMIT ?
			)`, r.retention)
		if err != nil {
			return r.appendError("trim history", entry.Date, err)
		}

		if err := tx.Commit(); err != nil {
			return repoerrors.New("AppendDailyEntry", err, repoerrors.ErrCodeTransaction)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "AppendDailyEntry", time.Since(start), map[string]any{
			"date":      entry.Date,
			"app_count": len(entry.AppUsage),
			"screen_ms": entry.ScreenTimeMs,
			"unlocks":   entry.UnlockCount,
			"retention": r.retention,
		})
	}
	return err
}

// DailyHistory returns the newest min(days, stored) archived days in
// chronological order. Rows that fail to scan are skipped and logged rather
// than failing the whole read.
func (r *SQLiteRepository) DailyHistory(ctx context.Context, days int) ([]types.DailyData, error) {
	start := time.Now()

	if days < 1 {
		return []types.DailyData{}, nil
	}

	var result []types.DailyData

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT date, screen_time_ms, unlock_count
			FROM daily_history
			ORDER BY date DESC
			LIMIT ?`, days)
		if err != nil {
			return repoerrors.NewWithContext("DailyHistory", err, r.classifyError(err), map[string]string{
				"days": fmt.Sprintf("%d", days),
			})
		}
		defer rows.Close()

		entries := make([]types.DailyData, 0, days)
		for rows.Next() {
			var entry types.DailyData
			if err := rows.Scan(&entry.Date, &entry.ScreenTimeMs, &entry.UnlockCount); err != nil {
				r.logger.Warn("Skipping malformed history row", "error", err)
				continue
			}
			entries = append(entries, entry)
		}
		if err := rows.Err(); err != nil {
			return repoerrors.New("DailyHistory", err, r.classifyError(err))
		}

		if err := r.attachSnapshots(ctx, entries); err != nil {
			return err
		}

		// Oldest first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		result = entries
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "DailyHistory", time.Since(start), map[string]any{
			"requested": days,
			"returned":  len(result),
		})
	}
	return result, err
}

// EntryCount returns the number of archived days.
func (r *SQLiteRepository) EntryCount(ctx context.Context) (int, error) {
	var count int
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_history`).Scan(&count); err != nil {
			return repoerrors.New("EntryCount", err, r.classifyError(err))
		}
		return nil
	})
	return count, err
}

// attachSnapshots fills AppUsage for the given entries with one query.
func (r *SQLiteRepository) attachSnapshots(ctx context.Context, entries []types.DailyData) error {
	if len(entries) == 0 {
		return nil
	}

	// Entries arrive newest first, so the oldest date bounds the range.
	oldest := entries[len(entries)-1].Date

	rows, err := r.db.QueryContext(ctx, `
		SELECT date, package, time_ms, open_count
		FROM app_usage_snapshots
		WHERE date >= ?
		ORDER BY date, time_ms DESC`, oldest)
	if err != nil {
		return repoerrors.New("DailyHistory", err, r.classifyError(err))
	}
	defer rows.Close()

	byDate := make(map[string][]types.UsageRecord, len(entries))
	for rows.Next() {
		var date string
		var rec types.UsageRecord
		if err := rows.Scan(&date, &rec.PackageName, &rec.TimeSpentMs, &rec.OpenCount); err != nil {
			r.logger.Warn("Skipping malformed snapshot row", "error", err)
			continue
		}
		byDate[date] = append(byDate[date], rec)
	}
	if err := rows.Err(); err != nil {
		return repoerrors.New("DailyHistory", err, r.classifyError(err))
	}

	for i := range entries {
		if apps, ok := byDate[entries[i].Date]; ok {
			entries[i].AppUsage = apps
		} else {
			entries[i].AppUsage = []types.UsageRecord{}
		}
	}
	return nil
}

func (r *SQLiteRepository) appendError(step, date string, err error) error {
	repoErr := repoerrors.NewWithContext("AppendDailyEntry", err, r.classifyError(err), map[string]string{
		"step": step,
		"date": date,
	})
	if repoErr.IsRetryable() {
		r.logger.Debug("Retryable error in AppendDailyEntry", "error", err, "step", step, "date", date)
	} else {
		logging.LogError(r.logger, repoErr, "AppendDailyEntry", map[string]any{
			"step": step,
			"date": date,
		})
	}
	return repoErr
}
