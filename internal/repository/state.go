package repository

import (
	"context"
	"strconv"

	"voidlauncher/internal/dayclock"
	repoerrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/types"
)

// Keys of the tracking_state table. One row per key keeps updates of
// independent counters from clobbering each other.
const (
	stateKeyResetHour    = "reset_hour"
	stateKeyLastRollover = "last_rollover_ms"
	stateKeyUnlockCount  = "unlock_count"
	stateKeyScreenOn     = "screen_on_ms"
)

// TrackingState loads the rolling-day state. Any key that is missing or does
// not parse falls back to its default, so a damaged row degrades to a fresh
// counter instead of an error.
func (r *SQLiteRepository) TrackingState(ctx context.Context) (types.TrackingState, error) {
	state := types.DefaultTrackingState()

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM tracking_state`)
		if err != nil {
			return repoerrors.New("TrackingState", err, r.classifyError(err))
		}
		defer rows.Close()

		loaded := types.DefaultTrackingState()
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				r.logger.Warn("Skipping malformed state row", "error", err)
				continue
			}
			switch key {
			case stateKeyResetHour:
				if n, err := strconv.Atoi(value); err == nil && dayclock.ValidResetHour(n) {
					loaded.ResetHour = n
				}
			case stateKeyLastRollover:
				if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
					loaded.LastRolloverMs = n
				}
			case stateKeyUnlockCount:
				if n, err := strconv.Atoi(value); err == nil && n >= 0 {
					loaded.UnlockCount = n
				}
			case stateKeyScreenOn:
				if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
					loaded.ScreenOnMs = n
				}
			}
		}
		if err := rows.Err(); err != nil {
			return repoerrors.New("TrackingState", err, r.classifyError(err))
		}
		state = loaded
		return nil
	})

	if err != nil {
		return types.DefaultTrackingState(), err
	}
	return state, nil
}

// SaveTrackingState persists all counters in one transaction.
func (r *SQLiteRepository) SaveTrackingState(ctx context.Context, state types.TrackingState) error {
	if !dayclock.ValidResetHour(state.ResetHour) {
		return repoerrors.Validation("SaveTrackingState", "reset_hour",
			strconv.Itoa(state.ResetHour), "must be between 0 and 23")
	}

	pairs := map[string]string{
		stateKeyResetHour:    strconv.Itoa(state.ResetHour),
		stateKeyLastRollover: strconv.FormatInt(state.LastRolloverMs, 10),
		stateKeyUnlockCount:  strconv.Itoa(state.UnlockCount),
		stateKeyScreenOn:     strconv.FormatInt(state.ScreenOnMs, 10),
	}

	return repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return repoerrors.New("SaveTrackingState", err, repoerrors.ErrCodeTransaction)
		}
		defer tx.Rollback()

		for key, value := range pairs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tracking_state (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				key, value)
			if err != nil {
				return repoerrors.NewWithContext("SaveTrackingState", err, r.classifyError(err), map[string]string{
					"key": key,
				})
			}
		}

		if err := tx.Commit(); err != nil {
			return repoerrors.New("SaveTrackingState", err, repoerrors.ErrCodeTransaction)
		}
		return nil
	})
}
