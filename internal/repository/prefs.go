package repository

import (
	"context"
	"database/sql"
	"errors"

	repoerrors "voidlauncher/internal/infrastructure/errors"
)

// Pref returns the stored value for a preference key, with found=false when
// the key has never been written.
func (r *SQLiteRepository) Pref(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, repoerrors.Validation("Pref", "key", key, "preference key is empty")
	}

	var value string
	var found bool

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		err := r.db.QueryRowContext(ctx,
			`SELECT value FROM launcher_prefs WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return repoerrors.NewWithContext("Pref", err, r.classifyError(err), map[string]string{
				"key": key,
			})
		}
		found = true
		return nil
	})

	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// SetPref stores or replaces a preference value.
func (r *SQLiteRepository) SetPref(ctx context.Context, key, value string) error {
	if key == "" {
		return repoerrors.Validation("SetPref", "key", key, "preference key is empty")
	}

	return repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO launcher_prefs (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return repoerrors.NewWithContext("SetPref", err, r.classifyError(err), map[string]string{
				"key": key,
			})
		}
		return nil
	})
}
