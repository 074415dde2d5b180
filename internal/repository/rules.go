package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	repoerrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/infrastructure/logging"
)

// RuleText returns the stored rule text for a package. The text is returned
// as written; corrupt content is the evaluator's problem, not the store's.
func (r *SQLiteRepository) RuleText(ctx context.Context, pkg string) (string, bool, error) {
	if pkg == "" {
		return "", false, repoerrors.Validation("RuleText", "package", pkg, "package name is empty")
	}

	var text string
	var found bool

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		err := r.db.QueryRowContext(ctx,
			`SELECT rules FROM autohide_rules WHERE package = ?`, pkg).Scan(&text)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return repoerrors.NewWithContext("RuleText", err, r.classifyError(err), map[string]string{
				"package": pkg,
			})
		}
		found = true
		return nil
	})

	if err != nil {
		return "", false, err
	}
	return text, found, nil
}

// SetRuleText stores or replaces the rule text for a package.
func (r *SQLiteRepository) SetRuleText(ctx context.Context, pkg, text string) error {
	start := time.Now()

	if pkg == "" {
		return repoerrors.Validation("SetRuleText", "package", pkg, "package name is empty")
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO autohide_rules (package, rules, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(package) DO UPDATE SET
				rules = excluded.rules,
				updated_at = CURRENT_TIMESTAMP`,
			pkg, text)
		if err != nil {
			return repoerrors.NewWithContext("SetRuleText", err, r.classifyError(err), map[string]string{
				"package": pkg,
			})
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "SetRuleText", time.Since(start), map[string]any{
			"package": pkg,
		})
	}
	return err
}

// DeleteRules removes the rule set for a package. Deleting a package without
// rules is a no-op.
func (r *SQLiteRepository) DeleteRules(ctx context.Context, pkg string) error {
	if pkg == "" {
		return repoerrors.Validation("DeleteRules", "package", pkg, "package name is empty")
	}

	return repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		_, err := r.db.ExecContext(ctx, `DELETE FROM autohide_rules WHERE package = ?`, pkg)
		if err != nil {
			return repoerrors.NewWithContext("DeleteRules", err, r.classifyError(err), map[string]string{
				"package": pkg,
			})
		}
		return nil
	})
}

// AllRuleTexts returns every stored rule set keyed by package.
func (r *SQLiteRepository) AllRuleTexts(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx, `SELECT package, rules FROM autohide_rules`)
		if err != nil {
			return repoerrors.New("AllRuleTexts", err, r.classifyError(err))
		}
		defer rows.Close()

		texts := make(map[string]string)
		for rows.Next() {
			var pkg, text string
			if err := rows.Scan(&pkg, &text); err != nil {
				r.logger.Warn("Skipping malformed rule row", "error", err)
				continue
			}
			texts[pkg] = text
		}
		if err := rows.Err(); err != nil {
			return repoerrors.New("AllRuleTexts", err, r.classifyError(err))
		}
		result = texts
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
