package repository

import (
	"database/sql"

	"voidlauncher/internal/database"
	repoerrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/infrastructure/logging"
)

// SQLiteRepository implements all engine repositories on a single SQLite
// database: daily history, auto-hide rules, tracking state and prefs share
// one schema and one retry policy.
type SQLiteRepository struct {
	db          *sql.DB
	retention   int
	retryConfig *repoerrors.RetryConfig
	logger      logging.Logger
}

var (
	_ HistoryRepository = (*SQLiteRepository)(nil)
	_ RuleRepository    = (*SQLiteRepository)(nil)
	_ StateRepository   = (*SQLiteRepository)(nil)
	_ PrefsRepository   = (*SQLiteRepository)(nil)
)

// NewSQLiteRepository creates a repository over an already connected database
// service. Retention below 1 falls back to the default.
func NewSQLiteRepository(dbService database.Service, retention int, logger logging.Logger) *SQLiteRepository {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if retention < 1 {
		retention = database.DefaultRetentionDays
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		retention:   retention,
		retryConfig: repoerrors.DefaultRetryConfig(),
		logger:      logger,
	}
}

// NewSQLiteRepositoryWithConfig creates a repository with a custom retry policy.
func NewSQLiteRepositoryWithConfig(dbService database.Service, retention int, retryConfig *repoerrors.RetryConfig, logger logging.Logger) *SQLiteRepository {
	r := NewSQLiteRepository(dbService, retention, logger)
	if retryConfig != nil {
		r.retryConfig = retryConfig
	}
	return r
}

func (r *SQLiteRepository) classifyError(err error) repoerrors.ErrorCode {
	return repoerrors.Classify(err)
}
