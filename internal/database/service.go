package database

import (
	"context"
	"database/sql"
	"fmt"

	dberrors "voidlauncher/internal/infrastructure/errors"
	"voidlauncher/internal/infrastructure/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Service abstracts database connection management and migrations for the
// repository layer.
type Service interface {
	Connect(ctx context.Context, config *Config) error
	Close() error
	Health(ctx context.Context) error

	DB() *sql.DB

	Migrate(ctx context.Context) error
	MigrationVersion(ctx context.Context) (int64, error)

	Stats() sql.DBStats
}

// SQLiteService implements Service for SQLite.
//
// Lifecycle: create with NewSQLiteService, Connect, optionally Migrate, use
// DB() from repositories, Close when done.
type SQLiteService struct {
	db              *sql.DB
	config          *Config
	migrationRunner *MigrationRunner
	logger          logging.Logger
}

var _ Service = (*SQLiteService)(nil)

// NewSQLiteService creates a new SQLite database service
func NewSQLiteService(logger logging.Logger) *SQLiteService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SQLiteService{logger: logger}
}

// Connect establishes a connection to the SQLite database
func (s *SQLiteService) Connect(ctx context.Context, config *Config) error {
	if err := config.Validate(); err != nil {
		return dberrors.Validation("Connect", "config", config.Path, err.Error())
	}
	s.config = config

	// Close any existing connection to prevent resource leaks
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close existing database connection", "error", err)
		}
		s.db = nil
		s.migrationRunner = nil
	}

	db, err := sql.Open("sqlite3", config.ConnectionString())
	if err != nil {
		return dberrors.Connection("Connect", fmt.Sprintf("failed to open database: %v", err))
	}

	db.SetMaxOpenConns(config.MaxConnections)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return dberrors.Connection("Connect", fmt.Sprintf("failed to ping database: %v", err))
	}

	s.db = db
	s.migrationRunner = NewMigrationRunner(db, s.logger)

	s.logger.Info("Connected to SQLite database", "path", config.Path)
	return nil
}

// Close closes the database connection
func (s *SQLiteService) Close() error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return dberrors.Connection("Close", fmt.Sprintf("failed to close database: %v", err))
	}

	s.db = nil
	s.migrationRunner = nil

	s.logger.Info("Closed SQLite database connection")
	return nil
}

// Migrate runs pending schema migrations.
func (s *SQLiteService) Migrate(ctx context.Context) error {
	if s.db == nil {
		return dberrors.Connection("Migrate", "database not connected")
	}

	if err := s.migrationRunner.ValidateMigrations(); err != nil {
		return dberrors.WrapWithContext("Migrate", err, map[string]string{"phase": "validation"})
	}
	if err := s.migrationRunner.RunMigrations(ctx); err != nil {
		return dberrors.WrapWithContext("Migrate", err, map[string]string{"phase": "execution"})
	}
	return nil
}

// Health checks the database connection health
func (s *SQLiteService) Health(ctx context.Context) error {
	if s.db == nil {
		return dberrors.Connection("Health", "database not connected")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return dberrors.WrapWithContext("Health", err, map[string]string{"phase": "ping"})
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return dberrors.WrapWithContext("Health", err, map[string]string{"phase": "query"})
	}
	if result != 1 {
		return dberrors.Validation("Health", "query_result", fmt.Sprintf("%d", result), "expected result 1")
	}

	return nil
}

// DB returns the underlying database connection for repository use.
func (s *SQLiteService) DB() *sql.DB {
	return s.db
}

// MigrationVersion returns the current migration version.
func (s *SQLiteService) MigrationVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, dberrors.Connection("MigrationVersion", "database not connected")
	}
	version, err := s.migrationRunner.CurrentVersion(ctx)
	if err != nil {
		return 0, dberrors.Wrap("MigrationVersion", err)
	}
	return version, nil
}

// Stats returns connection pool statistics for monitoring.
func (s *SQLiteService) Stats() sql.DBStats {
	if s.db == nil {
		return sql.DBStats{}
	}
	return s.db.Stats()
}

// Retention returns the configured history retention in days.
func (s *SQLiteService) Retention() int {
	if s.config == nil || s.config.HistoryRetentionDays < 1 {
		return DefaultRetentionDays
	}
	return s.config.HistoryRetentionDays
}
