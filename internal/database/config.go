package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds SQLite connection and maintenance options.
type Config struct {
	Path            string        `toml:"path"`             // database file path, ":memory:" for tests
	MaxConnections  int           `toml:"max_connections"`  // maximum open connections
	MaxIdleConns    int           `toml:"max_idle_conns"`   // maximum idle connections
	ConnMaxLifetime time.Duration `toml:"-"`                // maximum connection lifetime
	AutoMigrate     bool          `toml:"auto_migrate"`     // run migrations on connect

	JournalMode     string `toml:"journal_mode"`     // WAL, DELETE, MEMORY
	SynchronousMode string `toml:"synchronous_mode"` // FULL, NORMAL, OFF
	CacheSize       int    `toml:"cache_size"`       // cache size in KB
	BusyTimeout     int    `toml:"busy_timeout"`     // busy timeout in milliseconds
	ForeignKeys     bool   `toml:"foreign_keys"`     // enforce foreign keys

	HistoryRetentionDays int `toml:"history_retention_days"` // archived days kept, oldest dropped first
}

// DefaultRetentionDays caps the daily history log at one year.
const DefaultRetentionDays = 365

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path:            "voidlauncher.db",
		MaxConnections:  10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 24 * time.Hour,
		AutoMigrate:     true,

		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       2000, // 2MB
		BusyTimeout:     30000,
		ForeignKeys:     true,

		HistoryRetentionDays: DefaultRetentionDays,
	}
}

// TestConfig returns an in-memory configuration for tests.
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = ":memory:"
	// WAL is meaningless for in-memory databases
	config.JournalMode = "MEMORY"
	config.SynchronousMode = "OFF"
	config.CacheSize = 1000
	config.BusyTimeout = 1000
	// In-memory databases vanish per connection; force a single one
	config.MaxConnections = 1
	config.MaxIdleConns = 1
	return config
}

// ConnectionString builds the SQLite DSN with pragma parameters.
func (c *Config) ConnectionString() string {
	values := url.Values{}

	if c.ForeignKeys {
		values.Set("_foreign_keys", "on")
	} else {
		values.Set("_foreign_keys", "off")
	}
	values.Set("_journal_mode", c.JournalMode)
	values.Set("_synchronous", c.SynchronousMode)
	// Negative cache size so SQLite reads it as KB
	values.Set("_cache_size", fmt.Sprintf("%d", -c.CacheSize))
	values.Set("_busy_timeout", fmt.Sprintf("%d", c.BusyTimeout))

	// Escape only characters that would break query-string parsing
	path := c.Path
	if strings.ContainsAny(path, "?&") {
		path = strings.ReplaceAll(path, "?", "%3F")
		path = strings.ReplaceAll(path, "&", "%26")
	}

	return path + "?" + values.Encode()
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("max connections must be at least 1, got %d", c.MaxConnections)
	}
	if c.HistoryRetentionDays < 1 {
		return fmt.Errorf("history retention must be at least 1 day, got %d", c.HistoryRetentionDays)
	}
	switch c.JournalMode {
	case "WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF":
	default:
		return fmt.Errorf("unknown journal mode %q", c.JournalMode)
	}
	return nil
}
