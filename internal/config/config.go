package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"voidlauncher/internal/database"
)

// Config is the engine's file configuration. Every field has a working
// default; a missing config file is not an error.
type Config struct {
	Database database.Config `toml:"database"`
	Logging  LoggingConfig   `toml:"logging"`
	Usage    UsageConfig     `toml:"usage"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// UsageConfig points the engine at its usage data source.
type UsageConfig struct {
	// FeedPath is a JSON file of foreground sessions. An unreadable path
	// behaves like a denied usage-stats permission.
	FeedPath string `toml:"feed_path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database: *database.DefaultConfig(),
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Usage:    UsageConfig{FeedPath: "usage_feed.json"},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader on top of the defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from path. A missing file yields the defaults;
// any other failure is an error.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
