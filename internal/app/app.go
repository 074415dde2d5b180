package app

import (
	"context"
	"fmt"
	"time"

	"voidlauncher/internal/config"
	"voidlauncher/internal/database"
	"voidlauncher/internal/dayclock"
	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/services"
	"voidlauncher/internal/usagestats"
)

// connectTimeout bounds database startup.
const connectTimeout = 10 * time.Second

// App wires the engine together: config, database, repositories, services.
// One App owns one database connection and one tracker instance.
type App struct {
	Config    *config.Config
	Tracker   *services.UsageTracker
	History   *services.HistoryService
	AutoHide  *services.AutoHideEvaluator
	Launcher  *services.LauncherService
	dbService database.Service
	logger    logging.Logger
}

// Option overrides a default dependency.
type Option func(*options)

type options struct {
	provider usagestats.Provider
	clock    dayclock.Clock
	logger   logging.Logger
}

// WithProvider replaces the file-feed usage provider.
func WithProvider(p usagestats.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithClock replaces the wall clock.
func WithClock(c dayclock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger replaces the default logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a running engine from configuration: connects the database, runs
// migrations, and wires the services. Close must be called when done.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewDefaultLogger()
	}
	if o.clock == nil {
		o.clock = dayclock.RealClock{}
	}
	if o.provider == nil {
		o.provider = usagestats.NewFeedProvider(cfg.Usage.FeedPath, o.logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dbService := database.NewSQLiteService(o.logger)
	if err := dbService.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	if err := dbService.Migrate(ctx); err != nil {
		dbService.Close()
		return nil, err
	}

	repo := repository.NewSQLiteRepository(dbService, dbService.Retention(), o.logger)
	tracker := services.NewUsageTracker(o.provider, repo, repo, o.clock, o.logger)
	autoHide := services.NewAutoHideEvaluator(repo, tracker, o.logger)

	return &App{
		Config:    cfg,
		Tracker:   tracker,
		History:   services.NewHistoryService(repo, o.logger),
		AutoHide:  autoHide,
		Launcher:  services.NewLauncherService(repo, autoHide, o.logger),
		dbService: dbService,
		logger:    o.logger,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.dbService == nil {
		return nil
	}
	return a.dbService.Close()
}

// Health reports whether the engine's database is reachable.
func (a *App) Health(ctx context.Context) error {
	return a.dbService.Health(ctx)
}
