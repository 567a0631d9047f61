package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/internal/tasks/infrastructure/relay"
	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	TaskStore   task.Store
	Coordinator *application.Coordinator

	// Visible list relay
	EventPublisher eventbus.Publisher
	Relay          *relay.Relay

	Health *observability.HealthRegistry

	relayCancel context.CancelFunc
	relayDone   chan struct{}
}

// NewContainer creates and wires all dependencies and loads the initial task list.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) (*Container, error) {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := openConnection(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))

	store, err := NewStoreFactory(conn).TaskStore(cfg, logger, metrics)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create task store: %w", err)
	}
	c.TaskStore = store

	publisher, brokerErr, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.EventPublisher = publisher
	switch {
	case brokerErr != nil:
		c.Health.Register("events", observability.BrokerHealthChecker(func(context.Context) error {
			return fmt.Errorf("using noop publisher: %w", brokerErr)
		}))
	case cfg.EventBackend != "" && cfg.EventBackend != config.EventBackendNone:
		c.Health.Register("events", observability.BrokerHealthChecker(publisher.Ping))
	}

	c.Coordinator = application.NewCoordinator(store, logger, metrics)
	c.Relay = relay.New(c.Coordinator, publisher, logger, metrics)

	if err := c.Coordinator.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	return c, nil
}

// StartRelay starts forwarding visible-list snapshots in the background.
// Close stops it after flushing the last snapshot.
func (c *Container) StartRelay(ctx context.Context) {
	if c.relayDone != nil {
		return
	}

	relayCtx, cancel := context.WithCancel(ctx)
	c.relayCancel = cancel
	c.relayDone = make(chan struct{})

	go func() {
		defer close(c.relayDone)
		if err := c.Relay.Run(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
			c.Logger.Warn("relay stopped", "error", err)
		}
	}()
}

// Close releases every resource held by the container.
func (c *Container) Close() {
	if c.relayCancel != nil {
		c.relayCancel()
		<-c.relayDone
		c.relayCancel = nil
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
		c.EventPublisher = nil
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
		c.DBConn = nil
	}
}

// openConnection connects to the configured database and applies migrations.
// Failures wrap task.ErrStoreUnavailable.
func openConnection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	driver := database.Driver(cfg.DatabaseDriver)
	if driver == "" || driver == "auto" {
		driver = database.DetectDriver(cfg.DatabaseURL)
	}

	dbCfg := database.Config{
		Driver:   driver,
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	}
	if driver == database.DriverSQLite && cfg.DatabaseURL == "" {
		dbCfg.SQLitePath = cfg.SQLitePath
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: failed to run migrations: %v", task.ErrStoreUnavailable, err)
	}

	logger.Debug("connected to database", "driver", driver)
	return conn, nil
}

// newPublisher creates the relay's event publisher. In development an unreachable
// broker falls back to the no-op publisher and the connection error is returned
// as brokerErr.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (publisher eventbus.Publisher, brokerErr error, err error) {
	switch cfg.EventBackend {
	case "", config.EventBackendNone:
		return eventbus.NewNoopPublisher(logger), nil, nil
	case config.EventBackendRabbitMQ:
		publisher, err = eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	case config.EventBackendRedis:
		publisher, err = eventbus.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisChannelPrefix, logger)
	default:
		return nil, nil, fmt.Errorf("unsupported event backend: %s", cfg.EventBackend)
	}

	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("event broker not available, using noop publisher",
				"backend", cfg.EventBackend,
				"error", err,
			)
			return eventbus.NewNoopPublisher(logger), err, nil
		}
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.EventBackend, err)
	}
	return publisher, nil, nil
}
