package app

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// StoreFactory creates task stores for a database connection.
type StoreFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewStoreFactory creates a new store factory.
func NewStoreFactory(conn database.Connection) *StoreFactory {
	return &StoreFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// TaskStore creates the task store for the configured driver, guarded by a
// circuit breaker unless it is disabled.
func (f *StoreFactory) TaskStore(cfg *config.Config, logger *slog.Logger, metrics observability.Metrics) (task.Store, error) {
	if !f.driver.IsValid() {
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}

	var store task.Store = persistence.NewSQLStore(f.conn)
	if !cfg.StoreBreakerEnabled {
		return store, nil
	}

	breakerCfg := persistence.DefaultBreakerConfig()
	if cfg.StoreBreakerFailures > 0 {
		breakerCfg.FailureThreshold = uint32(cfg.StoreBreakerFailures)
	}
	if cfg.StoreBreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.StoreBreakerTimeout
	}
	return persistence.NewBreakerStore(store, breakerCfg, logger, metrics), nil
}
