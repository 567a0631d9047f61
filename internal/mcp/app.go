package mcp

import (
	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	metrics, _ := container.Metrics.(*observability.InMemoryMetrics)
	return cli.NewApp(container.Coordinator, container.Health, metrics)
}
