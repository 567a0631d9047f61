package cli

import (
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Coordinator *application.Coordinator
	Health      *observability.HealthRegistry
	Metrics     *observability.InMemoryMetrics
}

// NewApp creates a new CLI application.
func NewApp(coordinator *application.Coordinator, health *observability.HealthRegistry, metrics *observability.InMemoryMetrics) *App {
	return &App{
		Coordinator: coordinator,
		Health:      health,
		Metrics:     metrics,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
