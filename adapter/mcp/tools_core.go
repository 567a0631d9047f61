package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

type healthOutput struct {
	Status observability.HealthStatus       `json:"status"`
	Checks []observability.HealthCheckResult `json:"checks"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check the task store and event broker").
		Handler(func(ctx context.Context, input struct{}) (healthOutput, error) {
			return health(ctx, app)
		})

	return nil
}

func health(ctx context.Context, app *cli.App) (healthOutput, error) {
	if app == nil || app.Health == nil {
		return healthOutput{}, errors.New("app not initialized")
	}
	results := app.Health.Check(ctx)
	return healthOutput{
		Status: observability.OverallStatus(results),
		Checks: results,
	}, nil
}
