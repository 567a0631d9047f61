package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/adapter/cli/mcp"
	"github.com/felixgeelhaar/tasklist/adapter/cli/task"
	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.SetInitializer(func(ctx context.Context) (*cli.App, func(), error) {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return nil, nil, err
		}

		logger := cli.NewLogger(cfg, os.Stderr)
		cli.SetLogger(logger)

		metrics := observability.NewInMemoryMetrics()
		container, err := app.NewContainer(ctx, cfg, logger, metrics)
		if err != nil {
			logger.Error("failed to initialize container", "error", err)
			return nil, nil, err
		}
		container.StartRelay(ctx)

		return cli.NewApp(container.Coordinator, container.Health, metrics), container.Close, nil
	})

	cli.AddCommand(task.Commands()...)
	cli.AddCommand(mcp.Cmd)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
