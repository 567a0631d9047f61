package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/tasklist/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server over streamable HTTP.

Every task tool drives the same coordinator as the CLI, so changes
are persisted and published to the configured event backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Coordinator == nil {
			return errors.New("application not initialized - database connection required")
		}

		cfg, err := cli.LoadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.MCPAddr = addr
		}

		logger := cli.NewLogger(cfg, cmd.ErrOrStderr())
		err = mcpinternal.Serve(cmd.Context(), cfg, app, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides MCP_ADDR)")
}
