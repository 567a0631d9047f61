package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the task store and event broker",
	Long: `Check the task store and, when one is configured, the event broker.

An unreachable store is reported as an unhealthy database check.`,
	Annotations: map[string]string{SkipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := initApp(cmd.Context()); err != nil {
			return printHealth(out, []observability.HealthCheckResult{{
				Name:    "database",
				Status:  observability.HealthStatusUnhealthy,
				Message: err.Error(),
			}})
		}

		app := GetApp()
		if app == nil || app.Health == nil {
			return fmt.Errorf("app not initialized")
		}
		return printHealth(out, app.Health.Check(cmd.Context()))
	},
}

func printHealth(out io.Writer, results []observability.HealthCheckResult) error {
	for _, r := range results {
		fmt.Fprintf(out, "%-10s %-9s %s\n", r.Name, r.Status, r.Message)
	}

	status := observability.OverallStatus(results)
	fmt.Fprintf(out, "status: %s\n", status)
	if status == observability.HealthStatusUnhealthy {
		return fmt.Errorf("unhealthy")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
