package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger

	initializer Initializer
	cleanup     func()
)

// Initializer builds the App on first use. The returned function releases it.
type Initializer func(ctx context.Context) (*App, func(), error)

// SkipAppAnnotation marks commands that build their own dependencies or need none.
const SkipAppAnnotation = "tasklist/skip-app"

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasklist",
	Short: "tasklist - a small to-do list",
	Long: `tasklist keeps a list of short text tasks.

Add, edit, complete, filter and delete tasks from one-shot commands,
or run "tasklist shell" for an interactive session that re-renders
the list after every change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = observability.WithCorrelationID(ctx, info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.DebugContext(cmd.Context(), "command start",
			"command", cmd.CommandPath(),
		)

		if cmd.Annotations[SkipAppAnnotation] == "true" {
			return nil
		}
		return initApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
		if verbose {
			if a := GetApp(); a != nil && a.Metrics != nil {
				PrintMetrics(cmd.ErrOrStderr(), a.Metrics)
			}
		}
	},
}

// Execute runs the root command and releases the App afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return err
}

// initApp builds the App through the initializer unless one is already set.
func initApp(ctx context.Context) error {
	if app != nil || initializer == nil {
		return nil
	}
	a, release, err := initializer(ctx)
	if err != nil {
		return err
	}
	SetApp(a)
	cleanup = release
	return nil
}

// SetInitializer sets the function that builds the App.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "env file to load before the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print operation metrics after the command")
}

// ConfigFile returns the value of the --config flag.
func ConfigFile() string {
	return cfgFile
}

// AddCommand adds a command to the root command.
func AddCommand(cmds ...*cobra.Command) {
	rootCmd.AddCommand(cmds...)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// PrintMetrics writes every counter in name order.
func PrintMetrics(w io.Writer, m *observability.InMemoryMetrics) {
	counters := m.Counters()
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "Metrics:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %d\n", k, counters[k])
	}
}
