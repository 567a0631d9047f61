package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

func TestExecute_VersionSkipsInitializer(t *testing.T) {
	called := false
	SetInitializer(func(ctx context.Context) (*App, func(), error) {
		called = true
		return nil, nil, errors.New("no database")
	})
	defer SetInitializer(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetOut(nil)

	require.NoError(t, Execute(context.Background()))
	assert.False(t, called)
	assert.Contains(t, out.String(), "tasklist dev")
}

func TestExecute_HealthBuildsApp(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error { return nil }))

	released := false
	SetInitializer(func(ctx context.Context) (*App, func(), error) {
		return NewApp(nil, health, observability.NewInMemoryMetrics()), func() { released = true }, nil
	})
	defer func() {
		SetInitializer(nil)
		SetApp(nil)
	}()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"health"})
	defer rootCmd.SetOut(nil)

	require.NoError(t, Execute(context.Background()))
	assert.True(t, released)
	assert.Contains(t, out.String(), "status: healthy")
}

func TestExecute_UnhealthyFails(t *testing.T) {
	health := observability.NewHealthRegistry()
	health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
		return errors.New("connection refused")
	}))
	SetApp(NewApp(nil, health, nil))
	defer SetApp(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"health"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	assert.Error(t, Execute(context.Background()))
	assert.Contains(t, out.String(), "status: unhealthy")
}

func TestExecute_HealthReportsUnreachableStore(t *testing.T) {
	SetInitializer(func(ctx context.Context) (*App, func(), error) {
		return nil, nil, errors.New("task store unavailable: connection refused")
	})
	defer SetInitializer(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"health"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	assert.ErrorContains(t, Execute(context.Background()), "unhealthy")
	assert.Regexp(t, `database\s+unhealthy\s+task store unavailable: connection refused`, out.String())
	assert.Contains(t, out.String(), "status: unhealthy")
	assert.Nil(t, GetApp())
}

func TestExecute_InitializerError(t *testing.T) {
	SetInitializer(func(ctx context.Context) (*App, func(), error) {
		return nil, nil, errors.New("no database")
	})
	defer SetInitializer(nil)

	ran := false
	appCmd := &cobra.Command{
		Use: "needs-app",
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			return nil
		},
	}
	rootCmd.AddCommand(appCmd)
	defer rootCmd.RemoveCommand(appCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"needs-app"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	assert.ErrorContains(t, Execute(context.Background()), "no database")
	assert.False(t, ran)
}
