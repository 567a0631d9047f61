package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	// Should not panic
	m.Counter("test", 1)
	m.Gauge("test", 1.0)
	m.Timing("test", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1, T("op", "add"))
		m.Counter("requests", 1, T("op", "rm"))
		m.Counter("requests", 1, T("op", "add"))

		assert.Equal(t, int64(2), m.GetCounter("requests", T("op", "add")))
		assert.Equal(t, int64(1), m.GetCounter("requests", T("op", "rm")))
		assert.Len(t, m.Counters(), 2)
	})

	t.Run("Gauge keeps last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("visible", 3)
		m.Gauge("visible", 0)
		assert.Equal(t, 0.0, m.GetGauge("visible"))
	})

	t.Run("Timing appends", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing("latency", time.Millisecond)
		m.Timing("latency", 2*time.Millisecond)
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, m.GetTimings("latency"))
	})
}

func TestTimeOperation(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		err := TimeOperation(context.Background(), logger, m, "tasks.add", func() error { return nil })

		require.NoError(t, err)
		assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T(OperationKey, "tasks.add")))
		assert.Equal(t, int64(0), m.GetCounter(MetricOperationErrors, T(OperationKey, "tasks.add")))
		assert.Len(t, m.GetTimings(MetricOperationDuration, T(OperationKey, "tasks.add")), 1)
		assert.Contains(t, buf.String(), "operation completed")
	})

	t.Run("records failure", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		boom := errors.New("boom")

		err := TimeOperation(context.Background(), logger, m, "tasks.rm", func() error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T(OperationKey, "tasks.rm")))
		assert.Contains(t, buf.String(), "operation failed")
		assert.Contains(t, buf.String(), "boom")
	})
}

func TestHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("store", DatabaseHealthChecker(func(context.Context) error { return nil }))
	registry.Register("events", BrokerHealthChecker(func(context.Context) error { return errors.New("refused") }))

	results := registry.Check(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, "events", results[0].Name)
	assert.Equal(t, HealthStatusDegraded, results[0].Status)
	assert.Contains(t, results[0].Message, "refused")
	assert.Equal(t, "store", results[1].Name)
	assert.Equal(t, HealthStatusHealthy, results[1].Status)

	assert.Equal(t, HealthStatusDegraded, OverallStatus(results))

	registry.Register("store", DatabaseHealthChecker(func(context.Context) error { return errors.New("locked") }))
	assert.Equal(t, HealthStatusUnhealthy, OverallStatus(registry.Check(context.Background())))
	assert.Equal(t, HealthStatusHealthy, OverallStatus(nil))
}
