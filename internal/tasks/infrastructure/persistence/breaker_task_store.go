package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// BreakerConfig configures the circuit breaker around a store.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerStore guards a task.Store with a circuit breaker.
// While the breaker is open every call fails fast with task.ErrStoreUnavailable.
type BreakerStore struct {
	next    task.Store
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerStore wraps next with a circuit breaker.
func NewBreakerStore(next task.Store, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	settings := gobreaker.Settings{
		Name:        "task-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.Gauge(observability.MetricStoreBreakerState, float64(to))
		},
		// Cancelled or expired contexts say nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &BreakerStore{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

var _ task.Store = (*BreakerStore)(nil)

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStore) ListAll(ctx context.Context) ([]task.Task, error) {
	return s.list(func() ([]task.Task, error) { return s.next.ListAll(ctx) })
}

func (s *BreakerStore) ListCompleted(ctx context.Context) ([]task.Task, error) {
	return s.list(func() ([]task.Task, error) { return s.next.ListCompleted(ctx) })
}

func (s *BreakerStore) ListPending(ctx context.Context) ([]task.Task, error) {
	return s.list(func() ([]task.Task, error) { return s.next.ListPending(ctx) })
}

func (s *BreakerStore) Insert(ctx context.Context, t task.Task) (task.Task, error) {
	result, err := s.execute(func() (any, error) { return s.next.Insert(ctx, t) })
	if err != nil {
		return task.Task{}, err
	}
	return result.(task.Task), nil
}

func (s *BreakerStore) Update(ctx context.Context, t task.Task) error {
	_, err := s.execute(func() (any, error) { return nil, s.next.Update(ctx, t) })
	return err
}

func (s *BreakerStore) Delete(ctx context.Context, t task.Task) error {
	_, err := s.execute(func() (any, error) { return nil, s.next.Delete(ctx, t) })
	return err
}

func (s *BreakerStore) DeleteAll(ctx context.Context) error {
	_, err := s.execute(func() (any, error) { return nil, s.next.DeleteAll(ctx) })
	return err
}

func (s *BreakerStore) list(fn func() ([]task.Task, error)) ([]task.Task, error) {
	result, err := s.execute(func() (any, error) { return fn() })
	if err != nil {
		return nil, err
	}
	return result.([]task.Task), nil
}

func (s *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}
	return result, err
}
