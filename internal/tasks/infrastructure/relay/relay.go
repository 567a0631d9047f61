// Package relay forwards every visible-list snapshot to a message broker.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// RoutingKey is the routing key of visible-list events.
const RoutingKey = "tasks.visible_list.replaced"

// publishTimeout bounds a single publish. Publishes are detached from the
// relay's context so stopping the relay does not abort one in flight.
const publishTimeout = 5 * time.Second

// VisibleListReplaced is the event published for every snapshot.
type VisibleListReplaced struct {
	EventID    uuid.UUID   `json:"event_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Filter     string      `json:"filter"`
	Count      int         `json:"count"`
	Tasks      []task.Task `json:"tasks"`
}

// NewVisibleListReplaced builds the event for a snapshot.
func NewVisibleListReplaced(s application.Snapshot) VisibleListReplaced {
	tasks := s.Tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	return VisibleListReplaced{
		EventID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
		Filter:     s.Filter.String(),
		Count:      len(tasks),
		Tasks:      tasks,
	}
}

// Source provides visible-list snapshots.
type Source interface {
	Subscribe() (<-chan application.Snapshot, func())
}

// Relay publishes snapshots from a Source through an eventbus.Publisher.
// Publish failures are logged and counted; they never reach the coordinator.
type Relay struct {
	source    Source
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
}

// New creates a relay.
func New(source Source, publisher eventbus.Publisher, logger *slog.Logger, metrics observability.Metrics) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Relay{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run publishes snapshots until ctx is cancelled or the subscription closes.
// A publish already in progress when ctx is cancelled runs to completion, and a
// snapshot still pending is flushed, so the last change of a short-lived process
// is not lost.
func (r *Relay) Run(ctx context.Context) error {
	updates, unsubscribe := r.source.Subscribe()
	defer unsubscribe()

	r.logger.Debug("relay started", "routing_key", RoutingKey)

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return nil
			}
			r.publish(ctx, snapshot)
		case <-ctx.Done():
			select {
			case snapshot, ok := <-updates:
				if ok {
					r.publish(ctx, snapshot)
				}
			default:
			}
			r.logger.Debug("relay stopped")
			return ctx.Err()
		}
	}
}

func (r *Relay) publish(ctx context.Context, snapshot application.Snapshot) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.Publish(ctx, snapshot); err != nil {
		r.metrics.Counter(observability.MetricEventsPublishErrors, 1)
		r.logger.WarnContext(ctx, "failed to relay visible list",
			"filter", snapshot.Filter.String(),
			"error", err,
		)
		return
	}
	r.metrics.Counter(observability.MetricEventsPublished, 1)
}

// Publish sends a single snapshot.
func (r *Relay) Publish(ctx context.Context, snapshot application.Snapshot) error {
	payload, err := json.Marshal(NewVisibleListReplaced(snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return r.publisher.Publish(ctx, RoutingKey, payload)
}
