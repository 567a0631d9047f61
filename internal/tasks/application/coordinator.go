// Package application holds the task coordinator: the single owner of the
// current filter and of the visible task list.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// Snapshot is a published visible list together with the filter it was read under.
type Snapshot struct {
	Filter task.Filter
	Tasks  []task.Task
}

// Coordinator mediates every task intent. Each intent performs one store call,
// then recomputes the visible list from the store and publishes it to subscribers.
//
// Units of work are serialized. On failure the visible list is left as it was
// and the error is returned to the caller.
type Coordinator struct {
	store   task.Store
	logger  *slog.Logger
	metrics observability.Metrics

	work sync.Mutex

	state   sync.RWMutex
	filter  task.Filter
	visible []task.Task

	subs      sync.Mutex
	nextSubID int
	observers map[int]chan Snapshot
}

// NewCoordinator creates a coordinator with the All filter and an empty visible list.
// Call Refresh to perform the initial load.
func NewCoordinator(store task.Store, logger *slog.Logger, metrics observability.Metrics) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Coordinator{
		store:     store,
		logger:    logger,
		metrics:   metrics,
		filter:    task.FilterAll,
		visible:   []task.Task{},
		observers: make(map[int]chan Snapshot),
	}
}

// Filter returns the current filter.
func (c *Coordinator) Filter() task.Filter {
	c.state.RLock()
	defer c.state.RUnlock()
	return c.filter
}

// Tasks returns a copy of the current visible list.
func (c *Coordinator) Tasks() []task.Task {
	c.state.RLock()
	defer c.state.RUnlock()
	return cloneTasks(c.visible)
}

// Snapshot returns the current filter and visible list.
func (c *Coordinator) Snapshot() Snapshot {
	c.state.RLock()
	defer c.state.RUnlock()
	return Snapshot{Filter: c.filter, Tasks: cloneTasks(c.visible)}
}

// Find looks a task up in the current visible list.
func (c *Coordinator) Find(id int64) (task.Task, bool) {
	c.state.RLock()
	defer c.state.RUnlock()
	for _, t := range c.visible {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Subscribe registers an observer of the visible list. The current snapshot is
// delivered immediately. The channel holds only the latest snapshot: a newer one
// replaces an unread older one. The returned function unsubscribes and closes the channel.
func (c *Coordinator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.subs.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.observers[id] = ch
	ch <- c.Snapshot()
	c.subs.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subs.Lock()
			delete(c.observers, id)
			close(ch)
			c.subs.Unlock()
		})
	}
}

// Refresh reloads the visible list under the current filter.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.run(ctx, "refresh", func() error {
		return c.reload(ctx)
	})
}

// SetFilter switches the filter and reloads the visible list with it.
// The filter changes even if the reload fails.
func (c *Coordinator) SetFilter(ctx context.Context, f task.Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("%w: %d", task.ErrInvalidFilter, int(f))
	}
	return c.run(ctx, "set_filter", func() error {
		c.state.Lock()
		c.filter = f
		c.state.Unlock()
		return c.reload(ctx)
	})
}

// AddTask stores a new pending task. An empty description is ignored.
func (c *Coordinator) AddTask(ctx context.Context, description string) error {
	if description == "" {
		c.logger.DebugContext(ctx, "ignoring empty task description")
		return nil
	}
	return c.run(ctx, "add_task", func() error {
		if _, err := c.store.Insert(ctx, task.NewTask(description)); err != nil {
			return fmt.Errorf("add task: %w", err)
		}
		return c.reload(ctx)
	})
}

// ToggleCompletion flips the completion flag of t.
func (c *Coordinator) ToggleCompletion(ctx context.Context, t task.Task) error {
	return c.run(ctx, "toggle_completion", func() error {
		if err := c.store.Update(ctx, t.Toggled()); err != nil {
			return fmt.Errorf("toggle task %d: %w", t.ID, err)
		}
		return c.reload(ctx)
	})
}

// UpdateDescription replaces the description of t.
func (c *Coordinator) UpdateDescription(ctx context.Context, t task.Task, description string) error {
	return c.run(ctx, "update_description", func() error {
		if err := c.store.Update(ctx, t.WithDescription(description)); err != nil {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		return c.reload(ctx)
	})
}

// DeleteTask removes t.
func (c *Coordinator) DeleteTask(ctx context.Context, t task.Task) error {
	return c.run(ctx, "delete_task", func() error {
		if err := c.store.Delete(ctx, t); err != nil {
			return fmt.Errorf("delete task %d: %w", t.ID, err)
		}
		return c.reload(ctx)
	})
}

// DeleteAllTasks clears the store and publishes an empty list without reloading.
func (c *Coordinator) DeleteAllTasks(ctx context.Context) error {
	return c.run(ctx, "delete_all_tasks", func() error {
		if err := c.store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete all tasks: %w", err)
		}
		c.replace([]task.Task{})
		return nil
	})
}

func (c *Coordinator) run(ctx context.Context, operation string, fn func() error) error {
	c.work.Lock()
	defer c.work.Unlock()

	logger := c.logger.With("filter", c.Filter().String())
	return observability.TimeOperation(ctx, logger, c.metrics, "tasks."+operation, fn)
}

// reload must be called with the work lock held.
func (c *Coordinator) reload(ctx context.Context) error {
	filter := c.Filter()
	query, err := filter.Query(c.store)
	if err != nil {
		return err
	}

	tasks, err := query(ctx)
	if err != nil {
		return fmt.Errorf("load %s tasks: %w", filter, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.replace(tasks)
	return nil
}

func (c *Coordinator) replace(tasks []task.Task) {
	c.state.Lock()
	c.visible = tasks
	snapshot := Snapshot{Filter: c.filter, Tasks: cloneTasks(tasks)}
	c.state.Unlock()

	c.metrics.Gauge(observability.MetricVisibleTasks, float64(len(tasks)))
	c.publish(snapshot)
}

func (c *Coordinator) publish(snapshot Snapshot) {
	c.subs.Lock()
	defer c.subs.Unlock()

	for _, ch := range c.observers {
		// Drop the unread snapshot so the newest one always fits.
		select {
		case <-ch:
		default:
		}
		ch <- Snapshot{Filter: snapshot.Filter, Tasks: cloneTasks(snapshot.Tasks)}
	}
}

func cloneTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out
}
