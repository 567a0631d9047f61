package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
)

type taskAddInput struct {
	Description string `json:"description" jsonschema:"required"`
}

type taskListInput struct {
	Filter string `json:"filter,omitempty"`
}

type taskIDInput struct {
	ID int64 `json:"id" jsonschema:"required"`
}

type taskEditInput struct {
	ID          int64  `json:"id" jsonschema:"required"`
	Description string `json:"description" jsonschema:"required"`
}

// visibleList is returned by every task tool.
type visibleList struct {
	Filter string      `json:"filter"`
	Count  int         `json:"count"`
	Tasks  []task.Task `json:"tasks"`
}

func newVisibleList(s application.Snapshot) visibleList {
	return visibleList{
		Filter: s.Filter.String(),
		Count:  len(s.Tasks),
		Tasks:  s.Tasks,
	}
}

// taskTools serializes its calls so each reply is the visible list produced by
// that call's own intent, not by a concurrent client's.
type taskTools struct {
	app *cli.App
	mu  sync.Mutex
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := &taskTools{app: deps.App}

	srv.Tool("task.add").
		Description("Add a pending task. An empty description adds nothing").
		Handler(tools.add)

	srv.Tool("task.list").
		Description("Set the filter (all, completed, pending) and list the visible tasks").
		Handler(tools.list)

	srv.Tool("task.toggle").
		Description("Flip a visible task between pending and completed").
		Handler(tools.toggle)

	srv.Tool("task.edit").
		Description("Replace the description of a visible task").
		Handler(tools.edit)

	srv.Tool("task.delete").
		Description("Delete a task by id; unknown ids are ignored").
		Handler(tools.delete)

	srv.Tool("task.clear").
		Description("Delete every task").
		Handler(tools.clear)

	return nil
}

func (t *taskTools) coordinator() (*application.Coordinator, error) {
	if t.app == nil || t.app.Coordinator == nil {
		return nil, errors.New("task tools require database connection")
	}
	return t.app.Coordinator, nil
}

func (t *taskTools) add(ctx context.Context, input taskAddInput) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	if err := c.AddTask(ctx, strings.TrimSpace(input.Description)); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func (t *taskTools) list(ctx context.Context, input taskListInput) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	f, err := task.ParseFilter(input.Filter)
	if err != nil {
		return visibleList{}, err
	}
	if err := c.SetFilter(ctx, f); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func (t *taskTools) toggle(ctx context.Context, input taskIDInput) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	found, err := find(c, input.ID)
	if err != nil {
		return visibleList{}, err
	}
	if err := c.ToggleCompletion(ctx, found); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func (t *taskTools) edit(ctx context.Context, input taskEditInput) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return visibleList{}, errors.New("description is required")
	}
	found, err := find(c, input.ID)
	if err != nil {
		return visibleList{}, err
	}
	if err := c.UpdateDescription(ctx, found, description); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func (t *taskTools) delete(ctx context.Context, input taskIDInput) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	if input.ID <= 0 {
		return visibleList{}, fmt.Errorf("invalid task id %d", input.ID)
	}
	target, ok := c.Find(input.ID)
	if !ok {
		target = task.Task{ID: input.ID}
	}
	if err := c.DeleteTask(ctx, target); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func (t *taskTools) clear(ctx context.Context, input struct{}) (visibleList, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := t.coordinator()
	if err != nil {
		return visibleList{}, err
	}
	if err := c.DeleteAllTasks(ctx); err != nil {
		return visibleList{}, err
	}
	return newVisibleList(c.Snapshot()), nil
}

func find(c *application.Coordinator, id int64) (task.Task, error) {
	found, ok := c.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, id)
	}
	return found, nil
}
