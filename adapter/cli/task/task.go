// Package task holds the task list commands.
package task

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklist/adapter/cli"
	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
)

// Commands returns the task list commands.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		newAddCmd(),
		newListCmd(),
		newToggleCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newClearCmd(),
		newShellCmd(),
	}
}

// nothingToAdd is printed when add gets an empty description.
const nothingToAdd = "nothing to add"

func coordinator() (*application.Coordinator, error) {
	app := cli.GetApp()
	if app == nil || app.Coordinator == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	return app.Coordinator, nil
}

// intents translates user input into coordinator calls.
type intents struct {
	c   *application.Coordinator
	out io.Writer
}

// add reports false when there was nothing to add.
func (i intents) add(ctx context.Context, description string) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		fmt.Fprintln(i.out, nothingToAdd)
		return false, nil
	}
	return true, i.c.AddTask(ctx, description)
}

func (i intents) toggle(ctx context.Context, idArg string) error {
	t, err := i.find(idArg)
	if err != nil {
		return err
	}
	return i.c.ToggleCompletion(ctx, t)
}

func (i intents) edit(ctx context.Context, idArg, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("description must not be empty")
	}
	t, err := i.find(idArg)
	if err != nil {
		return err
	}
	return i.c.UpdateDescription(ctx, t, description)
}

// remove deletes by ID. IDs outside the visible list are passed through,
// deleting a missing row is a no-op.
func (i intents) remove(ctx context.Context, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	t, ok := i.c.Find(id)
	if !ok {
		t = task.Task{ID: id}
	}
	return i.c.DeleteTask(ctx, t)
}

func (i intents) clear(ctx context.Context) error {
	return i.c.DeleteAllTasks(ctx)
}

func (i intents) filter(ctx context.Context, name string) error {
	f, err := task.ParseFilter(name)
	if err != nil {
		return err
	}
	return i.c.SetFilter(ctx, f)
}

func (i intents) render() {
	cli.RenderList(i.out, i.c.Snapshot())
}

func (i intents) find(idArg string) (task.Task, error) {
	id, err := parseID(idArg)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := i.c.Find(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, id)
	}
	return t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// newIntents resolves the coordinator for a command.
func newIntents(cmd *cobra.Command) (intents, error) {
	c, err := coordinator()
	if err != nil {
		return intents{}, err
	}
	return intents{c: c, out: cmd.OutOrStdout()}, nil
}
