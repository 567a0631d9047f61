package application

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/tasklist/internal/tasks/infrastructure/persistence"
)

func setupSQLiteCoordinator(t *testing.T) (*Coordinator, task.Store) {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "tasks.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))

	store := persistence.NewSQLStore(conn)
	c := newTestCoordinator(store)
	require.NoError(t, c.Refresh(ctx))
	return c, store
}

func TestCoordinatorSQLite_EmptyAddLeavesEverythingUnchanged(t *testing.T) {
	ctx := context.Background()
	c, store := setupSQLiteCoordinator(t)

	require.NoError(t, c.AddTask(ctx, "a"))
	before := c.Tasks()

	require.NoError(t, c.AddTask(ctx, ""))

	assert.Equal(t, before, c.Tasks())
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, all)
}

func TestCoordinatorSQLite_AddGrowsVisibleListByOne(t *testing.T) {
	ctx := context.Background()
	c, _ := setupSQLiteCoordinator(t)

	seen := map[int64]bool{}
	for i, d := range []string{"a", "b", "a"} {
		require.NoError(t, c.AddTask(ctx, d))

		tasks := c.Tasks()
		require.Len(t, tasks, i+1)
		added := tasks[len(tasks)-1]
		assert.Equal(t, d, added.Description)
		assert.False(t, added.IsCompleted)
		assert.False(t, seen[added.ID], "id %d reused", added.ID)
		seen[added.ID] = true
	}
}

func TestCoordinatorSQLite_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	c, _ := setupSQLiteCoordinator(t)

	require.NoError(t, c.AddTask(ctx, "a"))
	original := c.Tasks()[0]

	require.NoError(t, c.ToggleCompletion(ctx, original))
	toggled, ok := c.Find(original.ID)
	require.True(t, ok)
	assert.True(t, toggled.IsCompleted)

	require.NoError(t, c.ToggleCompletion(ctx, toggled))
	restored, ok := c.Find(original.ID)
	require.True(t, ok)
	assert.Equal(t, original, restored)
}

func TestCoordinatorSQLite_DeleteAllEmptiesEveryFilter(t *testing.T) {
	ctx := context.Background()
	c, _ := setupSQLiteCoordinator(t)

	require.NoError(t, c.AddTask(ctx, "a"))
	require.NoError(t, c.AddTask(ctx, "b"))
	require.NoError(t, c.ToggleCompletion(ctx, c.Tasks()[1]))

	require.NoError(t, c.DeleteAllTasks(ctx))
	assert.Empty(t, c.Tasks())

	for _, f := range task.Filters {
		require.NoError(t, c.SetFilter(ctx, f))
		assert.Empty(t, c.Tasks(), "filter %s", f)
	}
}

func TestCoordinatorSQLite_FilterScenario(t *testing.T) {
	ctx := context.Background()
	c, store := setupSQLiteCoordinator(t)

	a, err := store.Insert(ctx, task.Task{Description: "A"})
	require.NoError(t, err)
	b, err := store.Insert(ctx, task.Task{Description: "B", IsCompleted: true})
	require.NoError(t, err)

	require.NoError(t, c.SetFilter(ctx, task.FilterPending))
	assert.Equal(t, []task.Task{a}, c.Tasks())
	for _, tk := range c.Tasks() {
		assert.False(t, tk.IsCompleted)
	}

	require.NoError(t, c.SetFilter(ctx, task.FilterCompleted))
	assert.Equal(t, []task.Task{b}, c.Tasks())
	for _, tk := range c.Tasks() {
		assert.True(t, tk.IsCompleted)
	}

	require.NoError(t, c.SetFilter(ctx, task.FilterAll))
	assert.Equal(t, []task.Task{a, b}, c.Tasks())
}

func TestCoordinatorSQLite_MutationsReloadThroughFilter(t *testing.T) {
	ctx := context.Background()
	c, _ := setupSQLiteCoordinator(t)

	require.NoError(t, c.SetFilter(ctx, task.FilterPending))
	require.NoError(t, c.AddTask(ctx, "a"))
	require.Len(t, c.Tasks(), 1)

	// Completing a task under the pending filter drops it from view.
	require.NoError(t, c.ToggleCompletion(ctx, c.Tasks()[0]))
	assert.Empty(t, c.Tasks())

	require.NoError(t, c.SetFilter(ctx, task.FilterCompleted))
	require.Len(t, c.Tasks(), 1)

	require.NoError(t, c.UpdateDescription(ctx, c.Tasks()[0], "renamed"))
	assert.Equal(t, "renamed", c.Tasks()[0].Description)
	assert.True(t, c.Tasks()[0].IsCompleted)
}

func TestCoordinatorSQLite_DeleteMissingTaskIsNoOp(t *testing.T) {
	ctx := context.Background()
	c, _ := setupSQLiteCoordinator(t)

	require.NoError(t, c.AddTask(ctx, "A"))
	before := c.Tasks()

	require.NoError(t, c.DeleteTask(ctx, task.Task{ID: before[0].ID + 42, Description: "B"}))
	assert.Equal(t, before, c.Tasks())
}
