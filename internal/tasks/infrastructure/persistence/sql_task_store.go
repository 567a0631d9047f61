package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
)

const (
	selectTasks = `SELECT id, description, is_completed FROM tasks`

	listAllQuery       = selectTasks + ` ORDER BY id`
	listCompletedQuery = selectTasks + ` WHERE is_completed = ? ORDER BY id`
	insertQuery        = `INSERT INTO tasks (description, is_completed) VALUES (?, ?) RETURNING id`
	updateQuery        = `UPDATE tasks SET description = ?, is_completed = ? WHERE id = ?`
	deleteQuery        = `DELETE FROM tasks WHERE id = ?`
	deleteAllQuery     = `DELETE FROM tasks`
)

// SQLStore implements task.Store on top of a SQLite or PostgreSQL connection.
type SQLStore struct {
	conn   database.Connection
	driver database.Driver
}

// NewSQLStore creates a new SQL-backed task store.
func NewSQLStore(conn database.Connection) *SQLStore {
	return &SQLStore{conn: conn, driver: conn.Driver()}
}

var _ task.Store = (*SQLStore)(nil)

// ListAll returns every task ordered by ID.
func (s *SQLStore) ListAll(ctx context.Context) ([]task.Task, error) {
	return s.list(ctx, "list all", listAllQuery)
}

// ListCompleted returns completed tasks ordered by ID.
func (s *SQLStore) ListCompleted(ctx context.Context) ([]task.Task, error) {
	return s.list(ctx, "list completed", listCompletedQuery, true)
}

// ListPending returns pending tasks ordered by ID.
func (s *SQLStore) ListPending(ctx context.Context) ([]task.Task, error) {
	return s.list(ctx, "list pending", listCompletedQuery, false)
}

// Insert stores a new task and returns it with its assigned ID.
func (s *SQLStore) Insert(ctx context.Context, t task.Task) (task.Task, error) {
	var id int64
	err := s.conn.QueryRow(ctx, s.driver.Rebind(insertQuery), t.Description, t.IsCompleted).Scan(&id)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	t.ID = id
	return t, nil
}

// Update overwrites description and completion of the task's row.
func (s *SQLStore) Update(ctx context.Context, t task.Task) error {
	if _, err := s.conn.Exec(ctx, s.driver.Rebind(updateQuery), t.Description, t.IsCompleted, t.ID); err != nil {
		return fmt.Errorf("failed to update task %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes the task's row.
func (s *SQLStore) Delete(ctx context.Context, t task.Task) error {
	if _, err := s.conn.Exec(ctx, s.driver.Rebind(deleteQuery), t.ID); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", t.ID, err)
	}
	return nil
}

// DeleteAll removes every task.
func (s *SQLStore) DeleteAll(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, deleteAllQuery); err != nil {
		return fmt.Errorf("failed to delete all tasks: %w", err)
	}
	return nil
}

func (s *SQLStore) list(ctx context.Context, op, query string, args ...any) ([]task.Task, error) {
	rows, err := s.conn.Query(ctx, s.driver.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s tasks: %w", op, err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Description, &t.IsCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to %s tasks: %w", op, err)
	}
	return tasks, nil
}
