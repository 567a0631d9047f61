package task

import "context"

// Store defines the persistence boundary for tasks.
// Every operation acts on a single row, or on the whole table for DeleteAll.
type Store interface {
	ListAll(ctx context.Context) ([]Task, error)
	ListCompleted(ctx context.Context) ([]Task, error)
	ListPending(ctx context.Context) ([]Task, error)

	// Insert ignores t.ID, assigns a fresh one and returns the stored task.
	Insert(ctx context.Context, t Task) (Task, error)
	// Update overwrites the row matching t.ID. A missing row is not an error.
	Update(ctx context.Context, t Task) error
	// Delete removes the row matching t.ID. A missing row is not an error.
	Delete(ctx context.Context, t Task) error
	DeleteAll(ctx context.Context) error
}
