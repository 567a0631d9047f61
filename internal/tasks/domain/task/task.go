package task

import "errors"

var (
	// ErrStoreUnavailable is returned when the task store cannot be reached.
	ErrStoreUnavailable = errors.New("task store unavailable")
	// ErrInvalidFilter is returned for filter values outside All, Completed and Pending.
	ErrInvalidFilter = errors.New("invalid task filter")
	// ErrTaskNotFound is returned by adapters that address a task the visible list does not contain.
	// Stores never return it: updating or deleting a missing row is a no-op.
	ErrTaskNotFound = errors.New("task not found")
)

// Task is a single to-do item.
// ID is zero until the store assigns one on insert and never changes afterwards.
type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
}

// NewTask creates a pending task that has not been stored yet.
func NewTask(description string) Task {
	return Task{Description: description}
}

// IsStored reports whether the store has assigned an ID.
func (t Task) IsStored() bool { return t.ID > 0 }

// Toggled returns a copy with the completion flag flipped.
func (t Task) Toggled() Task {
	t.IsCompleted = !t.IsCompleted
	return t
}

// WithDescription returns a copy carrying the new description.
func (t Task) WithDescription(description string) Task {
	t.Description = description
	return t
}
