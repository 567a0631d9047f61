package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/tasklist/internal/tasks/application"
	"github.com/felixgeelhaar/tasklist/internal/tasks/domain/task"
)

// CheckBox returns "[x]" for completed tasks and "[ ]" otherwise.
func CheckBox(t task.Task) string {
	if t.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

// RenderTask writes a single task row.
func RenderTask(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "  %s #%d %s\n", CheckBox(t), t.ID, t.Description)
}

// RenderList writes the header and rows of a visible list.
func RenderList(w io.Writer, s application.Snapshot) {
	fmt.Fprintf(w, "Tasks (%s, %d):\n", s.Filter, len(s.Tasks))
	if len(s.Tasks) == 0 {
		fmt.Fprintln(w, "  No tasks.")
		return
	}
	for _, t := range s.Tasks {
		RenderTask(w, t)
	}
}
