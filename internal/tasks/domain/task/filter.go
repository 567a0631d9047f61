package task

import (
	"context"
	"fmt"
	"strings"
)

// Filter selects which tasks are visible.
type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterPending
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterCompleted:
		return "completed"
	case FilterPending:
		return "pending"
	default:
		return "unknown"
	}
}

// IsValid returns true if the filter is a known value.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterPending:
		return true
	default:
		return false
	}
}

// Matches reports whether t belongs to the filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.IsCompleted
	case FilterPending:
		return !t.IsCompleted
	default:
		return true
	}
}

// Query returns the store query that backs this filter.
// This is the only place where filters are mapped onto store reads.
func (f Filter) Query(s Store) (func(ctx context.Context) ([]Task, error), error) {
	switch f {
	case FilterAll:
		return s.ListAll, nil
	case FilterCompleted:
		return s.ListCompleted, nil
	case FilterPending:
		return s.ListPending, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidFilter, int(f))
	}
}

// ParseFilter parses a filter name such as "all", "completed" or "pending".
// An empty string selects FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed":
		return FilterCompleted, nil
	case "pending":
		return FilterPending, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q (use all, completed or pending)", ErrInvalidFilter, s)
	}
}
