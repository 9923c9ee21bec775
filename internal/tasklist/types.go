// Package tasklist holds the task list, its filter mode and the rules for
// changing them.
package tasklist

import (
	"strings"
	"time"
)

// MaxTextLength is the maximum task text length in characters.
const MaxTextLength = 200

// DefaultDateFormat is the display layout for CreatedAt.
const DefaultDateFormat = "02/01/2006, 15:04:05"

// Task represents a single task item.
type Task struct {
	ID        int64     `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// CreatedLabel formats CreatedAt for display in the local time zone.
// An empty layout uses DefaultDateFormat.
func (t Task) CreatedLabel(layout string) string {
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.CreatedAt.Local().Format(layout)
}

// Filter selects which tasks the filtered view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filter modes in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Valid reports whether f is one of the known filter modes.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseFilter parses a filter mode name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", &ValidationError{Field: "filter", Err: ErrUnknownFilter, Value: s}
	}
	return f, nil
}

// Stats holds aggregate counts over the task list.
// Active + Completed == Total always holds.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Active    int `json:"active" yaml:"active"`
	Completed int `json:"completed" yaml:"completed"`
}

// Action names a destructive operation that needs confirmation.
type Action string

const (
	ActionClearCompleted Action = "clear-completed"
	ActionReset          Action = "reset"
)

// Pending is a destructive operation awaiting confirmation.
// It is only valid for the store revision it was issued at.
type Pending struct {
	Action   Action
	Affected int
	revision uint64
}

// Decision is a yes/no gate consulted before a destructive operation.
type Decision func(Pending) bool

// Always is a Decision that grants every confirmation.
func Always(Pending) bool { return true }

// Op names a store change for subscribers.
type Op string

const (
	OpAdd            Op = "add"
	OpToggle         Op = "toggle"
	OpDelete         Op = "delete"
	OpClearCompleted Op = "clear-completed"
	OpReset          Op = "reset"
	OpFilter         Op = "filter"
)

// Change describes one state change. ID is zero for list-wide changes.
type Change struct {
	Op  Op
	ID  int64
	Err error // persistence error, if the write failed
}
