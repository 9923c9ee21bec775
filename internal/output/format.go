// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"todos/internal/tasklist"
)

const (
	// ListSeparator is the separator line between the tasks and the stats footer.
	ListSeparator = "------------"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces,
// checkbox, text)
func FormatTask(w io.Writer, num int, task tasklist.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), SanitizeText(task.Text))
}

// FormatTaskLong is FormatTask with the creation time appended.
// Format: "{N:>4}  [x] {TEXT}  ({CREATED})\n"
// A nil loc formats in the local time zone.
func FormatTaskLong(w io.Writer, num int, task tasklist.Task, layout string, loc *time.Location) {
	if layout == "" {
		layout = tasklist.DefaultDateFormat
	}
	if loc == nil {
		loc = time.Local
	}
	created := task.CreatedAt.In(loc).Format(layout)
	fmt.Fprintf(w, "%4d  %s %s  (%s)\n", num, Checkbox(task.Completed), SanitizeText(task.Text), created)
}

// FormatStats formats the aggregate counters.
func FormatStats(w io.Writer, st tasklist.Stats) {
	fmt.Fprintf(w, "total: %d  active: %d  completed: %d\n", st.Total, st.Active, st.Completed)
}

// FormatFooter formats the separator and stats below a task list.
func FormatFooter(w io.Writer, st tasklist.Stats) {
	fmt.Fprintln(w, ListSeparator)
	FormatStats(w, st)
}

// Checkbox renders the completion state.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// EmptyMessage returns the message shown when no task is visible under f.
func EmptyMessage(f tasklist.Filter) string {
	switch f {
	case tasklist.FilterActive:
		return "no active tasks"
	case tasklist.FilterCompleted:
		return "no completed tasks"
	default:
		return "no tasks found"
	}
}

// SanitizeText makes task text safe to print on one terminal line.
// Line breaks and tabs become spaces; other control characters, which could
// start escape sequences, become U+FFFD.
func SanitizeText(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return utf8.RuneError
		}
		return r
	}, text)
}
