package googletasks

import (
	"errors"
	"strings"
	"testing"
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"todos/internal/tasklist"
)

func TestNotesRoundTrip(t *testing.T) {
	task := tasklist.Task{
		ID:        1792152000000,
		CreatedAt: time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
	}

	notes := formatNotes(task)
	if notes != "todos:id=1792152000000;created=2026-10-16T12:00:00Z" {
		t.Errorf("unexpected notes %q", notes)
	}

	id, created, ok := parseNotes("user text\n" + notes)
	if !ok {
		t.Fatal("expected metadata to parse")
	}
	if id != task.ID || !created.Equal(task.CreatedAt) {
		t.Errorf("got id=%d created=%v", id, created)
	}
}

func TestParseNotes_Invalid(t *testing.T) {
	for _, notes := range []string{
		"",
		"remember the receipt",
		"todos:id=abc;created=2026-10-16T12:00:00Z",
		"todos:id=5",
		"todos:created=2026-10-16T12:00:00Z",
		"todos:id=-1;created=2026-10-16T12:00:00Z",
	} {
		if _, _, ok := parseNotes(notes); ok {
			t.Errorf("parseNotes(%q): expected failure", notes)
		}
	}
}

func TestFromRemote(t *testing.T) {
	long := strings.Repeat("é", tasklist.MaxTextLength+10)
	created := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	notes := "todos:id=1792152000000;created=2026-10-16T12:00:00Z"

	tests := []struct {
		name     string
		rt       *tasks.Task
		wantText string
		wantOK   bool
	}{
		{"with metadata", &tasks.Task{Title: " Buy milk ", Notes: notes}, "Buy milk", true},
		{"with metadata empty title", &tasks.Task{Title: "", Notes: notes}, "(untitled)", true},
		{"with metadata blank title", &tasks.Task{Title: "   ", Notes: notes}, "(untitled)", true},
		{"with metadata long title", &tasks.Task{Title: long, Notes: notes}, strings.Repeat("é", tasklist.MaxTextLength), true},
		{"adopted empty title", &tasks.Task{Updated: "2026-10-16T12:00:00.000Z"}, "(untitled)", false},
		{"adopted long title", &tasks.Task{Title: long, Updated: "2026-10-16T12:00:00.000Z"}, strings.Repeat("é", tasklist.MaxTextLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, ok := fromRemote(tt.rt)
			if ok != tt.wantOK {
				t.Errorf("expected ok %v, got %v", tt.wantOK, ok)
			}
			if task.Text != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, task.Text)
			}
			if task.ID != 1792152000000 || !task.CreatedAt.Equal(created) {
				t.Errorf("unexpected id %d created %v", task.ID, task.CreatedAt)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	rt := &tasks.Task{Title: "a", Status: statusCompleted}

	if p := diff(rt, tasklist.Task{Text: "a", Completed: true}); p != nil {
		t.Errorf("expected no patch, got %+v", p)
	}

	p := diff(rt, tasklist.Task{Text: "a", Completed: false})
	if p == nil || p.Status != statusNeedsAction || len(p.NullFields) != 1 || p.NullFields[0] != "Completed" {
		t.Errorf("expected reopen patch, got %+v", p)
	}
	if p.Title != "" {
		t.Errorf("expected title untouched, got %q", p.Title)
	}

	p = diff(rt, tasklist.Task{Text: "b", Completed: true})
	if p == nil || p.Title != "b" || p.Status != "" {
		t.Errorf("expected title patch, got %+v", p)
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Get ...: context deadline exceeded", "request timed out"},
		{"googleapi: Error 401: Invalid Credentials", "token expired or revoked (run: todos login)"},
		{"googleapi: Error 404: Not Found", "not found"},
		{"boom", "boom"},
	}
	for _, tt := range tests {
		if got := wrapError(errors.New(tt.in)).Error(); got != tt.want {
			t.Errorf("wrapError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if wrapError(nil) != nil {
		t.Error("expected nil for nil")
	}
}
