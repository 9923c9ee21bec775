package googletasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tasks "google.golang.org/api/tasks/v1"

	"todos/internal/tasklist"
)

// untitled replaces an empty remote title.
const untitled = "(untitled)"

// notesPrefix marks the metadata line stored in a remote task's notes.
const notesPrefix = "todos:"

// formatNotes encodes the fields Google Tasks has no place for.
func formatNotes(t tasklist.Task) string {
	return fmt.Sprintf("%sid=%d;created=%s", notesPrefix, t.ID, t.CreatedAt.UTC().Format(time.RFC3339))
}

// parseNotes decodes metadata written by formatNotes.
func parseNotes(notes string) (id int64, created time.Time, ok bool) {
	for _, line := range strings.Split(notes, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, notesPrefix) {
			continue
		}
		var haveID, haveCreated bool
		for _, field := range strings.Split(strings.TrimPrefix(line, notesPrefix), ";") {
			key, value, found := strings.Cut(field, "=")
			if !found {
				continue
			}
			switch key {
			case "id":
				n, err := strconv.ParseInt(value, 10, 64)
				if err == nil && n >= 0 {
					id, haveID = n, true
				}
			case "created":
				t, err := time.Parse(time.RFC3339, value)
				if err == nil {
					created, haveCreated = t.UTC(), true
				}
			}
		}
		if haveID && haveCreated {
			return id, created, true
		}
	}
	return 0, time.Time{}, false
}

// toRemote converts a local task for insertion.
func toRemote(t tasklist.Task) *tasks.Task {
	rt := &tasks.Task{
		Title:  t.Text,
		Notes:  formatNotes(t),
		Status: statusNeedsAction,
	}
	if t.Completed {
		rt.Status = statusCompleted
	}
	return rt
}

// fromRemote converts a remote task. Tasks created outside this program have
// no metadata; they are adopted with an id and creation time derived from
// their last update, and ok is false. Titles edited remotely may be empty or
// too long, so the text is brought back within the local rules either way.
func fromRemote(rt *tasks.Task) (task tasklist.Task, ok bool) {
	task = tasklist.Task{
		Text:      remoteText(rt.Title),
		Completed: rt.Status == statusCompleted,
	}

	id, created, ok := parseNotes(rt.Notes)
	if ok {
		task.ID = id
		task.CreatedAt = created
		return task, true
	}

	if updated, err := time.Parse(time.RFC3339, rt.Updated); err == nil {
		task.CreatedAt = updated.UTC().Truncate(time.Second)
	}
	task.ID = task.CreatedAt.UnixMilli()
	if task.ID < 0 {
		task.ID = 0
	}
	return task, false
}

// remoteText trims a remote title and fits it to MaxTextLength.
func remoteText(title string) string {
	text := strings.TrimSpace(strings.ToValidUTF8(title, string(utf8.RuneError)))
	if text == "" {
		return untitled
	}
	if r := []rune(text); len(r) > tasklist.MaxTextLength {
		text = strings.TrimSpace(string(r[:tasklist.MaxTextLength]))
	}
	return text
}

// diff returns a patch turning rt into t, or nil if nothing changed.
func diff(rt *tasks.Task, t tasklist.Task) *tasks.Task {
	var patch tasks.Task
	changed := false

	if rt.Title != t.Text {
		patch.Title = t.Text
		changed = true
	}

	wantStatus := statusNeedsAction
	if t.Completed {
		wantStatus = statusCompleted
	}
	if rt.Status != wantStatus {
		patch.Status = wantStatus
		if wantStatus == statusNeedsAction {
			patch.NullFields = []string{"Completed"}
		}
		changed = true
	}

	if !changed {
		return nil
	}
	return &patch
}
