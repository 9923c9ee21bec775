package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todos/internal/tasklist"
	"todos/internal/testutil"
)

func newTestModel(t *testing.T, adapter *testutil.FakeAdapter, texts ...string) (*Model, *tasklist.Store) {
	t.Helper()
	store := testutil.NewStore(adapter)
	for _, text := range texts {
		if _, err := store.Add(context.Background(), text); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
	}
	now := time.Date(2026, time.October, 16, 12, 5, 0, 0, time.UTC)
	m := New(context.Background(), store, Options{Now: func() time.Time { return now }})
	return m, store
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestTypingAndEnterAddsTask(t *testing.T) {
	adapter := &testutil.FakeAdapter{}
	m, store := newTestModel(t, adapter)

	send(m, runes("Buy milk"), key(tea.KeyEnter))

	if store.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", store.Len())
	}
	if got := store.Tasks()[0].Text; got != "Buy milk" {
		t.Errorf("expected text %q, got %q", "Buy milk", got)
	}
	if m.input.Value() != "" {
		t.Errorf("expected input to be cleared, got %q", m.input.Value())
	}
	if m.notice != "Task added ✓" || m.noticeErr {
		t.Errorf("unexpected notice %q (err=%v)", m.notice, m.noticeErr)
	}
	if adapter.Saves != 1 {
		t.Errorf("expected 1 save, got %d", adapter.Saves)
	}
}

func TestEmptyInputIsRejected(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{})

	send(m, runes("   "), key(tea.KeyEnter))

	if store.Len() != 0 {
		t.Errorf("expected no task, got %d", store.Len())
	}
	if m.notice != "Please type a task!" || !m.noticeErr {
		t.Errorf("unexpected notice %q (err=%v)", m.notice, m.noticeErr)
	}
}

func TestNoticeExpires(t *testing.T) {
	m, _ := newTestModel(t, &testutil.FakeAdapter{})

	send(m, key(tea.KeyEnter))
	first := m.noticeSeq
	send(m, runes("x"), key(tea.KeyEnter))

	send(m, noticeExpiredMsg{seq: first})
	if m.notice == "" {
		t.Error("stale expiry cleared a newer notice")
	}

	send(m, noticeExpiredMsg{seq: m.noticeSeq})
	if m.notice != "" {
		t.Errorf("expected notice to expire, got %q", m.notice)
	}
}

func TestListNavigationAndToggle(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk", "Walk dog")

	// Walk dog is first (newest); move to Buy milk and toggle it.
	send(m, key(tea.KeyEsc), key(tea.KeyDown), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if m.focus != focusList {
		t.Fatal("expected list focus")
	}
	tasks := store.Tasks()
	if tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("expected only Buy milk completed, got %+v", tasks)
	}

	// Up twice returns to the input box.
	send(m, key(tea.KeyUp), key(tea.KeyUp))
	if m.focus != focusInput {
		t.Error("expected input focus after moving above the first task")
	}
}

func TestDelete(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk", "Walk dog")

	send(m, key(tea.KeyEsc), runes("d"))

	if store.Len() != 1 || store.Tasks()[0].Text != "Buy milk" {
		t.Errorf("expected only Buy milk left, got %+v", store.Tasks())
	}
	if m.notice != "Task removed ✓" {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestFilterKeys(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk", "Walk dog")
	store.Toggle(context.Background(), store.Tasks()[1].ID)

	send(m, key(tea.KeyEsc), runes("2"))
	if store.Filter() != tasklist.FilterActive {
		t.Fatalf("expected active filter, got %q", store.Filter())
	}
	view := m.View()
	if !strings.Contains(view, "Walk dog") || strings.Contains(view, "Buy milk") {
		t.Errorf("active view should show only Walk dog:\n%s", view)
	}

	send(m, runes("3"))
	if store.Filter() != tasklist.FilterCompleted {
		t.Errorf("expected completed filter, got %q", store.Filter())
	}

	send(m, key(tea.KeyTab))
	if store.Filter() != tasklist.FilterAll {
		t.Errorf("expected tab to wrap to all, got %q", store.Filter())
	}
}

func TestClearCompletedConfirmed(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk", "Walk dog", "Pay rent")
	store.Toggle(context.Background(), store.Tasks()[2].ID)
	store.SetFilter(tasklist.FilterCompleted)

	send(m, key(tea.KeyEsc), runes("c"))
	if m.pending == nil || m.pending.Affected != 1 {
		t.Fatalf("expected pending clear of 1 task, got %+v", m.pending)
	}
	if !strings.Contains(m.View(), "Remove 1 completed task(s)?") {
		t.Errorf("expected confirmation dialog:\n%s", m.View())
	}

	send(m, runes("y"))
	if m.pending != nil {
		t.Error("expected dialog to close")
	}
	if st := store.Stats(); st.Completed != 0 || st.Total != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
	if store.Filter() != tasklist.FilterCompleted {
		t.Errorf("clear must keep the filter, got %q", store.Filter())
	}
	if m.notice != "Completed tasks removed ✓" {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestClearCompletedDeclined(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk")
	store.Toggle(context.Background(), store.Tasks()[0].ID)

	send(m, key(tea.KeyEsc), runes("c"), runes("n"))

	if m.pending != nil {
		t.Error("expected dialog to close")
	}
	if store.Stats().Completed != 1 {
		t.Error("declined clear must not remove anything")
	}
}

func TestClearWithNothingCompleted(t *testing.T) {
	m, _ := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk")

	send(m, key(tea.KeyEsc), runes("c"))

	if m.pending != nil {
		t.Error("expected no dialog")
	}
	if m.notice != "No completed tasks to clear!" {
		t.Errorf("unexpected notice %q", m.notice)
	}
}

func TestResetConfirmed(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk", "Walk dog")
	store.SetFilter(tasklist.FilterActive)

	send(m, key(tea.KeyEsc), runes("R"))
	if !strings.Contains(m.View(), "Remove ALL 2 task(s)?") {
		t.Errorf("expected reset dialog:\n%s", m.View())
	}
	send(m, key(tea.KeyEnter))

	if store.Len() != 0 {
		t.Errorf("expected empty list, got %d", store.Len())
	}
	if store.Filter() != tasklist.FilterAll {
		t.Errorf("reset must restore the all filter, got %q", store.Filter())
	}
	if !strings.Contains(m.View(), "no tasks found") {
		t.Errorf("expected empty state:\n%s", m.View())
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	adapter := &testutil.FakeAdapter{SaveErr: errors.New("disk full")}
	m, store := newTestModel(t, adapter)

	send(m, runes("Buy milk"), key(tea.KeyEnter))

	if store.Len() != 1 {
		t.Error("mutation must be kept after a failed save")
	}
	if m.notice != "Error saving tasks!" || !m.noticeErr {
		t.Errorf("unexpected notice %q", m.notice)
	}
	if !tasklist.IsPersistError(m.SaveErr()) {
		t.Errorf("expected a persist error, got %v", m.SaveErr())
	}

	adapter.SaveErr = nil
	send(m, runes("Walk dog"), key(tea.KeyEnter))
	if m.SaveErr() != nil {
		t.Errorf("expected a later save to clear the error, got %v", m.SaveErr())
	}
}

func TestLoadFailureNotice(t *testing.T) {
	m, _ := newTestModel(t, &testutil.FakeAdapter{LoadErr: errors.New("corrupt")})

	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init command")
	}
	if !m.noticeErr || m.notice == "" {
		t.Errorf("expected load failure notice, got %q", m.notice)
	}
}

func TestViewShowsRelativeTimeAndCounters(t *testing.T) {
	m, store := newTestModel(t, &testutil.FakeAdapter{}, "Buy milk")
	store.Toggle(context.Background(), store.Tasks()[0].ID)

	view := m.View()
	for _, want := range []string{"Buy milk", "[x]", "5 minutes ago", "1 total · 0 active · 1 completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &testutil.FakeAdapter{})

	// q types into the input box; it only quits from the list.
	send(m, runes("q"))
	if m.focus != focusInput || m.input.Value() != "q" {
		t.Fatalf("expected q to be typed, got %q", m.input.Value())
	}

	cmd := send(m, key(tea.KeyEsc), runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewSanitizesTaskText(t *testing.T) {
	m, _ := newTestModel(t, &testutil.FakeAdapter{}, "line one\nline two", "\x1b]52;c;ZXZpbA==\a")

	view := m.View()
	if strings.Contains(view, "\x1b]52") || strings.Contains(view, "\a") {
		t.Errorf("view leaks a terminal escape sequence: %q", view)
	}
	if !strings.Contains(view, "�]52;c;ZXZpbA==�") {
		t.Errorf("expected control characters replaced:\n%s", view)
	}
	if !strings.Contains(view, "line one line two") {
		t.Errorf("expected the task on one row:\n%s", view)
	}
}
