// Package ui implements the interactive terminal view of the task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todos/internal/tasklist"
)

// NoticeDuration is how long a notification stays on screen.
const NoticeDuration = 3 * time.Second

// Options configures the terminal view.
type Options struct {
	// DateFormat is the layout for the selected task's creation time.
	DateFormat string

	// Now is the clock used for relative times. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug output. Defaults to discarding everything.
	Logger *log.Logger
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type noticeExpiredMsg struct {
	seq int
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx    context.Context
	store  *tasklist.Store
	opts   Options
	logger *log.Logger

	input   textinput.Model
	focus   focusArea
	cursor  int
	pending *tasklist.Pending
	width   int

	notice    string
	noticeErr bool
	noticeSeq int

	// saveErr is the persistence error of the latest change, nil once a
	// later change was saved.
	saveErr error
}

// New creates a Model over store. The input box starts focused.
func New(ctx context.Context, store *tasklist.Store, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DateFormat == "" {
		opts.DateFormat = tasklist.DefaultDateFormat
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "› "
	ti.CharLimit = tasklist.MaxTextLength
	ti.Width = 50
	ti.Focus()

	m := &Model{
		ctx:    ctx,
		store:  store,
		opts:   opts,
		logger: logger,
		input:  ti,
		focus:  focusInput,
	}
	store.Subscribe(m.onChange)
	return m
}

// Run starts the terminal view and blocks until the user quits.
// It returns an error wrapping the persistence failure if the last change
// could not be saved.
func Run(ctx context.Context, store *tasklist.Store, opts Options, in io.Reader, out io.Writer) error {
	m := New(ctx, store, opts)
	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(*Model); ok && fm.saveErr != nil {
		return fmt.Errorf("last change not saved: %w", fm.saveErr)
	}
	return nil
}

// SaveErr returns the persistence error of the latest change, if any.
func (m *Model) SaveErr() error {
	return m.saveErr
}

func (m *Model) onChange(c tasklist.Change) {
	if c.Op == tasklist.OpFilter {
		return
	}
	m.saveErr = c.Err
	m.logger.Debug("store changed", "op", c.Op, "id", c.ID, "err", c.Err)
}

func (m *Model) Init() tea.Cmd {
	if err := m.store.LoadErr(); err != nil {
		return tea.Batch(textinput.Blink, m.notify("Saved tasks could not be read; starting empty", true))
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 6; w > 10 {
			m.input.Width = w
		}
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.pending != nil {
			return m, m.updateConfirm(msg)
		}
		if m.focus == focusInput {
			return m, m.updateInput(msg)
		}
		return m, m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.add()
	case tea.KeyEsc, tea.KeyDown:
		m.focusList()
		return nil
	case tea.KeyTab:
		m.cycleFilter()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.cursor == 0 {
			return m.focusInput()
		}
		m.cursor--
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case " ", "space", "x":
		return m.toggle()
	case "d", "delete":
		return m.delete()
	case "c":
		return m.requestClear()
	case "R":
		return m.requestReset()
	case "1":
		m.setFilter(tasklist.FilterAll)
	case "2":
		m.setFilter(tasklist.FilterActive)
	case "3":
		m.setFilter(tasklist.FilterCompleted)
	case "tab":
		m.cycleFilter()
	case "a", "i", "enter", "esc":
		return m.focusInput()
	}
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		p := *m.pending
		m.pending = nil
		_, err := m.store.Confirm(m.ctx, p)
		m.clampCursor()
		if errors.Is(err, tasklist.ErrStalePending) {
			return m.notify("The list changed; nothing was removed", true)
		}
		done := "Completed tasks removed ✓"
		if p.Action == tasklist.ActionReset {
			done = "All tasks removed ✓"
		}
		return m.notifyResult(done, err)
	case "n", "N", "esc", "q":
		m.pending = nil
	}
	return nil
}

func (m *Model) add() tea.Cmd {
	_, err := m.store.Add(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, tasklist.ErrEmptyText):
		return m.notify("Please type a task!", true)
	case errors.Is(err, tasklist.ErrTextTooLong):
		return m.notify(fmt.Sprintf("A task cannot be longer than %d characters!", tasklist.MaxTextLength), true)
	}
	m.input.Reset()
	m.cursor = 0
	return m.notifyResult("Task added ✓", err)
}

func (m *Model) toggle() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	_, _, err := m.store.Toggle(m.ctx, task.ID)
	m.clampCursor()
	if err != nil {
		return m.notifyResult("", err)
	}
	return nil
}

func (m *Model) delete() tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	_, err := m.store.Delete(m.ctx, task.ID)
	m.clampCursor()
	return m.notifyResult("Task removed ✓", err)
}

func (m *Model) requestClear() tea.Cmd {
	p, err := m.store.RequestClearCompleted()
	if err != nil {
		return m.notify("No completed tasks to clear!", true)
	}
	m.pending = &p
	return nil
}

func (m *Model) requestReset() tea.Cmd {
	p, err := m.store.RequestReset()
	if err != nil {
		return m.notify("No tasks to reset!", true)
	}
	m.pending = &p
	return nil
}

func (m *Model) setFilter(f tasklist.Filter) {
	if err := m.store.SetFilter(f); err != nil {
		m.logger.Warn("filter not applied", "filter", f, "err", err)
		return
	}
	m.clampCursor()
}

func (m *Model) cycleFilter() {
	current := m.store.Filter()
	for i, f := range tasklist.Filters {
		if f == current {
			m.setFilter(tasklist.Filters[(i+1)%len(tasklist.Filters)])
			return
		}
	}
	m.setFilter(tasklist.FilterAll)
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) focusList() {
	m.focus = focusList
	m.input.Blur()
	m.clampCursor()
}

func (m *Model) selected() (tasklist.Task, bool) {
	view := m.store.FilteredView()
	if m.cursor < 0 || m.cursor >= len(view) {
		return tasklist.Task{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.store.FilteredView())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// notifyResult shows msg, or a save error if err carries one.
func (m *Model) notifyResult(msg string, err error) tea.Cmd {
	if err != nil {
		m.logger.Warn("change not saved", "err", err)
		return m.notify("Error saving tasks!", true)
	}
	if msg == "" {
		return nil
	}
	return m.notify(msg, false)
}

// notify shows text until NoticeDuration passes or another notice replaces it.
func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = text
	m.noticeErr = isErr
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
