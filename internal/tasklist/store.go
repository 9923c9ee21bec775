package tasklist

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// Adapter loads and saves the whole task list.
// Load(Save(x)) must equal x for every valid list, including an empty one.
type Adapter interface {
	// Load returns the saved list. A missing list is an empty list, not an error.
	Load(ctx context.Context) ([]Task, error)

	// Save durably replaces the saved list with tasks.
	Save(ctx context.Context, tasks []Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for ids and creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store owns the task list and the filter mode.
// Every mutation persists the full list before returning.
// A Store is not safe for concurrent use.
type Store struct {
	adapter Adapter
	now     func() time.Time
	logger  *log.Logger

	tasks    []Task
	filter   Filter
	lastID   int64
	revision uint64
	loadErr  error

	subscribers []func(Change)
}

// New creates a Store and loads the saved list from adapter.
// A load failure is not fatal: the store starts empty and LoadErr reports why.
func New(ctx context.Context, adapter Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		now:     time.Now,
		logger:  log.New(io.Discard),
		filter:  FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := adapter.Load(ctx)
	if err == nil {
		err = checkUnique(tasks)
	}
	if err != nil {
		s.logger.Warn("starting with an empty task list", "err", err)
		s.loadErr = err
		tasks = nil
	}
	s.tasks = tasks
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.logger.Debug("task list loaded", "tasks", len(s.tasks))
	return s
}

// LoadErr returns the error that made New start with an empty list, if any.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn func(Change)) {
	s.subscribers = append(s.subscribers, fn)
}

// Add validates rawText and inserts a new task at the front of the list.
func (s *Store) Add(ctx context.Context, rawText string) (Task, error) {
	text, err := validateText(rawText)
	if err != nil {
		return Task{}, err
	}

	now := s.now()
	task := Task{
		ID:        s.nextID(now),
		Text:      text,
		CreatedAt: now.UTC().Truncate(time.Second),
	}

	tasks := make([]Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	tasks = append(tasks, s.tasks...)
	s.tasks = tasks

	return task, s.commit(ctx, OpAdd, task.ID)
}

// Toggle flips the completion flag of the task with the given id.
// found is false, and nothing happens, if no such task exists.
func (s *Store) Toggle(ctx context.Context, id int64) (task Task, found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], true, s.commit(ctx, OpToggle, id)
}

// SetCompleted sets the completion flag of the task with the given id.
// Nothing is written if the task is already in the requested state.
func (s *Store) SetCompleted(ctx context.Context, id int64, completed bool) (task Task, found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false, nil
	}
	if s.tasks[i].Completed == completed {
		return s.tasks[i], true, nil
	}
	return s.Toggle(ctx, id)
}

// Delete removes the task with the given id.
// It reports whether a task was removed; an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	tasks := make([]Task, 0, len(s.tasks)-1)
	tasks = append(tasks, s.tasks[:i]...)
	tasks = append(tasks, s.tasks[i+1:]...)
	s.tasks = tasks
	return true, s.commit(ctx, OpDelete, id)
}

// RequestClearCompleted prepares removal of all completed tasks.
// It returns ErrEmptyOperation if no task is completed.
func (s *Store) RequestClearCompleted() (Pending, error) {
	n := s.Stats().Completed
	if n == 0 {
		return Pending{}, fmt.Errorf("no completed tasks to clear: %w", ErrEmptyOperation)
	}
	return Pending{Action: ActionClearCompleted, Affected: n, revision: s.revision}, nil
}

// RequestReset prepares removal of every task.
// It returns ErrEmptyOperation if the list is empty.
func (s *Store) RequestReset() (Pending, error) {
	if len(s.tasks) == 0 {
		return Pending{}, fmt.Errorf("no tasks to reset: %w", ErrEmptyOperation)
	}
	return Pending{Action: ActionReset, Affected: len(s.tasks), revision: s.revision}, nil
}

// Confirm performs a pending operation and returns the number of removed tasks.
// It returns ErrStalePending if the store changed since the request.
func (s *Store) Confirm(ctx context.Context, p Pending) (int, error) {
	if p.revision != s.revision {
		return 0, ErrStalePending
	}

	switch p.Action {
	case ActionClearCompleted:
		kept := make([]Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		removed := len(s.tasks) - len(kept)
		s.tasks = kept
		return removed, s.commit(ctx, OpClearCompleted, 0)

	case ActionReset:
		removed := len(s.tasks)
		s.tasks = nil
		s.filter = FilterAll
		return removed, s.commit(ctx, OpReset, 0)

	default:
		return 0, fmt.Errorf("unknown action %q", p.Action)
	}
}

// ClearCompleted removes every completed task once decide agrees.
// The filter mode is left unchanged.
func (s *Store) ClearCompleted(ctx context.Context, decide Decision) (int, error) {
	p, err := s.RequestClearCompleted()
	if err != nil {
		return 0, err
	}
	return s.decideAndConfirm(ctx, p, decide)
}

// ResetAll removes every task and resets the filter to FilterAll once decide agrees.
func (s *Store) ResetAll(ctx context.Context, decide Decision) (int, error) {
	p, err := s.RequestReset()
	if err != nil {
		return 0, err
	}
	return s.decideAndConfirm(ctx, p, decide)
}

func (s *Store) decideAndConfirm(ctx context.Context, p Pending, decide Decision) (int, error) {
	if decide == nil || !decide(p) {
		return 0, ErrDeclined
	}
	return s.Confirm(ctx, p)
}

// SetFilter changes the filter mode. The task list is not touched.
func (s *Store) SetFilter(f Filter) error {
	if !f.Valid() {
		return &ValidationError{Field: "filter", Value: string(f), Err: ErrUnknownFilter}
	}
	if f == s.filter {
		return nil
	}
	s.filter = f
	s.notify(Change{Op: OpFilter})
	return nil
}

// SetFilterString parses and sets the filter mode.
func (s *Store) SetFilterString(mode string) error {
	f, err := ParseFilter(mode)
	if err != nil {
		return err
	}
	return s.SetFilter(f)
}

// Filter returns the current filter mode.
func (s *Store) Filter() Filter {
	return s.filter
}

// FilteredView returns the tasks visible under the current filter, in list order.
func (s *Store) FilteredView() []Task {
	return s.View(s.filter)
}

// View returns the tasks visible under f, in list order.
func (s *Store) View(f Filter) []Task {
	result := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Match(t) {
			result = append(result, t)
		}
	}
	return result
}

// Tasks returns a copy of the whole list.
func (s *Store) Tasks() []Task {
	return s.View(FilterAll)
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Stats counts tasks by completion state.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// commit persists the list after a mutation and notifies subscribers.
func (s *Store) commit(ctx context.Context, op Op, id int64) error {
	s.revision++

	var err error
	if saveErr := s.adapter.Save(ctx, s.Tasks()); saveErr != nil {
		s.logger.Warn("task list not saved", "op", op, "err", saveErr)
		err = &PersistError{Op: op, Err: saveErr}
	} else {
		s.logger.Debug("task list saved", "op", op, "id", id, "tasks", len(s.tasks))
	}

	s.notify(Change{Op: op, ID: id, Err: err})
	return err
}

func (s *Store) notify(c Change) {
	for _, fn := range s.subscribers {
		fn(c)
	}
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID derives a fresh id from the clock in milliseconds, bumped past the
// highest id handed out so far.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func validateText(raw string) (string, error) {
	// JSON cannot carry invalid UTF-8; store what a reload would return.
	text := strings.TrimSpace(strings.ToValidUTF8(raw, string(utf8.RuneError)))
	if text == "" {
		return "", &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", &ValidationError{Field: "text", Err: ErrTextTooLong}
	}
	return text, nil
}

func checkUnique(tasks []Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
