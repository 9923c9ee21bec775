package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todos/internal/tasklist"
)

// StorageKey is the fixed key the task list is saved under.
const StorageKey = "todos_app_data"

// ErrCorrupt indicates saved data that cannot be decoded into a task list.
var ErrCorrupt = errors.New("saved task list is unreadable")

const schemaURL = "https://todos.invalid/schema/todos_app_data.schema.json"

//go:embed schema/todos_app_data.schema.json
var schemaJSON string

var payloadSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("storage: add schema: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("storage: compile schema: %v", err))
	}
	return schema
}

// SlotOption configures a Slot.
type SlotOption func(*Slot)

// WithKey overrides StorageKey.
func WithKey(key string) SlotOption {
	return func(s *Slot) {
		s.key = key
	}
}

// WithLogger sets the logger used to report discarded data.
func WithLogger(logger *log.Logger) SlotOption {
	return func(s *Slot) {
		s.logger = logger
	}
}

// Slot saves the task list as JSON under a single key of a Backend.
// It implements tasklist.Adapter.
type Slot struct {
	backend Backend
	key     string
	logger  *log.Logger
}

// NewSlot creates a Slot over backend.
func NewSlot(backend Backend, opts ...SlotOption) *Slot {
	s := &Slot{
		backend: backend,
		key:     StorageKey,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key the list is saved under.
func (s *Slot) Key() string {
	return s.key
}

// Load implements tasklist.Adapter.
// A missing key yields an empty list. Unreadable data yields an empty list
// and an error wrapping ErrCorrupt.
func (s *Slot) Load(ctx context.Context) ([]tasklist.Task, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}

	tasks, err := Decode(data)
	if err != nil {
		s.logger.Debug("discarding saved task list", "key", s.key, "err", err)
		return nil, err
	}
	return tasks, nil
}

// Save implements tasklist.Adapter.
func (s *Slot) Save(ctx context.Context, tasks []tasklist.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Encode serializes tasks as a JSON array with 2-space indentation and a
// trailing newline. A nil list encodes as [].
func Encode(tasks []tasklist.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []tasklist.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates data produced by Encode.
func Decode(data []byte) ([]tasklist.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := payloadSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var tasks []tasklist.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	seen := make(map[int64]struct{}, len(tasks))
	for i := range tasks {
		if _, ok := seen[tasks[i].ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrCorrupt, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}
		tasks[i].CreatedAt = tasks[i].CreatedAt.UTC()
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return tasks, nil
}
