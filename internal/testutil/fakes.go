// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"todos/internal/storage"
	"todos/internal/tasklist"
)

// FakeBackend is an in-memory implementation of storage.Backend for testing.
type FakeBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
	puts int

	// Error injection for testing
	GetErr error
	PutErr error
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{data: make(map[string][]byte)}
}

// Set stores raw bytes under key, bypassing PutErr.
func (f *FakeBackend) Set(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), data...)
}

// Raw returns the bytes stored under key.
func (f *FakeBackend) Raw(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.data[key]
	return data, ok
}

// Puts returns the number of successful Put calls.
func (f *FakeBackend) Puts() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.puts
}

// Get implements storage.Backend.
func (f *FakeBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put implements storage.Backend.
func (f *FakeBackend) Put(ctx context.Context, key string, data []byte) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), data...)
	f.puts++
	return nil
}

// FakeAdapter is an in-memory implementation of tasklist.Adapter for testing.
type FakeAdapter struct {
	Tasks []tasklist.Task
	Saves int

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// Load implements tasklist.Adapter.
func (f *FakeAdapter) Load(ctx context.Context) ([]tasklist.Task, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return append([]tasklist.Task(nil), f.Tasks...), nil
}

// Save implements tasklist.Adapter.
func (f *FakeAdapter) Save(ctx context.Context, tasks []tasklist.Task) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Tasks = append([]tasklist.Task(nil), tasks...)
	f.Saves++
	return nil
}

// Clock is a deterministic time source that advances by Step on every call.
type Clock struct {
	Now  time.Time
	Step time.Duration
}

// NewClock returns a Clock starting at a fixed instant, stepping one second.
func NewClock() *Clock {
	return &Clock{
		Now:  time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
		Step: time.Second,
	}
}

// Func returns the clock as a time source.
func (c *Clock) Func() func() time.Time {
	return func() time.Time {
		t := c.Now
		c.Now = c.Now.Add(c.Step)
		return t
	}
}

// NewStore creates a store over adapter with a deterministic clock.
func NewStore(adapter tasklist.Adapter) *tasklist.Store {
	return tasklist.New(context.Background(), adapter, tasklist.WithClock(NewClock().Func()))
}
