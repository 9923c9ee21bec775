package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered commands. Names and aliases share one namespace:
// "todos delete" must never mean two things.
type Registry struct {
	mu      sync.RWMutex
	names   map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		names:   make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command to the registry.
// Returns an error if the name is empty or if the name or any alias is
// already taken by another name or alias.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if name == "" {
		return fmt.Errorf("command has no name")
	}
	if err := r.checkFree(name); err != nil {
		return err
	}

	seen := map[string]bool{name: true}
	for _, alias := range c.Aliases() {
		if alias == "" || seen[alias] {
			return fmt.Errorf("invalid alias %q for command %s", alias, name)
		}
		seen[alias] = true
		if err := r.checkFree(alias); err != nil {
			return err
		}
	}

	r.names[name] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = name
	}
	return nil
}

// checkFree reports who already owns word. Callers hold r.mu.
func (r *Registry) checkFree(word string) error {
	if _, exists := r.names[word]; exists {
		return fmt.Errorf("command already registered: %s", word)
	}
	if owner, exists := r.aliases[word]; exists {
		return fmt.Errorf("%s is already an alias of %s", word, owner)
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(word string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.aliases[word]; ok {
		word = name
	}
	cmd, ok := r.names[word]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = r.names[name]
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
