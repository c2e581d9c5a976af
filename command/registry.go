package command

import (
	"sync/atomic"

	"emperror.dev/errors"
)

const (
	// ErrDuplicateCommand is returned when registering a name that already
	// exists. Registration failures are fatal to startup.
	ErrDuplicateCommand = errors.Sentinel("command already registered")
	// ErrNotFound is returned by Lookup for unknown command names.
	ErrNotFound = errors.Sentinel("command not found")
	// ErrNoCapabilities is returned when registering a non-public command
	// with an empty required capability set.
	ErrNoCapabilities = errors.Sentinel("non-public command requires at least one capability")
	// ErrNoHandler is returned when registering a command without a handler.
	ErrNoHandler = errors.Sentinel("command has no handler")
	// ErrNoName is returned when registering a command with an empty name.
	ErrNoName = errors.Sentinel("command has no name")
)

// Registry maps command names to definitions. All registration happens during
// process initialization; after that the registry is only read, so lookups
// need no synchronization. Dynamic reload is done by building a fresh
// Registry and swapping it into a Holder, never by mutating a live one.
type Registry struct {
	commands map[string]*Definition
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: map[string]*Definition{}}
}

// Register adds a definition to the registry. A duplicate name fails with
// ErrDuplicateCommand and leaves the existing definition intact.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return ErrNoName
	}
	if def.Exec == nil {
		return errors.WithMessagef(ErrNoHandler, "command %q", def.Name)
	}
	if !def.Public && len(def.Require) == 0 {
		return errors.WithMessagef(ErrNoCapabilities, "command %q", def.Name)
	}

	if _, ok := r.commands[def.Name]; ok {
		return errors.WithMessagef(ErrDuplicateCommand, "command %q", def.Name)
	}

	r.commands[def.Name] = &def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister registers a definition and panics on failure. Used for the
// built-in command set, where a registration error is a programming mistake.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup resolves a command name.
func (r *Registry) Lookup(name string) (*Definition, error) {
	def, ok := r.commands[name]
	if !ok {
		return nil, errors.WithMessagef(ErrNotFound, "command %q", name)
	}
	return def, nil
}

// List returns all definitions in registration order.
func (r *Registry) List() []*Definition {
	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

// Holder holds the registry currently in use and allows it to be replaced
// atomically. Readers may hold on to a registry snapshot for the duration of
// one invocation; a swap never affects invocations already in flight.
type Holder struct {
	v atomic.Value
}

// NewHolder returns a Holder containing the given registry.
func NewHolder(r *Registry) *Holder {
	h := &Holder{}
	h.v.Store(r)
	return h
}

// Load returns the current registry.
func (h *Holder) Load() *Registry {
	return h.v.Load().(*Registry)
}

// Swap replaces the current registry.
func (h *Holder) Swap(r *Registry) {
	h.v.Store(r)
}
