// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"log/slog"
	"sync"

	"github.com/samber/oops"
)

// Registry maps command kinds to executors and remembers registration order.
// It is thread-safe for concurrent access.
type Registry struct {
	commands map[Kind]Entry
	order    []Kind
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[Kind]Entry),
	}
}

// Register adds an executor. Registering a kind twice replaces the executor
// in place, keeps the original position and logs a warning.
func (r *Registry) Register(entry Entry) error {
	if entry.Kind == "" {
		return oops.Code("INVALID_ENTRY").Errorf("command entry has no kind")
	}
	if entry.Handler == nil {
		return oops.Code("INVALID_ENTRY").With("command", string(entry.Kind)).Errorf("command entry has no handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[entry.Kind]; ok {
		slog.Warn("command conflict: overwriting existing executor", "command", string(entry.Kind))
	} else {
		r.order = append(r.order, entry.Kind)
	}
	r.commands[entry.Kind] = entry
	return nil
}

// Get retrieves the executor for kind.
func (r *Registry) Get(kind Kind) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.commands[kind]
	return entry, ok
}

// Kinds returns registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}
