package types

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateType is returned when a type is defined twice
	ErrDuplicateType = errors.New("type is already defined")
	// ErrEmptyType is returned when a type record has no identifier
	ErrEmptyType = errors.New("type identifier is empty")
)

// Registry is an in-memory Provider safe for concurrent use
type Registry struct {
	types map[TypeID]*Type
	mu    sync.RWMutex
}

// NewRegistry creates an empty type registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[TypeID]*Type),
	}
}

// Define registers a type record. The record is copied.
func (r *Registry) Define(t Type) error {
	if t.ID.IsEmpty() {
		return ErrEmptyType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.ID)
	}

	stored := t
	stored.Interfaces = append([]TypeID(nil), t.Interfaces...)
	r.types[t.ID] = &stored
	return nil
}

// DefineAll registers several records, stopping at the first failure
func (r *Registry) DefineAll(records ...Type) error {
	for _, t := range records {
		if err := r.Define(t); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements Provider
func (r *Registry) Lookup(id TypeID) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[id]
	return t, ok
}

// Exists checks if a type is defined
func (r *Registry) Exists(id TypeID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// List returns all defined identifiers in sorted order
func (r *Registry) List() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]TypeID, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns the number of defined types
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

// Clear removes all definitions (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[TypeID]*Type)
}
