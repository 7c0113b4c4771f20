// Package handles implements the opaque-handle registries that back the
// bridge's external call surface. External callers only ever see plain
// integers; the registry owns the mapping from those integers to the
// heap-allocated entities they name.
package handles

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when an identifier is not bound in the registry,
// either because it was never allocated or because it has been released.
var ErrNotFound = errors.New("handle not found")

// Registry maps monotonically allocated integer handles to entities of one
// kind. Each entity kind gets its own Registry so a handle of one kind can
// never resolve an entity of another; the type parameter enforces this at
// compile time.
//
// Identifiers start at 1 and are never reused, even after Release. All
// methods are safe for concurrent use.
type Registry[T any] struct {
	mu      sync.Mutex
	next    int64
	entries map[int64]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		next:    1,
		entries: make(map[int64]T),
	}
}

// Put allocates a fresh identifier, binds entity to it, and returns it.
// Allocation and binding happen under a single lock acquisition, so two
// concurrent callers can never observe an allocated-but-unbound handle.
func (r *Registry[T]) Put(entity T) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.entries[id] = entity
	return id
}

// Get resolves a handle to its entity. Returns ErrNotFound for handles that
// were never allocated or have been released.
func (r *Registry[T]) Get(id int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entity, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return entity, nil
}

// Release unbinds a handle. The identifier is not recycled; a later Get on
// it keeps failing with ErrNotFound.
func (r *Registry[T]) Release(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(r.entries, id)
	return nil
}

// Len returns the number of currently bound entities.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
