package registry

import (
	"sync"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// Registry stores items by name and lists them in registration order
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates a new Registry instance
func New[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register adds an item to the registry
func (r *Registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", name)
	}

	r.items[name] = item
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for package initialisation, where a duplicate
// name is a programming error.
func (r *Registry[T]) MustRegister(name string, item T) {
	if err := r.Register(name, item); err != nil {
		panic(err)
	}
}

// Get retrieves an item from the registry
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}

	return item, nil
}

// Resolve returns the items for names in the order given. Unknown names
// are collected into a single ErrNotFound error.
func (r *Registry[T]) Resolve(names []string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(names))
	var missing []string
	for _, name := range names {
		item, ok := r.items[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, item)
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.ErrNotFound, "unknown names: %v", missing).
			WithDetail("known", append([]string(nil), r.order...))
	}
	return out, nil
}

// List returns all registered names in registration order
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Has checks if an item is registered
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

// Count returns the number of registered items
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
