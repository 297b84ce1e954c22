// Package plugin provides the registries mapping configuration type keys to implementations.
//
// geopipe never implements analyzers or evaluators itself: the surrounding framework registers a
// factory per type key and commands look them up when they run.
package plugin

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/geopipe/pkg/cfgerr"
)

var ErrAlreadyRegistered = errors.New("already registered")

// Registry maps type keys to factories of type F. It is safe for concurrent use.
type Registry[F any] struct {
	kind      string
	mu        sync.RWMutex
	factories map[string]F
}

// New creates an empty registry. kind names the registered things in error messages.
func New[F any](kind string) *Registry[F] {
	return &Registry[F]{
		kind:      kind,
		factories: make(map[string]F),
	}
}

// Register adds factory under key. Registering the same key twice fails.
func (r *Registry[F]) Register(key string, factory F) error {
	if key == "" {
		return cfgerr.New(r.kind+" registry", cfgerr.Missing("type"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[key]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "%s %q", r.kind, key)
	}
	r.factories[key] = factory

	return nil
}

// Get returns the factory registered under key, or a configuration error naming the key.
func (r *Registry[F]) Get(key string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[key]
	if !ok {
		var zero F
		return zero, cfgerr.Newf(r.kind+" registry", "no %s registered for type %q", r.kind, key)
	}

	return factory, nil
}

// Keys returns the registered keys in lexical order.
func (r *Registry[F]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
