// Package module resolves the behavior modules a page declares in its head.
//
// A page lists its modules as <script type="module" src="..."> tags. An
// Importer turns each src into Exports: a Run hook invoked once the page is
// visible and a Free hook invoked before the next page replaces it. A module
// without Run contributes no behavior.
package module

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sync"
)

// ErrNotFound is returned by an Importer that has nothing registered for a
// src.
var ErrNotFound = errors.New("module not found")

// Exports is what a loaded module exposes. Either hook may be nil.
type Exports struct {
	Run  func(ctx context.Context) error
	Free func(ctx context.Context) error
}

// Importer loads the module at src.
type Importer interface {
	Import(ctx context.Context, src *url.URL) (Exports, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(ctx context.Context, src *url.URL) (Exports, error)

// Import calls f.
func (f ImporterFunc) Import(ctx context.Context, src *url.URL) (Exports, error) {
	return f(ctx, src)
}

// Factory builds a fresh Exports value each time a page imports the module.
type Factory func() Exports

// Registry is an Importer backed by Go implementations registered by path.
// Lookups use the cleaned path of the src URL, so "./js/page/games.mjs"
// resolved against any base on the same site matches "/js/page/games.mjs".
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Factory)}
}

// Register adds a module under p.
func (r *Registry) Register(p string, factory Factory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.modules == nil {
		r.modules = make(map[string]Factory)
	}
	r.modules[cleanPath(p)] = factory
	return r
}

// Import returns a fresh Exports from the factory registered for src's path.
func (r *Registry) Import(_ context.Context, src *url.URL) (Exports, error) {
	r.mu.RLock()
	factory, ok := r.modules[cleanPath(src.Path)]
	r.mu.RUnlock()

	if !ok {
		return Exports{}, fmt.Errorf("%w: %s", ErrNotFound, src.Path)
	}
	return factory(), nil
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// Chain tries each Importer in order and returns the first result that is
// not ErrNotFound.
type Chain []Importer

// Import implements Importer.
func (c Chain) Import(ctx context.Context, src *url.URL) (Exports, error) {
	for _, imp := range c {
		exp, err := imp.Import(ctx, src)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return exp, err
	}
	return Exports{}, fmt.Errorf("%w: %s", ErrNotFound, src)
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}
