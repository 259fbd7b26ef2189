// Package registry maps link type names to their handlers.
//
// Registration is open until Freeze is called, usually right before a run
// starts. Registering the same type twice keeps the later handler.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Handler executes one link type. Config arrives with every placeholder
// already resolved; state gives read access to prior step outputs and
// conversations.
type Handler interface {
	// Execute runs the link and returns its raw output.
	Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error)
	// Schema describes the handler's default output shape. May return nil
	// when the handler declares none.
	Schema() map[string]any
}

// HandlerFunc adapts a plain function to the Handler interface with no
// declared output schema.
type HandlerFunc func(ctx context.Context, config map[string]any, state *domain.State) (any, error)

func (f HandlerFunc) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	return f(ctx, config, state)
}

func (f HandlerFunc) Schema() map[string]any { return nil }

// UnknownTypeError reports a recipe step whose type has no registered
// handler. It is fatal for the run that hits it.
type UnknownTypeError struct {
	Type string
	Step string
}

func (e *UnknownTypeError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("step %q: no handler registered for link type %q", e.Step, e.Type)
	}
	return fmt.Sprintf("no handler registered for link type %q", e.Type)
}

// Registry manages the available link handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	frozen   bool
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler for a link type. If the type already has a handler
// it is overwritten. Registering after Freeze returns an error.
func (r *Registry) Register(linkType string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("registry is frozen, cannot register %q", linkType)
	}
	r.handlers[linkType] = h
	return nil
}

// Freeze closes the registry for further registration. Lookups keep working.
// Freezing twice is a no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the handler for a link type.
func (r *Registry) Lookup(linkType string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[linkType]
	if !ok {
		return nil, &UnknownTypeError{Type: linkType}
	}
	return h, nil
}

// Types lists the registered link types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
