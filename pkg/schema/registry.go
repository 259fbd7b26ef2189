package schema

import "sync"

// Registry holds named schemas for $ref, base and _validate_against lookups.
// Registration is last-wins; lookups return a copy so callers cannot mutate
// the registered definition. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]map[string]any
}

// NewRegistry returns an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]map[string]any)}
}

// Register stores def under name, replacing any previous definition.
func (r *Registry) Register(name string, def map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = deepCopy(def)
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.schemas[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return deepCopy(def), nil
}

// Names lists all registered schema names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopy(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
