package schema

import "fmt"

// maxRefDepth bounds reference expansion so that cyclic or degenerate schema
// graphs terminate with an error instead of recursing forever.
const maxRefDepth = 32

const (
	keyRef             = "$ref"
	keyBase            = "base"
	keyProperties      = "properties"
	keyRequired        = "required"
	keyItems           = "items"
	keyValidateAgainst = "_validate_against"
)

// Resolver expands $ref and base composition against a registry of named
// schemas.
type Resolver struct {
	registry *Registry
}

// NewResolver returns a Resolver backed by reg.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{registry: reg}
}

// Resolve returns a fully expanded copy of def: every $ref substituted, every
// base merged, recursively through properties and items. The input is never
// modified. A reference chain deeper than maxRefDepth fails, which also
// covers cycles.
func (r *Resolver) Resolve(def map[string]any) (map[string]any, error) {
	return r.resolve(def, 0)
}

func (r *Resolver) resolve(def map[string]any, depth int) (map[string]any, error) {
	if depth > maxRefDepth {
		return nil, fmt.Errorf("schema reference depth exceeds %d, likely a cycle", maxRefDepth)
	}

	if ref, ok := def[keyRef].(string); ok {
		target, err := r.registry.Lookup(ref)
		if err != nil {
			return nil, err
		}
		// Siblings of $ref are ignored, matching JSON Schema draft-07.
		return r.resolve(target, depth+1)
	}

	if base, ok := def[keyBase].(string); ok {
		parent, err := r.registry.Lookup(base)
		if err != nil {
			return nil, err
		}
		resolvedParent, err := r.resolve(parent, depth+1)
		if err != nil {
			return nil, err
		}
		overlay := deepCopy(def)
		delete(overlay, keyBase)
		def = mergeSchemas(resolvedParent, overlay)
	} else {
		def = deepCopy(def)
	}

	if props, ok := def[keyProperties].(map[string]any); ok {
		for name, sub := range props {
			subSchema, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			resolved, err := r.resolve(subSchema, depth+1)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			props[name] = resolved
		}
	}

	if items, ok := def[keyItems].(map[string]any); ok {
		resolved, err := r.resolve(items, depth+1)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		def[keyItems] = resolved
	}

	return def, nil
}

// mergeSchemas overlays child onto parent. Properties merge per key with the
// child winning; required lists union preserving parent order first; every
// other key is replaced wholesale by the child's value.
func mergeSchemas(parent, child map[string]any) map[string]any {
	out := deepCopy(parent)
	for k, v := range child {
		switch k {
		case keyProperties:
			childProps, okC := v.(map[string]any)
			parentProps, okP := out[keyProperties].(map[string]any)
			if okC && okP {
				for name, sub := range childProps {
					parentProps[name] = copyValue(sub)
				}
				continue
			}
			out[k] = copyValue(v)
		case keyRequired:
			out[k] = unionRequired(out[keyRequired], v)
		default:
			out[k] = copyValue(v)
		}
	}
	return out
}

func unionRequired(parent, child any) []any {
	var out []any
	seen := make(map[string]bool)
	for _, list := range []any{parent, child} {
		items, ok := list.([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			name, ok := item.(string)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
