package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Resolver substitutes placeholders in strings and nested structures. The
// zero value is not usable; construct with NewResolver.
type Resolver struct {
	funcs map[string]Func
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithFunc registers an additional placeholder function, overriding any
// built-in of the same name.
func WithFunc(name string, fn Func) Option {
	return func(r *Resolver) {
		r.funcs[name] = fn
	}
}

// NewResolver returns a Resolver with the built-in functions installed.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{funcs: builtins()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes every placeholder in s against ctx. When s is exactly
// one placeholder the referenced value is returned with its native type;
// otherwise the placeholders stringify and concatenate with the surrounding
// literal text. Strings without placeholders come back unchanged.
func (r *Resolver) Resolve(s string, ctx map[string]any) (any, error) {
	if !hasPlaceholder(s) {
		return s, nil
	}
	tokens := tokenize(s)
	if len(tokens) == 1 && tokens[0].placeholder {
		return r.eval(tokens[0].text, ctx)
	}
	var b strings.Builder
	for _, tok := range tokens {
		if !tok.placeholder {
			b.WriteString(tok.text)
			continue
		}
		v, err := r.eval(tok.text, ctx)
		if err != nil {
			return nil, err
		}
		b.WriteString(stringify(v))
	}
	return b.String(), nil
}

// ResolveValue walks v recursively, resolving every string it contains. Maps
// and slices are returned as fresh copies; non-string scalars pass through
// untouched.
func (r *Resolver) ResolveValue(v any, ctx map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return r.Resolve(val, ctx)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			resolved, err := r.ResolveValue(item, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			resolved, err := r.ResolveValue(item, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// EvalCondition resolves expr and folds the result to a boolean: true booleans,
// the strings "true", "yes" and "1" (case-insensitive), and numbers greater
// than zero count as true; everything else, including nil, counts as false.
func (r *Resolver) EvalCondition(expr string, ctx map[string]any) (bool, error) {
	v, err := r.Resolve(expr, ctx)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// Truthy applies the condition semantics of EvalCondition to an already
// resolved value.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return n > 0
		}
		return false
	default:
		if n, err := cast.ToFloat64E(v); err == nil {
			return n > 0
		}
		return false
	}
}

// eval resolves a single placeholder body: a function call or a dotted path.
func (r *Resolver) eval(body string, ctx map[string]any) (any, error) {
	if body == "" {
		return nil, &ResolutionError{Path: body, Reason: "empty placeholder"}
	}
	name, args, isCall, err := parseCall(body)
	if isCall {
		if err != nil {
			return nil, &ResolutionError{Path: body, Reason: err.Error()}
		}
		fn, ok := r.funcs[name]
		if !ok {
			return nil, &ResolutionError{Path: body, Reason: fmt.Sprintf("unknown function %q", name)}
		}
		v, err := fn(args)
		if err != nil {
			return nil, &ResolutionError{Path: body, Reason: err.Error()}
		}
		return v, nil
	}
	return lookup(body, ctx)
}

// lookup walks a dotted path through nested maps and slices.
func lookup(path string, ctx map[string]any) (any, error) {
	segments := strings.Split(path, ".")
	var current any = ctx
	walked := ""
	for _, seg := range segments {
		if walked == "" {
			walked = seg
		} else {
			walked = walked + "." + seg
		}
		next, ok := step(current, seg)
		if !ok {
			return nil, &ResolutionError{Path: path, Missing: walked}
		}
		current = next
	}
	return current, nil
}

func step(current any, seg string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		v, ok := c[seg]
		return v, ok
	case map[any]any:
		v, ok := c[seg]
		return v, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

// stringify renders a resolved value for concatenation into surrounding text.
// Structured values render as compact JSON.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
