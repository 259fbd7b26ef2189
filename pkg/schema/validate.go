package schema

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/spf13/cast"
)

// Validate resolves def and checks value against it, including any
// _validate_against secondary pass. All violations from both passes are
// returned together in one AggregateError.
func (r *Resolver) Validate(value any, def map[string]any) error {
	resolved, err := r.Resolve(def)
	if err != nil {
		return err
	}

	var errs []error
	errs = append(errs, check(value, resolved, "")...)

	if name, ok := resolved[keyValidateAgainst].(string); ok {
		secondary, err := r.registry.Lookup(name)
		if err != nil {
			return err
		}
		secondary, err = r.Resolve(secondary)
		if err != nil {
			return err
		}
		errs = append(errs, check(value, secondary, "")...)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Validate checks value against an already resolved schema. Composition
// keywords ($ref, base) are not expanded here; use Resolver.Validate for
// schemas that may contain them.
func Validate(value any, resolved map[string]any) error {
	errs := check(value, resolved, "")
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// check walks value against schema, collecting every violation instead of
// stopping at the first.
func check(value any, schema map[string]any, path string) []error {
	var errs []error

	if typ, ok := schema["type"].(string); ok {
		if !typeMatches(value, typ) {
			errs = append(errs, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("expected type %q", typ),
				Value:  value,
			})
			// A wrong-typed value cannot satisfy the structural keywords
			// below; report the type mismatch alone.
			return errs
		}
	}

	if enum, ok := schema["enum"].([]any); ok {
		found := false
		for _, allowed := range enum {
			if enumEquals(value, allowed) {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("value not in enum %v", enum),
				Value:  value,
			})
		}
	}

	switch v := value.(type) {
	case map[string]any:
		errs = append(errs, checkObject(v, schema, path)...)
	case []any:
		errs = append(errs, checkArray(v, schema, path)...)
	case string:
		errs = append(errs, checkString(v, schema, path)...)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		if n, err := cast.ToFloat64E(v); err == nil {
			errs = append(errs, checkNumber(n, schema, path)...)
		}
	}

	return errs
}

func checkObject(obj map[string]any, schema map[string]any, path string) []error {
	var errs []error

	if required, ok := schema[keyRequired].([]any); ok {
		for _, item := range required {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if _, present := obj[name]; !present {
				errs = append(errs, &ValidationError{
					Path:   join(path, name),
					Reason: "required",
				})
			}
		}
	}

	props, _ := schema[keyProperties].(map[string]any)
	for name, sub := range props {
		subSchema, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		fieldValue, present := obj[name]
		if !present {
			continue
		}
		errs = append(errs, check(fieldValue, subSchema, join(path, name))...)
	}

	if additional, ok := schema["additionalProperties"].(bool); ok && !additional {
		for name := range obj {
			if _, declared := props[name]; !declared {
				errs = append(errs, &ValidationError{
					Path:   join(path, name),
					Reason: "additional property not allowed",
					Value:  obj[name],
				})
			}
		}
	}

	return errs
}

func checkArray(arr []any, schema map[string]any, path string) []error {
	var errs []error

	if min, ok := intKeyword(schema, "minItems"); ok && len(arr) < min {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("length %d below minItems %d", len(arr), min),
			Value:  arr,
		})
	}
	if max, ok := intKeyword(schema, "maxItems"); ok && len(arr) > max {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("length %d above maxItems %d", len(arr), max),
			Value:  arr,
		})
	}

	if unique, ok := schema["uniqueItems"].(bool); ok && unique {
		seen := make(map[string]bool, len(arr))
		for _, element := range arr {
			key := fmt.Sprintf("%T:%v", element, element)
			if seen[key] {
				errs = append(errs, &ValidationError{
					Path:   path,
					Reason: fmt.Sprintf("duplicate item %v violates uniqueItems", element),
					Value:  arr,
				})
				break
			}
			seen[key] = true
		}
	}

	if items, ok := schema[keyItems].(map[string]any); ok {
		for i, element := range arr {
			errs = append(errs, check(element, items, fmt.Sprintf("%s.%d", path, i))...)
		}
	}

	return errs
}

func checkString(s string, schema map[string]any, path string) []error {
	var errs []error

	if min, ok := intKeyword(schema, "minLength"); ok && len(s) < min {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("length %d below minLength %d", len(s), min),
			Value:  s,
		})
	}
	if max, ok := intKeyword(schema, "maxLength"); ok && len(s) > max {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("length %d above maxLength %d", len(s), max),
			Value:  s,
		})
	}
	if pattern, ok := schema["pattern"].(string); ok {
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			})
		} else if !re.MatchString(s) {
			errs = append(errs, &ValidationError{
				Path:   path,
				Reason: fmt.Sprintf("does not match pattern %q", pattern),
				Value:  s,
			})
		}
	}

	return errs
}

func checkNumber(n float64, schema map[string]any, path string) []error {
	var errs []error

	if min, ok := floatKeyword(schema, "minimum"); ok && n < min {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("%v below minimum %v", n, min),
			Value:  n,
		})
	}
	if max, ok := floatKeyword(schema, "maximum"); ok && n > max {
		errs = append(errs, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("%v above maximum %v", n, max),
			Value:  n,
		})
	}

	return errs
}

// enumEquals compares an instance against one enum member. Numbers compare by
// value so an int instance matches a float64 member (and vice versa);
// structured values compare structurally, never with ==, which would panic on
// uncomparable types.
func enumEquals(value, allowed any) bool {
	if isNumeric(value) && isNumeric(allowed) {
		a, errA := cast.ToFloat64E(value)
		b, errB := cast.ToFloat64E(allowed)
		return errA == nil && errB == nil && a == b
	}
	return reflect.DeepEqual(value, allowed)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func typeMatches(value any, typ string) bool {
	switch typ {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "null":
		return value == nil
	case "integer":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			f := value.(float64)
			return f == float64(int64(f))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		}
		return false
	default:
		// Unknown type names do not constrain.
		return true
	}
}

func intKeyword(schema map[string]any, key string) (int, bool) {
	v, ok := schema[key]
	if !ok {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatKeyword(schema map[string]any, key string) (float64, bool) {
	v, ok := schema[key]
	if !ok {
		return 0, false
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
