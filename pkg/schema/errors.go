package schema

import "fmt"

// NotFoundError reports a $ref, base or _validate_against naming a schema
// that was never registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema %q not found", e.Name)
}

// ValidationError represents a single validation failure at one location in
// the document. Path is a dotted path from the document root; an empty Path
// means the root value itself.
type ValidationError struct {
	Path   string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	where := e.Path
	if where == "" {
		where = "(root)"
	}
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", where, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", where, e.Reason, e.Value)
}

// AggregateError collects every validation failure found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all collected errors if err is an AggregateError,
// nil otherwise.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
