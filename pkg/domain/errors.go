package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrEntryNotFound  = errors.New("entry not found")
)

// RecipeLoadError reports a recipe document that could not be read or parsed.
type RecipeLoadError struct {
	Source string
	Err    error
}

func (e *RecipeLoadError) Error() string {
	return fmt.Sprintf("failed to load recipe %q: %v", e.Source, e.Err)
}

func (e *RecipeLoadError) Unwrap() error { return e.Err }

// RecipeValidationError reports structural problems found at load time:
// duplicate step names, missing required fields, unresolved includes/extends.
// All problems are collected, not just the first.
type RecipeValidationError struct {
	Recipe   string
	Problems []string
}

func (e *RecipeValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid recipe %q: %s", e.Recipe, e.Problems[0])
	}
	return fmt.Sprintf("invalid recipe %q: %d problems:\n  - %s",
		e.Recipe, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// HandlerExecutionError wraps any fault raised inside a link handler.
type HandlerExecutionError struct {
	Step string
	Type string
	Err  error
}

func (e *HandlerExecutionError) Error() string {
	return fmt.Sprintf("step %q (%s) failed: %v", e.Step, e.Type, e.Err)
}

func (e *HandlerExecutionError) Unwrap() error { return e.Err }

// TimeoutError reports a step that exceeded its configured timeout.
type TimeoutError struct {
	Step    string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %q timed out after %s", e.Step, e.Timeout)
}
