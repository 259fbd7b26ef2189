package compiler

import (
	"fmt"
	"log/slog"

	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/ports"
)

// Compiler loads, composes and validates recipes. Extends and includes
// references are fetched through the same loader as the root recipe.
type Compiler struct {
	loader ports.RecipeLoader
	parser *Parser
	logger *slog.Logger
}

// New creates a Compiler reading from loader. A nil logger silences
// compilation logging.
func New(loader ports.RecipeLoader, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{loader: loader, parser: NewParser(), logger: logger}
}

// Compile loads the named recipe, resolves its composition graph and
// validates the result.
func (c *Compiler) Compile(name string) (*domain.Recipe, error) {
	recipe, err := c.load(name)
	if err != nil {
		return nil, err
	}
	return c.finish(recipe)
}

// CompileBytes compiles an in-hand document instead of a named one. Its
// extends and includes still resolve through the loader.
func (c *Compiler) CompileBytes(source string, data []byte) (*domain.Recipe, error) {
	recipe, err := c.parser.Parse(source, data)
	if err != nil {
		return nil, err
	}
	return c.finish(recipe)
}

func (c *Compiler) finish(recipe *domain.Recipe) (*domain.Recipe, error) {
	composed, err := c.compose(recipe, map[string]bool{recipe.Name: true})
	if err != nil {
		return nil, err
	}
	if err := validate(composed); err != nil {
		return nil, err
	}
	c.logger.Debug("recipe compiled",
		"recipe", composed.Name,
		"steps", len(composed.Steps))
	return composed, nil
}

func (c *Compiler) load(name string) (*domain.Recipe, error) {
	data, err := c.loader.GetRecipe(name)
	if err != nil {
		return nil, &domain.RecipeLoadError{Source: name, Err: err}
	}
	return c.parser.Parse(name, data)
}

// compose flattens the recipe's composition graph into a single ordered step
// list: the extends parent's steps first, then each include's steps in
// declaration order, then the recipe's own. A later step with an already seen
// name replaces the earlier definition in place, so parents fix the position
// and children override the behaviour.
func (c *Compiler) compose(recipe *domain.Recipe, visiting map[string]bool) (*domain.Recipe, error) {
	var merged []domain.StepSpec

	appendSteps := func(steps []domain.StepSpec) {
		for _, step := range steps {
			replaced := false
			for i := range merged {
				if merged[i].Name == step.Name && step.Name != "" {
					merged[i] = step
					replaced = true
					break
				}
			}
			if !replaced {
				merged = append(merged, step)
			}
		}
	}

	sources := make([]string, 0, len(recipe.Includes)+1)
	if recipe.Extends != "" {
		sources = append(sources, recipe.Extends)
	}
	sources = append(sources, recipe.Includes...)

	for _, ref := range sources {
		if visiting[ref] {
			return nil, &domain.RecipeLoadError{
				Source: recipe.Name,
				Err:    fmt.Errorf("composition cycle through %q", ref),
			}
		}
		parent, err := c.load(ref)
		if err != nil {
			return nil, err
		}
		visiting[ref] = true
		composed, err := c.compose(parent, visiting)
		delete(visiting, ref)
		if err != nil {
			return nil, err
		}
		appendSteps(composed.Steps)
	}

	appendSteps(recipe.Steps)

	out := *recipe
	out.Steps = merged
	out.Extends = ""
	out.Includes = nil
	return &out, nil
}
