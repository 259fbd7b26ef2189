package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Parser converts raw recipe bytes into a Recipe. YAML is the primary
// format; JSON parses too since YAML is a superset.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into a Recipe. Step fields the engine does not know
// about land in StepSpec.Config untouched.
func (p *Parser) Parse(source string, data []byte) (*domain.Recipe, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &domain.RecipeLoadError{Source: source, Err: fmt.Errorf("parse: %w", err)}
	}
	if raw == nil {
		return nil, &domain.RecipeLoadError{Source: source, Err: fmt.Errorf("empty document")}
	}

	var recipe domain.Recipe
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &recipe,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, &domain.RecipeLoadError{Source: source, Err: err}
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &domain.RecipeLoadError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}

	if recipe.Domain == "" {
		recipe.Domain = domain.DefaultDomain
	}
	return &recipe, nil
}
