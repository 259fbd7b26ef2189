// Package memory provides in-memory adapters for the loader and store ports,
// used in tests and embedded setups.
package memory

import (
	"fmt"
	"sort"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Loader implements ports.RecipeLoader over an in-memory map of raw
// documents.
type Loader struct {
	recipes map[string][]byte
}

// NewLoader creates a Loader from raw YAML or JSON documents keyed by recipe
// name.
func NewLoader(data map[string]string) *Loader {
	recipes := make(map[string][]byte, len(data))
	for name, doc := range data {
		recipes[name] = []byte(doc)
	}
	return &Loader{recipes: recipes}
}

// Add registers or replaces one raw document.
func (l *Loader) Add(name, doc string) {
	l.recipes[name] = []byte(doc)
}

// GetRecipe retrieves the raw document for a recipe by name.
func (l *Loader) GetRecipe(name string) ([]byte, error) {
	content, ok := l.recipes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrRecipeNotFound)
	}
	return content, nil
}

// ListRecipes returns all available recipe names in sorted order.
func (l *Loader) ListRecipes() ([]string, error) {
	names := make([]string, 0, len(l.recipes))
	for name := range l.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
