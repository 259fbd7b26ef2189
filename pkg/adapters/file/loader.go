package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// recipeExtensions are probed in order when a recipe name carries none.
var recipeExtensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.RecipeLoader over a directory of recipe files.
// A recipe name maps to <base>/<name>.yaml (then .yml, .json); names may also
// carry an explicit extension or point into subdirectories.
type Loader struct {
	BasePath string
}

// NewLoader creates a Loader reading from basePath.
func NewLoader(basePath string) *Loader {
	if basePath == "" {
		basePath = "."
	}
	return &Loader{BasePath: basePath}
}

// GetRecipe reads a recipe document by name.
func (l *Loader) GetRecipe(name string) ([]byte, error) {
	candidates := []string{filepath.Join(l.BasePath, name)}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range recipeExtensions {
			candidates = append(candidates, filepath.Join(l.BasePath, name+ext))
		}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read recipe %q: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrRecipeNotFound)
}

// ListRecipes walks the base directory and returns recipe names (paths
// relative to the base, extension stripped) in sorted order.
func (l *Loader) ListRecipes() ([]string, error) {
	var names []string
	err := filepath.WalkDir(l.BasePath, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		for _, known := range recipeExtensions {
			if ext == known {
				rel, err := filepath.Rel(l.BasePath, path)
				if err != nil {
					return err
				}
				names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, ext)))
				break
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
